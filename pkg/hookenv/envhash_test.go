package hookenv

import "testing"

func TestHashMvxEnvIgnoresNonMvxVars(t *testing.T) {
	a := HashMvxEnv([]string{"MVX_FOO=1", "PATH=/usr/bin"})
	b := HashMvxEnv([]string{"MVX_FOO=1", "PATH=/different"})
	if a != b {
		t.Fatal("non-MVX_ vars should not affect the hash")
	}
}

func TestHashMvxEnvIsOrderIndependent(t *testing.T) {
	a := HashMvxEnv([]string{"MVX_A=1", "MVX_B=2"})
	b := HashMvxEnv([]string{"MVX_B=2", "MVX_A=1"})
	if a != b {
		t.Fatal("hash should not depend on environ ordering")
	}
}

func TestHashMvxEnvChangesWithValue(t *testing.T) {
	a := HashMvxEnv([]string{"MVX_FOO=1"})
	b := HashMvxEnv([]string{"MVX_FOO=2"})
	if a == b {
		t.Fatal("expected different hash for different value")
	}
}
