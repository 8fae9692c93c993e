package errs

import (
	"errors"
	"testing"
)

func TestUnwrapChains(t *testing.T) {
	root := errors.New("boom")
	cases := []error{
		&ConfigParseError{Path: "mvx.toml", Err: root},
		&VersionUnresolvedError{Backend: "node", Request: "20", Err: root},
		&BackendInstallError{Backend: "node", Version: "20.1.0", Op: "download", Err: root},
		&TimeoutError{Op: "install", Err: root},
		&CacheCorruptError{Key: "node:versions", Err: root},
		&IOError{Op: "write", Path: "/x", Err: root},
	}
	for _, err := range cases {
		if !errors.Is(err, root) {
			t.Errorf("%T: errors.Is did not find wrapped root cause", err)
		}
		if err.Error() == "" {
			t.Errorf("%T: empty Error() string", err)
		}
	}
}

func TestTrustRequiredMessageNamesPath(t *testing.T) {
	err := &TrustRequiredError{Path: "/proj/mvx.toml"}
	if !contains(err.Error(), "/proj/mvx.toml") {
		t.Errorf("expected path in message, got %q", err.Error())
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}
