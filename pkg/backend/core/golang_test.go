package core

import (
	"path/filepath"
	"testing"
)

func TestTrimGoPrefix(t *testing.T) {
	cases := map[string]string{
		"go1.22.0": "1.22.0",
		"1.22.0":   "1.22.0",
	}
	for in, want := range cases {
		if got := trimGoPrefix(in); got != want {
			t.Fatalf("trimGoPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGoBinDirIsNestedUnderGo(t *testing.T) {
	g := &GoBackend{}
	bin, err := g.BinDir("/installs/go/1.22.0", "1.22.0")
	if err != nil {
		t.Fatalf("BinDir: %v", err)
	}
	want := filepath.Join("/installs/go/1.22.0", "go", "bin")
	if bin != want {
		t.Fatalf("got %q, want %q", bin, want)
	}
}
