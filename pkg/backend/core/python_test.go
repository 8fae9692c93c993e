package core

import "testing"

func TestPythonListVersionsReturnsFixedSet(t *testing.T) {
	p := &PythonBackend{}
	versions, err := p.ListVersions(nil)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) == 0 {
		t.Fatal("expected a non-empty fixed version set")
	}
}

func TestPythonTargetProducesNonEmptyTriple(t *testing.T) {
	if target := pythonTarget(); target == "" {
		t.Fatal("expected non-empty target triple")
	}
}
