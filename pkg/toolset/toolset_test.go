package toolset

import (
	"context"
	"testing"

	"github.com/mvxproject/mvxcore/pkg/config"
	"github.com/mvxproject/mvxcore/pkg/resolve"
)

func baseConfig() *config.Config {
	return &config.Config{
		Tools: map[string]config.ToolSpec{
			"java": {Version: "17"},
			"node": {Version: "20"},
		},
	}
}

func TestBuildUsesProjectVersionByDefault(t *testing.T) {
	ts, err := Build(baseConfig(), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ts.Entries["java"].Source != SourceProject {
		t.Fatalf("expected project source, got %v", ts.Entries["java"].Source)
	}
	if ts.Entries["java"].Request.Version != "17" {
		t.Fatalf("got %+v", ts.Entries["java"].Request)
	}
}

func TestBuildEnvOverridesProject(t *testing.T) {
	env := []string{"MVX_JAVA_VERSION=21"}
	ts, err := Build(baseConfig(), nil, env)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entry := ts.Entries["java"]
	if entry.Source != SourceEnv || entry.Request.Version != "21" {
		t.Fatalf("got %+v", entry)
	}
	if ts.Entries["node"].Request.Version != "20" {
		t.Fatal("node entry should be unaffected by java override")
	}
}

func TestBuildCLIOverridesEnvAndProject(t *testing.T) {
	env := []string{"MVX_JAVA_VERSION=21"}
	cli := map[string]string{"java": "11"}
	ts, err := Build(baseConfig(), cli, env)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entry := ts.Entries["java"]
	if entry.Source != SourceCLI || entry.Request.Version != "11" {
		t.Fatalf("got %+v", entry)
	}
}

func TestBuildSystemRequestShortCircuits(t *testing.T) {
	cfg := &config.Config{Tools: map[string]config.ToolSpec{"go": {Version: "system"}}}
	ts, err := Build(cfg, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ts.Entries["go"].Request.Kind != resolve.KindSystem {
		t.Fatalf("expected KindSystem, got %v", ts.Entries["go"].Request.Kind)
	}
}

func TestBuildCLIOnlyToolNotInConfigIsAdded(t *testing.T) {
	cli := map[string]string{"maven": "3.9.6"}
	ts, err := Build(&config.Config{}, cli, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entry, ok := ts.Entries["maven"]
	if !ok {
		t.Fatal("expected maven entry from CLI override alone")
	}
	if entry.Source != SourceCLI || entry.Request.Version != "3.9.6" {
		t.Fatalf("got %+v", entry)
	}
}

func TestParseRequestRecognizesPathAndRefPrefixes(t *testing.T) {
	req, err := parseRequest("path:/opt/jdk17")
	if err != nil {
		t.Fatalf("parseRequest: %v", err)
	}
	if req.Kind != resolve.KindPath || req.Path != "/opt/jdk17" {
		t.Fatalf("got %+v", req)
	}

	req, err = parseRequest("ref:main")
	if err != nil {
		t.Fatalf("parseRequest: %v", err)
	}
	if req.Kind != resolve.KindRef || req.Ref != "main" {
		t.Fatalf("got %+v", req)
	}
}

type fakeBackend struct{ versions []string }

func (f *fakeBackend) ListVersions(ctx context.Context) ([]string, error) {
	return f.versions, nil
}

func TestResolveDelegatesToBackendLookup(t *testing.T) {
	ts, err := Build(baseConfig(), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	results, err := ts.Resolve(context.Background(), func(name string) (resolve.Backend, error) {
		switch name {
		case "java":
			return &fakeBackend{versions: []string{"17.0.9"}}, nil
		case "node":
			return &fakeBackend{versions: []string{"20.11.0"}}, nil
		default:
			return nil, nil
		}
	}, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if results["java"].Version != "17.0.9" {
		t.Fatalf("got %+v", results["java"])
	}
}

func TestResolveAppliesProjectAliases(t *testing.T) {
	cfg := &config.Config{
		Tools: map[string]config.ToolSpec{"node": {Version: "lts"}},
		Alias: map[string]map[string]string{"node": {"lts": "20.11.0"}},
	}
	ts, err := Build(cfg, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	results, err := ts.Resolve(context.Background(), func(name string) (resolve.Backend, error) {
		return &fakeBackend{versions: []string{"20.11.0", "21.0.0"}}, nil
	}, cfg.Alias)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if results["node"].Version != "20.11.0" {
		t.Fatalf("expected lts alias to expand to 20.11.0, got %+v", results["node"])
	}
}
