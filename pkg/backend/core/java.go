package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mvxproject/mvxcore/pkg/backend"
	"github.com/mvxproject/mvxcore/pkg/config"
)

// JavaBackend installs JDK distributions through the Foojay Disco API;
// the distribution defaults to Eclipse Temurin.
type JavaBackend struct {
	URLReplace func(string) string
}

func (j *JavaBackend) Name() string { return "java" }

// Aliases maps the well-known LTS shorthand to the current LTS major
// version, the way disco's own "latest-lts" query parameter does.
// Bumped by hand whenever a new LTS line ships.
func (j *JavaBackend) Aliases() map[string]string {
	return map[string]string{
		"lts":        "21",
		"latest-lts": "21",
	}
}

func (j *JavaBackend) ListVersions(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.foojay.io/disco/v3.0/major_versions?ea=false&ga=true", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch disco major versions: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Result []struct {
			MajorVersion int `json:"major_version"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode disco major versions: %w", err)
	}

	versions := make([]string, 0, len(body.Result))
	for _, r := range body.Result {
		versions = append(versions, fmt.Sprintf("%d", r.MajorVersion))
	}
	return versions, nil
}

func (j *JavaBackend) Install(ctx context.Context, installDir, version string, spec config.ToolSpec) error {
	distribution := spec.Distribution
	if distribution == "" {
		distribution = "temurin"
	}

	downloadURL, err := j.discoDownloadURL(ctx, version, distribution)
	if err != nil {
		return fmt.Errorf("resolve disco download url: %w", err)
	}
	if j.URLReplace != nil {
		downloadURL = j.URLReplace(downloadURL)
	}

	archive, err := backend.Download(ctx, downloadURL, installDir, spec.Checksum)
	if err != nil {
		return err
	}
	defer os.Remove(archive)

	return backend.Extract(archive, installDir)
}

func (j *JavaBackend) discoDownloadURL(ctx context.Context, version, distribution string) (string, error) {
	q := url.Values{}
	q.Set("version", version)
	q.Set("distribution", distribution)
	q.Set("operating_system", discoOS())
	q.Set("architecture", discoArch())
	q.Set("archive_type", discoArchiveType())
	q.Set("package_type", "jdk")
	q.Set("latest", "available")

	reqURL := "https://api.foojay.io/disco/v3.0/packages?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Result []struct {
			Links struct {
				PkgDownloadRedirect string `json:"pkg_download_redirect"`
			} `json:"links"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if len(body.Result) == 0 {
		return "", fmt.Errorf("no disco package found for java %s (%s)", version, distribution)
	}
	return body.Result[0].Links.PkgDownloadRedirect, nil
}

func discoOS() string {
	if runtime.GOOS == "darwin" {
		return "macos"
	}
	return runtime.GOOS
}

func discoArch() string {
	if runtime.GOARCH == "amd64" {
		return "x64"
	}
	return runtime.GOARCH
}

func discoArchiveType() string {
	if runtime.GOOS == "windows" {
		return "zip"
	}
	return "tar.gz"
}

func (j *JavaBackend) BinDir(installDir, version string) (string, error) {
	entries, err := os.ReadDir(installDir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		candidate := filepath.Join(installDir, e.Name(), "bin")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		// macOS JDK tarballs nest under Contents/Home.
		macCandidate := filepath.Join(installDir, e.Name(), "Contents", "Home", "bin")
		if _, err := os.Stat(macCandidate); err == nil {
			return macCandidate, nil
		}
	}
	return filepath.Join(installDir, "bin"), nil
}

func (j *JavaBackend) Verify(ctx context.Context, installDir, version string) error {
	bin, err := j.BinDir(installDir, version)
	if err != nil {
		return err
	}
	exe := filepath.Join(bin, javaBinaryName())
	if _, err := os.Stat(exe); err != nil {
		return fmt.Errorf("java binary not found at %s: %w", exe, err)
	}
	return nil
}

func javaBinaryName() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}
