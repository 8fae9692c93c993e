package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/mvxproject/mvxcore/pkg/config"
	"github.com/mvxproject/mvxcore/pkg/errs"
)

// downloadTimeout is 5 minutes, generous enough for large JDK/Node
// archives on a slow link without hanging forever on a dead mirror.
const downloadTimeout = 5 * time.Minute

// Download fetches url into a temp file under dir, verifies it against
// spec if a checksum is configured, and returns the temp file path for
// the caller to Extract and then remove.
func Download(ctx context.Context, url, dir string, spec *config.ChecksumSpec) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}

	client := &http.Client{Timeout: downloadTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}

	if err := VerifyChecksum(data, spec); err != nil {
		return "", fmt.Errorf("verify %s: %w", url, err)
	}

	tmp, err := os.CreateTemp(dir, "download-*"+archiveSuffix(url))
	if err != nil {
		return "", &errs.IOError{Op: "create-temp", Path: dir, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", &errs.IOError{Op: "write", Path: tmp.Name(), Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &errs.IOError{Op: "close", Path: tmp.Name(), Err: err}
	}
	return tmp.Name(), nil
}

// archiveSuffix extracts the recognized archive extension from url so
// the downloaded temp file keeps it — Extract dispatches purely on
// file extension.
func archiveSuffix(url string) string {
	base := path.Base(url)
	for _, suffix := range []string{".tar.gz", ".tgz", ".tar", ".zip"} {
		if strings.HasSuffix(base, suffix) {
			return suffix
		}
	}
	return ""
}
