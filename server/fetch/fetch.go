// Package fetch resolves a hand file's storage_path to its text content.
// Supported forms: http(s) URLs, file:// URLs and plain local paths.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Uploaded hand-history files are text; anything bigger is not one.
const maxBodyBytes = 32 << 20

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Text downloads or reads the file at storagePath and returns its contents.
func Text(ctx context.Context, storagePath string) (string, error) {
	p := strings.TrimSpace(storagePath)
	if p == "" {
		return "", fmt.Errorf("empty storage path")
	}

	switch {
	case strings.HasPrefix(p, "http://"), strings.HasPrefix(p, "https://"):
		return fetchHTTP(ctx, p)
	case strings.HasPrefix(p, "file://"):
		u, err := url.Parse(p)
		if err != nil {
			return "", fmt.Errorf("bad file url %q: %w", p, err)
		}
		return readLocal(u.Path)
	default:
		return readLocal(p)
	}
}

func fetchHTTP(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: http %d", rawURL, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readLocal(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
