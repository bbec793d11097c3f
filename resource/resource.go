// Package resource resolves and fetches the external content a
// stylesheet references: @import targets and url() sources (fonts,
// images). It is the engine's only bucket-3 failure surface per §7 — a
// fetch either succeeds or returns a real Go error, never a silent
// fallback.
package resource

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fredbi/uri"
)

// ErrFetch is the sentinel bucket-3 error: the @import resolver wraps it
// with context and records it as a css.Diagnostic rather than aborting
// the rest of the stylesheet.
var ErrFetch = errors.New("resource: fetch failed")

// Resource is the raw bytes behind a fetched URL, along with enough
// metadata to decide how to parse it.
type Resource struct {
	URL         string
	Content     []byte
	ContentType string
}

// Fetcher retrieves the raw bytes referenced by a URL. Implementations
// dispatch on scheme (data:, file:, http(s):); ResolveURL should be used
// first to turn a possibly-relative reference into an absolute one.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Resource, error)
}

// ResolveURL resolves ref against base per RFC 3986 reference
// resolution. Data URLs and fragment-only references are returned
// unresolved, matching the teacher's network/url.go ResolveURL.
func ResolveURL(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}
	if strings.HasPrefix(strings.ToLower(ref), "data:") {
		return ref, nil
	}
	if strings.HasPrefix(ref, "#") {
		baseURL, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("invalid base URL: %w", err)
		}
		baseURL.Fragment = ref[1:]
		return baseURL.String(), nil
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference URL: %w", err)
	}
	if refURL.IsAbs() {
		return refURL.String(), nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// Scheme classifies rawURL's scheme ("data", "file", "http", "https",
// ...) using fredbi/uri's RFC 3986 parser, which is stricter about
// malformed authority/path components than net/url's permissive parser —
// the SchemeFetcher dispatch below needs that strictness so a malformed
// URL fails fetch cleanly instead of being silently mis-routed.
func Scheme(rawURL string) (string, error) {
	parsed, err := uri.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrFetch, rawURL, err)
	}
	return strings.ToLower(parsed.Scheme()), nil
}

// SchemeFetcher is the default Fetcher: data: URLs decode inline,
// file: URLs (and bare paths rooted at LocalPath) read from disk,
// http(s): URLs go through Client if AllowHTTP is set. Grounded on the
// teacher's network.Loader.Load/loadFromLocal/loadFromHTTP dispatch.
type SchemeFetcher struct {
	Client    *http.Client
	LocalPath string
	AllowHTTP bool
}

// NewSchemeFetcher builds a SchemeFetcher with a bounded-timeout HTTP
// client, matching the teacher's network.Client defaults.
func NewSchemeFetcher(localPath string, allowHTTP bool) *SchemeFetcher {
	return &SchemeFetcher{
		Client:    &http.Client{Timeout: 30 * time.Second},
		LocalPath: localPath,
		AllowHTTP: allowHTTP,
	}
}

func (f *SchemeFetcher) Fetch(ctx context.Context, rawURL string) (*Resource, error) {
	if strings.HasPrefix(strings.ToLower(rawURL), "data:") {
		return fetchDataURL(rawURL)
	}

	scheme, err := Scheme(rawURL)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case "file":
		return f.fetchFile(rawURL)
	case "http", "https":
		if !f.AllowHTTP {
			return nil, fmt.Errorf("%w: %s: http(s) fetches disabled by config", ErrFetch, rawURL)
		}
		return f.fetchHTTP(ctx, rawURL)
	case "":
		return f.fetchFile(rawURL)
	default:
		return nil, fmt.Errorf("%w: %s: unsupported scheme %q", ErrFetch, rawURL, scheme)
	}
}

func (f *SchemeFetcher) fetchFile(rawURL string) (*Resource, error) {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Scheme == "file" {
		path = u.Path
	}
	if !filepath.IsAbs(path) && f.LocalPath != "" {
		path = filepath.Join(f.LocalPath, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, rawURL, err)
	}
	return &Resource{URL: rawURL, Content: content, ContentType: guessContentType(path)}, nil
}

func (f *SchemeFetcher) fetchHTTP(ctx context.Context, rawURL string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, rawURL, err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetch, rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, rawURL, err)
	}
	return &Resource{URL: rawURL, Content: body, ContentType: resp.Header.Get("Content-Type")}, nil
}

func fetchDataURL(rawURL string) (*Resource, error) {
	content := rawURL[len("data:"):]
	commaIdx := strings.Index(content, ",")
	if commaIdx == -1 {
		return nil, fmt.Errorf("%w: %s: malformed data URL", ErrFetch, rawURL)
	}
	meta, data := content[:commaIdx], content[commaIdx+1:]

	mediaType := "text/plain"
	base64Encoded := false
	if meta != "" {
		for i, part := range strings.Split(meta, ";") {
			switch {
			case part == "base64":
				base64Encoded = true
			case i == 0 && part != "":
				mediaType = part
			}
		}
	}

	var decoded []byte
	var err error
	if base64Encoded {
		decoded, err = base64.StdEncoding.DecodeString(data)
	} else {
		var unescaped string
		unescaped, err = url.QueryUnescape(data)
		decoded = []byte(unescaped)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, rawURL, err)
	}
	return &Resource{URL: rawURL, Content: decoded, ContentType: mediaType}, nil
}

func guessContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return "text/css"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	default:
		return "application/octet-stream"
	}
}
