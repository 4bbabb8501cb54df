// Package asset fetches the report template workbook.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrTemplateUnavailable is returned once every fetch attempt has failed.
var ErrTemplateUnavailable = errors.New("template unavailable")

// maxTemplateSize bounds the bytes read from any source.
const maxTemplateSize = 32 << 20

// Source yields the raw bytes of the template workbook.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads the template from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Path == "" {
		return nil, fmt.Errorf("template path not configured")
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening template: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxTemplateSize))
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("template %s is empty", s.Path)
	}
	return data, nil
}

// OAuth holds client-credentials settings for an authenticated template host.
type OAuth struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Enabled reports whether enough is configured to request tokens.
func (o OAuth) Enabled() bool {
	return o.TokenURL != "" && o.ClientID != ""
}

// HTTPSource downloads the template with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource returns a source for url. When auth is enabled the client
// attaches a bearer token obtained through the client-credentials grant and
// refreshes it as needed.
func NewHTTPSource(ctx context.Context, url string, auth OAuth, base *http.Client) *HTTPSource {
	if base == nil {
		base = http.DefaultClient
	}
	client := base
	if auth.Enabled() {
		cc := &clientcredentials.Config{
			ClientID:     auth.ClientID,
			ClientSecret: auth.ClientSecret,
			TokenURL:     auth.TokenURL,
			Scopes:       auth.Scopes,
		}
		tokenCtx := context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, base)
		client = cc.Client(tokenCtx)
	}
	return &HTTPSource{URL: url, Client: client}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.URL == "" {
		return nil, fmt.Errorf("template url not configured")
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, application/octet-stream")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("template request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTemplateSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("template host returned %d", resp.StatusCode)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("template host returned an empty body")
	}
	return body, nil
}
