// Package thunderstore reads package, version and changelog metadata from
// the Thunderstore experimental API.
package thunderstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/schedulelua/luabot"
)

// DefaultBaseURL is the public experimental API root.
const DefaultBaseURL = "https://thunderstore.io/api/experimental"

// DefaultTimeout bounds each API call.
const DefaultTimeout = 10 * time.Second

// maxResponseSize caps how much of a response body is decoded.
const maxResponseSize = 5 << 20

// Ensure Registry implements luabot.PackageRegistry at compile time.
var _ luabot.PackageRegistry = (*Registry)(nil)

// Registry is a luabot.PackageRegistry for one Thunderstore package.
type Registry struct {
	client    *http.Client
	baseURL   string
	namespace string
	name      string
	userAgent string
}

// Option configures a Registry.
type Option func(*Registry)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Registry) {
		r.client = c
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(r *Registry) {
		r.userAgent = ua
	}
}

// NewRegistry returns a Registry for namespace/name served from baseURL.
// The base URL is normalized with NormalizeBaseURL.
func NewRegistry(baseURL, namespace, name string, opts ...Option) *Registry {
	r := &Registry{
		client:    &http.Client{Timeout: DefaultTimeout},
		baseURL:   NormalizeBaseURL(baseURL),
		namespace: namespace,
		name:      name,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BaseURL returns the normalized API root.
func (r *Registry) BaseURL() string {
	return r.baseURL
}

// FullName returns "namespace/name".
func (r *Registry) FullName() string {
	return r.namespace + "/" + r.name
}

// NormalizeBaseURL trims trailing slashes and makes sure the URL points at
// the experimental API. An empty URL yields DefaultBaseURL.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		return DefaultBaseURL
	}
	if strings.Contains(u, "/experimental") {
		return u
	}
	if strings.Contains(u, "/api") {
		return strings.Replace(u, "/api", "/api/experimental", 1)
	}
	return u + "/api/experimental"
}

// ParseFullPath splits "namespace/name".
func ParseFullPath(s string) (namespace, name string, err error) {
	namespace, name, ok := strings.Cut(strings.Trim(strings.TrimSpace(s), "/"), "/")
	if !ok || namespace == "" || name == "" || strings.Contains(name, "/") {
		return "", "", luabot.Errorf(luabot.EINVALID, "Package path must look like namespace/name, got %q.", s)
	}
	return namespace, name, nil
}

// Package returns the package metadata. A response without a latest
// version number is EPARSE.
func (r *Registry) Package(ctx context.Context) (*luabot.Package, error) {
	var pkg luabot.Package
	if err := r.get(ctx, r.packageURL(), &pkg); err != nil {
		return nil, err
	}
	if pkg.Latest == nil || pkg.Latest.VersionNumber == "" {
		return nil, luabot.Errorf(luabot.EPARSE, "Missing latest version number for %s.", r.FullName())
	}
	if pkg.Namespace == "" {
		pkg.Namespace = r.namespace
	}
	if pkg.Name == "" {
		pkg.Name = r.name
	}
	return &pkg, nil
}

// Version returns the metadata of one version.
func (r *Registry) Version(ctx context.Context, version string) (*luabot.PackageVersion, error) {
	var ver luabot.PackageVersion
	if err := r.get(ctx, r.packageURL()+url.PathEscape(version)+"/", &ver); err != nil {
		return nil, err
	}
	return &ver, nil
}

// Changelog returns the markdown changelog of a version. The API has
// served it under both "markdown" and "text".
func (r *Registry) Changelog(ctx context.Context, version string) (string, error) {
	var data struct {
		Markdown *string `json:"markdown"`
		Text     *string `json:"text"`
	}
	if err := r.get(ctx, r.packageURL()+url.PathEscape(version)+"/changelog/", &data); err != nil {
		return "", err
	}
	switch {
	case data.Markdown != nil:
		return *data.Markdown, nil
	case data.Text != nil:
		return *data.Text, nil
	}
	return "", luabot.Errorf(luabot.ENOTFOUND, "No changelog for %s %s.", r.FullName(), version)
}

func (r *Registry) packageURL() string {
	return fmt.Sprintf("%s/package/%s/%s/", r.baseURL, url.PathEscape(r.namespace), url.PathEscape(r.name))
}

func (r *Registry) get(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return luabot.WrapError(luabot.EFETCH, err, "Invalid request for %s.", u)
	}
	req.Header.Set("Accept", "application/json")
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return luabot.WrapError(luabot.EFETCH, err, "Request to %s failed.", u)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return luabot.Errorf(luabot.ENOTFOUND, "Not found: %s.", u)
	case resp.StatusCode != http.StatusOK:
		return luabot.Errorf(luabot.EFETCH, "HTTP %d for %s", resp.StatusCode, u)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return luabot.WrapError(luabot.EFETCH, err, "Reading %s failed.", u)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return luabot.WrapError(luabot.EPARSE, err, "Invalid JSON from %s.", u)
	}
	return nil
}
