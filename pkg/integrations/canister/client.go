package canister

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/canister/pkg/buildinfo"
	"github.com/matzehuels/canister/pkg/cache"
	"github.com/matzehuels/canister/pkg/errors"
	"github.com/matzehuels/canister/pkg/integrations"
)

// Default search paging.
const (
	DefaultLimit = 250
	DefaultPage  = 1
)

// Client queries the Canister API.
//
// The endpoint table and User-Agent are fixed at construction. Each call
// performs one request, decodes the envelope, and normalizes the data into
// typed records. The client never retries and never logs.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL    string
	generation Generation
	endpoints  Endpoints
	userAgent  string
}

type clientOptions struct {
	generation     Generation
	baseURL        string
	libraryVersion *string
	transport      []integrations.Option
}

// Option configures a [Client].
type Option func(*clientOptions)

// WithGeneration selects the API generation. The default is [V2].
func WithGeneration(g Generation) Option {
	return func(o *clientOptions) { o.generation = g }
}

// WithBaseURL overrides the generation's public base URL, e.g. to point at a
// mirror or a test server.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient makes the client use hc. The caller keeps ownership of hc;
// [Client.Close] leaves it open.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.transport = append(o.transport, integrations.WithHTTPClient(hc))
	}
}

// WithTimeout sets the timeout of the session the client creates itself.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.transport = append(o.transport, integrations.WithTimeout(d))
	}
}

// WithCache caches response bodies in backend for ttl. Entries are scoped to
// this package so a backend can be shared with other users.
func WithCache(backend cache.Cache, ttl time.Duration) Option {
	return func(o *clientOptions) {
		if backend == nil {
			return
		}
		o.transport = append(o.transport, integrations.WithCache(cache.Scoped(backend, LibraryName+":"), ttl))
	}
}

// WithLibraryVersion overrides the version reported in the User-Agent.
// An empty version is reported as [UnknownVersion].
func WithLibraryVersion(v string) Option {
	return func(o *clientOptions) { o.libraryVersion = &v }
}

// NewClient creates a Canister client.
//
// It fails with a CONFIGURATION error for an unknown generation.
func NewClient(opts ...Option) (*Client, error) {
	o := clientOptions{generation: V2}
	for _, opt := range opts {
		opt(&o)
	}

	endpoints, err := EndpointsFor(o.generation)
	if err != nil {
		return nil, err
	}
	baseURL := o.baseURL
	if baseURL == "" {
		baseURL = o.generation.DefaultBaseURL()
	}

	version := buildinfo.LibraryVersion()
	if o.libraryVersion != nil {
		version = *o.libraryVersion
	}
	ua := UserAgent(version, integrations.TransportIdentifier())

	headers := map[string]string{
		"User-Agent":   ua,
		"Content-Type": "application/json",
	}
	transport := append([]integrations.Option{integrations.WithHeaders(headers)}, o.transport...)

	return &Client{
		Client:     integrations.NewClient(transport...),
		baseURL:    baseURL,
		generation: o.generation,
		endpoints:  endpoints,
		userAgent:  ua,
	}, nil
}

// Generation returns the API generation the client targets.
func (c *Client) Generation() Generation { return c.generation }

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// UserAgent returns the User-Agent sent with every request.
func (c *Client) UserAgent() string { return c.userAgent }

// SearchOption adjusts a package search.
type SearchOption func(*searchOptions)

type searchOptions struct {
	limit          int
	page           int
	searchFields   []string
	responseFields []string
}

// WithLimit sets the page size. It is passed to the API unvalidated.
func WithLimit(n int) SearchOption {
	return func(o *searchOptions) { o.limit = n }
}

// WithPage sets the 1-based page number. It is passed to the API unvalidated.
func WithPage(n int) SearchOption {
	return func(o *searchOptions) { o.page = n }
}

// WithSearchFields restricts which package fields the query is matched
// against.
func WithSearchFields(fields ...string) SearchOption {
	return func(o *searchOptions) { o.searchFields = fields }
}

// WithResponseFields restricts which package fields the API returns.
func WithResponseFields(fields ...string) SearchOption {
	return func(o *searchOptions) { o.responseFields = fields }
}

// SearchPackages searches for packages matching query.
//
// Results keep the order and duplicates of the response. An empty result is
// not an error.
func (c *Client) SearchPackages(ctx context.Context, query string, opts ...SearchOption) ([]Package, error) {
	o := searchOptions{limit: DefaultLimit, page: DefaultPage}
	for _, opt := range opts {
		opt(&o)
	}

	params := integrations.Params{
		generations[c.generation].queryParam: query,
		"limit":                              o.limit,
		"page":                               o.page,
	}
	if len(o.searchFields) > 0 {
		params["searchFields"] = strings.Join(o.searchFields, ",")
	}
	if len(o.responseFields) > 0 {
		params["responseFields"] = strings.Join(o.responseFields, ",")
	}

	env, err := c.call(ctx, EndpointSearch, nil, params)
	if err != nil {
		return nil, err
	}
	raws, err := env.List()
	if err != nil {
		return nil, err
	}
	return NormalizePackages(raws)
}

// GetPackage fetches one package by identifier. It fails with NOT_FOUND when
// the API returns no data.
func (c *Client) GetPackage(ctx context.Context, identifier string) (Package, error) {
	if err := errors.ValidateIdentifier(identifier); err != nil {
		return Package{}, err
	}
	env, err := c.call(ctx, EndpointPackage, []string{identifier}, nil)
	if err != nil {
		return Package{}, err
	}
	raws, err := env.List()
	if err != nil {
		return Package{}, err
	}
	if len(raws) == 0 {
		return Package{}, errors.NotFound("package %q not found", identifier)
	}
	return NormalizePackage(raws[0])
}

// GetRepository fetches one repository by slug.
func (c *Client) GetRepository(ctx context.Context, slug string) (Repository, error) {
	if err := errors.ValidateSlug(slug); err != nil {
		return Repository{}, err
	}
	env, err := c.call(ctx, EndpointRepo, []string{slug}, nil)
	if err != nil {
		return Repository{}, err
	}
	raw, err := env.Object()
	if err != nil {
		return Repository{}, err
	}
	return NormalizeRepository(raw)
}

// CheckRepository asks the API whether the repository at repoURL is safe.
// Only the [V1] generation offers this; on [V2] it fails with a
// CONFIGURATION error before any request is made.
func (c *Client) CheckRepository(ctx context.Context, repoURL string) (RepositoryStatus, error) {
	if err := errors.ValidateURL(repoURL); err != nil {
		return RepositoryStatus{}, err
	}
	env, err := c.call(ctx, EndpointCheckRepo, nil, integrations.Params{"queries": repoURL})
	if err != nil {
		return RepositoryStatus{}, err
	}
	raw, err := env.Object()
	if err != nil {
		return RepositoryStatus{}, err
	}
	return NormalizeRepositoryStatus(raw)
}

func (c *Client) call(ctx context.Context, endpoint string, segments []string, params integrations.Params) (Envelope, error) {
	path, err := c.endpoints.Path(endpoint, segments...)
	if err != nil {
		return Envelope{}, err
	}
	body, err := c.Get(ctx, c.baseURL+"/"+path, params, nil)
	if err != nil {
		return Envelope{}, err
	}
	return DecodeEnvelope(body)
}
