package canister

import (
	"net/url"
	"sort"
	"strings"

	"github.com/matzehuels/canister/pkg/errors"
)

// Generation selects which generation of the Canister API a client targets.
// Generations differ in base path, available endpoints, and the name of the
// search query parameter.
type Generation string

const (
	// V2 is the current API (https://api.canister.me/v2).
	V2 Generation = "v2"

	// V1 is the legacy community API. It is the only generation with the
	// repository safety check.
	V1 Generation = "v1"
)

// Endpoint keys.
const (
	EndpointSearch    = "search"
	EndpointPackage   = "package"
	EndpointRepo      = "repo"
	EndpointCheckRepo = "check-repo"
)

type generationInfo struct {
	baseURL    string
	queryParam string
	paths      map[string]string
}

var generations = map[Generation]generationInfo{
	V2: {
		baseURL:    "https://api.canister.me/v2",
		queryParam: "q",
		paths: map[string]string{
			EndpointSearch:  "jailbreak/package/search",
			EndpointPackage: "jailbreak/package",
			EndpointRepo:    "jailbreak/repository",
		},
	},
	V1: {
		baseURL:    "https://api.canister.me/v1/community",
		queryParam: "query",
		paths: map[string]string{
			EndpointSearch:    "packages/search",
			EndpointCheckRepo: "repositories/check",
		},
	},
}

// ParseGeneration parses "v1" or "v2" (case-insensitive).
func ParseGeneration(s string) (Generation, error) {
	g := Generation(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := generations[g]; !ok {
		return "", errors.Configuration("unknown API generation %q (want v1 or v2)", s)
	}
	return g, nil
}

// DefaultBaseURL returns the public base URL of a generation, or "" for an
// unknown one.
func (g Generation) DefaultBaseURL() string {
	return generations[g].baseURL
}

// Endpoints is the endpoint table of one API generation.
type Endpoints struct {
	generation Generation
	paths      map[string]string
}

// EndpointsFor returns the endpoint table of g.
func EndpointsFor(g Generation) (Endpoints, error) {
	info, ok := generations[g]
	if !ok {
		return Endpoints{}, errors.Configuration("unknown API generation %q", g)
	}
	return Endpoints{generation: g, paths: info.paths}, nil
}

// Has reports whether the table contains key.
func (e Endpoints) Has(key string) bool {
	_, ok := e.paths[key]
	return ok
}

// Keys returns the endpoint keys of the table, sorted.
func (e Endpoints) Keys() []string {
	keys := make([]string, 0, len(e.paths))
	for k := range e.paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path resolves key to a relative path, appending each segment path-escaped.
// Unknown keys fail with a CONFIGURATION error: they mean the caller asked
// for an operation the selected API generation does not offer.
func (e Endpoints) Path(key string, segments ...string) (string, error) {
	p, ok := e.paths[key]
	if !ok {
		return "", errors.Configuration("endpoint %q is not available in API %s", key, e.generation)
	}
	for _, s := range segments {
		p += "/" + url.PathEscape(s)
	}
	return p, nil
}
