package integrations

import (
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

// NewHTTPClient creates an HTTP client with the given timeout.
// A timeout of 0 disables the client-side deadline.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// TransportIdentifier describes the HTTP stack in User-Agent form: the Go
// runtime version followed by the net/http client token, space separated.
func TransportIdentifier() string {
	return fmt.Sprintf("Go/%s Go-http-client/1.1", strings.TrimPrefix(runtime.Version(), "go"))
}

// Params is a flat set of query parameters. Values may be strings, integers,
// booleans, or string slices; slices become repeated keys. Nil values and
// empty slices are skipped.
type Params map[string]any

// Encode renders the parameters as a URL query string, sorted by key.
func (p Params) Encode() string {
	return p.Values().Encode()
}

// Values converts the parameters to url.Values.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for k, raw := range p {
		switch val := raw.(type) {
		case nil:
		case string:
			v.Set(k, val)
		case int:
			v.Set(k, strconv.Itoa(val))
		case int64:
			v.Set(k, strconv.FormatInt(val, 10))
		case bool:
			v.Set(k, strconv.FormatBool(val))
		case []string:
			for _, s := range val {
				v.Add(k, s)
			}
		default:
			v.Set(k, fmt.Sprint(val))
		}
	}
	return v
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }
