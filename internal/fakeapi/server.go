// Package fakeapi serves a canned Canister API over httptest for tests.
//
// Both generations are routed:
//
//	/v2/jailbreak/package/search
//	/v2/jailbreak/package/{id}
//	/v2/jailbreak/repository/{slug}
//	/v1/community/packages/search
//	/v1/community/repositories/check
//
// Every request is recorded and can be inspected with [Server.Requests].
package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// Date is the envelope date used by every fixture.
const Date = "2024-05-01T12:00:00.000Z"

// Request is one recorded request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
}

// Server is a fake Canister API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	search   []byte
	packages map[string][]byte
	repos    map[string][]byte
	checks   map[string][]byte
	failWith int
}

// New starts a server loaded with the default fixtures and closes it when
// the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		search:   Envelope(SearchResults()),
		packages: map[string][]byte{},
		repos:    map[string][]byte{},
		checks:   map[string][]byte{},
	}
	for _, p := range SearchResults() {
		s.packages[p["identifier"].(string)] = Envelope([]map[string]any{p})
	}
	s.repos[CharizSlug] = Envelope(Chariz())

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// V2 returns the base URL of the current API.
func (s *Server) V2() string { return s.URL + "/v2" }

// V1 returns the base URL of the legacy community API.
func (s *Server) V1() string { return s.URL + "/v1/community" }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record, s.fail)

	r.Route("/v2/jailbreak", func(r chi.Router) {
		r.Get("/package/search", s.handleSearch)
		r.Get("/package/{id}", s.handlePackage)
		r.Get("/repository/{slug}", s.handleRepository)
	})
	r.Route("/v1/community", func(r chi.Router) {
		r.Get("/packages/search", s.handleSearch)
		r.Get("/repositories/check", s.handleCheck)
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) fail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		code := s.failWith
		s.mu.Unlock()
		if code != 0 {
			http.Error(w, http.StatusText(code), code)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body := s.search
	s.mu.Unlock()
	writeBody(w, body)
}

func (s *Server) handlePackage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body, ok := s.packages[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		body = Envelope([]map[string]any{})
	}
	writeBody(w, body)
}

func (s *Server) handleRepository(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body, ok := s.repos[chi.URLParam(r, "slug")]
	s.mu.Unlock()
	if !ok {
		body = Envelope([]map[string]any{})
	}
	writeBody(w, body)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	u := r.URL.Query().Get("queries")
	s.mu.Lock()
	body, ok := s.checks[u]
	s.mu.Unlock()
	if !ok {
		body = Envelope(map[string]any{"repositoryURI": u, "status": "unknown"})
	}
	writeBody(w, body)
}

func writeBody(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request. It panics if there is none.
func (s *Server) LastRequest() Request {
	reqs := s.Requests()
	return reqs[len(reqs)-1]
}

// SetSearch replaces the body served by both search endpoints.
func (s *Server) SetSearch(body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = body
}

// SetPackage replaces the body served for one package identifier.
func (s *Server) SetPackage(id string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[id] = body
}

// SetRepository replaces the body served for one repository slug.
func (s *Server) SetRepository(slug string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repos[slug] = body
}

// SetCheck replaces the body served when checking repoURL.
func (s *Server) SetCheck(repoURL string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[repoURL] = body
}

// FailWith makes every route answer with the given HTTP status. Zero
// restores normal behavior.
func (s *Server) FailWith(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = code
}

// Envelope wraps data in a successful response envelope.
func Envelope(data any) []byte {
	env := map[string]any{
		"status": "Successful",
		"date":   Date,
		"data":   data,
	}
	if list, ok := data.([]map[string]any); ok {
		env["count"] = len(list)
	}
	body, err := json.Marshal(env)
	if err != nil {
		panic(err)
	}
	return body
}
