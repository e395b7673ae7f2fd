package canister_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/canister/internal/fakeapi"
	"github.com/matzehuels/canister/pkg/cache"
	"github.com/matzehuels/canister/pkg/errors"
	"github.com/matzehuels/canister/pkg/integrations"
	"github.com/matzehuels/canister/pkg/integrations/canister"
)

func newClient(t *testing.T, srv *fakeapi.Server, gen canister.Generation, opts ...canister.Option) *canister.Client {
	t.Helper()
	base := srv.V2()
	if gen == canister.V1 {
		base = srv.V1()
	}
	opts = append([]canister.Option{
		canister.WithGeneration(gen),
		canister.WithBaseURL(base),
		canister.WithHTTPClient(srv.Client()),
		canister.WithLibraryVersion("1.2.3"),
	}, opts...)
	c, err := canister.NewClient(opts...)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNewClientDefaults(t *testing.T) {
	c, err := canister.NewClient()
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	defer c.Close()

	if c.Generation() != canister.V2 {
		t.Errorf("Generation() = %q, want v2", c.Generation())
	}
	if c.BaseURL() != "https://api.canister.me/v2" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
	if !strings.HasPrefix(c.UserAgent(), "canister/") {
		t.Errorf("UserAgent() = %q, want canister/ prefix", c.UserAgent())
	}
}

func TestNewClientUnknownGeneration(t *testing.T) {
	if _, err := canister.NewClient(canister.WithGeneration("v3")); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("NewClient(v3) error = %v, want CONFIGURATION", err)
	}
}

func TestSearchPackages(t *testing.T) {
	srv := fakeapi.New(t)
	c := newClient(t, srv, canister.V2)

	pkgs, err := c.SearchPackages(context.Background(), "ssh", canister.WithLimit(2), canister.WithPage(1))
	if err != nil {
		t.Fatalf("SearchPackages() error: %v", err)
	}
	if len(pkgs) != 2 {
		t.Fatalf("SearchPackages() returned %d packages, want 2", len(pkgs))
	}
	if pkgs[0].Identifier != fakeapi.OpenSSHID || pkgs[1].Identifier != fakeapi.NewTermID {
		t.Errorf("order = %q, %q", pkgs[0].Identifier, pkgs[1].Identifier)
	}

	req := srv.LastRequest()
	if req.Path != "/v2/jailbreak/package/search" {
		t.Errorf("path = %q", req.Path)
	}
	for k, want := range map[string]string{"q": "ssh", "limit": "2", "page": "1"} {
		if got := req.Query.Get(k); got != want {
			t.Errorf("query %s = %q, want %q", k, got, want)
		}
	}
	if req.Query.Has("query") {
		t.Error("v2 search should not send the legacy query parameter")
	}
	if got := req.Header.Get("User-Agent"); !strings.HasPrefix(got, "canister/1.2.3, Go/") {
		t.Errorf("User-Agent = %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestSearchPackagesNormalizesBothShapes(t *testing.T) {
	srv := fakeapi.New(t)
	c := newClient(t, srv, canister.V2)

	pkgs, err := c.SearchPackages(context.Background(), "term")
	if err != nil {
		t.Fatalf("SearchPackages() error: %v", err)
	}

	ssh := pkgs[0]
	if ssh.Depiction == nil || *ssh.Depiction != "https://apt.procurs.us/depictions/openssh.json" {
		t.Errorf("openssh Depiction = %v, want native depiction", ssh.Depiction)
	}
	if ssh.Author != ssh.Maintainer {
		t.Errorf("openssh Author = %q, want maintainer", ssh.Author)
	}

	term := pkgs[1]
	if term.Name != fakeapi.NewTermID {
		t.Errorf("newterm Name = %q, want identifier", term.Name)
	}
	if term.Author != "HASHBANG Productions" {
		t.Errorf("newterm Author = %q, want maintainer for empty author", term.Author)
	}
	if term.SHA256 != "1234567890123456789" {
		t.Errorf("newterm SHA256 = %q", term.SHA256)
	}
	if term.Section != "Terminal_Support" || term.InstalledSize != 2048 || !term.IsCurrent {
		t.Errorf("newterm legacy fields = %q %d %v", term.Section, term.InstalledSize, term.IsCurrent)
	}
	if term.RepositoryURL() != fakeapi.CharizURL {
		t.Errorf("newterm RepositoryURL() = %q", term.RepositoryURL())
	}
}

func TestSearchPackagesDefaultsAndFields(t *testing.T) {
	srv := fakeapi.New(t)
	c := newClient(t, srv, canister.V2)

	_, err := c.SearchPackages(context.Background(), "ssh",
		canister.WithSearchFields("name", "identifier"),
		canister.WithResponseFields("identifier", "version"))
	if err != nil {
		t.Fatalf("SearchPackages() error: %v", err)
	}

	q := srv.LastRequest().Query
	if q.Get("limit") != "250" || q.Get("page") != "1" {
		t.Errorf("defaults limit=%q page=%q, want 250 and 1", q.Get("limit"), q.Get("page"))
	}
	if q.Get("searchFields") != "name,identifier" {
		t.Errorf("searchFields = %q", q.Get("searchFields"))
	}
	if q.Get("responseFields") != "identifier,version" {
		t.Errorf("responseFields = %q", q.Get("responseFields"))
	}
}

func TestSearchPackagesLimitNotClamped(t *testing.T) {
	srv := fakeapi.New(t)
	c := newClient(t, srv, canister.V2)

	if _, err := c.SearchPackages(context.Background(), "ssh", canister.WithLimit(100000), canister.WithPage(-1)); err != nil {
		t.Fatalf("SearchPackages() error: %v", err)
	}
	q := srv.LastRequest().Query
	if q.Get("limit") != "100000" || q.Get("page") != "-1" {
		t.Errorf("limit=%q page=%q, want values passed through", q.Get("limit"), q.Get("page"))
	}
}

func TestSearchPackagesLegacyGeneration(t *testing.T) {
	srv := fakeapi.New(t)
	c := newClient(t, srv, canister.V1)

	pkgs, err := c.SearchPackages(context.Background(), "ssh")
	if err != nil {
		t.Fatalf("SearchPackages() error: %v", err)
	}
	if len(pkgs) != 2 {
		t.Errorf("SearchPackages() returned %d packages, want 2", len(pkgs))
	}

	req := srv.LastRequest()
	if req.Path != "/v1/community/packages/search" {
		t.Errorf("path = %q", req.Path)
	}
	if req.Query.Get("query") != "ssh" || req.Query.Has("q") {
		t.Errorf("query params = %v, want query=ssh only", req.Query)
	}
}

func TestSearchPackagesEmpty(t *testing.T) {
	srv := fakeapi.New(t)
	srv.SetSearch(fakeapi.Envelope([]map[string]any{}))
	c := newClient(t, srv, canister.V2)

	pkgs, err := c.SearchPackages(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("SearchPackages() error: %v", err)
	}
	if len(pkgs) != 0 {
		t.Errorf("SearchPackages() = %d packages, want 0", len(pkgs))
	}
}

func TestSearchPackagesMalformedElement(t *testing.T) {
	srv := fakeapi.New(t)
	srv.SetSearch(fakeapi.Envelope([]map[string]any{{"identifier": "x"}}))
	c := newClient(t, srv, canister.V2)

	if _, err := c.SearchPackages(context.Background(), "x"); !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("SearchPackages() error = %v, want DECODE", err)
	}
}

func TestGetPackage(t *testing.T) {
	srv := fakeapi.New(t)
	c := newClient(t, srv, canister.V2)

	p, err := c.GetPackage(context.Background(), fakeapi.OpenSSHID)
	if err != nil {
		t.Fatalf("GetPackage() error: %v", err)
	}
	if p.Identifier != fakeapi.OpenSSHID || p.Name != "OpenSSH" {
		t.Errorf("GetPackage() = %q %q", p.Identifier, p.Name)
	}
	if got := srv.LastRequest().Path; got != "/v2/jailbreak/package/openssh" {
		t.Errorf("path = %q", got)
	}
}

func TestGetPackageNotFound(t *testing.T) {
	srv := fakeapi.New(t)
	c := newClient(t, srv, canister.V2)

	_, err := c.GetPackage(context.Background(), "com.example.tweak")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("GetPackage() error = %v, want NOT_FOUND", err)
	}
}

func TestGetPackageObjectDataRejected(t *testing.T) {
	srv := fakeapi.New(t)
	srv.SetPackage("a", fakeapi.Envelope(map[string]any{"identifier": "a", "maintainer": "m", "repository": map[string]any{}}))
	c := newClient(t, srv, canister.V2)

	if _, err := c.GetPackage(context.Background(), "a"); !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("GetPackage() error = %v, want DECODE for object data", err)
	}
}

func TestGetRepository(t *testing.T) {
	srv := fakeapi.New(t)
	c := newClient(t, srv, canister.V2)

	r, err := c.GetRepository(context.Background(), fakeapi.CharizSlug)
	if err != nil {
		t.Fatalf("GetRepository() error: %v", err)
	}
	if r.Slug != fakeapi.CharizSlug || r.URL() != fakeapi.CharizURL {
		t.Errorf("GetRepository() = %q %q", r.Slug, r.URL())
	}
	if aliases, ok := r.AliasList(); !ok || aliases != "chariz, repo.chariz.io" {
		t.Errorf("AliasList() = %q, %v", aliases, ok)
	}
	if got := srv.LastRequest().Path; got != "/v2/jailbreak/repository/chariz" {
		t.Errorf("path = %q", got)
	}
}

func TestGetRepositoryNotFound(t *testing.T) {
	srv := fakeapi.New(t)
	c := newClient(t, srv, canister.V2)

	if _, err := c.GetRepository(context.Background(), "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("GetRepository() error = %v, want NOT_FOUND", err)
	}
}

func TestCheckRepository(t *testing.T) {
	const repo = "https://example.com/repo"

	srv := fakeapi.New(t)
	srv.SetCheck(repo, []byte(`{"status":"ok","date":"2024-05-01","data":{"repositoryURI":"https://example.com/repo","status":"safe"}}`))
	c := newClient(t, srv, canister.V1)

	s, err := c.CheckRepository(context.Background(), repo)
	if err != nil {
		t.Fatalf("CheckRepository() error: %v", err)
	}
	if s.Status != "Safe" || s.URL != repo {
		t.Errorf("CheckRepository() = %+v, want Safe for %s", s, repo)
	}

	req := srv.LastRequest()
	if req.Path != "/v1/community/repositories/check" || req.Query.Get("queries") != repo {
		t.Errorf("request = %s ?%v", req.Path, req.Query)
	}
}

func TestCheckRepositoryUnavailableOnV2(t *testing.T) {
	srv := fakeapi.New(t)
	c := newClient(t, srv, canister.V2)

	_, err := c.CheckRepository(context.Background(), "https://example.com/repo")
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("CheckRepository() error = %v, want CONFIGURATION", err)
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("%d requests sent, want 0", n)
	}
}

func TestInvalidInputSendsNoRequest(t *testing.T) {
	srv := fakeapi.New(t)
	v2 := newClient(t, srv, canister.V2)
	v1 := newClient(t, srv, canister.V1)
	ctx := context.Background()

	calls := []struct {
		name string
		call func() error
	}{
		{"empty identifier", func() error { _, err := v2.GetPackage(ctx, ""); return err }},
		{"traversal identifier", func() error { _, err := v2.GetPackage(ctx, "../etc"); return err }},
		{"bad slug", func() error { _, err := v2.GetRepository(ctx, "a/b"); return err }},
		{"non-http url", func() error { _, err := v1.CheckRepository(ctx, "ftp://x"); return err }},
	}

	for _, tt := range calls {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("%d requests sent, want 0", n)
	}
}

func TestTransportErrors(t *testing.T) {
	srv := fakeapi.New(t)
	srv.FailWith(http.StatusBadGateway)
	c := newClient(t, srv, canister.V2)

	_, err := c.SearchPackages(context.Background(), "ssh")
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Fatalf("SearchPackages() error = %v, want TRANSPORT", err)
	}
	if n := len(srv.Requests()); n != 1 {
		t.Errorf("%d requests sent, want exactly 1", n)
	}
}

func TestMalformedEnvelope(t *testing.T) {
	srv := fakeapi.New(t)
	srv.SetSearch([]byte(`{"status":"ok"}`))
	c := newClient(t, srv, canister.V2)

	if _, err := c.SearchPackages(context.Background(), "ssh"); !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("SearchPackages() error = %v, want DECODE", err)
	}
}

func TestCloseKeepsSuppliedSession(t *testing.T) {
	srv := fakeapi.New(t)
	c := newClient(t, srv, canister.V2)

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if c.Session() != srv.Client() {
		t.Error("Close() replaced a caller-supplied session")
	}
	if _, err := c.SearchPackages(context.Background(), "ssh"); err != nil {
		t.Errorf("SearchPackages() after Close() error: %v", err)
	}
}

func TestClientCache(t *testing.T) {
	srv := fakeapi.New(t)
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := newClient(t, srv, canister.V2, canister.WithCache(backend, time.Hour))
	ctx := context.Background()

	for range 2 {
		if _, err := c.GetRepository(ctx, fakeapi.CharizSlug); err != nil {
			t.Fatalf("GetRepository() error: %v", err)
		}
	}
	if n := len(srv.Requests()); n != 1 {
		t.Errorf("%d requests sent, want 1 (second served from cache)", n)
	}

	if _, err := c.GetRepository(integrations.WithRefresh(ctx), fakeapi.CharizSlug); err != nil {
		t.Fatalf("GetRepository() refresh error: %v", err)
	}
	if n := len(srv.Requests()); n != 2 {
		t.Errorf("%d requests sent, want 2 after refresh", n)
	}
}

func TestConcurrentUse(t *testing.T) {
	srv := fakeapi.New(t)
	c := newClient(t, srv, canister.V2)

	errs := make(chan error, 8)
	for range 8 {
		go func() {
			_, err := c.SearchPackages(context.Background(), "ssh")
			errs <- err
		}()
	}
	for range 8 {
		if err := <-errs; err != nil {
			t.Errorf("SearchPackages() error: %v", err)
		}
	}
}
