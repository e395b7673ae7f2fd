package canister

import (
	"slices"
	"testing"

	"github.com/matzehuels/canister/pkg/errors"
)

func TestNormalizeRepository(t *testing.T) {
	r, err := NormalizeRepository(mustRaw(t, `{
		"slug": "chariz", "name": "Chariz", "uri": "https://repo.chariz.com/",
		"version": "1.0", "description": "store", "tier": 1,
		"sections": ["Tweaks", "Themes"], "aliases": ["chariz", "repo.chariz.io"],
		"packageCount": 412, "isBootstrap": false, "isPruned": true,
		"paymentGateway": "https://chariz.com/api/sileo",
		"sileoEndpoint": "https://chariz.com/api/sileo/",
		"originId": "c2a1", "origin": {"label": "Chariz", "suite": "./", "weight": 3},
		"refs": {"self": "https://api/chariz"}
	}`))
	if err != nil {
		t.Fatalf("NormalizeRepository() error: %v", err)
	}

	if r.Slug != "chariz" || r.Name != "Chariz" || r.Tier != 1 {
		t.Errorf("identity = %q %q %d", r.Slug, r.Name, r.Tier)
	}
	if r.URL() != "https://repo.chariz.com/" || r.URL() != r.URI {
		t.Errorf("URL() = %q, URI = %q", r.URL(), r.URI)
	}
	if !slices.Equal(r.Sections, []string{"Tweaks", "Themes"}) {
		t.Errorf("Sections = %v", r.Sections)
	}
	if r.PackageCount != 412 || r.IsBootstrap || !r.IsPruned {
		t.Errorf("count/flags = %d %v %v", r.PackageCount, r.IsBootstrap, r.IsPruned)
	}
	if r.PaymentGateway == nil || *r.PaymentGateway != "https://chariz.com/api/sileo" {
		t.Errorf("PaymentGateway = %v", r.PaymentGateway)
	}
	if r.SileoEndpoint == nil || *r.SileoEndpoint != "https://chariz.com/api/sileo/" {
		t.Errorf("SileoEndpoint = %v", r.SileoEndpoint)
	}
	if r.Origin.ID != "c2a1" {
		t.Errorf("Origin.ID = %q, want c2a1", r.Origin.ID)
	}
	if r.Origin.Attributes["label"] != "Chariz" || r.Origin.Attributes["suite"] != "./" {
		t.Errorf("Origin.Attributes = %v", r.Origin.Attributes)
	}
	if _, ok := r.Origin.Attributes["weight"]; ok {
		t.Error("non-string origin attributes should be dropped")
	}
	if r.Refs["self"] != "https://api/chariz" {
		t.Errorf("Refs = %v", r.Refs)
	}

	aliases, ok := r.AliasList()
	if !ok || aliases != "chariz, repo.chariz.io" {
		t.Errorf("AliasList() = %q, %v", aliases, ok)
	}
}

func TestNormalizeRepositorySynonyms(t *testing.T) {
	r, err := NormalizeRepository(mustRaw(t, `{
		"slug": "bigboss", "url": "http://apt.thebigboss.org/repofiles/cydia/",
		"bootstrap": 1, "package_count": 9000, "is_pruned": 0,
		"payment_gateway": "pg", "sileo_endpoint": "se", "origin_id": "o1"
	}`))
	if err != nil {
		t.Fatalf("NormalizeRepository() error: %v", err)
	}
	if r.URI != "http://apt.thebigboss.org/repofiles/cydia/" {
		t.Errorf("URI = %q", r.URI)
	}
	if !r.IsBootstrap || r.IsPruned || r.PackageCount != 9000 {
		t.Errorf("flags/count = %v %v %d", r.IsBootstrap, r.IsPruned, r.PackageCount)
	}
	if *r.PaymentGateway != "pg" || *r.SileoEndpoint != "se" {
		t.Errorf("gateway/endpoint = %q %q", *r.PaymentGateway, *r.SileoEndpoint)
	}
	if r.Origin.ID != "o1" {
		t.Errorf("Origin.ID = %q, want o1", r.Origin.ID)
	}
}

func TestNormalizeRepositoryNestedOriginID(t *testing.T) {
	r, err := NormalizeRepository(mustRaw(t, `{"slug":"s","origin":{"id":"nested","label":"L"}}`))
	if err != nil {
		t.Fatalf("NormalizeRepository() error: %v", err)
	}
	if r.Origin.ID != "nested" {
		t.Errorf("Origin.ID = %q, want nested", r.Origin.ID)
	}
	if _, ok := r.Origin.Attributes["id"]; ok {
		t.Error("origin id should not be repeated in Attributes")
	}
}

func TestRepositoryAliasList(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"absent", `{"slug":"s"}`, "", false},
		{"null", `{"slug":"s","aliases":null}`, "", false},
		{"empty list", `{"slug":"s","aliases":[]}`, "", false},
		{"single", `{"slug":"s","aliases":["a"]}`, "a", true},
		{"comma string", `{"slug":"s","aliases":"a, b"}`, "a, b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NormalizeRepository(mustRaw(t, tt.body))
			if err != nil {
				t.Fatalf("NormalizeRepository() error: %v", err)
			}
			got, ok := r.AliasList()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("AliasList() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeRepositoryErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no slug", `{"name":"n"}`},
		{"tier wrong type", `{"slug":"s","tier":"gold"}`},
		{"origin not object", `{"slug":"s","origin":"o"}`},
		{"origin id wrong type", `{"slug":"s","origin":{"id":true}}`},
		{"sections wrong type", `{"slug":"s","sections":{"a":"b"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NormalizeRepository(mustRaw(t, tt.body)); !errors.Is(err, errors.ErrCodeDecode) {
				t.Errorf("NormalizeRepository() error = %v, want DECODE", err)
			}
		})
	}
}

func TestNormalizeRepositoryStatus(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantURL  string
		wantStat string
	}{
		{"lower", `{"repositoryURI":"https://example.com/repo","status":"safe"}`, "https://example.com/repo", "Safe"},
		{"upper", `{"repositoryURI":"u","status":"UNSAFE"}`, "u", "Unsafe"},
		{"snake key", `{"repository_uri":"u","status":"unknown"}`, "u", "Unknown"},
		{"plain uri key", `{"uri":"u","status":" safe "}`, "u", "Safe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NormalizeRepositoryStatus(mustRaw(t, tt.body))
			if err != nil {
				t.Fatalf("NormalizeRepositoryStatus() error: %v", err)
			}
			if s.URL != tt.wantURL || s.Status != tt.wantStat {
				t.Errorf("status = %+v, want {%s %s}", s, tt.wantURL, tt.wantStat)
			}
		})
	}

	s, _ := NormalizeRepositoryStatus(mustRaw(t, `{"repositoryURI":"u","status":"safe"}`))
	if !s.Safe() {
		t.Error("Safe() = false for a safe verdict")
	}
}

func TestNormalizeRepositoryStatusMissing(t *testing.T) {
	for _, body := range []string{
		`{"repositoryURI":"u"}`,
		`{"repositoryURI":"u","status":null}`,
		`{"repositoryURI":"u","status":1}`,
	} {
		if _, err := NormalizeRepositoryStatus(mustRaw(t, body)); !errors.Is(err, errors.ErrCodeDecode) {
			t.Errorf("NormalizeRepositoryStatus(%s) error = %v, want DECODE", body, err)
		}
	}
}
