package canister

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Repository is an APT repository hosting jailbreak packages.
type Repository struct {
	Slug        string `json:"slug"`
	Name        string `json:"name,omitempty"`
	URI         string `json:"uri,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Tier        int    `json:"tier"`

	Sections []string `json:"sections,omitempty"`
	Aliases  []string `json:"aliases,omitempty"`

	PackageCount   int     `json:"package_count"`
	IsBootstrap    bool    `json:"is_bootstrap"`
	IsPruned       bool    `json:"is_pruned"`
	PaymentGateway *string `json:"payment_gateway,omitempty"`
	SileoEndpoint  *string `json:"sileo_endpoint,omitempty"`

	Origin Origin            `json:"origin"`
	Refs   map[string]string `json:"refs,omitempty"`
}

// Origin describes where the index of a repository came from.
type Origin struct {
	ID string `json:"id,omitempty"`

	// Attributes holds the remaining string fields of the origin object.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// URL returns the repository URI. It is an alias of the URI field.
func (r Repository) URL() string { return r.URI }

// AliasList returns the aliases joined with ", ". The boolean is false when
// the repository has no aliases; the string is never reported as present
// and empty.
func (r Repository) AliasList() (string, bool) {
	if len(r.Aliases) == 0 {
		return "", false
	}
	return strings.Join(r.Aliases, ", "), true
}

var (
	repoURIKeys            = []string{"uri", "url"}
	repoIsBootstrapKeys    = []string{"isBootstrap", "is_bootstrap", "bootstrap"}
	repoPackageCountKeys   = []string{"packageCount", "package_count"}
	repoPaymentGatewayKeys = []string{"paymentGateway", "payment_gateway"}
	repoSileoEndpointKeys  = []string{"sileoEndpoint", "sileo_endpoint"}
	repoIsPrunedKeys       = []string{"isPruned", "is_pruned"}
	repoOriginIDKeys       = []string{"originId", "origin_id"}
	originIDKeys           = []string{"id", "originId", "origin_id"}
)

// NormalizeRepository builds a Repository from one raw repository object.
// "slug" is required. The origin ID is read from a top-level "originId"
// first, then from the nested "origin" object's "id".
func NormalizeRepository(raw Raw) (Repository, error) {
	f := newFields(raw, "repository")

	r := Repository{
		Slug:           f.required("slug"),
		Name:           f.str("name"),
		URI:            f.str(repoURIKeys...),
		Version:        f.str("version"),
		Description:    f.str("description"),
		Tier:           int(f.integer("tier")),
		Sections:       f.list("sections"),
		Aliases:        f.list("aliases"),
		PackageCount:   int(f.integer(repoPackageCountKeys...)),
		IsBootstrap:    f.flag(repoIsBootstrapKeys...),
		IsPruned:       f.flag(repoIsPrunedKeys...),
		PaymentGateway: f.optStr(repoPaymentGatewayKeys...),
		SileoEndpoint:  f.optStr(repoSileoEndpointKeys...),
		Refs:           f.dict("refs"),
	}

	r.Origin.ID = f.opaque(repoOriginIDKeys...)
	if origin, ok := f.object("origin"); ok {
		of := newFields(origin, "repository origin")
		if r.Origin.ID == "" {
			r.Origin.ID = of.opaque(originIDKeys...)
		}
		if of.err != nil {
			return Repository{}, of.err
		}
		r.Origin.Attributes = originAttributes(origin)
	}

	if f.err != nil {
		return Repository{}, f.err
	}
	return r, nil
}

func originAttributes(origin Raw) map[string]string {
	attrs := make(map[string]string, len(origin))
	for k, v := range origin {
		switch k {
		case "id", "originId", "origin_id":
			continue
		}
		if s, ok := v.(string); ok {
			attrs[k] = s
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// RepositoryStatus is the verdict of the legacy repository safety check.
type RepositoryStatus struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

// Safe reports whether the verdict is "Safe".
func (s RepositoryStatus) Safe() bool { return s.Status == "Safe" }

var repoStatusURLKeys = []string{"repositoryURI", "repository_uri", "uri"}

// NormalizeRepositoryStatus builds a RepositoryStatus. The status is title
// cased ("safe" → "Safe"). A missing status is a DECODE error rather than an
// implied "Unknown".
func NormalizeRepositoryStatus(raw Raw) (RepositoryStatus, error) {
	f := newFields(raw, "repository status")

	url := f.str(repoStatusURLKeys...)
	status := f.required("status")
	if f.err != nil {
		return RepositoryStatus{}, f.err
	}
	return RepositoryStatus{
		URL:    url,
		Status: cases.Title(language.Und).String(strings.TrimSpace(status)),
	}, nil
}
