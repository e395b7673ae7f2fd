package canister

// Package is a jailbreak-tweak package as indexed by Canister.
//
// Name and Author are never empty-by-absence: a missing name is replaced by
// the identifier and a missing or empty author by the maintainer. Depiction
// is the resolved depiction URL (native first, then web); both variants are
// kept as well. Optional values are nil when the API omitted them.
//
// A Package is a plain value built once by [NormalizePackage]; it is safe
// for concurrent reads.
type Package struct {
	Identifier   string `json:"identifier"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Version      string `json:"version,omitempty"`
	Architecture string `json:"architecture,omitempty"`
	Section      string `json:"section,omitempty"`
	Maintainer   string `json:"maintainer"`
	Author       string `json:"author"`

	Size          int64 `json:"size"`
	InstalledSize int64 `json:"installed_size"`

	// SHA256 is kept exactly as the API sent it. Some generations send a
	// hex digest, others a number; neither is interpreted.
	SHA256 string `json:"sha256,omitempty"`

	Depiction       *string `json:"depiction,omitempty"`
	NativeDepiction *string `json:"native_depiction,omitempty"`
	WebDepiction    *string `json:"web_depiction,omitempty"`

	Icon      *string  `json:"icon,omitempty"`
	TintColor *string  `json:"tint_color,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Price     string   `json:"price,omitempty"`

	IsCurrent bool `json:"is_current"`
	IsPruned  bool `json:"is_pruned"`

	Repository PackageRepository `json:"repository"`
	Refs       map[string]string `json:"refs,omitempty"`
}

// PackageRepository is the inline reference to the repository hosting a
// package.
type PackageRepository struct {
	Slug string `json:"slug,omitempty"`
	Name string `json:"name,omitempty"`
	Tier int    `json:"tier,omitempty"`
	URI  string `json:"uri,omitempty"`
}

// RepositoryURL returns the URI of the hosting repository.
func (p Package) RepositoryURL() string { return p.Repository.URI }

// IsFree reports whether the package is marked free. An empty price counts
// as free.
func (p Package) IsFree() bool {
	switch p.Price {
	case "", "free", "Free", "0", "0.00":
		return true
	}
	return false
}

// Key synonyms, first present non-null key wins. Every API generation's
// spelling of a field is listed so callers never need to know which
// generation produced a payload.
var (
	pkgIdentifierKeys      = []string{"identifier", "package"}
	pkgNativeDepictionKeys = []string{"nativeDepiction", "native_depiction", "sileoDepiction", "sileo_depiction"}
	pkgInstalledSizeKeys   = []string{"installedSize", "installed_size"}
	pkgIconKeys            = []string{"icon", "packageIcon", "package_icon"}
	pkgTintColorKeys       = []string{"tintColor", "tint_color"}
	pkgIsCurrentKeys       = []string{"isCurrent", "is_current"}
	pkgIsPrunedKeys        = []string{"isPruned", "is_pruned"}
	pkgSHA256Keys          = []string{"sha256", "SHA256"}
	pkgArchitectureKeys    = []string{"architecture", "arch"}
	pkgSectionKeys         = []string{"section", "category"}
	pkgRepoURIKeys         = []string{"uri", "url"}
)

// NormalizePackage builds a Package from one raw package object.
//
// Required: an identifier ("identifier" or "package"), "maintainer", and a
// "repository" object (its sub-fields are optional). Anything missing, or a
// known field with the wrong JSON type, fails with a DECODE error and no
// Package is returned.
func NormalizePackage(raw Raw) (Package, error) {
	f := newFields(raw, "package")

	id := f.required(pkgIdentifierKeys...)
	maintainer := f.required("maintainer")

	name := id
	if n := f.optStr("name"); n != nil {
		name = *n
	}
	author := f.str("author")
	if author == "" {
		author = maintainer
	}

	native := f.optStr(pkgNativeDepictionKeys...)
	web := f.optStr("depiction")
	depiction := native
	if depiction == nil {
		depiction = web
	}

	repo, ok := f.object("repository")
	if !ok {
		f.missing("repository")
	}
	rf := newFields(repo, "package repository")
	ref := PackageRepository{
		Slug: rf.str("slug"),
		Name: rf.str("name"),
		Tier: int(rf.integer("tier")),
		URI:  rf.str(pkgRepoURIKeys...),
	}

	p := Package{
		Identifier:      id,
		Name:            name,
		Description:     f.str("description"),
		Version:         f.str("version"),
		Architecture:    f.str(pkgArchitectureKeys...),
		Section:         f.str(pkgSectionKeys...),
		Maintainer:      maintainer,
		Author:          author,
		Size:            f.integer("size"),
		InstalledSize:   f.integer(pkgInstalledSizeKeys...),
		SHA256:          f.opaque(pkgSHA256Keys...),
		Depiction:       depiction,
		NativeDepiction: native,
		WebDepiction:    web,
		Icon:            f.optStr(pkgIconKeys...),
		TintColor:       f.optStr(pkgTintColorKeys...),
		Tags:            f.list("tags"),
		Price:           f.opaque("price"),
		IsCurrent:       f.flag(pkgIsCurrentKeys...),
		IsPruned:        f.flag(pkgIsPrunedKeys...),
		Repository:      ref,
		Refs:            f.dict("refs"),
	}

	if f.err != nil {
		return Package{}, f.err
	}
	if rf.err != nil {
		return Package{}, rf.err
	}
	return p, nil
}

// NormalizePackages normalizes every element in order. Duplicates are kept.
// The first failing element aborts the whole batch.
func NormalizePackages(raws []Raw) ([]Package, error) {
	out := make([]Package, 0, len(raws))
	for _, raw := range raws {
		p, err := NormalizePackage(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
