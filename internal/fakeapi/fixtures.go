package fakeapi

// Fixture identifiers.
const (
	OpenSSHID  = "openssh"
	NewTermID  = "com.officialscheme.newterm"
	CharizSlug = "chariz"
	CharizURL  = "https://repo.chariz.com/"
)

// SearchResults returns the two-package search fixture. The first entry
// uses the current key spellings, the second the legacy ones.
func SearchResults() []map[string]any {
	return []map[string]any{
		{
			"package":         OpenSSHID,
			"identifier":      OpenSSHID,
			"name":            "OpenSSH",
			"description":     "secure remote login and file transfer",
			"version":         "9.1p1",
			"architecture":    "iphoneos-arm64",
			"section":         "Networking",
			"maintainer":      "Procursus Team <support@procurs.us>",
			"size":            1289344,
			"installedSize":   4120,
			"sha256":          "5f2b2c7a2b0e0d3b8f6e5a2f1c9d8e7b6a5f4e3d2c1b0a9f8e7d6c5b4a3f2e1d",
			"nativeDepiction": "https://apt.procurs.us/depictions/openssh.json",
			"depiction":       "https://apt.procurs.us/depictions/openssh.html",
			"tags":            []string{"cli", "network"},
			"price":           "free",
			"isCurrent":       true,
			"isPruned":        false,
			"repository": map[string]any{
				"slug": "procursus",
				"name": "Procursus",
				"tier": 1,
				"uri":  "https://apt.procurs.us/",
			},
			"refs": map[string]string{"self": "https://api.canister.me/v2/jailbreak/package/openssh"},
		},
		{
			"identifier":       NewTermID,
			"description":      "A powerful terminal app",
			"version":          "2.5",
			"category":         "Terminal_Support",
			"maintainer":       "HASHBANG Productions",
			"author":           "",
			"installed_size":   2048,
			"sha256":           1234567890123456789,
			"sileo_depiction":  "https://chariz.com/api/sileo/package/newterm/depiction.json",
			"package_icon":     "https://chariz.com/img/newterm.png",
			"tint_color":       "#3c3c3c",
			"is_current":       1,
			"repository":       map[string]any{"slug": CharizSlug, "url": CharizURL},
		},
	}
}

// Chariz returns the repository fixture.
func Chariz() map[string]any {
	return map[string]any{
		"slug":           CharizSlug,
		"name":           "Chariz",
		"uri":            CharizURL,
		"version":        "1.0",
		"description":    "Chariz is a premium tweak store",
		"tier":           1,
		"sections":       []string{"Tweaks", "Themes"},
		"aliases":        []string{"chariz", "repo.chariz.io"},
		"packageCount":   412,
		"isBootstrap":    false,
		"isPruned":       false,
		"paymentGateway": "https://chariz.com/api/sileo",
		"sileoEndpoint":  "https://chariz.com/api/sileo/",
		"originId":       "c2a1f8e0",
		"origin": map[string]any{
			"id":    "c2a1f8e0",
			"label": "Chariz",
			"suite": "./",
		},
	}
}
