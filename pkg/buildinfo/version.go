// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/canister/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/canister/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/canister/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// When the library is consumed as a dependency the ldflags are not applied;
// [LibraryVersion] then falls back to the module version recorded in the
// importing binary.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// ModulePath is the import path of this module.
const ModulePath = "github.com/matzehuels/canister"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	// Set via ldflags: -X github.com/matzehuels/canister/pkg/buildinfo.Version=...
	Version = ""

	// Commit is the git commit SHA.
	// Set via ldflags: -X github.com/matzehuels/canister/pkg/buildinfo.Commit=...
	Commit = "none"

	// Date is the build timestamp.
	// Set via ldflags: -X github.com/matzehuels/canister/pkg/buildinfo.Date=...
	Date = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// LibraryVersion returns the library version without a leading "v".
// It returns "" when no version can be determined, e.g. in a plain
// `go run` of the module itself.
func LibraryVersion() string {
	if Version != "" {
		return strings.TrimPrefix(Version, "v")
	}
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	if info.Main.Path == ModulePath {
		return cleanModuleVersion(info.Main.Version)
	}
	for _, dep := range info.Deps {
		if dep.Path == ModulePath {
			if dep.Replace != nil {
				return cleanModuleVersion(dep.Replace.Version)
			}
			return cleanModuleVersion(dep.Version)
		}
	}
	return ""
}

func cleanModuleVersion(v string) string {
	if v == "" || v == "(devel)" {
		return ""
	}
	return strings.TrimPrefix(v, "v")
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", displayVersion(), Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", displayVersion(), Commit, Date)
}

func displayVersion() string {
	if v := LibraryVersion(); v != "" {
		return v
	}
	return "dev"
}
