package canister

import "strings"

// LibraryName is the product token of the User-Agent.
const LibraryName = "canister"

// UnknownVersion stands in for a library version that cannot be determined.
const UnknownVersion = "0.0.0-unknown"

// UserAgent builds the User-Agent header value:
//
//	canister/<libraryVersion>, <transport token>, <transport token>...
//
// The transport identifier is split on whitespace and each token becomes its
// own comma-separated element. An empty libraryVersion becomes
// [UnknownVersion].
func UserAgent(libraryVersion, transport string) string {
	if libraryVersion == "" {
		libraryVersion = UnknownVersion
	}
	parts := append([]string{LibraryName + "/" + libraryVersion}, strings.Fields(transport)...)
	return strings.Join(parts, ", ")
}
