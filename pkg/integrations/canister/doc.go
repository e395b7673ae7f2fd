// Package canister provides a client for the Canister API, which indexes
// jailbreak-tweak packages and the APT repositories hosting them.
//
// # Overview
//
// The API has gone through several generations whose payloads disagree on
// key names (camelCase vs snake_case, "identifier" vs "package") and on
// which fields are present. This package hides that: every response is
// decoded into an [Envelope] and then normalized into one of three typed
// records, whichever generation produced it:
//
//   - [Package]: a tweak, with name, author and depiction fallbacks applied
//   - [Repository]: a hosting repository
//   - [RepositoryStatus]: the verdict of the legacy safety check
//
// # Usage
//
//	client, err := canister.NewClient()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	pkgs, err := client.SearchPackages(ctx, "ssh", canister.WithLimit(10))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range pkgs {
//	    fmt.Println(p.Identifier, p.Version, p.Author)
//	}
//
// # Generations
//
// [V2] is the default. [V1] targets the legacy community API, which is the
// only generation with [Client.CheckRepository]. Asking a client for an
// operation its generation lacks fails with a CONFIGURATION error.
//
// # Normalization
//
// [NormalizePackage], [NormalizeRepository] and [NormalizeRepositoryStatus]
// are pure functions over a [Raw] object. For each field they try an ordered
// list of key synonyms and take the first present, non-null value. They
// either return a complete record or a DECODE error; there are no partially
// filled results.
//
// # Errors
//
// Errors carry codes from [errors]: CONFIGURATION, DECODE, NOT_FOUND,
// TRANSPORT and INVALID_INPUT. Check them with errors.Is.
//
// [errors]: github.com/matzehuels/canister/pkg/errors
package canister
