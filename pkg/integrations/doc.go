// Package integrations provides the HTTP transport shared by API clients.
//
// # Overview
//
// [Client] is the one place that talks to the network. API-specific packages
// embed it and add endpoint resolution and response decoding on top:
//
//   - [canister]: the Canister jailbreak package index
//
// # Session Lifecycle
//
// A Client either uses a caller-supplied *http.Client ([WithHTTPClient]),
// which it never closes, or creates its own on first use and releases it in
// [Client.Close]. First use is guarded, so concurrent callers sharing a fresh
// Client observe a single session.
//
// # Caching
//
// Responses can be cached with [WithCache] using any [cache.Cache] backend.
// Caching is off by default. Use [WithRefresh] to bypass cached entries for
// one call.
//
// # Hooks
//
// Every request reports to [observability.HTTP] and every cache lookup to
// [observability.Cache]. Each request carries a request ID readable with
// [observability.RequestID].
//
// [canister]: github.com/matzehuels/canister/pkg/integrations/canister
// [cache.Cache]: github.com/matzehuels/canister/pkg/cache.Cache
// [observability.HTTP]: github.com/matzehuels/canister/pkg/observability.HTTP
// [observability.Cache]: github.com/matzehuels/canister/pkg/observability.Cache
// [observability.RequestID]: github.com/matzehuels/canister/pkg/observability.RequestID
package integrations
