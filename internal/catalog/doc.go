// Package catalog provides an HTTP client for the PokeAPI catalog.
//
// # Overview
//
// This package is the remote catalog gateway for dex. It wraps the paginated
// index, by-id, batch-by-id, search, and species description lookups, and
// decodes payloads into immutable Record values.
//
// # Architecture
//
// The package is split into two files:
//
//   - client.go: HTTP client, fan-out helpers, and the Gateway interface
//   - types.go: Record plus the wire structs mirroring the PokeAPI schema
//
// # Client Usage
//
//	client, err := catalog.NewClient(catalog.DefaultBaseURL, catalog.WithLogger(logger))
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	page, err := client.ListPage(ctx, 20, 0)
//	if err != nil {
//		log.Printf("page fetch failed: %v", err)
//	}
//
//	favorites := client.GetManyByIDs(ctx, []int{1, 4, 7})
//
// # API Endpoints
//
//   - GET /pokemon?limit=&offset=: index page of {name, url} references
//   - GET /pokemon/{id or name}: full record
//   - GET /pokemon-species/{id}: flavor text entries
//   - GET /type/{name}: members of a type
//
// # Failure Policy
//
// The two kinds of lookups fail differently:
//
//   - ListPage trusts the index it was just handed. Detail fetches run under
//     an errgroup and the first failure fails the page.
//   - GetManyByIDs and Search work from identifiers that may be stale (stored
//     favorites, user input). Each failed lookup is logged and dropped, and
//     the caller gets whatever succeeded.
//
// GetDescription returns DescriptionFallback when a species has no English
// entry, and an error only when the request itself fails.
//
// # Error Handling
//
// Errors are wrapped with context using fmt.Errorf. Non-2xx responses are
// reported as *StatusError; a 404 matches ErrNotFound:
//
//	if _, err := client.GetByID(ctx, 99999); errors.Is(err, catalog.ErrNotFound) {
//		// stale id
//	}
//
// Example error messages:
//   - "fetch index: execute request: dial tcp: connection refused"
//   - "fetch pokemon 99999: api /api/v2/pokemon/99999 returned status 404"
//   - "decode response: unexpected end of JSON input"
//
// # Concurrency
//
// Fan-out is bounded by WithConcurrency (default 8). Batch results are
// collected in completion order; callers must not rely on input order.
package catalog
