// Package types holds the request/response contract for sorted, paginated
// reads: QueryOptions in, PagedResult out.
package types
