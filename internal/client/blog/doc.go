// Package blog implements the unified blog API client: one façade over
// two parallel transports (REST HTTP and gRPC) selected at
// construction time.
//
// Callers invoke register, login and post CRUD operations without
// knowing which protocol is underneath. The façade keeps one
// authentication token consistent across concurrent calls and both
// sub-clients, and both transports report failures through the same
// closed error taxonomy (see Error and the Is* predicates), so
// "resource absent" and "service unreachable" are never confused.
//
// The client never retries on its own; retry and re-login policy
// belongs to the caller.
package blog
