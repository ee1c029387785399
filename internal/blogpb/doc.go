// Package blogpb contains the hand-maintained wire definitions for the
// blog gRPC API: message types, unary client stubs and server
// registration glue for the blog.AuthService and blog.PostService
// services.
//
// The services exchange JSON-encoded messages over gRPC
// (application/grpc+json) instead of protobuf, so the stubs here are
// written by hand rather than generated and the messages are plain
// structs with json tags. The codec is registered on import; both the
// client and the server side only need to import this package.
package blogpb
