// Package models defines the transport-neutral DTOs the blog client
// exchanges with callers. The json tags double as the REST wire shape;
// the gRPC sub-client maps its wire messages into these types.
package models

// User is an account as reported by the remote service. Values are
// never mutated locally.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// AuthResult is the outcome of a successful register or login. Token
// may be empty when the transport does not echo one on register.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
