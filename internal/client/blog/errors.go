package blog

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorKind is the closed set of failure categories the client exposes.
// Callers branch on the kind (or the Is* predicates), never on message
// text.
type ErrorKind int

const (
	// KindUnauthorized: the service rejected the credentials or the
	// token (HTTP 401, gRPC Unauthenticated).
	KindUnauthorized ErrorKind = iota + 1
	// KindNotFound: the addressed resource does not exist
	// (HTTP 404, gRPC NotFound).
	KindNotFound
	// KindAlreadyExists: a uniqueness conflict (gRPC AlreadyExists).
	// The HTTP path has no distinct slot for 409 and folds it into
	// KindInvalidRequest; only the gRPC path produces this kind.
	KindAlreadyExists
	// KindForbidden: authenticated but not allowed (gRPC
	// PermissionDenied). The HTTP path folds 403 into
	// KindInvalidRequest with a "Forbidden:" detail prefix.
	KindForbidden
	// KindInvalidRequest: the service rejected the request as malformed
	// or conflicting (HTTP 400/403/409, gRPC InvalidArgument).
	KindInvalidRequest
	// KindTransport: the round trip itself failed (connection failure,
	// unexpected status, or any other unclassified remote error).
	KindTransport
	// KindSerialization: the response body did not match the expected
	// shape.
	KindSerialization
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindForbidden:
		return "forbidden"
	case KindInvalidRequest:
		return "invalid request"
	case KindTransport:
		return "transport error"
	case KindSerialization:
		return "serialization error"
	default:
		return fmt.Sprintf("unknown kind %d", int(k))
	}
}

// Error is the unified failure type produced by both sub-clients.
type Error struct {
	Kind   ErrorKind
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind ErrorKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func wrapError(kind ErrorKind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, cause: cause}
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsNotFound reports whether err is a unified error with KindNotFound.
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsUnauthorized reports whether err is a unified error with
// KindUnauthorized.
func IsUnauthorized(err error) bool { return kindOf(err) == KindUnauthorized }

// IsAlreadyExists reports whether err is a unified error with
// KindAlreadyExists. Only the gRPC transport produces this kind.
func IsAlreadyExists(err error) bool { return kindOf(err) == KindAlreadyExists }

// IsForbidden reports whether err is a unified error with
// KindForbidden. Only the gRPC transport produces this kind.
func IsForbidden(err error) bool { return kindOf(err) == KindForbidden }

// IsInvalidRequest reports whether err is a unified error with
// KindInvalidRequest.
func IsInvalidRequest(err error) bool { return kindOf(err) == KindInvalidRequest }

// IsTransport reports whether err is a unified error with
// KindTransport.
func IsTransport(err error) bool { return kindOf(err) == KindTransport }

// mapHTTPStatus normalizes a non-success HTTP response into the unified
// taxonomy. body is the raw response body, used as the human-readable
// detail.
//
// HTTP has no distinct slots for "forbidden" and "already exists", so
// 403 and 409 fold into KindInvalidRequest; 403 keeps a "Forbidden:"
// prefix so the two remain distinguishable in the detail text. This
// asymmetry with the gRPC path is deliberate and covered by tests.
func mapHTTPStatus(statusCode int, body []byte) *Error {
	detail := string(body)
	switch statusCode {
	case http.StatusUnauthorized:
		return newError(KindUnauthorized, detail)
	case http.StatusNotFound:
		return newError(KindNotFound, "")
	case http.StatusConflict:
		return newError(KindInvalidRequest, detail)
	case http.StatusForbidden:
		return newError(KindInvalidRequest, "Forbidden: "+detail)
	default:
		return newError(KindTransport, fmt.Sprintf("HTTP %d: %s", statusCode, detail))
	}
}

// mapGRPCError normalizes a gRPC call error into the unified taxonomy.
// Channel-level failures surface as codes the switch does not name
// (Unavailable, DeadlineExceeded, ...) and land in KindTransport.
func mapGRPCError(err error) *Error {
	st, ok := status.FromError(err)
	if !ok {
		return wrapError(KindTransport, err.Error(), err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return wrapError(KindUnauthorized, st.Message(), err)
	case codes.NotFound:
		return wrapError(KindNotFound, "", err)
	case codes.AlreadyExists:
		return wrapError(KindAlreadyExists, st.Message(), err)
	case codes.PermissionDenied:
		return wrapError(KindForbidden, st.Message(), err)
	case codes.InvalidArgument:
		return wrapError(KindInvalidRequest, st.Message(), err)
	default:
		return wrapError(KindTransport, fmt.Sprintf("rpc %s: %s", st.Code(), st.Message()), err)
	}
}
