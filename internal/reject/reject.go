// Package reject defines the classified, client-safe failure type shared by
// services and transport adapters. A Reject carries a kind that maps onto a
// transport status and a message that is safe to return to a client.
// Anything that is not a Reject is an opaque internal error: it gets logged
// with full detail server-side and must never leak to a client.
package reject

import "errors"

// Kind classifies a Reject.
type Kind int

const (
	// Unauthorized covers bad credentials and bad passwords.
	Unauthorized Kind = iota + 1
	// BadRequest covers malformed input.
	BadRequest
	// NotFound covers missing users and missing password records.
	NotFound
	// Conflict covers duplicate display ids.
	Conflict
)

// String returns the canonical lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case BadRequest:
		return "bad request"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Reject is a classified failure. Match it with errors.As, or use KindOf.
type Reject struct {
	kind    Kind
	message string
}

// New builds a Reject of the given kind.
func New(kind Kind, message string) *Reject {
	return &Reject{kind: kind, message: message}
}

func (r *Reject) Error() string { return r.kind.String() + ": " + r.message }

// Kind reports the classification of the failure.
func (r *Reject) Kind() Kind { return r.kind }

// Message returns the client-safe message.
func (r *Reject) Message() string { return r.message }

// NewUnauthorized builds an Unauthorized reject.
func NewUnauthorized(message string) *Reject { return New(Unauthorized, message) }

// NewBadRequest builds a BadRequest reject.
func NewBadRequest(message string) *Reject { return New(BadRequest, message) }

// NewNotFound builds a NotFound reject.
func NewNotFound(message string) *Reject { return New(NotFound, message) }

// NewConflict builds a Conflict reject.
func NewConflict(message string) *Reject { return New(Conflict, message) }

// KindOf extracts the kind from err if it is (or wraps) a Reject.
func KindOf(err error) (Kind, bool) {
	var r *Reject
	if errors.As(err, &r) {
		return r.kind, true
	}
	return 0, false
}

// IsKind reports whether err is a Reject of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
