package commerce

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

var (
	// ErrNotConfigured means the backend credentials are absent. Dependent
	// operations degrade to no-ops instead of surfacing this to users.
	ErrNotConfigured = errors.New("commerce backend is not configured")

	// ErrNoData means the backend answered with success status but carried
	// neither a data payload nor errors.
	ErrNoData = errors.New("no data returned from backend")

	// ErrCartExpired means a cart fetch was rejected. All fetch failures
	// collapse into this: the cart id is treated as no longer valid and
	// must be cleared, never retried.
	ErrCartExpired = errors.New("cart is no longer valid")
)

// TransportError reports a non-success HTTP status from the backend.
type TransportError struct {
	StatusCode int
	Status     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend returned %s", e.Status)
}

// BackendError carries the messages of a GraphQL-level error list.
type BackendError struct {
	Messages []string
}

func (e *BackendError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// UserError is a backend-reported, field-scoped validation failure on a
// mutation.
type UserError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// UserErrorList is the set of user errors returned by a mutation. Any user
// error fails the operation as a whole; no partial cart is committed.
type UserErrorList []UserError

func (e UserErrorList) Error() string {
	msgs := make([]string, len(e))
	for i, ue := range e {
		msgs[i] = ue.Message
	}
	return strings.Join(msgs, ", ")
}
