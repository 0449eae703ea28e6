package service

import "fmt"

// ValidationError is a local precondition failure. It never causes a
// remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation against an id that is not in the
// local cache.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// RemoteError is any failure returned by the hosted store. The store's
// message is passed through untouched.
type RemoteError struct {
	Status  int // HTTP status, 0 for transport failures
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// AuthSessionError reports a missing or unusable local session.
type AuthSessionError struct {
	Reason string
}

func (e *AuthSessionError) Error() string {
	return e.Reason
}
