package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotVerified      = errors.New("chat is not verified")
	ErrNoMailbox        = errors.New("no mailbox attached to session")
	ErrNotChannelMember = errors.New("chat is not a member of the required channel")
	ErrUnauthorized     = errors.New("chat is not authorized for this command")
	ErrEmptyBroadcast   = errors.New("broadcast message is empty")
)

// ProviderErrorKind classifies mail-provider failures so callers can
// log a precise cause while still showing users a generic message.
type ProviderErrorKind string

const (
	KindNetwork   ProviderErrorKind = "network"
	KindAuth      ProviderErrorKind = "auth"
	KindNotFound  ProviderErrorKind = "not_found"
	KindMalformed ProviderErrorKind = "malformed"
	KindRejected  ProviderErrorKind = "rejected"
)

// ProviderError wraps a failure from the mail provider with the
// operation that produced it and its kind.
type ProviderError struct {
	Op   string
	Kind ProviderErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("mail provider %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("mail provider %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError builds a classified provider failure.
func NewProviderError(op string, kind ProviderErrorKind, err error) *ProviderError {
	return &ProviderError{Op: op, Kind: kind, Err: err}
}

// ProviderErrKind extracts the kind from err, or "" when err is not a
// provider error.
func ProviderErrKind(err error) ProviderErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
