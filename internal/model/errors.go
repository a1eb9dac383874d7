package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind distinguishes adapter-boundary failure classes so callers can
// tell "provider down" from "bad query" and decide what is worth retrying.
type ErrorKind string

const (
	KindAuth        ErrorKind = "auth"
	KindRateLimited ErrorKind = "rate_limited"
	KindTimeout     ErrorKind = "timeout"
	KindMalformed   ErrorKind = "malformed_response"
	KindUnavailable ErrorKind = "unavailable"
)

// ProviderError wraps a source adapter failure with its kind so retry and
// reporting logic can inspect it.
type ProviderError struct {
	Source     string
	Kind       ErrorKind
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a provider failure worth retrying.
// Auth and malformed-response errors are configuration/contract problems
// that will not self-resolve.
func IsTransient(err error) bool {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Kind == KindRateLimited || pe.Kind == KindTimeout || pe.Kind == KindUnavailable
}

// LookupError marks a persistence failure during dedup resolution. It is
// counted as errored, never as skipped.
type LookupError struct {
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("dedup lookup: %v", e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// PersistError marks a failure during the final upsert.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
