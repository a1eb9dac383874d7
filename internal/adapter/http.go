package adapter

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// Provider calls carry their own timeout so a stuck provider surfaces as
// KindTimeout instead of stalling the whole run.
const providerTimeout = 12 * time.Second

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// statusError maps a non-200 provider response to a ProviderError kind.
func statusError(source string, resp *http.Response, err error) *model.ProviderError {
	kind := model.KindUnavailable
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		kind = model.KindAuth
	case resp.StatusCode == http.StatusTooManyRequests:
		kind = model.KindRateLimited
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		kind = model.KindMalformed
	}
	return &model.ProviderError{
		Source:     source,
		Kind:       kind,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		Err:        err,
	}
}

// transportError maps a failed round trip to a ProviderError, distinguishing
// timeouts from other network failures.
func transportError(source string, err error) *model.ProviderError {
	kind := model.KindUnavailable
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = model.KindTimeout
	}
	return &model.ProviderError{Source: source, Kind: kind, Err: err}
}

// malformed wraps a decode failure.
func malformed(source string, err error) *model.ProviderError {
	return &model.ProviderError{Source: source, Kind: model.KindMalformed, Err: err}
}

// authError is returned before any network call when credentials are missing.
func authError(source string, err error) *model.ProviderError {
	return &model.ProviderError{Source: source, Kind: model.KindAuth, Err: err}
}

// clampLimit bounds a caller-supplied result cap to [1, providerMax],
// defaulting to providerMax when unset.
func clampLimit(limit, providerMax int) int {
	if limit <= 0 || limit > providerMax {
		return providerMax
	}
	return limit
}
