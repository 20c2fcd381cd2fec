package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the external API boundary. Every failure talking to a
// provider is wrapped into exactly one of these before it leaves the service
// layer, so handlers can map them to HTTP statuses and user guidance without
// inspecting transport details.
var (
	// ErrTransport covers network failures, timeouts, and provider-side
	// outages (429/5xx). The user can simply retry the submission.
	ErrTransport = errors.New("could not reach the data provider")

	// ErrAuthentication covers 401/403 from a provider: the configured API
	// key is wrong or expired. Retrying will not help until it is fixed.
	ErrAuthentication = errors.New("data provider rejected the API key")

	// ErrInvalidResponse covers responses we received but cannot use: a 2xx
	// body missing the expected fields, or a 4xx where the provider signals
	// it has no data for the address.
	ErrInvalidResponse = errors.New("no data available for this address")

	// ErrDisabled is returned by optional integrations (utility data,
	// address autocomplete) when no API key was configured for them.
	ErrDisabled = errors.New("integration is not enabled (missing API key)")

	// ErrEmptyAddress is returned when a lookup arrives without an address.
	ErrEmptyAddress = errors.New("address must not be empty")
)

// Category returns the stable machine-readable category for an error from
// this package, for response bodies and history rows.
func Category(err error) string {
	switch {
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrDisabled):
		return "disabled"
	case errors.Is(err, ErrEmptyAddress):
		return "validation"
	default:
		return "internal"
	}
}

// classifyStatus maps a non-2xx provider status code onto the error taxonomy.
func classifyStatus(status int, body string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthentication, status)
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: status %d", ErrTransport, status)
	default:
		// 400/404/422: the provider understood us and explicitly has
		// nothing for this address.
		return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, status, truncate(body, 200))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
