package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderUnavailable is returned when no API credential is configured
	// for the provider that was asked to generate
	ErrProviderUnavailable = errors.New("ai provider not configured")

	// ErrEmptyResponse is returned when a provider answered with an empty body
	ErrEmptyResponse = errors.New("ai provider returned empty response")
)

// ProviderError is a non-2xx or transport-level failure from a provider.
// It carries the upstream status and body for logging; callers map it to a
// generic failure response.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s request failed: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// MalformedResponseError is returned when the provider envelope is missing
// the expected nested field or the inner text does not parse as a recipe.
type MalformedResponseError struct {
	Provider string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s returned malformed response: %s", e.Provider, e.Reason)
}
