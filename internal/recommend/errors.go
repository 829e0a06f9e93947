package recommend

import (
	"fmt"
	"strings"
)

// ValidationError reports an input that failed a schema constraint. It is
// always returned before any provider call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// OutputSchemaViolation reports a provider payload that does not match the
// declared output schema. The orchestrator never retries; the caller may
// re-run the whole operation.
type OutputSchemaViolation struct {
	Schema string
	Err    error
}

func (e *OutputSchemaViolation) Error() string {
	return fmt.Sprintf("output does not match schema %q: %v", e.Schema, e.Err)
}

func (e *OutputSchemaViolation) Unwrap() error { return e.Err }

// ProviderErrorKind classifies a provider failure for callers that want to
// decide their own retry policy.
type ProviderErrorKind string

const (
	ProviderRateLimited ProviderErrorKind = "rate_limited"
	ProviderServerError ProviderErrorKind = "server_error"
	ProviderTransport   ProviderErrorKind = "transport"
)

// ProviderError reports a transport or provider failure (timeout, network,
// rate limit, upstream error). Surfaced verbatim; never retried internally.
type ProviderError struct {
	Kind ProviderErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider failure (%s): %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// EmptyOutputError reports that a mode with a fatal empty-output policy got
// nothing back from the provider.
type EmptyOutputError struct {
	Mode Mode
}

func (e *EmptyOutputError) Error() string {
	return fmt.Sprintf("%s: provider returned no recommendations", e.Mode)
}

// MandatoryFieldMissingError reports which mandatory analysis fields the
// provider omitted. An incomplete analysis is a contract violation, not a
// no-results state.
type MandatoryFieldMissingError struct {
	Fields []string
}

func (e *MandatoryFieldMissingError) Error() string {
	return fmt.Sprintf("analysis output missing mandatory field(s): %s", strings.Join(e.Fields, ", "))
}

func boundsError(field string, got, lo, hi float64) error {
	return fmt.Errorf("%s out of range: got %v, want [%v,%v]", field, got, lo, hi)
}
