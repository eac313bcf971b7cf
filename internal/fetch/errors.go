package fetch

import (
	"fmt"
	"net/http"
)

// maxDiagnosticBody bounds how much of an unparseable response body is kept
// for diagnostics.
const maxDiagnosticBody = 1024

// ConfigError reports a missing credential or base URL. Fatal, never retried.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Field)
}

// AuthError reports a 401/403 from the provider. Fatal per fetch call, never
// retried.
type AuthError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s auth error %d: %s", e.Provider, e.StatusCode, e.Body)
}

// TransientError reports a failure expected to succeed on retry: connection
// failures, timeouts, and HTTP 429/408/5xx. Collapsed by the retry loop; a
// caller only sees it once the retry budget is exhausted.
type TransientError struct {
	Provider   string
	StatusCode int // 0 for connection-level failures
	Header     http.Header
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s transient http %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s transient: %v", e.Provider, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// DeserializationError reports a response body that could not be parsed as
// the expected shape. Body is truncated to maxDiagnosticBody.
type DeserializationError struct {
	Provider string
	Err      error
	Body     string
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("%s bad response body: %v", e.Provider, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// ValidationError reports invalid fetch arguments (blank symbol, inverted
// date range). Fatal for the call, never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// isTransientStatus reports whether an HTTP status should trigger a retry.
func isTransientStatus(code int) bool {
	return code == 429 || code == 408 || code >= 500
}

// truncate bounds s to n bytes for log and error payloads.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
