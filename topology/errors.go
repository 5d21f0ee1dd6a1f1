package topology

import (
	"errors"
	"fmt"
)

// ConfigurationError reports malformed or missing static configuration. It is never retryable and
// is always raised before any ledger interaction.
type ConfigurationError struct {
	// Endpoint is zero when the error is not specific to one endpoint.
	Endpoint EndpointID
	Field    string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Endpoint == 0 {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
	}

	return fmt.Sprintf("configuration error: endpoint %d: %s: %s", e.Endpoint, e.Field, e.Reason)
}

func configErr(eid EndpointID, field string, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Endpoint: eid, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cerr *ConfigurationError

	return errors.As(err, &cerr)
}
