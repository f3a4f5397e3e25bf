package calculation

import "fmt"

// ConfigurationError reports a scenario that references rules or settings
// the engine does not carry, such as an unknown tax-year ruleset. It is a
// hard failure distinct from validation warnings.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

func newConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
