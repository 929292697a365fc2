package config

import "fmt"

// ConfigurationError reports a missing or unusable configuration value. It
// is fatal and raised before any remote call or sheet mutation.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Field, e.Reason)
}
