package config

import "fmt"

// ConfigurationError reports a malformed or missing configuration document.
// It is fatal: callers abort before any scoring starts.
type ConfigurationError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	prefix := "configuration error"
	if e.Path != "" {
		prefix = fmt.Sprintf("configuration error in %s", e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
