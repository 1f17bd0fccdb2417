package scene

import "fmt"

// ConfigError is a fatal-at-construction configuration problem: an
// unreferenced medium name, malformed parameters, non-positive bounds, or
// contradictory grid specifications (spec.md §7, error kind 1). It carries
// a short source-location-ish context string the way the teacher's loader
// errors carry a file/field name.
type ConfigError struct {
	Context string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scene: %s: %v", e.Context, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func newConfigError(context, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Context: context, Err: fmt.Errorf(format, args...)}
}
