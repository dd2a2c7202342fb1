package sim

import "fmt"

// ConfigError reports a parameter that makes a component impossible to build.
// It is only produced while setting up a simulation.
type ConfigError struct {
	Component string
	Field     string
	Reason    string
}

// NewConfigError creates a ConfigError with a formatted reason.
func NewConfigError(
	component, field string,
	format string, args ...any,
) *ConfigError {
	return &ConfigError{
		Component: component,
		Field:     field,
		Reason:    fmt.Sprintf(format, args...),
	}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Component, e.Field, e.Reason)
}

// Log2 returns the log2 of a number. It also returns false if the number is
// not a power of two.
func Log2(n uint64) (uint64, bool) {
	oneCount := 0
	onePos := uint64(0)

	for i := uint64(0); i < 64; i++ {
		if n&(1<<i) > 0 {
			onePos = i
			oneCount++
		}
	}

	return onePos, oneCount == 1
}

// IsPowerOfTwo checks if n is a positive power of two.
func IsPowerOfTwo(n uint64) bool {
	_, ok := Log2(n)
	return ok
}
