package profile

import "fmt"

// Reason says which part of the args library could not be used.
type Reason int

const (
	ReasonLoad Reason = iota
	ReasonMalformed
	ReasonMissingCommon
	ReasonUnmappedPlatform
	ReasonUnsupportedValue
)

func (r Reason) String() string {
	switch r {
	case ReasonLoad:
		return "load"
	case ReasonMalformed:
		return "malformed"
	case ReasonMissingCommon:
		return "missing common scope"
	case ReasonUnmappedPlatform:
		return "unmapped platform"
	case ReasonUnsupportedValue:
		return "unsupported value type"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// ConfigurationError reports an args library that cannot be turned into gn
// arguments. Every failure of this package is a *ConfigurationError.
type ConfigurationError struct {
	Reason  Reason
	Scope   string
	Key     string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error: " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErrorf(reason Reason, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}
