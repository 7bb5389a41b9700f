package triage

import (
	"fmt"
	"strings"
)

// UnrecognizedInputError is returned when an intake cannot be normalized
// into any tags or attributes at all. The caller should re-prompt the user
// rather than emit a verdict.
type UnrecognizedInputError struct {
	Input     string
	Unmatched []string
}

func (e *UnrecognizedInputError) Error() string {
	if len(e.Unmatched) > 0 {
		return fmt.Sprintf("unrecognized input: no known symptoms or attributes (unmatched terms: %s)",
			strings.Join(e.Unmatched, ", "))
	}
	return "unrecognized input: no known symptoms or attributes"
}

// ConfigError reports a malformed rule table, vocabulary, or other static
// configuration. It is fatal: the pipeline must not start with it pending.
type ConfigError struct {
	Source string // file path or logical section, e.g. "rules"
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("configuration %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("configuration: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
