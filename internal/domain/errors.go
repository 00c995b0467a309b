package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind classifies a pipeline failure. Use cases translate raw
// gateway errors into exactly one of these kinds.
type ErrorKind string

const (
	// KindFormatInvalid marks an entity or request invariant violation. Fatal, never retried.
	KindFormatInvalid ErrorKind = "format_invalid"

	// KindDownloadFailed marks an unreachable or unsupported source. Transient.
	KindDownloadFailed ErrorKind = "download_failed"

	// KindProcessingFailed marks an audio/video extraction failure. Not retried.
	KindProcessingFailed ErrorKind = "processing_failed"

	// KindProviderUnavailable marks an AI backend that is unreachable or erroring. Transient.
	KindProviderUnavailable ErrorKind = "provider_unavailable"

	// KindConfigurationInvalid marks bad or missing configuration. Fatal, surfaced at startup.
	KindConfigurationInvalid ErrorKind = "configuration_invalid"
)

// Error is the single error type surfaced by the pipeline. It carries a
// kind for exhaustive handling, a structured detail map, and an optional
// underlying cause reachable through errors.Unwrap.
type Error struct {
	Kind    ErrorKind
	Message string
	Details map[string]string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", k, e.Details[k])
		}
		b.WriteString(")")
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is match on kind so callers can compare against a
// bare &Error{Kind: ...} sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError creates an Error with the given kind and message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message, Details: map[string]string{}}
}

// WithDetail attaches a structured detail entry and returns the error.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = map[string]string{}
	}
	e.Details[key] = value
	return e
}

// WithCause attaches the underlying cause and returns the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// FormatInvalid reports a violated entity or request constraint.
func FormatInvalid(field, value, constraint string) *Error {
	return NewError(KindFormatInvalid, fmt.Sprintf("invalid %s", field)).
		WithDetail("field", field).
		WithDetail("value", value).
		WithDetail("constraint", constraint)
}

// DownloadFailed reports a source that could not be downloaded or inspected.
func DownloadFailed(source, reason string, cause error) *Error {
	return NewError(KindDownloadFailed, reason).
		WithDetail("source", source).
		WithDetail("reason", reason).
		WithCause(cause)
}

// ProcessingFailed reports an audio/video extraction failure.
func ProcessingFailed(stage, reason string, cause error) *Error {
	return NewError(KindProcessingFailed, reason).
		WithDetail("stage", stage).
		WithDetail("reason", reason).
		WithCause(cause)
}

// ProviderUnavailable reports an AI backend that is down or erroring.
func ProviderUnavailable(backend, reason string, cause error) *Error {
	return NewError(KindProviderUnavailable, reason).
		WithDetail("backend", backend).
		WithDetail("reason", reason).
		WithCause(cause)
}

// ConfigurationInvalid reports bad or missing configuration.
func ConfigurationInvalid(reason string) *Error {
	return NewError(KindConfigurationInvalid, reason).
		WithDetail("reason", reason)
}

// KindOf returns the kind of err, or empty string if err is not a pipeline Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsTransient reports whether err is eligible for automatic retry.
func IsTransient(err error) bool {
	switch KindOf(err) {
	case KindDownloadFailed, KindProviderUnavailable:
		return true
	}
	return false
}
