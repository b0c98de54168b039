package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies pipeline failures.
type ErrorCode string

// Extraction has no code of its own: a segment that fails to parse is
// counted in the page summary, never raised as an error.
const (
	ErrCodeValidation  ErrorCode = "validation"
	ErrCodeConfig      ErrorCode = "config"
	ErrCodeConversion  ErrorCode = "conversion"
	ErrCodeRecognition ErrorCode = "recognition"
	ErrCodeIO          ErrorCode = "io"
)

// DomainError carries an error code, a human-readable message and the
// wrapped cause, if any.
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Cause }

// Is matches two domain errors by code so callers can test categories
// with errors.Is and a bare-code sentinel.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return de.Code == e.Code && (de.Message == "" || de.Message == e.Message)
}

func newError(code ErrorCode, msg string, cause error) error {
	return &DomainError{Code: code, Message: msg, Cause: cause}
}

// ValidationError reports invalid caller input.
func ValidationError(msg string, cause error) error { return newError(ErrCodeValidation, msg, cause) }

// ConfigError reports broken or missing configuration.
func ConfigError(msg string, cause error) error { return newError(ErrCodeConfig, msg, cause) }

// ConversionError reports a rasterization failure. Conversion errors
// are the only fatal class in the pipeline.
func ConversionError(msg string, cause error) error { return newError(ErrCodeConversion, msg, cause) }

// RecognitionError reports an OCR engine failure on one page.
func RecognitionError(msg string, cause error) error {
	return newError(ErrCodeRecognition, msg, cause)
}

// IOError reports a filesystem failure.
func IOError(msg string, cause error) error { return newError(ErrCodeIO, msg, cause) }

// CodeOf returns the error code of err, or the empty code when err is
// not a DomainError.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
