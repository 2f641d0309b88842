package commonModels

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindUnsupportedURL      ErrorKind = "unsupported_url"
	KindUnsupportedFileType ErrorKind = "unsupported_file_type"
	KindExtractionFailed    ErrorKind = "extraction_failed"
	KindDimensionMismatch   ErrorKind = "dimension_mismatch"
	KindServiceUnavailable  ErrorKind = "service_unavailable"
	KindNotFound            ErrorKind = "not_found"
	KindEmptyMessage        ErrorKind = "empty_message"
)

// PipelineError is a tagged pipeline failure. Callers branch on Kind, users
// see Message; failure text never travels in an answer or extraction field.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func NewPipelineError(kind ErrorKind, message string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the pipeline error kind, or "" for plain errors.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
