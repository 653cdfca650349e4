package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies where in the pipeline a failure happened.
type Kind string

const (
	KindValidation Kind = "validation"
	KindDecode     Kind = "decode"
	KindPreprocess Kind = "preprocess"
	KindInference  Kind = "inference"
	KindIO         Kind = "io"
)

// Class is the caller-facing classification of a failure.
type Class string

const (
	ClassValidation Class = "ValidationError"
	ClassProcessing Class = "ProcessingError"
)

// Pipeline steps reported by PipelineError.Step
const (
	StepReceive   = "receive"
	StepStage     = "stage"
	StepDecode    = "decode"
	StepResample  = "resample"
	StepDownmix   = "downmix"
	StepNormalize = "normalize"
	StepEncode    = "encode"
	StepInference = "inference"
	StepCleanup   = "cleanup"
)

// Sentinel errors usable with errors.Is
var (
	ErrValidation = &PipelineError{Kind: KindValidation}
	ErrDecode     = &PipelineError{Kind: KindDecode}
	ErrPreprocess = &PipelineError{Kind: KindPreprocess}
	ErrInference  = &PipelineError{Kind: KindInference}
	ErrIO         = &PipelineError{Kind: KindIO}
)

// PipelineError represents a failure of one pipeline stage
type PipelineError struct {
	Kind    Kind
	Step    string
	Message string
	cause   error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind) + " failure"
	}
	if e.Step != "" {
		msg = fmt.Sprintf("%s: %s", e.Step, msg)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.cause
}

// Is matches another PipelineError of the same kind. A target with a Step
// only matches errors raised by that step.
func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Step == "" || t.Step == e.Step
}

// Class maps the kind onto the client/server split.
func (e *PipelineError) Class() Class {
	if e.Kind == KindValidation {
		return ClassValidation
	}
	return ClassProcessing
}

// Public returns the message that is safe to hand back to a caller.
func (e *PipelineError) Public() string {
	if e.Kind == KindValidation && e.Message != "" {
		return e.Message
	}
	return e.Error()
}

func newError(kind Kind, step string, cause error, format string, args ...interface{}) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Step:    step,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

// Validation creates a ValidationError; it is never wrapped around a cause.
func Validation(format string, args ...interface{}) *PipelineError {
	return newError(KindValidation, StepReceive, nil, format, args...)
}

// Decode wraps a failure to read the input container or codec.
func Decode(cause error, format string, args ...interface{}) *PipelineError {
	return newError(KindDecode, StepDecode, cause, format, args...)
}

// Preprocess wraps a failure in one of the resample/downmix/normalize/encode steps.
func Preprocess(step string, cause error, format string, args ...interface{}) *PipelineError {
	return newError(KindPreprocess, step, cause, format, args...)
}

// Inference wraps a recognition engine failure.
func Inference(cause error, format string, args ...interface{}) *PipelineError {
	return newError(KindInference, StepInference, cause, format, args...)
}

// IO wraps a staging or cleanup filesystem failure.
func IO(step string, cause error, format string, args ...interface{}) *PipelineError {
	return newError(KindIO, step, cause, format, args...)
}

// As returns the PipelineError in err's chain, if any.
func As(err error) (*PipelineError, bool) {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	if pe, ok := As(err); ok {
		return pe.Kind
	}
	return ""
}

// IsValidation checks if an error is a client-side validation error
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// Classify wraps errors that escaped a stage without a kind. Untyped errors
// are treated as processing failures of the given step.
func Classify(err error, kind Kind, step string) *PipelineError {
	if err == nil {
		return nil
	}
	if pe, ok := As(err); ok {
		return pe
	}
	return newError(kind, step, err, "%s failed", step)
}
