package services

import "fmt"

// InvalidRequestError covers bad caller input and unextractable sources.
// Unlike generation failures it is surfaced to the caller, never masked by
// the fallback path.
type InvalidRequestError struct{ Message string }

func (e *InvalidRequestError) Error() string { return e.Message }

// Classification of AI generation failures. Every kind triggers the same
// fallback branch in the orchestrator; they are kept distinct for diagnosis.
const (
	GenErrQuotaExceeded       = "quota_exceeded"
	GenErrProviderUnavailable = "provider_unavailable"
	GenErrMalformedResponse   = "malformed_response"
	GenErrTimeout             = "timeout"
)

type GenerationError struct {
	Kind string
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quiz generation failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("quiz generation failed (%s)", e.Kind)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ExtractionError reports a failure to fetch or extract text from a source.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract content from %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
