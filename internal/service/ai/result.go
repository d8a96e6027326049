package ai

import "errors"

// Failure is the closed set of reasons a generation call did not produce content.
type Failure string

const (
	FailureNone              Failure = ""
	FailureMissingCredential Failure = "missing_credential"
	FailureClientUnavailable Failure = "client_unavailable"
	FailureBusy              Failure = "busy"
	FailureBackend           Failure = "backend"
	FailureEmpty             Failure = "empty"
	FailureNoImage           Failure = "no_image"
)

// Result carries generated text or the reason there is none.
type Result struct {
	Text    string
	Failure Failure
	Err     error
}

// OK reports whether the backend produced usable text.
func (r Result) OK() bool {
	return r.Failure == FailureNone
}

// ImageResult carries an inline image as a data URI, or the reason there is none.
// Prompt is the pool entry that was sent, set whenever a request was attempted.
type ImageResult struct {
	DataURI string
	Prompt  string
	Failure Failure
	Err     error
}

// OK reports whether an image was produced.
func (r ImageResult) OK() bool {
	return r.Failure == FailureNone && r.DataURI != ""
}

// failureFor classifies errors returned while acquiring the backend.
func failureFor(err error) Failure {
	if errors.Is(err, ErrMissingCredential) {
		return FailureMissingCredential
	}
	return FailureClientUnavailable
}
