// Package fallback maps generation failures to the fixed user-facing text
// shown in their place. Raw backend errors never reach the end user.
package fallback

import "github.com/zhouzirui/zenstellar/backend/internal/service/ai"

const (
	ChatUnavailable = "The stars are silent right now. (Check API Key Configuration)"
	ChatFault       = "My connection to the astral plane is weak. Please try again later."
	ChatEmpty       = "The wind blows, but brings no words."
	ChatBusy        = "The sage is still contemplating your previous question. Please wait a moment."

	FortuneUnavailable = "Unable to read the stars."
	FortuneFault       = "The stars are currently aligned in a way that prevents me from seeing clearly. Please try again."
	FortuneEmpty       = "The stars are clouded."
)

// Chat returns the text to display for a chat turn.
func Chat(r ai.Result) string {
	switch r.Failure {
	case ai.FailureNone:
		return r.Text
	case ai.FailureMissingCredential, ai.FailureClientUnavailable:
		return ChatUnavailable
	case ai.FailureBusy:
		return ChatBusy
	case ai.FailureEmpty:
		return ChatEmpty
	default:
		return ChatFault
	}
}

// Fortune returns the text to display for a fortune request.
func Fortune(r ai.Result) string {
	switch r.Failure {
	case ai.FailureNone:
		return r.Text
	case ai.FailureMissingCredential, ai.FailureClientUnavailable:
		return FortuneUnavailable
	case ai.FailureEmpty:
		return FortuneEmpty
	default:
		return FortuneFault
	}
}

// Image returns the data URI to display, or nil when there is no image.
func Image(r ai.ImageResult) *string {
	if !r.OK() {
		return nil
	}
	uri := r.DataURI
	return &uri
}
