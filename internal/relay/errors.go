package relay

import "fmt"

// Kind classifies an upstream completion failure.
type Kind string

const (
	KindBadRequest  Kind = "bad_request"
	KindAuth        Kind = "auth"
	KindCredits     Kind = "credits"
	KindModeration  Kind = "moderation"
	KindTimeout     Kind = "timeout"
	KindRateLimited Kind = "rate_limited"
	KindUnavailable Kind = "upstream_unavailable"
	KindOther       Kind = "other"
)

// APIError is a classified upstream failure. Callers pick the client-facing
// rendering; Message may contain upstream detail and is safe for logs only.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream completion error (%s, status %d): %s", e.Kind, e.Status, e.Message)
}

// HTTPStatus maps the error onto the status returned to the chat client.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return 400
	case KindAuth:
		return 401
	case KindCredits:
		return 402
	case KindModeration:
		return 403
	case KindTimeout:
		return 408
	case KindRateLimited:
		return 429
	default:
		return 502
	}
}

// UserMessage is the text shown in the chat for this failure class.
func (e *APIError) UserMessage() string {
	switch e.Kind {
	case KindBadRequest:
		return "The request was rejected by the model backend. Please rephrase and try again."
	case KindAuth:
		return "Authentication with the model backend failed."
	case KindCredits:
		return "The model backend reported insufficient credits."
	case KindModeration:
		return "The request was flagged by the model backend's moderation."
	case KindTimeout:
		return "The model backend timed out. Please try again."
	case KindRateLimited:
		return "Too many requests. Please slow down and try again shortly."
	default:
		return "The model backend is currently unavailable. Please try again later."
	}
}

func classify(status int, message string) *APIError {
	e := &APIError{Status: status, Message: message}
	switch status {
	case 400:
		e.Kind = KindBadRequest
	case 401:
		e.Kind = KindAuth
	case 402:
		e.Kind = KindCredits
	case 403:
		e.Kind = KindModeration
	case 408:
		e.Kind = KindTimeout
	case 429:
		e.Kind = KindRateLimited
	case 502, 503:
		e.Kind = KindUnavailable
	default:
		e.Kind = KindOther
	}
	return e
}
