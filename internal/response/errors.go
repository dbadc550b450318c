package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Catalog ───────────────────────────────────────────────────────
	ErrQuizLoadFailed ErrCode = "QUIZ_LOAD_FAILED"
	ErrQuizInvalid    ErrCode = "QUIZ_DATA_INVALID"

	// ─── Session ───────────────────────────────────────────────────────
	ErrNoQuizSelected  ErrCode = "NO_QUIZ_SELECTED"
	ErrSessionNotFound ErrCode = "SESSION_NOT_FOUND"
	ErrSessionErrored  ErrCode = "SESSION_ERRORED"
	ErrAlreadyAnswered ErrCode = "ALREADY_ANSWERED"
	ErrNotAnswerable   ErrCode = "NOT_ANSWERABLE"
	ErrInvalidAnswer   ErrCode = "INVALID_ANSWER"
	ErrWrongPhase      ErrCode = "WRONG_PHASE"
	ErrNoWrongAnswers  ErrCode = "NO_WRONG_ANSWERS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Catalog ───────────────────────────────────────────────────────
	case ErrQuizLoadFailed:
		return "Failed to load quiz. Please try again."
	case ErrQuizInvalid:
		return "The quiz file is malformed."

	// ─── Session ───────────────────────────────────────────────────────
	case ErrNoQuizSelected:
		return "No quiz selected. Return to the quiz list and pick one."
	case ErrSessionNotFound:
		return "Quiz session not found or expired."
	case ErrSessionErrored:
		return "This session failed to load its quiz."
	case ErrAlreadyAnswered:
		return "The current question has already been answered."
	case ErrNotAnswerable:
		return "Answers are not accepted in the current state."
	case ErrInvalidAnswer:
		return "The answer index is out of range for this question."
	case ErrWrongPhase:
		return "This action is not allowed in the session's current state."
	case ErrNoWrongAnswers:
		return "Great job! You got all questions correct."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
