package websocket

import "github.com/quizrun/quizrun-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSubmit      Action = "submit"
	ActionSubmitDigit Action = "submit_digit"
	ActionPing        Action = "ping"
)

// RequestPayload is the single inbound message shape: the action tag plus
// whichever field that action needs. Absent fields stay nil.
type RequestPayload struct {
	Action Action `json:"action"`
	// ActionSubmit: answer index for the current question.
	Index *int `json:"index,omitempty"`
	// ActionSubmitDigit: keyboard digit (1-4).
	Digit *int `json:"digit,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError            Event = "error"
	EventAnswered         Event = "answered"
	EventAdvanced         Event = "advanced"
	EventScored           Event = "scored"
	EventPracticeComplete Event = "practice_complete"
	EventRestarted        Event = "restarted"
	EventClosed           Event = "closed"
	EventIgnored          Event = "ignored"
	EventPong             Event = "pong"
)

// AnsweredResponse acknowledges a submission with its verdict.
type AnsweredResponse struct {
	Event         Event `json:"event"`
	QuestionIndex int   `json:"question_index"`
	Correct       bool  `json:"correct"`
	Score         int   `json:"score"`
	Total         int   `json:"total"`
}

// AdvancedResponse announces the move to the next question after the
// post-answer delay.
type AdvancedResponse struct {
	Event         Event `json:"event"`
	QuestionIndex int   `json:"question_index"`
	Score         int   `json:"score"`
	Total         int   `json:"total"`
}

// ScoredResponse carries the final result, including the attempt record
// persisted to history when one was written.
type ScoredResponse struct {
	Event      Event                `json:"event"`
	Score      int                  `json:"score"`
	Total      int                  `json:"total"`
	WrongCount int                  `json:"wrong_count"`
	Record     *model.AttemptRecord `json:"record,omitempty"`
}

// PracticeCompleteResponse ends a practice pass over the wrong answers.
type PracticeCompleteResponse struct {
	Event Event `json:"event"`
	Score int   `json:"score"`
	Total int   `json:"total"`
}

// RestartedResponse announces a fresh run over a re-sampled question set.
type RestartedResponse struct {
	Event Event `json:"event"`
	Total int   `json:"total"`
}

// ClosedResponse is the final message before the server closes the stream.
type ClosedResponse struct {
	Event Event `json:"event"`
}

// IgnoredResponse reports a digit shortcut that was dropped (wrong phase,
// already answered, or digit beyond the answer count).
type IgnoredResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
