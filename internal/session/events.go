package session

import "github.com/quizrun/quizrun-backend/internal/model"

// EventType enumerates the notifications a session pushes to its stream.
type EventType string

const (
	// EventAnswered fires immediately on a recorded submission.
	EventAnswered EventType = "answered"
	// EventAdvanced fires when the delayed transition moves to the next question.
	EventAdvanced EventType = "advanced"
	// EventScored fires when the delayed transition finalizes the quiz.
	EventScored EventType = "scored"
	// EventPracticeComplete fires when the practice pass runs out of questions.
	EventPracticeComplete EventType = "practice_complete"
	// EventRestarted fires when the session re-samples and starts over.
	EventRestarted EventType = "restarted"
	// EventClosed is the final event before the stream shuts down.
	EventClosed EventType = "closed"
)

// Event is one session notification. Which fields are set depends on Type.
type Event struct {
	Type          EventType            `json:"event"`
	QuestionIndex int                  `json:"question_index"`
	Correct       *bool                `json:"correct,omitempty"`
	Score         int                  `json:"score"`
	Total         int                  `json:"total"`
	WrongCount    int                  `json:"wrong_count,omitempty"`
	Record        *model.AttemptRecord `json:"record,omitempty"`
}
