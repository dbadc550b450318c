package model

// AttemptRecord is one completed quiz attempt. Records are immutable once
// written: the history log only ever appends, or drops a whole key.
type AttemptRecord struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Percentage     int    `json:"percentage"`
	Timestamp      string `json:"timestamp"` // ISO-8601
	AttemptNumber  int    `json:"attemptNumber"`
}
