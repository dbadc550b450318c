package model

// Question is a single multiple-choice question as stored in a quiz file.
// Answers always has at least two entries and CorrectAnswer indexes into it.
// SourceQuiz is set only when the question came from a combined-folder pool.
type Question struct {
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer int      `json:"correct_answer"`
	SourceQuiz    string   `json:"sourceQuiz,omitempty"`
}
