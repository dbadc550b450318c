package model

// StartSessionRequest is the hand-off payload selecting what to play.
// Exactly one of the two forms must be present: a single quiz
// (SelectedQuiz set) or a combined-folder shuffle (ShuffleFolder true).
// Field names mirror the quiz-file clients that produce this payload.
type StartSessionRequest struct {
	// Single-quiz form.
	SelectedQuiz string `json:"selectedQuiz" binding:"omitempty,max=255"`
	FolderPath   string `json:"folderPath" binding:"omitempty,max=255"`
	QuizModeName string `json:"quizModeName" binding:"omitempty,max=64"`

	// Combined-folder form.
	ShuffleFolder   bool     `json:"shuffleFolder"`
	FolderName      string   `json:"folderName" binding:"omitempty,max=255"`
	QuizFiles       []string `json:"quizFiles" binding:"omitempty,dive,max=255"`
	ShuffleModeName string   `json:"shuffleModeName" binding:"omitempty,max=64"`

	// Optional cap on the shuffled pool; 0 means play everything.
	QuestionLimit int `json:"questionLimit" binding:"omitempty,min=1,max=1000"`
}

// SubmitAnswerRequest carries an answer submission. Index is the chosen
// answer position; Digit is the keyboard-shortcut form (1-4) and is mapped
// onto the same submission path.
type SubmitAnswerRequest struct {
	Index *int `json:"index" binding:"omitempty,min=0,max=31"`
	Digit *int `json:"digit" binding:"omitempty,min=1,max=4"`
}
