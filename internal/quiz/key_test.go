package quiz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quizrun/quizrun-backend/internal/quiz"
)

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name   string
		folder string
		file   string
		limit  int
		want   string
	}{
		{"folder and file", "sns", "q1.json", 0, "sns/q1.json"},
		{"no folder", "", "q1.json", 0, "q1.json"},
		{"quick variant", "sns", "q1.json", 20, "sns/q1.json__quick__"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quiz.DeriveKey(tt.folder, tt.file, tt.limit))
		})
	}
}

func TestDeriveFolderKey(t *testing.T) {
	tests := []struct {
		name   string
		folder string
		limit  int
		mode   string
		want   string
	}{
		{"full test", "sns", 0, "Full Quiz", "sns/__full_test__"},
		{"random 20", "sns", 20, "Random 20", "sns/__random_20__"},
		{"sample test", "sna", 50, "Sample Test", "sna/__sample_test__"},
		{"limit without mode name", "sns", 20, "", "sns/__full_test__"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quiz.DeriveFolderKey(tt.folder, tt.limit, tt.mode))
		})
	}
}

func TestKeyVariantsDoNotCollide(t *testing.T) {
	full := quiz.DeriveKey("sns", "q1.json", 0)
	quick := quiz.DeriveKey("sns", "q1.json", 20)
	assert.NotEqual(t, full, quick, "mode variants must keep separate history")
}
