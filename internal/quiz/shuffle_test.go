package quiz_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizrun/quizrun-backend/internal/model"
	"github.com/quizrun/quizrun-backend/internal/quiz"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func sampleQuestion() model.Question {
	return model.Question{
		Question:      "Which port does HTTPS use by default?",
		Answers:       []string{"80", "443", "22", "8080"},
		CorrectAnswer: 1,
	}
}

func samplePool(n int) []model.Question {
	pool := make([]model.Question, n)
	for i := range pool {
		pool[i] = model.Question{
			Question:      string(rune('A' + i%26)),
			Answers:       []string{"yes", "no"},
			CorrectAnswer: i % 2,
		}
	}
	return pool
}

func TestShuffleSlice_IsPermutation(t *testing.T) {
	original := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	input := append([]int(nil), original...)

	shuffled := quiz.ShuffleSlice(newRand(), input)

	assert.Equal(t, original, input, "input must not be mutated")
	require.Len(t, shuffled, len(original))

	sorted := append([]int(nil), shuffled...)
	sort.Ints(sorted)
	assert.Equal(t, original, sorted, "output must contain the same multiset")
}

func TestShuffleSlice_Empty(t *testing.T) {
	assert.Empty(t, quiz.ShuffleSlice(newRand(), []string{}))
}

func TestShuffleAnswers_RelocatesCorrectIndex(t *testing.T) {
	r := newRand()
	for i := 0; i < 50; i++ {
		q := sampleQuestion()
		shuffled := quiz.ShuffleAnswers(r, q)

		require.Len(t, shuffled.Answers, len(q.Answers))
		require.GreaterOrEqual(t, shuffled.CorrectAnswer, 0)
		require.Less(t, shuffled.CorrectAnswer, len(shuffled.Answers))
		assert.Equal(t, "443", shuffled.Answers[shuffled.CorrectAnswer],
			"correct answer text must survive relocation")
	}
}

func TestShuffleAnswers_DoesNotMutateOriginal(t *testing.T) {
	q := sampleQuestion()
	quiz.ShuffleAnswers(newRand(), q)

	assert.Equal(t, []string{"80", "443", "22", "8080"}, q.Answers)
	assert.Equal(t, 1, q.CorrectAnswer)
}

func TestShuffleAnswers_DuplicateTextFirstMatchWins(t *testing.T) {
	q := model.Question{
		Question:      "dup",
		Answers:       []string{"same", "same", "other"},
		CorrectAnswer: 1,
	}

	shuffled := quiz.ShuffleAnswers(newRand(), q)

	require.GreaterOrEqual(t, shuffled.CorrectAnswer, 0)
	assert.Equal(t, "same", shuffled.Answers[shuffled.CorrectAnswer])
	// First occurrence of the duplicate text is chosen.
	for i := 0; i < shuffled.CorrectAnswer; i++ {
		assert.NotEqual(t, "same", shuffled.Answers[i])
	}
}

func TestShuffleQuestions_PermutesAndKeepsInvariants(t *testing.T) {
	pool := samplePool(20)
	shuffled := quiz.ShuffleQuestions(newRand(), pool)

	require.Len(t, shuffled, len(pool))
	correctTexts := map[string]bool{"yes": true, "no": true}
	for _, q := range shuffled {
		require.Less(t, q.CorrectAnswer, len(q.Answers))
		assert.True(t, correctTexts[q.Answers[q.CorrectAnswer]])
	}
	// Original pool untouched.
	for i, q := range pool {
		assert.Equal(t, i%2, q.CorrectAnswer)
	}
}

func TestSamplePool_Truncates(t *testing.T) {
	pool := samplePool(100)

	sampled := quiz.SamplePool(newRand(), pool, 20)
	assert.Len(t, sampled, 20)
}

func TestSamplePool_ClampsOversizedLimit(t *testing.T) {
	pool := samplePool(5)

	assert.Len(t, quiz.SamplePool(newRand(), pool, 50), 5, "oversized limit serves the full pool")
	assert.Len(t, quiz.SamplePool(newRand(), pool, 0), 5, "zero limit serves the full pool")
	assert.Len(t, quiz.SamplePool(newRand(), pool, -1), 5)
}

func TestConcat_TagsSourceQuiz(t *testing.T) {
	pool := quiz.Concat([]quiz.SourceSet{
		{Name: "a.json", Questions: samplePool(2)},
		{Name: "b.json", Questions: samplePool(3)},
	})

	require.Len(t, pool, 5)
	assert.Equal(t, "a.json", pool[0].SourceQuiz)
	assert.Equal(t, "a.json", pool[1].SourceQuiz)
	assert.Equal(t, "b.json", pool[2].SourceQuiz)
	assert.Equal(t, "b.json", pool[4].SourceQuiz)
}
