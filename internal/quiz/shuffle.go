package quiz

import (
	"math/rand"

	"github.com/quizrun/quizrun-backend/internal/model"
)

// SourceSet is one quiz file's questions tagged with the file it came from,
// used when a whole folder is combined into a single pool.
type SourceSet struct {
	Name      string
	Questions []model.Question
}

// ShuffleSlice returns a fresh copy of items in uniformly random order using
// a reverse Fisher-Yates pass. The input slice is never modified.
func ShuffleSlice[T any](r *rand.Rand, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// ShuffleAnswers returns a copy of q with its answers reordered and
// CorrectAnswer pointing at the relocated correct text.
//
// Answer texts within one question are expected to be unique. If a quiz file
// violates that, the first occurrence of the correct text wins; the result is
// still a valid index, never -1.
func ShuffleAnswers(r *rand.Rand, q model.Question) model.Question {
	correctText := q.Answers[q.CorrectAnswer]

	shuffled := ShuffleSlice(r, q.Answers)

	for i, answer := range shuffled {
		if answer == correctText {
			q.CorrectAnswer = i
			break
		}
	}
	q.Answers = shuffled
	return q
}

// ShuffleQuestions reorders the answers inside every question and then the
// questions themselves. It is the single randomization entry point for both
// initial load and restart, and always returns a new slice.
func ShuffleQuestions(r *rand.Rand, questions []model.Question) []model.Question {
	withShuffledAnswers := make([]model.Question, len(questions))
	for i, q := range questions {
		withShuffledAnswers[i] = ShuffleAnswers(r, q)
	}
	return ShuffleSlice(r, withShuffledAnswers)
}

// SamplePool shuffles the full pool and truncates it to limit questions.
// A limit of zero, a negative limit, or a limit larger than the pool serves
// the whole pool; an oversized limit clamps rather than errors.
func SamplePool(r *rand.Rand, pool []model.Question, limit int) []model.Question {
	shuffled := ShuffleQuestions(r, pool)
	if limit <= 0 || limit > len(shuffled) {
		return shuffled
	}
	return shuffled[:limit]
}

// Concat merges several quiz files into one pool, tagging every question
// with the file it came from. Order is preserved; shuffling happens later
// through SamplePool.
func Concat(sets []SourceSet) []model.Question {
	var pool []model.Question
	for _, set := range sets {
		for _, q := range set.Questions {
			q.SourceQuiz = set.Name
			pool = append(pool, q)
		}
	}
	return pool
}
