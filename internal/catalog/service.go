package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizrun/quizrun-backend/internal/config"
	"github.com/quizrun/quizrun-backend/internal/model"
)

// ErrInvalidQuiz marks a quiz file that violates the question contract.
var ErrInvalidQuiz = errors.New("catalog: invalid quiz data")

// Service loads the folder index and question sets, validating the question
// contract and keeping parsed payloads in a Redis cache-aside so repeated
// session starts skip the source entirely.
type Service struct {
	source Source
	rdb    *redis.Client
	log    zerolog.Logger
}

// NewService creates a catalog Service. rdb may be nil, in which case every
// read goes straight to the source.
func NewService(source Source, rdb *redis.Client, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		rdb:    rdb,
		log:    log.With().Str("component", "catalog").Logger(),
	}
}

// Folders returns the folder index.
func (s *Service) Folders(ctx context.Context) ([]model.Folder, error) {
	raw, err := s.cachedFetch(ctx, config.CacheKey.FolderIndexKey(), s.source.Index)
	if err != nil {
		return nil, err
	}

	var index model.FolderIndex
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return index.Folders, nil
}

// QuestionSet loads and validates one quiz file's questions.
func (s *Service) QuestionSet(ctx context.Context, folderID, filename string) ([]model.Question, error) {
	key := config.CacheKey.QuizPayloadKey(folderID, filename)

	raw, err := s.cachedFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.source.QuizFile(ctx, folderID, filename)
	})
	if err != nil {
		return nil, err
	}

	var questions []model.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("parse quiz %s/%s: %w", folderID, filename, err)
	}

	if err := s.validate(folderID, filename, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Prewarm loads every quiz file listed in the index into the cache. Called
// once on startup so the first session start never pays the parse cost.
func (s *Service) Prewarm(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}

	folders, err := s.Folders(ctx)
	if err != nil {
		return fmt.Errorf("prewarm index: %w", err)
	}

	warmed := 0
	for _, folder := range folders {
		for _, file := range folder.Files {
			if _, err := s.QuestionSet(ctx, folder.ID, file); err != nil {
				s.log.Warn().Err(err).
					Str("folder", folder.ID).
					Str("file", file).
					Msg("Prewarm skipped quiz")
				continue
			}
			warmed++
		}
	}

	s.log.Info().Int("quizzes", warmed).Msg("Catalog cache warmed")
	return nil
}

// cachedFetch is the cache-aside path: Redis hit wins, misses go to the
// source and self-heal the cache. Cache faults degrade to source reads.
func (s *Service) cachedFetch(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed, falling back to source")
		}
	}

	raw, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}
	return raw, nil
}

// validate enforces the question-set contract: at least one question, every
// question at least two answers, correct index in range. Duplicate answer
// text is a data-quality warning, not a rejection: shuffle resolves it
// first-match-wins.
func (s *Service) validate(folderID, filename string, questions []model.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: %s/%s has no questions", ErrInvalidQuiz, folderID, filename)
	}

	for i, q := range questions {
		if len(q.Answers) < 2 {
			return fmt.Errorf("%w: %s/%s question %d has %d answers", ErrInvalidQuiz, folderID, filename, i, len(q.Answers))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Answers) {
			return fmt.Errorf("%w: %s/%s question %d correct_answer %d out of range", ErrInvalidQuiz, folderID, filename, i, q.CorrectAnswer)
		}

		seen := make(map[string]bool, len(q.Answers))
		for _, answer := range q.Answers {
			if seen[answer] {
				s.log.Warn().
					Str("folder", folderID).
					Str("file", filename).
					Int("question", i).
					Msg("Duplicate answer text; shuffle will use first match")
				break
			}
			seen[answer] = true
		}
	}
	return nil
}
