package history

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizrun/quizrun-backend/internal/model"
)

// SlotKey is the single persistent slot holding the whole history mapping
// (quiz key to attempt list) as one JSON blob.
const SlotKey = "quiz_performance_history"

// Store is the append-only attempt log. Every write is a full
// read-modify-write of the mapping under SlotKey; the store assumes a single
// logical writer, so last write wins under races.
//
// Storage faults never reach the caller: reads degrade to empty history and
// writes to a no-op, logged at warn level. A quiz run must not fail because
// the history backend is down.
type Store struct {
	kv  KV
	log zerolog.Logger
	now func() time.Time
}

// NewStore creates a Store over the given KV capability.
func NewStore(kv KV, log zerolog.Logger) *Store {
	return &Store{
		kv:  kv,
		log: log.With().Str("component", "history_store").Logger(),
		now: time.Now,
	}
}

// Attempts returns the attempt list for key, oldest first. Missing keys,
// unreadable storage and corrupt JSON all yield an empty list.
func (s *Store) Attempts(ctx context.Context, key string) []model.AttemptRecord {
	all := s.load(ctx)
	return all[key]
}

// All returns the complete mapping for the history browsing view.
func (s *Store) All(ctx context.Context) map[string][]model.AttemptRecord {
	return s.load(ctx)
}

// SaveAttempt appends a new record under key and persists the whole mapping.
// Returns the created record, or nil if persistence failed.
func (s *Store) SaveAttempt(ctx context.Context, key string, score, totalQuestions int) *model.AttemptRecord {
	if totalQuestions <= 0 {
		s.log.Warn().Str("quiz_key", key).Int("total", totalQuestions).Msg("Refusing attempt with no questions")
		return nil
	}

	all := s.load(ctx)

	record := model.AttemptRecord{
		Score:          score,
		TotalQuestions: totalQuestions,
		Percentage:     int(math.Round(float64(score) / float64(totalQuestions) * 100)),
		Timestamp:      s.now().UTC().Format(time.RFC3339),
		AttemptNumber:  len(all[key]) + 1,
	}
	all[key] = append(all[key], record)

	if !s.persist(ctx, all) {
		return nil
	}

	s.log.Debug().
		Str("quiz_key", key).
		Int("attempt", record.AttemptNumber).
		Int("percentage", record.Percentage).
		Msg("Attempt saved")

	return &record
}

// Clear drops key and its attempts from the mapping. No-op if absent.
func (s *Store) Clear(ctx context.Context, key string) {
	all := s.load(ctx)
	if _, ok := all[key]; !ok {
		return
	}
	delete(all, key)
	s.persist(ctx, all)
}

// ClearAll drops the entire history slot.
func (s *Store) ClearAll(ctx context.Context) {
	if err := s.kv.Del(ctx, SlotKey); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Warn().Err(err).Msg("History clear failed")
	}
}

func (s *Store) load(ctx context.Context) map[string][]model.AttemptRecord {
	raw, err := s.kv.Get(ctx, SlotKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Msg("History read failed, treating as empty")
		}
		return map[string][]model.AttemptRecord{}
	}

	var all map[string][]model.AttemptRecord
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		s.log.Warn().Err(err).Msg("History blob is corrupt, treating as empty")
		return map[string][]model.AttemptRecord{}
	}
	if all == nil {
		all = map[string][]model.AttemptRecord{}
	}
	return all
}

func (s *Store) persist(ctx context.Context, all map[string][]model.AttemptRecord) bool {
	raw, err := json.Marshal(all)
	if err != nil {
		s.log.Warn().Err(err).Msg("History serialization failed")
		return false
	}
	if err := s.kv.Set(ctx, SlotKey, string(raw)); err != nil {
		s.log.Warn().Err(err).Msg("History write failed")
		return false
	}
	return true
}
