package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizrun/quizrun-backend/internal/catalog"
	"github.com/quizrun/quizrun-backend/internal/history"
	"github.com/quizrun/quizrun-backend/internal/model"
	"github.com/quizrun/quizrun-backend/internal/quiz"
)

var (
	ErrNoSelection        = errors.New("session: no quiz selected")
	ErrAmbiguousSelection = errors.New("session: both selection forms present")
	ErrSessionNotFound    = errors.New("session: not found")
)

// Manager owns every live session. Load failures do not fail the start
// call: the session is created in the Error phase so the client can render
// the failure and offer a retry.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	catalog *catalog.Service
	store   *history.Store
	delay   time.Duration
	log     zerolog.Logger
}

func NewManager(catalogService *catalog.Service, store *history.Store, advanceDelay time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		catalog:  catalogService,
		store:    store,
		delay:    advanceDelay,
		log:      log.With().Str("component", "session-manager").Logger(),
	}
}

// Start builds a session from the start request: either a single quiz file
// or a folder-wide shuffle over an explicit file list. Exactly one of the
// two forms must be present.
func (m *Manager) Start(ctx context.Context, req model.StartSessionRequest) (*Session, error) {
	id := uuid.New()

	var (
		label   string
		quizKey string
		pool    []model.Question
		loadErr error
	)

	// Exactly one selection form may be present.
	if req.SelectedQuiz != "" && req.ShuffleFolder {
		return nil, ErrAmbiguousSelection
	}

	switch {
	case req.SelectedQuiz != "":
		label = req.SelectedQuiz
		if req.QuizModeName != "" {
			label = req.QuizModeName
		}
		quizKey = quiz.DeriveKey(req.FolderPath, req.SelectedQuiz, req.QuestionLimit)
		pool, loadErr = m.loadSingle(ctx, req.FolderPath, req.SelectedQuiz)

	case req.ShuffleFolder:
		if len(req.QuizFiles) == 0 {
			return nil, ErrNoSelection
		}
		label = req.FolderName
		quizKey = quiz.DeriveFolderKey(req.FolderPath, req.QuestionLimit, req.ShuffleModeName)
		pool, loadErr = m.loadFolder(ctx, req.FolderPath, req.QuizFiles)

	default:
		return nil, ErrNoSelection
	}

	var s *Session
	if loadErr != nil {
		m.log.Error().Err(loadErr).Str("label", label).Msg("Quiz load failed, creating errored session")
		s = newErroredSession(id, label, loadErr.Error(), m.log)
	} else {
		s = newSession(id, label, quizKey, pool, req.QuestionLimit, m.delay, m.store, m.log)
		m.log.Info().
			Str("session_id", id.String()).
			Str("quiz_key", quizKey).
			Int("pool", len(pool)).
			Int("questions", len(s.questions)).
			Msg("Session started")
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s, nil
}

func (m *Manager) loadSingle(ctx context.Context, folderPath, filename string) ([]model.Question, error) {
	questions, err := m.catalog.QuestionSet(ctx, folderPath, filename)
	if err != nil {
		return nil, fmt.Errorf("load quiz %s/%s: %w", folderPath, filename, err)
	}
	return questions, nil
}

// loadFolder concatenates every listed file, tagging each question with its
// source quiz name. One unreadable file fails the whole shuffle.
func (m *Manager) loadFolder(ctx context.Context, folderPath string, files []string) ([]model.Question, error) {
	sets := make([]quiz.SourceSet, 0, len(files))
	for _, filename := range files {
		questions, err := m.catalog.QuestionSet(ctx, folderPath, filename)
		if err != nil {
			return nil, fmt.Errorf("load quiz %s/%s: %w", folderPath, filename, err)
		}
		sets = append(sets, quiz.SourceSet{Name: filename, Questions: questions})
	}
	return quiz.Concat(sets), nil
}

// Get looks a session up by ID.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove closes and drops a session. Unknown IDs are a no-op.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SweepIdle closes and drops every session idle longer than maxIdle,
// returning how many were reaped.
func (m *Manager) SweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.IdleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		m.log.Info().Int("reaped", len(stale)).Msg("Idle sessions reaped")
	}
	return len(stale)
}

// CloseAll tears down every session, for shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
