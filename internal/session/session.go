package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizrun/quizrun-backend/internal/history"
	"github.com/quizrun/quizrun-backend/internal/model"
	"github.com/quizrun/quizrun-backend/internal/quiz"
)

// Phase is the session's tagged state. Transitions:
//
//	Loading → Error | Active
//	Active → Active (advance) → Scored
//	Scored → Reviewing | PracticeActive
//	PracticeActive → PracticeComplete
//	Scored/Reviewing/PracticeActive/PracticeComplete → Active (restart)
type Phase string

const (
	PhaseLoading          Phase = "LOADING"
	PhaseError            Phase = "ERROR"
	PhaseActive           Phase = "ACTIVE"
	PhaseScored           Phase = "SCORED"
	PhaseReviewing        Phase = "REVIEWING"
	PhasePracticeActive   Phase = "PRACTICE_ACTIVE"
	PhasePracticeComplete Phase = "PRACTICE_COMPLETE"
)

var (
	ErrNotAnswerable    = errors.New("session: not accepting answers in this state")
	ErrAlreadyAnswered  = errors.New("session: current question already answered")
	ErrAnswerOutOfRange = errors.New("session: answer index out of range")
	ErrWrongPhase       = errors.New("session: operation not allowed in this phase")
	ErrNoWrongAnswers   = errors.New("session: no wrong answers to practice")
	ErrErrored          = errors.New("session: quiz failed to load")
	ErrClosed           = errors.New("session: closed")
)

// WrongQuestion is a missed question tagged with its index in the pool it
// was missed in, feeding the practice pass and the review verdicts.
type WrongQuestion struct {
	Question      model.Question `json:"question"`
	OriginalIndex int            `json:"originalIndex"`
}

// Verdict is the three-way review styling for a single answer.
type Verdict string

const (
	VerdictCorrect   Verdict = "correct"
	VerdictIncorrect Verdict = "incorrect"
	VerdictNeutral   Verdict = "neutral"
)

// ReviewAnswer is one answer row in the review replay.
type ReviewAnswer struct {
	Text    string  `json:"text"`
	Verdict Verdict `json:"verdict"`
}

// ReviewRow is the read-only replay of one question.
type ReviewRow struct {
	Index      int            `json:"index"`
	Question   string         `json:"question"`
	SourceQuiz string         `json:"sourceQuiz,omitempty"`
	Answers    []ReviewAnswer `json:"answers"`
}

// State is the snapshot handed to clients.
type State struct {
	ID             string          `json:"id"`
	Phase          Phase           `json:"phase"`
	Label          string          `json:"label"`
	QuizKey        string          `json:"quiz_key"`
	Error          string          `json:"error,omitempty"`
	Practice       bool            `json:"practice"`
	CurrentIndex   int             `json:"current_index"`
	TotalQuestions int             `json:"total_questions"`
	Score          int             `json:"score"`
	PracticeScore  int             `json:"practice_score"`
	Answered       bool            `json:"answered"`
	SelectedAnswer *int            `json:"selected_answer,omitempty"`
	WrongCount     int             `json:"wrong_count"`
	Question       *model.Question `json:"question,omitempty"`
}

// Session is one interactive quiz run. All exported methods are safe for
// concurrent use; the delayed advance fires on a timer goroutine and takes
// the same lock.
//
// The full unshuffled pool is retained so a restart under a question limit
// re-samples fresh questions instead of reshuffling the truncated set.
type Session struct {
	ID uuid.UUID

	mu         sync.Mutex
	phase      Phase
	loadErr    string
	label      string
	quizKey    string
	pool       []model.Question // original, never truncated
	questions  []model.Question // working order
	limit      int
	current    int
	score      int
	answers    map[int]int
	selected   int
	answered   bool
	practice   bool
	wrong      []WrongQuestion
	practScore int

	delay      time.Duration
	timer      *time.Timer
	generation int // bumped on restart/close to invalidate stale timers

	rng       *rand.Rand
	store     *history.Store
	log       zerolog.Logger
	events    chan Event
	closed    bool
	lastTouch time.Time
}

func newSession(id uuid.UUID, label, quizKey string, pool []model.Question, limit int, delay time.Duration, store *history.Store, log zerolog.Logger) *Session {
	s := &Session{
		ID:        id,
		phase:     PhaseLoading,
		label:     label,
		quizKey:   quizKey,
		pool:      pool,
		limit:     limit,
		answers:   make(map[int]int),
		selected:  -1,
		delay:     delay,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		store:     store,
		log:       log.With().Str("component", "session").Str("session_id", id.String()).Logger(),
		events:    make(chan Event, 16),
		lastTouch: time.Now(),
	}
	s.questions = quiz.SamplePool(s.rng, pool, limit)
	s.phase = PhaseActive
	return s
}

func newErroredSession(id uuid.UUID, label, message string, log zerolog.Logger) *Session {
	return &Session{
		ID:        id,
		phase:     PhaseError,
		label:     label,
		loadErr:   message,
		answers:   make(map[int]int),
		selected:  -1,
		log:       log.With().Str("component", "session").Str("session_id", id.String()).Logger(),
		events:    make(chan Event, 16),
		lastTouch: time.Now(),
	}
}

// Events exposes the session's notification stream. The channel closes when
// the session is torn down.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Submit records the chosen answer index for the current question,
// updates the score, and schedules the delayed transition (advance or
// finalize). Rejected while a previous submission's transition is pending.
func (s *Session) Submit(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.submitLocked(index)
}

func (s *Session) submitLocked(index int) error {
	if s.closed {
		return ErrClosed
	}
	if s.phase == PhaseError {
		return ErrErrored
	}
	if s.phase != PhaseActive && s.phase != PhasePracticeActive {
		return ErrNotAnswerable
	}
	if s.answered {
		return ErrAlreadyAnswered
	}

	question := s.currentQuestionLocked()
	if index < 0 || index >= len(question.Answers) {
		return ErrAnswerOutOfRange
	}

	correct := index == question.CorrectAnswer
	s.selected = index
	s.answered = true

	if s.practice {
		if correct {
			s.practScore++
		}
	} else {
		s.answers[s.current] = index
		if correct {
			s.score++
		}
	}

	s.emit(Event{
		Type:          EventAnswered,
		QuestionIndex: s.current,
		Correct:       &correct,
		Score:         s.scoreLocked(),
		Total:         s.totalLocked(),
	})

	gen := s.generation
	s.timer = time.AfterFunc(s.delay, func() { s.advance(gen) })
	return nil
}

// SubmitDigit maps a keyboard digit (1-4) onto the regular submission path.
// Returns false without error when the shortcut must be ignored: wrong
// phase, question already answered, or digit beyond the answer count.
// Validation and submission run under one lock so the digit always applies
// to the question it was checked against.
func (s *Session) SubmitDigit(digit int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.closed || (s.phase != PhaseActive && s.phase != PhasePracticeActive) || s.answered {
		return false, nil
	}
	if digit < 1 || digit > 4 {
		return false, nil
	}
	index := digit - 1
	if index >= len(s.currentQuestionLocked().Answers) {
		return false, nil
	}

	if err := s.submitLocked(index); err != nil {
		return false, err
	}
	return true, nil
}

// advance runs after the post-answer delay: next question, or finalization
// when the pass is exhausted. Stale timers from a superseded generation
// (restart, teardown) are dropped.
func (s *Session) advance(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.generation || !s.answered {
		return
	}

	if s.current+1 < s.totalLocked() {
		s.current++
		s.answered = false
		s.selected = -1
		s.emit(Event{
			Type:          EventAdvanced,
			QuestionIndex: s.current,
			Score:         s.scoreLocked(),
			Total:         s.totalLocked(),
		})
		return
	}

	if s.practice {
		s.phase = PhasePracticeComplete
		s.emit(Event{
			Type:          EventPracticeComplete,
			QuestionIndex: s.current,
			Score:         s.practScore,
			Total:         len(s.wrong),
		})
		return
	}

	s.finalizeLocked()
}

// finalizeLocked computes the wrong-answer subset, persists the attempt and
// moves to Scored. A question missing from the answer map was never reached
// and counts as wrong.
func (s *Session) finalizeLocked() {
	s.wrong = s.wrong[:0]
	for idx, q := range s.questions {
		answer, ok := s.answers[idx]
		if !ok || answer != q.CorrectAnswer {
			s.wrong = append(s.wrong, WrongQuestion{Question: q, OriginalIndex: idx})
		}
	}

	s.phase = PhaseScored

	var record *model.AttemptRecord
	if s.store != nil {
		record = s.store.SaveAttempt(context.Background(), s.quizKey, s.score, len(s.questions))
	}

	s.log.Info().
		Str("quiz_key", s.quizKey).
		Int("score", s.score).
		Int("total", len(s.questions)).
		Int("wrong", len(s.wrong)).
		Msg("Quiz completed")

	s.emit(Event{
		Type:       EventScored,
		Score:      s.score,
		Total:      len(s.questions),
		WrongCount: len(s.wrong),
		Record:     record,
	})
}

// StartPractice switches to a pass over the wrong-answer subset. Valid from
// Scored or PracticeComplete; with nothing to practice it reports
// ErrNoWrongAnswers and changes no state.
func (s *Session) StartPractice() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.closed {
		return ErrClosed
	}
	if s.phase != PhaseScored && s.phase != PhasePracticeComplete {
		return ErrWrongPhase
	}
	if len(s.wrong) == 0 {
		return ErrNoWrongAnswers
	}

	s.stopTimerLocked()
	s.phase = PhasePracticeActive
	s.practice = true
	s.current = 0
	s.practScore = 0
	s.answered = false
	s.selected = -1
	return nil
}

// ExitPractice returns to the normal score screen, keeping the main score
// and history untouched.
func (s *Session) ExitPractice() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.closed {
		return ErrClosed
	}
	if s.phase != PhasePracticeActive && s.phase != PhasePracticeComplete {
		return ErrWrongPhase
	}

	s.stopTimerLocked()
	s.generation++
	s.phase = PhaseScored
	s.practice = false
	s.current = 0
	s.answered = false
	s.selected = -1
	return nil
}

// EnterReview moves from Scored into the read-only review display.
func (s *Session) EnterReview() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.closed {
		return ErrClosed
	}
	if s.phase != PhaseScored {
		return ErrWrongPhase
	}
	s.phase = PhaseReviewing
	return nil
}

// ExitReview returns from review to the score screen.
func (s *Session) ExitReview() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.closed {
		return ErrClosed
	}
	if s.phase != PhaseReviewing {
		return ErrWrongPhase
	}
	s.phase = PhaseScored
	return nil
}

// ReviewRows replays every question with three-way verdicts: the correct
// answer always positive, the user's wrong pick negative, the rest neutral.
// Read-only; valid once the quiz has been scored.
func (s *Session) ReviewRows() ([]ReviewRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.closed {
		return nil, ErrClosed
	}
	if s.phase != PhaseScored && s.phase != PhaseReviewing && s.phase != PhasePracticeComplete {
		return nil, ErrWrongPhase
	}

	rows := make([]ReviewRow, len(s.questions))
	for idx, q := range s.questions {
		userAnswer, answered := s.answers[idx]
		row := ReviewRow{
			Index:      idx,
			Question:   q.Question,
			SourceQuiz: q.SourceQuiz,
			Answers:    make([]ReviewAnswer, len(q.Answers)),
		}
		for ai, text := range q.Answers {
			verdict := VerdictNeutral
			switch {
			case ai == q.CorrectAnswer:
				verdict = VerdictCorrect
			case answered && ai == userAnswer:
				verdict = VerdictIncorrect
			}
			row.Answers[ai] = ReviewAnswer{Text: text, Verdict: verdict}
		}
		rows[idx] = row
	}
	return rows, nil
}

// Restart re-samples the working set from the retained full pool and resets
// every transient flag. Any pending advance timer is cancelled.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.closed {
		return ErrClosed
	}
	if s.phase == PhaseError {
		return ErrErrored
	}
	if s.phase == PhaseLoading {
		return ErrWrongPhase
	}

	s.stopTimerLocked()
	s.generation++

	s.questions = quiz.SamplePool(s.rng, s.pool, s.limit)
	s.current = 0
	s.score = 0
	s.answers = make(map[int]int)
	s.answered = false
	s.selected = -1
	s.practice = false
	s.wrong = nil
	s.practScore = 0
	s.phase = PhaseActive

	s.emit(Event{Type: EventRestarted, Total: len(s.questions)})
	return nil
}

// Close tears the session down: pending timer stopped, event stream closed.
// Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.stopTimerLocked()
	s.generation++
	s.closed = true
	s.emit(Event{Type: EventClosed})
	close(s.events)
}

// Snapshot returns the client-facing state, including the current question
// while one is being played.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	state := State{
		ID:             s.ID.String(),
		Phase:          s.phase,
		Label:          s.label,
		QuizKey:        s.quizKey,
		Error:          s.loadErr,
		Practice:       s.practice,
		CurrentIndex:   s.current,
		TotalQuestions: s.totalLocked(),
		Score:          s.score,
		PracticeScore:  s.practScore,
		Answered:       s.answered,
		WrongCount:     len(s.wrong),
	}
	if s.answered && s.selected >= 0 {
		selected := s.selected
		state.SelectedAnswer = &selected
	}
	if s.phase == PhaseActive || s.phase == PhasePracticeActive {
		q := s.currentQuestionLocked()
		state.Question = &q
	}
	return state
}

// QuizKey returns the history key this session writes under.
func (s *Session) QuizKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quizKey
}

// IdleSince reports the last time a client touched this session.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouch
}

func (s *Session) currentQuestionLocked() model.Question {
	if s.practice {
		return s.wrong[s.current].Question
	}
	return s.questions[s.current]
}

func (s *Session) totalLocked() int {
	if s.practice {
		return len(s.wrong)
	}
	return len(s.questions)
}

func (s *Session) scoreLocked() int {
	if s.practice {
		return s.practScore
	}
	return s.score
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) touch() {
	s.lastTouch = time.Now()
}

// emit never blocks: a slow or absent stream consumer drops events rather
// than stalling the state machine.
func (s *Session) emit(event Event) {
	select {
	case s.events <- event:
	default:
		s.log.Debug().Str("event", string(event.Type)).Msg("Event dropped, stream full")
	}
}
