package history_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizrun/quizrun-backend/internal/history"
)

func newStore() (*history.Store, *history.MemoryKV) {
	kv := history.NewMemoryKV()
	return history.NewStore(kv, zerolog.Nop()), kv
}

func TestSaveAttempt_SequentialNumbers(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore()

	first := store.SaveAttempt(ctx, "sns/q1.json", 8, 10)
	second := store.SaveAttempt(ctx, "sns/q1.json", 9, 10)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, 1, first.AttemptNumber)
	assert.Equal(t, 2, second.AttemptNumber)
	assert.Equal(t, 80, first.Percentage)
	assert.Equal(t, 90, second.Percentage)
	assert.NotEmpty(t, first.Timestamp)

	attempts := store.Attempts(ctx, "sns/q1.json")
	require.Len(t, attempts, 2)
	assert.Equal(t, *first, attempts[0])
	assert.Equal(t, *second, attempts[1])
}

func TestSaveAttempt_PercentageRounds(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore()

	record := store.SaveAttempt(ctx, "k", 2, 3)
	require.NotNil(t, record)
	assert.Equal(t, 67, record.Percentage)

	record = store.SaveAttempt(ctx, "k", 1, 8)
	require.NotNil(t, record)
	assert.Equal(t, 13, record.Percentage)
}

func TestSaveAttempt_ZeroTotalRejected(t *testing.T) {
	store, _ := newStore()
	assert.Nil(t, store.SaveAttempt(context.Background(), "k", 0, 0))
}

func TestAttempts_MissingKeyIsEmpty(t *testing.T) {
	store, _ := newStore()
	assert.Empty(t, store.Attempts(context.Background(), "nope"))
}

func TestAttempts_CorruptBlobIsEmpty(t *testing.T) {
	ctx := context.Background()
	store, kv := newStore()

	require.NoError(t, kv.Set(ctx, history.SlotKey, "{not json"))

	assert.Empty(t, store.Attempts(ctx, "k"))
	// A write after corruption starts a fresh mapping.
	record := store.SaveAttempt(ctx, "k", 1, 2)
	require.NotNil(t, record)
	assert.Equal(t, 1, record.AttemptNumber)
}

func TestClear_RemovesOnlyTargetKey(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore()

	store.SaveAttempt(ctx, "a", 1, 2)
	store.SaveAttempt(ctx, "b", 2, 2)

	store.Clear(ctx, "a")

	assert.Empty(t, store.Attempts(ctx, "a"))
	assert.Len(t, store.Attempts(ctx, "b"), 1)
}

func TestClear_AbsentKeyIsNoop(t *testing.T) {
	store, _ := newStore()
	store.Clear(context.Background(), "absent")
}

func TestAll_ReturnsWholeMapping(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore()

	store.SaveAttempt(ctx, "a", 1, 2)
	store.SaveAttempt(ctx, "b", 2, 2)

	all := store.All(ctx)
	assert.Len(t, all, 2)
	assert.Len(t, all["a"], 1)
	assert.Len(t, all["b"], 1)
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, error) {
	return "", errors.New("backend down")
}
func (failingKV) Set(context.Context, string, string) error { return errors.New("backend down") }
func (failingKV) Del(context.Context, string) error         { return errors.New("backend down") }

func TestStore_DegradesWhenBackendFails(t *testing.T) {
	ctx := context.Background()
	store := history.NewStore(failingKV{}, zerolog.Nop())

	assert.Empty(t, store.Attempts(ctx, "k"), "read faults degrade to empty history")
	assert.Nil(t, store.SaveAttempt(ctx, "k", 1, 2), "write faults degrade to nil record")
	store.Clear(ctx, "k") // must not panic
}
