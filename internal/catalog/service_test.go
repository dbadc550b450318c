package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizrun/quizrun-backend/internal/catalog"
)

const validQuiz = `[
  {"question": "Q1", "answers": ["a", "b", "c"], "correct_answer": 2},
  {"question": "Q2", "answers": ["x", "y"], "correct_answer": 0}
]`

const validIndex = `{"folders": [{"id": "sns", "name": "SNS", "files": ["q1.json"]}]}`

func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sns"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte(validIndex), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sns", "q1.json"), []byte(validQuiz), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "root.json"), []byte(validQuiz), 0o644))
	return dir
}

func newFSService(t *testing.T) *catalog.Service {
	t.Helper()
	return catalog.NewService(catalog.NewFSSource(writeDataDir(t)), nil, zerolog.Nop())
}

func TestFolders(t *testing.T) {
	svc := newFSService(t)

	folders, err := svc.Folders(context.Background())
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "sns", folders[0].ID)
	assert.Equal(t, []string{"q1.json"}, folders[0].Files)
}

func TestQuestionSet(t *testing.T) {
	svc := newFSService(t)

	questions, err := svc.QuestionSet(context.Background(), "sns", "q1.json")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Q1", questions[0].Question)
	assert.Equal(t, 2, questions[0].CorrectAnswer)
}

func TestQuestionSet_UncategorizedReadsRoot(t *testing.T) {
	svc := newFSService(t)

	questions, err := svc.QuestionSet(context.Background(), "uncategorized", "root.json")
	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestQuestionSet_MissingFile(t *testing.T) {
	svc := newFSService(t)

	_, err := svc.QuestionSet(context.Background(), "sns", "missing.json")
	assert.Error(t, err)
}

func TestQuestionSet_RejectsTraversal(t *testing.T) {
	svc := newFSService(t)

	_, err := svc.QuestionSet(context.Background(), "sns", "../index.json")
	assert.Error(t, err)
}

func TestQuestionSet_ValidationFailures(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
	}{
		{"empty set", `[]`},
		{"one answer", `[{"question": "Q", "answers": ["only"], "correct_answer": 0}]`},
		{"index out of range", `[{"question": "Q", "answers": ["a", "b"], "correct_answer": 2}]`},
		{"negative index", `[{"question": "Q", "answers": ["a", "b"], "correct_answer": -1}]`},
		{"not an array", `{"question": "Q"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := tt.name + ".json"
			require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(tt.body), 0o644))

			svc := catalog.NewService(catalog.NewFSSource(dir), nil, zerolog.Nop())
			_, err := svc.QuestionSet(context.Background(), "", file)
			assert.Error(t, err)
		})
	}
}

func TestQuestionSet_DuplicateAnswersAccepted(t *testing.T) {
	dir := t.TempDir()
	body := `[{"question": "Q", "answers": ["same", "same"], "correct_answer": 0}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup.json"), []byte(body), 0o644))

	svc := catalog.NewService(catalog.NewFSSource(dir), nil, zerolog.Nop())
	questions, err := svc.QuestionSet(context.Background(), "", "dup.json")
	require.NoError(t, err, "duplicate answer text is a warning, not a rejection")
	assert.Len(t, questions, 1)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/index.json":
			_, _ = w.Write([]byte(validIndex))
		case "/sns/q1.json":
			_, _ = w.Write([]byte(validQuiz))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := catalog.NewService(catalog.NewHTTPSource(srv.URL), nil, zerolog.Nop())

	folders, err := svc.Folders(context.Background())
	require.NoError(t, err)
	assert.Len(t, folders, 1)

	questions, err := svc.QuestionSet(context.Background(), "sns", "q1.json")
	require.NoError(t, err)
	assert.Len(t, questions, 2)

	_, err = svc.QuestionSet(context.Background(), "sns", "missing.json")
	assert.Error(t, err, "non-2xx must surface as an error")
}
