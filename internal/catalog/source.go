package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Source fetches the raw bytes of the folder index and of individual quiz
// files. Implementations exist for a local data directory and for a remote
// base URL serving the same layout.
type Source interface {
	Index(ctx context.Context) ([]byte, error)
	QuizFile(ctx context.Context, folderID, filename string) ([]byte, error)
}

// UncategorizedFolderID is the synthetic folder holding quiz files that live
// at the root of the data directory.
const UncategorizedFolderID = "uncategorized"

// ─── Filesystem source ──────────────────────────────────────────────

// FSSource reads quiz data from a local directory.
type FSSource struct {
	dir string
}

// NewFSSource creates a Source over a local data directory.
func NewFSSource(dir string) *FSSource {
	return &FSSource{dir: dir}
}

func (s *FSSource) Index(_ context.Context) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, "index.json"))
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return raw, nil
}

func (s *FSSource) QuizFile(_ context.Context, folderID, filename string) ([]byte, error) {
	rel, err := quizPath(folderID, filename)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("read quiz %s/%s: %w", folderID, filename, err)
	}
	return raw, nil
}

// ─── HTTP source ────────────────────────────────────────────────────

// HTTPSource fetches quiz data from a remote base URL.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a Source over a remote data base URL.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSource) Index(ctx context.Context) ([]byte, error) {
	return s.fetch(ctx, "index.json")
}

func (s *HTTPSource) QuizFile(ctx context.Context, folderID, filename string) ([]byte, error) {
	rel, err := quizPath(folderID, filename)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, rel)
}

func (s *HTTPSource) fetch(ctx context.Context, rel string) ([]byte, error) {
	url := s.baseURL + "/" + rel

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}
	return raw, nil
}

// quizPath maps (folderID, filename) onto the data layout: files of the
// uncategorized folder sit at the root, everything else under its folder.
// Path traversal in either component is rejected.
func quizPath(folderID, filename string) (string, error) {
	if strings.Contains(folderID, "..") || strings.Contains(filename, "..") ||
		strings.ContainsAny(filename, "/\\") {
		return "", fmt.Errorf("invalid quiz path %q/%q", folderID, filename)
	}
	if folderID == "" || folderID == UncategorizedFolderID {
		return filename, nil
	}
	return path.Join(folderID, filename), nil
}
