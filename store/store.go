// Durable storage: one human-readable JSON array of article records,
// rewritten wholesale on each merge.
package store

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"ctonews/models"
	"ctonews/oops"
)

type Store struct {
	path string
	// One writer at a time; concurrent runs must not interleave
	// load-merge-write cycles.
	mu sync.Mutex
}

func New(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads all persisted articles. A missing file is an empty store, not
// an error. A file that exists but can't be parsed is an error: clobbering
// it with a fresh write would lose data.
func (s *Store) Load() ([]models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() ([]models.Article, error) {
	content, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Wrap(err)
	}

	var articles []models.Article
	if err := json.Unmarshal(content, &articles); err != nil {
		return nil, oops.Wrapf(err, "corrupt data file: %s", s.path)
	}
	return articles, nil
}

// LoadUrls seeds the dedup ledger.
func (s *Store) LoadUrls() (map[string]bool, error) {
	articles, err := s.Load()
	if err != nil {
		return nil, err
	}

	urls := make(map[string]bool, len(articles))
	for _, article := range articles {
		if article.Url != "" {
			urls[article.Url] = true
		}
	}
	return urls, nil
}

// Merge appends the articles whose urls aren't persisted yet and rewrites
// the file. Safe to call repeatedly with overlapping batches: re-submitting
// an already-persisted article is a no-op.
func (s *Store) Merge(articles []models.Article) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.loadLocked()
	if err != nil {
		return 0, err
	}

	existingUrls := make(map[string]bool, len(existing))
	for _, article := range existing {
		existingUrls[article.Url] = true
	}

	merged := existing
	added := 0
	for _, article := range articles {
		if existingUrls[article.Url] {
			continue
		}
		existingUrls[article.Url] = true
		merged = append(merged, article)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	if err := s.writeLocked(merged); err != nil {
		return 0, err
	}
	return added, nil
}

func (s *Store) writeLocked(articles []models.Article) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return oops.Wrap(err)
		}
	}

	content, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return oops.Wrap(err)
	}

	// Write-then-rename so a crash mid-write can't leave a truncated file.
	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, content, 0o644); err != nil {
		return oops.Wrap(err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return oops.Wrap(err)
	}
	return nil
}
