package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ctonews/models"
)

func testArticle(id string, url string, date string) models.Article {
	return models.Article{
		Id:    id,
		Title: "Title " + id,
		Date:  date,
		Url:   url,
		Content: []models.ContentBlock{
			{Kind: models.BlockKindText, Value: "body of article " + id},
		},
		Category: "技术文章",
		Summary:  "body of article " + id,
		Source:   "51CTO",
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "news.json"))

	articles, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, articles)

	urls, err := store.LoadUrls()
	require.NoError(t, err)
	require.Empty(t, urls)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	store := New(path)

	_, err := store.Load()
	require.Error(t, err)

	// A corrupt file must also block merges, or the next write would
	// silently drop everything it held.
	_, err = store.Merge([]models.Article{testArticle("a", "http://x/a", "2024-01-01")})
	require.Error(t, err)
}

func TestMergeRoundTrip(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "data", "news.json"))

	added, err := store.Merge([]models.Article{
		testArticle("a", "http://x/a", "2024-01-01"),
		testArticle("b", "http://x/b", "2024-01-02"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, added)

	articles, err := store.Load()
	require.NoError(t, err)
	require.Len(t, articles, 2)
	require.Equal(t, "a", articles[0].Id)
	require.Equal(t, "Title a", articles[0].Title)
	require.Len(t, articles[0].Content, 1)
}

func TestMergeIdempotent(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "news.json"))
	batch := []models.Article{testArticle("a", "http://x/a", "2024-01-01")}

	added, err := store.Merge(batch)
	require.NoError(t, err)
	require.Equal(t, 1, added)

	added, err = store.Merge(batch)
	require.NoError(t, err)
	require.Equal(t, 0, added)

	articles, err := store.Load()
	require.NoError(t, err)
	require.Len(t, articles, 1)
}

func TestMergeOverlappingBatches(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "news.json"))

	_, err := store.Merge([]models.Article{
		testArticle("a", "http://x/a", "2024-01-01"),
		testArticle("b", "http://x/b", "2024-01-02"),
	})
	require.NoError(t, err)

	added, err := store.Merge([]models.Article{
		testArticle("b", "http://x/b", "2024-01-02"),
		testArticle("c", "http://x/c", "2024-01-03"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, added)

	articles, err := store.Load()
	require.NoError(t, err)
	require.Len(t, articles, 3)
	// Existing records keep their position, new ones append.
	require.Equal(t, "a", articles[0].Id)
	require.Equal(t, "b", articles[1].Id)
	require.Equal(t, "c", articles[2].Id)
}

func TestLoadUrls(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "news.json"))

	_, err := store.Merge([]models.Article{
		testArticle("a", "http://x/a", "2024-01-01"),
		testArticle("b", "http://x/b", "2024-01-02"),
	})
	require.NoError(t, err)

	urls, err := store.LoadUrls()
	require.NoError(t, err)
	require.Equal(t, map[string]bool{
		"http://x/a": true,
		"http://x/b": true,
	}, urls)
}
