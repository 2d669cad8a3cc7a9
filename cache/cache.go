// The in-memory, queryable snapshot of all known articles, shared between
// the crawl pipeline (writer) and the API layer (reader).
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	om "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/text/unicode/norm"

	"ctonews/models"
	"ctonews/oops"
)

type Status string

const (
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusError     Status = "error"
)

type Cache struct {
	mu sync.Mutex
	// Keyed by url, which is the sole identity key. Insertion order is
	// fetch order, which the query sort falls back to for equal dates.
	articles        *om.OrderedMap[string, models.Article]
	status          Status
	maybeLastUpdate *time.Time
	errorMessage    string
}

func New() *Cache {
	return &Cache{
		articles: om.New[string, models.Article](),
		status:   StatusPreparing,
	}
}

type StatusInfo struct {
	Status       Status     `json:"status"`
	LastUpdate   *time.Time `json:"last_update"`
	Count        int        `json:"cache_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

func (c *Cache) Status() StatusInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return StatusInfo{
		Status:       c.status,
		LastUpdate:   c.maybeLastUpdate,
		Count:        c.articles.Len(),
		ErrorMessage: c.errorMessage,
	}
}

// SetError records an ingestion failure. Queries fail until the next
// Replace or Clear.
func (c *Cache) SetError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusError
	c.errorMessage = message
}

type QueryResult struct {
	Articles []models.Article `json:"articles"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	HasNext  bool             `json:"has_next"`
	HasPrev  bool             `json:"has_prev"`
}

// Query filters by exact category and case-insensitive substring over
// title/summary, sorts by date descending, then paginates. Total counts the
// post-filter, pre-pagination set. Fails only while the cache is errored.
func (c *Cache) Query(page int, pageSize int, category string, search string) (*QueryResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusError {
		return nil, oops.Newf("service error: %s", c.errorMessage)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	searchNeedle := normalizeForSearch(search)
	var filtered []models.Article
	for pair := c.articles.Oldest(); pair != nil; pair = pair.Next() {
		article := pair.Value
		if category != "" && article.Category != category {
			continue
		}
		if searchNeedle != "" &&
			!strings.Contains(normalizeForSearch(article.Title), searchNeedle) &&
			!strings.Contains(normalizeForSearch(article.Summary), searchNeedle) {
			continue
		}
		filtered = append(filtered, article)
	}

	// Dates are YYYY-MM-DD so a string compare sorts them; articles with
	// malformed dates end up wherever the string compare puts them, which
	// is fine as long as the query doesn't fail.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date > filtered[j].Date
	})

	total := len(filtered)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &QueryResult{
		Articles: filtered[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasNext:  end < total,
		HasPrev:  page > 1,
	}, nil
}

// FindById scans for one article. Ids are short url hashes, not ordered, so
// a scan is all there is.
func (c *Cache) FindById(id string) (*models.Article, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for pair := c.articles.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Id == id {
			article := pair.Value
			return &article, true
		}
	}
	return nil, false
}

// Append inserts only articles whose url isn't present yet; it never
// updates in place. The first successful insert on an empty preparing cache
// transitions it to ready.
func (c *Cache) Append(articles []models.Article) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	inserted := 0
	for _, article := range articles {
		if _, present := c.articles.Get(article.Url); present {
			continue
		}
		c.articles.Set(article.Url, article)
		inserted++
	}

	if inserted > 0 {
		now := time.Now()
		c.maybeLastUpdate = &now
		if c.status == StatusPreparing && c.articles.Len() > 0 {
			c.status = StatusReady
		}
	}
	return inserted
}

// Replace swaps the whole snapshot atomically, passing through
// preparing -> ready. Used for full reloads.
func (c *Cache) Replace(articles []models.Article) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = StatusPreparing
	c.articles = om.New[string, models.Article]()
	for _, article := range articles {
		if _, present := c.articles.Get(article.Url); present {
			continue
		}
		c.articles.Set(article.Url, article)
	}
	now := time.Now()
	c.maybeLastUpdate = &now
	c.errorMessage = ""
	c.status = StatusReady
}

// Clear empties the snapshot and resets to preparing. Re-initialization
// only; the crawl pipeline never calls this.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.articles = om.New[string, models.Article]()
	c.status = StatusPreparing
	c.maybeLastUpdate = nil
	c.errorMessage = ""
}

// normalizeForSearch makes substring matching case-insensitive and stable
// across unicode representation differences.
func normalizeForSearch(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
