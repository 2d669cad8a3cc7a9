package crawler

import (
	"context"
	"math/rand"
	"time"

	"ctonews/config"
	"ctonews/models"
	"ctonews/oops"
)

const nextPageElementSelector = "a, button"
const nextPageText = "下一页"
const listingWaitTimeout = 10 * time.Second

// Stop after this many consecutive pages where every candidate was at or
// below the floor. Pages with zero candidates don't count.
const maxConsecutiveOldPages = 3

// ArticleStore is the durable side of a run: it seeds the dedup ledger and
// merges batches without ever duplicating a url.
type ArticleStore interface {
	LoadUrls() (map[string]bool, error)
	Merge(articles []models.Article) (added int, err error)
}

// BatchFunc receives every flushed batch, in fetch order. It is how the
// shared cache learns about new articles mid-run.
type BatchFunc func(articles []models.Article)

type Crawler struct {
	ListingUrl         string
	Source             string
	Category           string
	MinArticleId       int64
	BatchSize          int
	FetchAttempts      int
	RetryInterval      time.Duration
	ContentWaitTimeout time.Duration

	NewBrowser BrowserFactory
	Store      ArticleStore
	Logger     Logger
	Sleep      func(time.Duration)

	// Urls already ingested, seeded from the store once at construction,
	// grown during the run, never shrunk.
	scrapedUrls map[string]bool
}

func NewCrawler(newBrowser BrowserFactory, store ArticleStore, logger Logger) *Crawler {
	scrapedUrls, err := store.LoadUrls()
	if err != nil {
		logger.Warn("Failed to load existing data: %v", err)
		scrapedUrls = map[string]bool{}
	} else {
		logger.Info("%d urls in history", len(scrapedUrls))
	}

	return &Crawler{
		ListingUrl:         config.Cfg.ListingUrl,
		Source:             config.Cfg.Source,
		Category:           config.Cfg.Category,
		MinArticleId:       int64(config.Cfg.MinArticleId),
		BatchSize:          config.Cfg.BatchSize,
		FetchAttempts:      config.Cfg.FetchAttempts,
		RetryInterval:      config.Cfg.FetchRetryInterval,
		ContentWaitTimeout: config.Cfg.ContentWaitTimeout,
		NewBrowser:         newBrowser,
		Store:              store,
		Logger:             logger,
		Sleep:              time.Sleep,
		scrapedUrls:        scrapedUrls,
	}
}

// CrawlAllPages drives the listing traversal from page 1 until a stop
// condition fires: maxPages reached (0 means unbounded), no next-page
// control, or three consecutive all-old pages. The batch accumulated so far
// is always flushed before returning, including on cancellation and error.
func (c *Crawler) CrawlAllPages(
	ctx context.Context, maxPages int, batchFn BatchFunc,
) (allArticles []models.Article, retErr error) {
	browser, err := c.NewBrowser()
	if err != nil {
		return nil, err
	}
	defer browser.Close()

	session, err := browser.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	var batch []models.Article
	defer func() {
		if len(batch) > 0 {
			c.Logger.Info("Flushing trailing batch of %d articles", len(batch))
			c.flushBatch(&batch, batchFn)
		}
		c.Logger.Info(
			"Crawl done: %d articles this run, %d urls in history",
			len(allArticles), len(c.scrapedUrls),
		)
	}()

	c.Logger.Info("Visiting list page: %s", c.ListingUrl)
	if err := session.Navigate(c.ListingUrl); err != nil {
		return nil, err
	}
	c.pace(3, 6)

	pageCount := 1
	consecutiveOldPages := 0
	for {
		if ctx.Err() != nil {
			c.Logger.Warn("Crawl interrupted")
			return allArticles, oops.Wrap(ctx.Err())
		}

		c.Logger.Info("Crawling page %d", pageCount)
		candidates := c.listCandidates(session)
		partition := partitionCandidates(candidates, c.MinArticleId, c.Logger)

		if partition.AllOld {
			consecutiveOldPages++
			c.Logger.Warn(
				"All old articles on this page (%d/%d)",
				consecutiveOldPages, maxConsecutiveOldPages,
			)
			if consecutiveOldPages >= maxConsecutiveOldPages {
				c.Logger.Info("Stop: %d consecutive pages with old articles", maxConsecutiveOldPages)
				break
			}
		} else {
			consecutiveOldPages = 0
		}

		toFetch := c.dropAlreadyScraped(partition.Eligible)
		if len(toFetch) == 0 {
			c.Logger.Info("No new articles on this page, continue to next page")
		}

		for i, candidate := range toFetch {
			if ctx.Err() != nil {
				c.Logger.Warn("Crawl interrupted")
				return allArticles, oops.Wrap(ctx.Err())
			}

			c.Logger.Info("[%d/%d] %s", i+1, len(toFetch), candidate.Title)
			article, err := c.fetchArticle(ctx, session, candidate)
			if err != nil {
				// A failed article is logged and skipped, never fatal to
				// the page or the run.
				c.Logger.Error("Skipping article %s: %v", candidate.Url, err)
				continue
			}

			allArticles = append(allArticles, *article)
			batch = append(batch, *article)
			c.scrapedUrls[article.Url] = true

			if len(batch) >= c.BatchSize {
				c.flushBatch(&batch, batchFn)
			}

			if i < len(toFetch)-1 {
				c.pace(2, 5)
			}
		}

		if maxPages > 0 && pageCount >= maxPages {
			c.Logger.Warn("Reached max pages limit: %d", maxPages)
			break
		}

		c.pace(3, 6)
		clicked, err := session.ClickByText(nextPageElementSelector, nextPageText)
		if err != nil {
			c.Logger.Error("Click next page failed: %v", err)
			break
		}
		if !clicked {
			c.Logger.Info("No more pages")
			break
		}
		c.pace(3, 5)
		pageCount++
	}

	return allArticles, nil
}

func (c *Crawler) listCandidates(session Session) []Candidate {
	if err := session.WaitForSelector(listingListSelector, listingWaitTimeout); err != nil {
		c.Logger.Error("Get article list failed: %v", err)
		return nil
	}
	session.ScrollToBottom()

	content, err := session.Content()
	if err != nil {
		c.Logger.Error("Get article list failed: %v", err)
		return nil
	}
	candidates, err := parseListing(content, c.ListingUrl, c.Logger)
	if err != nil {
		c.Logger.Error("Get article list failed: %v", err)
		return nil
	}
	return candidates
}

func (c *Crawler) dropAlreadyScraped(candidates []Candidate) []Candidate {
	var result []Candidate
	for _, candidate := range candidates {
		if c.scrapedUrls[candidate.Url] {
			c.Logger.Info("Skip crawled: %s", candidate.Title)
			continue
		}
		result = append(result, candidate)
	}
	return result
}

// flushBatch merges the batch into durable storage, then hands it to the
// batch callback. The batch is only cleared once the write succeeds, so a
// failed write gets retried on the next flush. The callback sees the batch
// either way; cache appends are idempotent by url.
func (c *Crawler) flushBatch(batch *[]models.Article, batchFn BatchFunc) {
	if len(*batch) == 0 {
		return
	}

	added, err := c.Store.Merge(*batch)
	if err != nil {
		c.Logger.Error("Failed to save batch of %d, will retry on next flush: %v", len(*batch), err)
	} else {
		c.Logger.Info("Saved batch: %d new of %d", added, len(*batch))
	}

	if batchFn != nil {
		batchFn(*batch)
	}

	if err == nil {
		*batch = (*batch)[:0]
	}
}

// pace sleeps a random human-like interval given in seconds.
func (c *Crawler) pace(minSeconds float64, maxSeconds float64) {
	seconds := minSeconds + rand.Float64()*(maxSeconds-minSeconds)
	c.Sleep(time.Duration(seconds * float64(time.Second)))
}
