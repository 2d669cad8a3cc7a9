package jobs

import (
	"context"

	"github.com/pkg/errors"

	"ctonews/cache"
	"ctonews/config"
	"ctonews/crawler"
	"ctonews/log"
	"ctonews/models"
	"ctonews/store"
)

// Deps is what every background job works against: the durable store and
// the shared cache, both owned by the composition root.
type Deps struct {
	Cache *cache.Cache
	Store *store.Store
}

// SubmitCrawl queues an incremental crawl. New articles get appended to the
// cache batch by batch as they are persisted.
func SubmitCrawl(runner *Runner, deps Deps, maxPages int) bool {
	return runner.Submit("crawl", func(ctx context.Context, logger log.Logger) {
		crawlLogger := &crawler.ZeroLogger{Logger: logger}
		c := newCrawler(deps, crawlLogger)

		articles, err := c.CrawlAllPages(ctx, maxPages, func(batch []models.Article) {
			inserted := deps.Cache.Append(batch)
			logger.Info().Int("batch", len(batch)).Int("inserted", inserted).Msg("Batch appended to cache")
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Warn().Msg("Crawl interrupted, partial batch was flushed")
				return
			}
			logger.Error().Err(err).Msg("Crawl failed")
			deps.Cache.SetError(err.Error())
			return
		}

		logger.Info().Int("articles", len(articles)).Msg("Crawl completed")
		backupDataFile(ctx, deps, logger)
	})
}

// SubmitRefresh queues a full re-crawl followed by a wholesale snapshot
// replace from durable storage.
func SubmitRefresh(runner *Runner, deps Deps) bool {
	return runner.Submit("refresh", func(ctx context.Context, logger log.Logger) {
		crawlLogger := &crawler.ZeroLogger{Logger: logger}
		c := newCrawler(deps, crawlLogger)

		_, err := c.CrawlAllPages(ctx, config.Cfg.MaxPages, nil)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Warn().Msg("Refresh interrupted, partial batch was flushed")
				return
			}
			logger.Error().Err(err).Msg("Refresh crawl failed")
			deps.Cache.SetError(err.Error())
			return
		}

		articles, err := deps.Store.Load()
		if err != nil {
			logger.Error().Err(err).Msg("Refresh reload failed")
			deps.Cache.SetError(err.Error())
			return
		}
		deps.Cache.Replace(articles)
		logger.Info().Int("articles", len(articles)).Msg("Cache refreshed")
		backupDataFile(ctx, deps, logger)
	})
}

// StartupLoad populates the cache from the data file so the server is
// useful immediately, then kicks off the initial background crawl.
func StartupLoad(runner *Runner, deps Deps) {
	logger := &log.BackgroundLogger{}

	articles, err := deps.Store.Load()
	if err != nil {
		logger.Warn().Err(err).Str("path", deps.Store.Path()).Msg("Failed to load existing data")
	} else if len(articles) > 0 {
		deps.Cache.Replace(articles)
		logger.Info().Int("articles", len(articles)).Msg("Loaded existing articles from file")
	} else {
		logger.Info().Str("path", deps.Store.Path()).Msg("No existing data file found")
	}

	if config.Cfg.CrawlOnStartup {
		SubmitCrawl(runner, deps, config.Cfg.MaxPages)
		logger.Info().Msg("Initial crawl submitted to background worker")
	}
}

func newCrawler(deps Deps, logger crawler.Logger) *crawler.Crawler {
	return crawler.NewCrawler(
		func() (crawler.Browser, error) {
			return crawler.NewRodBrowser(logger)
		},
		deps.Store,
		logger,
	)
}

func backupDataFile(ctx context.Context, deps Deps, logger log.Logger) {
	if config.Cfg.BackupS3Bucket == "" {
		return
	}
	if err := deps.Store.BackupToS3(ctx, logger); err != nil {
		logger.Error().Err(err).Msg("Data file backup failed")
	}
}
