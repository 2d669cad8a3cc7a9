// One-shot crawl without the HTTP server, for cron use and manual runs.
package crawl

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ctonews/config"
	"ctonews/crawler"
	"ctonews/log"
	"ctonews/store"
)

var Cmd *cobra.Command
var maxPages int

func init() {
	Cmd = &cobra.Command{
		Use:   "crawl",
		Short: "Run one crawl and exit",
		Run: func(_ *cobra.Command, _ []string) {
			runCrawl()
		},
	}
	Cmd.Flags().IntVar(&maxPages, "max-pages", 0, "page cap, 0 for the configured default")
}

func runCrawl() {
	if maxPages == 0 {
		maxPages = config.Cfg.MaxPages
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := &crawler.ZeroLogger{Logger: &log.BackgroundLogger{}}
	articleStore := store.New(config.Cfg.DataFile)
	c := crawler.NewCrawler(
		func() (crawler.Browser, error) {
			return crawler.NewRodBrowser(logger)
		},
		articleStore,
		logger,
	)

	articles, err := c.CrawlAllPages(ctx, maxPages, nil)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Crawl failed: %v", err)
		return
	}
	logger.Info("Crawled %d articles", len(articles))

	if config.Cfg.BackupS3Bucket != "" {
		if err := articleStore.BackupToS3(context.Background(), &log.BackgroundLogger{}); err != nil {
			logger.Error("Backup failed: %v", err)
		}
	}
}
