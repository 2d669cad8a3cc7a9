package crawler

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"ctonews/models"
	"ctonews/oops"
)

const contentContainerSelector = ".posts-content"

var authorSelectors = []string{".name", ".author", ".post-author"}
var publishTimeSelectors = []string{"time", ".publish-time", ".post-time"}

// fetchArticle fetches and formats one candidate, retrying transient
// failures up to the configured attempt count. A nil error means a fully
// validated article; any error means the candidate gets skipped, never that
// the run aborts.
func (c *Crawler) fetchArticle(ctx context.Context, session Session, candidate Candidate) (*models.Article, error) {
	var article *models.Article
	attempt := 0

	operation := func() error {
		attempt++
		if attempt > 1 {
			c.Logger.Warn("Retry attempt %d/%d for: %s", attempt, c.FetchAttempts, candidate.Title)
		}

		result, err := c.fetchArticleOnce(session, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			if isRetryable(err) {
				c.Logger.Warn("Transient failure for %s: %v", candidate.Url, err)
			}
			return err
		}
		article = result
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(c.RetryInterval), uint64(c.FetchAttempts-1),
		),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return nil, permanent.Err
		}
		return nil, err
	}
	return article, nil
}

func (c *Crawler) fetchArticleOnce(session Session, candidate Candidate) (retArticle *models.Article, retErr error) {
	c.Logger.Info("Opening article: %s", candidate.Title)

	tab, err := session.OpenTab()
	if err != nil {
		return nil, err
	}
	// The tab gets closed on every exit path, success or not.
	defer tab.Close()

	if err := tab.Navigate(candidate.Url); err != nil {
		return nil, err
	}
	if err := tab.WaitForSelector(contentContainerSelector, c.ContentWaitTimeout); err != nil {
		c.Logger.Warn("Content not loaded within %v", c.ContentWaitTimeout)
		return nil, err
	}
	tab.ScrollToBottom()

	content, err := tab.Content()
	if err != nil {
		return nil, err
	}
	document, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, oops.Wrap(err)
	}

	raw := &rawArticle{
		Title:            candidate.Title,
		Url:              candidate.Url,
		MaybeAuthor:      firstSelectorText(document, authorSelectors),
		MaybePublishTime: firstSelectorText(document, publishTimeSelectors),
		Blocks:           nil,
	}

	container := document.Find(contentContainerSelector).First()
	if container.Length() > 0 {
		raw.Blocks = ExtractBlocks(container.Nodes[0])
	}
	if len(raw.Blocks) == 0 {
		c.Logger.Warn("Extracted content is empty: %s", candidate.Url)
		return nil, oops.Wrap(ErrEmptyContent)
	}

	article, err := formatArticle(raw, c.Source, c.Category, c.Logger)
	if err != nil {
		return nil, err
	}

	c.Logger.Info(
		"Crawled article: author=%q publish_time=%q blocks=%d",
		raw.MaybeAuthor, raw.MaybePublishTime, len(article.Content),
	)
	return article, nil
}

// firstSelectorText tries the selectors in priority order and returns the
// first non-empty text. Metadata absence is not a failure.
func firstSelectorText(document *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		text := strings.TrimSpace(document.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}
