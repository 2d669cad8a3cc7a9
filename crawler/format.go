package crawler

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/dlclark/regexp2"

	"ctonews/models"
	"ctonews/oops"
)

const summaryMaxRunes = 200

// rawArticle is the untyped scrape payload before formatting. Author is
// logged but intentionally not part of the canonical record.
type rawArticle struct {
	Title            string
	Url              string
	MaybeAuthor      string
	MaybePublishTime string
	Blocks           []models.ContentBlock
}

var yearFirstDateRegex *regexp2.Regexp
var dayFirstDateRegex *regexp2.Regexp

func init() {
	yearFirstDateRegex = regexp2.MustCompile(`(\d{4})[.\-/年](\d{1,2})[.\-/月](\d{1,2})`, 0)
	dayFirstDateRegex = regexp2.MustCompile(`(\d{1,2})[.\-/](\d{1,2})[.\-/](\d{4})`, 0)
}

// formatArticle maps a raw scrape into the canonical record: deterministic
// url-derived id, normalized date, derived summary. The id never changes
// across re-ingestions of the same url.
func formatArticle(raw *rawArticle, source string, category string, logger Logger) (*models.Article, error) {
	now := time.Now()
	article := &models.Article{
		Id:        articleId(raw.Url),
		Title:     raw.Title,
		Date:      standardizeDate(raw.MaybePublishTime, logger),
		Url:       raw.Url,
		Content:   raw.Blocks,
		Category:  category,
		Summary:   deriveSummary(raw.Blocks),
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := article.Validate(); err != nil {
		return nil, oops.Wrap(err)
	}
	return article, nil
}

func articleId(url string) string {
	hash := md5.Sum([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}

// standardizeDate normalizes the scraped publish time to YYYY-MM-DD,
// accepting both year-first (2024-01-02, 2024年1月2日) and day-first
// (02.01.2024) shapes. Unparsable input falls back to today.
func standardizeDate(dateStr string, logger Logger) string {
	today := time.Now().Format("2006-01-02")
	if dateStr == "" {
		return today
	}

	for _, regex := range []*regexp2.Regexp{yearFirstDateRegex, dayFirstDateRegex} {
		match, err := regex.FindStringMatch(dateStr)
		if err != nil || match == nil {
			continue
		}
		groups := match.Groups()
		if len(groups) != 4 {
			continue
		}
		first, _ := strconv.Atoi(groups[1].String())
		second, _ := strconv.Atoi(groups[2].String())
		third, _ := strconv.Atoi(groups[3].String())

		var year, month, day int
		if first > 1900 {
			year, month, day = first, second, third
		} else {
			day, month, year = first, second, third
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}

	logger.Warn("Cannot parse date: %s, using current date", dateStr)
	return today
}

// deriveSummary takes the first text block, truncated to 200 characters with
// an ellipsis marker.
func deriveSummary(blocks []models.ContentBlock) string {
	for _, block := range blocks {
		if block.Kind != models.BlockKindText || block.Value == "" {
			continue
		}
		runes := []rune(block.Value)
		if len(runes) > summaryMaxRunes {
			return string(runes[:summaryMaxRunes]) + "..."
		}
		return block.Value
	}
	return ""
}
