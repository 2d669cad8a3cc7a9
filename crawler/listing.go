package crawler

import (
	neturl "net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ctonews/oops"
)

const listingListSelector = "ul.infinite-list"
const listingItemSelector = "ul.infinite-list > li"
const listingLinkSelector = "a[href*='posts']"
const listingTitleSelector = "h3.title-h3"
const untitledPlaceholder = "无标题"

// Candidate is one listing row: a link that may become an article. MaybeId
// is nil when the numeric identifier couldn't be parsed out of the URL, in
// which case the candidate can never be considered old.
type Candidate struct {
	Url     string
	Title   string
	MaybeId *int64
}

func parseListing(content string, fetchUrl string, logger Logger) ([]Candidate, error) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, oops.Wrap(err)
	}
	maybeBaseUri, _ := neturl.Parse(fetchUrl)

	var candidates []Candidate
	document.Find(listingItemSelector).Each(func(idx int, item *goquery.Selection) {
		link := item.Find(listingLinkSelector).First()
		if link.Length() == 0 {
			return
		}
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		url := resolveUrl(href, maybeBaseUri)

		title := strings.TrimSpace(item.Find(listingTitleSelector).First().Text())
		if title == "" {
			linkText := strings.TrimSpace(link.Text())
			title, _, _ = strings.Cut(linkText, "\n")
			title = strings.TrimSpace(title)
		}
		if title == "" {
			title = untitledPlaceholder
		}

		candidates = append(candidates, Candidate{
			Url:     url,
			Title:   title,
			MaybeId: parseArticleId(url),
		})
	})

	logger.Info("Found %d article items", len(candidates))
	return candidates, nil
}

func resolveUrl(href string, maybeBaseUri *neturl.URL) string {
	if maybeBaseUri == nil {
		return href
	}
	uri, err := neturl.Parse(href)
	if err != nil {
		return href
	}
	return maybeBaseUri.ResolveReference(uri).String()
}

// parseArticleId pulls the numeric id out of a /posts/<id> URL.
func parseArticleId(url string) *int64 {
	_, suffix, ok := strings.Cut(url, "/posts/")
	if !ok {
		return nil
	}
	suffix = strings.Trim(suffix, "/")
	id, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

type listingPartition struct {
	// Eligible candidates are above the floor or have an unparsable id.
	// Already-crawled URLs are still included here; the dedup filter comes
	// after the old/new split so that a fully-crawled page doesn't read as
	// an all-old page.
	Eligible []Candidate
	OldCount int
	// AllOld is true when the page had candidates and every one of them was
	// at or below the floor. A page with no candidates at all is not AllOld.
	AllOld bool
}

func partitionCandidates(candidates []Candidate, minArticleId int64, logger Logger) listingPartition {
	var result listingPartition
	for _, candidate := range candidates {
		if candidate.MaybeId != nil && *candidate.MaybeId <= minArticleId {
			logger.Info("Skip old article: %s (ID: %d)", candidate.Title, *candidate.MaybeId)
			result.OldCount++
			continue
		}
		result.Eligible = append(result.Eligible, candidate)
	}
	result.AllOld = len(result.Eligible) == 0 && result.OldCount > 0
	return result
}
