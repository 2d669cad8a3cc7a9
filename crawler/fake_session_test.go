package crawler

import (
	"fmt"
	"time"

	"ctonews/models"
	"ctonews/oops"
)

var errBrowserDown = oops.New("browser failed to start")

// fakeArticlePage scripts one article url. AlwaysTimesOut makes every
// WaitForSelector on it fail the way a slow page would.
type fakeArticlePage struct {
	Html           string
	AlwaysTimesOut bool
}

type fakeBrowser struct {
	session *fakeSession
	closed  bool
}

func (b *fakeBrowser) NewSession() (Session, error) {
	return b.session, nil
}

func (b *fakeBrowser) Close() {
	b.closed = true
}

// fakeSession serves scripted listing pages and article pages. The same
// struct doubles as the isolated article tab, pointing back at the shared
// script state.
type fakeSession struct {
	ListingPages []string
	Articles     map[string]*fakeArticlePage

	// Observations
	WaitAttempts map[string]int
	OpenedTabs   int
	ClosedTabs   int
	NextClicks   int

	pageIdx    int
	isTab      bool
	currentUrl string
	root       *fakeSession
}

func newFakeSession(listingPages []string, articles map[string]*fakeArticlePage) *fakeSession {
	s := &fakeSession{
		ListingPages: listingPages,
		Articles:     articles,
		WaitAttempts: map[string]int{},
	}
	s.root = s
	return s
}

func (s *fakeSession) Navigate(url string) error {
	s.currentUrl = url
	return nil
}

func (s *fakeSession) WaitForSelector(selector string, timeout time.Duration) error {
	if !s.isTab {
		return nil
	}
	s.root.WaitAttempts[s.currentUrl]++
	page, ok := s.root.Articles[s.currentUrl]
	if !ok {
		return oops.Newf("unknown article url: %s", s.currentUrl)
	}
	if page.AlwaysTimesOut {
		return oops.Wrap(ErrContentTimeout)
	}
	return nil
}

func (s *fakeSession) Content() (string, error) {
	if s.isTab {
		page, ok := s.root.Articles[s.currentUrl]
		if !ok {
			return "", oops.Newf("unknown article url: %s", s.currentUrl)
		}
		return page.Html, nil
	}
	if s.pageIdx >= len(s.ListingPages) {
		return "", oops.New("no listing page scripted")
	}
	return s.ListingPages[s.pageIdx], nil
}

func (s *fakeSession) ScrollToBottom() {}

func (s *fakeSession) ClickByText(selector string, textRegex string) (bool, error) {
	s.root.NextClicks++
	if s.pageIdx+1 >= len(s.ListingPages) {
		return false, nil
	}
	s.pageIdx++
	return true, nil
}

func (s *fakeSession) OpenTab() (Session, error) {
	s.root.OpenedTabs++
	return &fakeSession{
		Articles: s.root.Articles,
		isTab:    true,
		root:     s.root,
	}, nil
}

func (s *fakeSession) Close() {
	if s.isTab {
		s.root.ClosedTabs++
	}
}

// fakeStore is an in-memory ArticleStore with optional write failures.
type fakeStore struct {
	Articles   []models.Article
	Urls       map[string]bool
	MergeCalls [][]models.Article
	FailMerges int
}

func newFakeStore(seedUrls ...string) *fakeStore {
	urls := map[string]bool{}
	for _, url := range seedUrls {
		urls[url] = true
	}
	return &fakeStore{Urls: urls}
}

func (s *fakeStore) LoadUrls() (map[string]bool, error) {
	urls := make(map[string]bool, len(s.Urls))
	for url := range s.Urls {
		urls[url] = true
	}
	return urls, nil
}

func (s *fakeStore) Merge(articles []models.Article) (int, error) {
	s.MergeCalls = append(s.MergeCalls, append([]models.Article(nil), articles...))
	if s.FailMerges > 0 {
		s.FailMerges--
		return 0, oops.New("disk full")
	}

	added := 0
	for _, article := range articles {
		if s.Urls[article.Url] {
			continue
		}
		s.Urls[article.Url] = true
		s.Articles = append(s.Articles, article)
		added++
	}
	return added, nil
}

// Listing/article fixture builders

func articleUrl(id int) string {
	return fmt.Sprintf("https://ost.51cto.com/posts/%d", id)
}

func listingPageHtml(ids ...int) string {
	items := ""
	for _, id := range ids {
		items += fmt.Sprintf(
			`<li><a href="%s"><h3 class="title-h3">Post %d</h3></a></li>`,
			articleUrl(id), id,
		)
	}
	return `<html><body><ul class="infinite-list">` + items + `</ul></body></html>`
}

func articlePageHtml(body string) string {
	return `<html><body><div class="posts-content"><p>` + body + `</p></div></body></html>`
}

func newTestCrawler(browser *fakeBrowser, store ArticleStore) *Crawler {
	scrapedUrls, _ := store.LoadUrls()
	return &Crawler{
		ListingUrl:         listingUrl,
		Source:             "51CTO",
		Category:           "技术文章",
		MinArticleId:       33500,
		BatchSize:          5,
		FetchAttempts:      2,
		RetryInterval:      0,
		ContentWaitTimeout: time.Second,
		NewBrowser:         func() (Browser, error) { return browser, nil },
		Store:              store,
		Logger:             NewDummyLogger(),
		Sleep:              func(time.Duration) {},
		scrapedUrls:        scrapedUrls,
	}
}
