package crawler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkg/errors"

	"ctonews/config"
	"ctonews/oops"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Keeps navigator.webdriver from giving the automation away.
const antiDetectionScript = `
	Object.defineProperty(navigator, 'webdriver', {
		get: () => undefined
	});
`

type RodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	logger   Logger
}

// NewRodBrowser launches a Chromium instance and connects to it. This is the
// one step whose failure aborts a crawl run.
func NewRodBrowser(logger Logger) (*RodBrowser, error) {
	l := launcher.New().
		Headless(config.Cfg.Headless).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage")
	browserUrl, err := l.Launch()
	if err != nil {
		return nil, oops.Wrap(err)
	}

	browser := rod.New().ControlURL(browserUrl)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, oops.Wrap(err)
	}
	logger.Info("Connected to the browser")

	return &RodBrowser{
		launcher: l,
		browser:  browser,
		logger:   logger,
	}, nil
}

func (b *RodBrowser) NewSession() (Session, error) {
	return b.newPage()
}

func (b *RodBrowser) newPage() (*rodSession, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{}) //nolint:exhaustruct
	if err != nil {
		return nil, oops.Wrap(err)
	}

	//nolint:exhaustruct
	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
		Mobile:            false,
	})
	if err != nil {
		return nil, oops.Wrap(err)
	}
	//nolint:exhaustruct
	err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: browserUserAgent,
	})
	if err != nil {
		return nil, oops.Wrap(err)
	}
	//nolint:exhaustruct
	_, err = proto.PageAddScriptToEvaluateOnNewDocument{
		Source: antiDetectionScript,
	}.Call(page)
	if err != nil {
		return nil, oops.Wrap(err)
	}

	return &rodSession{
		browser: b,
		page:    page,
		logger:  b.logger,
	}, nil
}

func (b *RodBrowser) Close() {
	if err := b.browser.Close(); err != nil {
		b.logger.Warn("Browser close error: %v", err)
	}
	b.launcher.Kill()
	b.logger.Info("Browser closed")
}

type rodSession struct {
	browser *RodBrowser
	page    *rod.Page
	logger  Logger
}

func (s *rodSession) Navigate(url string) error {
	page := s.page.Timeout(config.Cfg.NavigationTimeout)
	if err := page.Navigate(url); err != nil {
		return oops.Wrap(err)
	}
	if err := page.WaitLoad(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return oops.Wrap(ErrContentTimeout)
		}
		return oops.Wrap(err)
	}
	return nil
}

func (s *rodSession) WaitForSelector(selector string, timeout time.Duration) error {
	_, err := s.page.Timeout(timeout).Element(selector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return oops.Wrap(ErrContentTimeout)
		}
		return oops.Wrap(err)
	}
	return nil
}

func (s *rodSession) Content() (string, error) {
	content, err := s.page.HTML()
	if err != nil {
		return "", oops.Wrap(err)
	}
	return content, nil
}

func (s *rodSession) ScrollToBottom() {
	const maxScrolls = 10
	for i := 0; i < maxScrolls; i++ {
		distance := 300 + rand.Intn(300)
		var evalOptions rod.EvalOptions
		evalOptions.JS = fmt.Sprintf("() => window.scrollBy(0, %d)", distance)
		_, err := s.page.Timeout(3 * time.Second).Evaluate(&evalOptions)
		if err != nil {
			s.logger.Warn("Scroll error: %v", err)
			return
		}
		time.Sleep(time.Duration(300+rand.Intn(500)) * time.Millisecond)
	}
}

func (s *rodSession) ClickByText(selector string, textRegex string) (bool, error) {
	element, err := s.page.Timeout(3 * time.Second).ElementR(selector, textRegex)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return false, nil
		}
		return false, oops.Wrap(err)
	}
	if err := element.ScrollIntoView(); err != nil {
		return false, oops.Wrap(err)
	}
	if err := element.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, oops.Wrap(err)
	}
	return true, nil
}

func (s *rodSession) OpenTab() (Session, error) {
	return s.browser.newPage()
}

func (s *rodSession) Close() {
	if err := s.page.Close(); err != nil {
		s.logger.Warn("Page close error: %v", err)
	}
}
