package browser

import (
	"context"
	"fmt"
	"time"

	"storefront/scraper/internal/config"
	"storefront/scraper/internal/domain"
	"storefront/scraper/internal/proxy"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	log "github.com/sirupsen/logrus"
)

const scrollHeightJS = `document.body.scrollHeight`

// Launcher starts browser sessions
type Launcher interface {
	// Launch starts a fresh browser that captures every response whose URL
	// starts with one of the watched prefixes.
	Launch(ctx context.Context, watch ...string) (Session, error)
}

// Session is a single browser tab with response capture
type Session interface {
	Scroller

	Navigate(ctx context.Context, url string) error
	// Exchanges returns the captured exchanges for prefix in response order
	Exchanges(prefix string) []domain.Exchange
	// WaitForExchanges waits until every prefix has at least one captured
	// exchange and the capture went quiet: no body still loading and no new
	// watched response for the configured quiet period. It returns false when
	// timeout elapses first.
	WaitForExchanges(ctx context.Context, timeout time.Duration, prefixes ...string) (bool, error)
	// SubmitText clears the input matched by selector, types text and presses Enter
	SubmitText(ctx context.Context, selector, text string) error
	ClickXPath(ctx context.Context, xpath string) error
	HTML(ctx context.Context) (string, error)
	Close() error
}

type chromeLauncher struct {
	config        config.BrowserConfig
	proxySupplier proxy.ProxySupplier
}

func NewChromeLauncher(cfg config.BrowserConfig, proxySupplier proxy.ProxySupplier) Launcher {
	return &chromeLauncher{
		config:        cfg,
		proxySupplier: proxySupplier,
	}
}

func (l *chromeLauncher) Launch(ctx context.Context, watch ...string) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.config.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(l.config.UserAgent),
	)
	if l.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.config.ExecPath))
	}
	if l.proxySupplier != nil {
		if proxyURL := l.proxySupplier.Get(); proxyURL != "" {
			opts = append(opts, chromedp.ProxyServer(proxyURL))
			log.Debugf("🔗 Launching browser through proxy %s", proxyURL)
		}
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	session := &chromeSession{
		ctx:          tabCtx,
		capture:      newCapture(watch),
		pollInterval: l.config.PollInterval,
		quietPeriod:  l.config.QuietPeriod,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
	}

	chromedp.ListenTarget(tabCtx, session.handleEvent)

	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return session, nil
}

type chromeSession struct {
	ctx          context.Context
	cancel       context.CancelFunc
	capture      *capture
	pollInterval time.Duration
	quietPeriod  time.Duration
}

func (s *chromeSession) handleEvent(ev interface{}) {
	switch e := ev.(type) {
	case *network.EventResponseReceived:
		if e.Response == nil {
			return
		}
		if s.capture.responseReceived(string(e.RequestID), e.Response.URL, e.Response.Status, e.Response.MimeType) {
			log.Debugf("📡 Captured response %d %s", e.Response.Status, e.Response.URL)
		}

	case *network.EventLoadingFinished:
		requestID := e.RequestID
		if !s.capture.beginFetch(string(requestID)) {
			return
		}

		// Listener callbacks must not block, the body is fetched separately
		go func() {
			defer s.capture.endFetch()

			c := chromedp.FromContext(s.ctx)
			body, err := network.GetResponseBody(requestID).Do(cdp.WithExecutor(s.ctx, c.Target))
			if err != nil {
				log.Debugf("Failed to read response body for %s: %v", requestID, err)
				s.capture.failed(string(requestID))
				return
			}
			s.capture.finished(string(requestID), body)
		}()

	case *network.EventLoadingFailed:
		s.capture.failed(string(e.RequestID))
	}
}

// run executes actions on the tab, aborting when either ctx or the session ends
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (s *chromeSession) Exchanges(prefix string) []domain.Exchange {
	return s.capture.exchanges(prefix)
}

func (s *chromeSession) WaitForExchanges(ctx context.Context, timeout time.Duration, prefixes ...string) (bool, error) {
	return WaitFor(ctx, timeout, s.pollInterval, func(context.Context) (bool, error) {
		return s.capture.hasAll(prefixes...) && s.capture.settled(s.quietPeriod), nil
	})
}

func (s *chromeSession) SubmitText(ctx context.Context, selector, text string) error {
	err := s.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text+kb.Enter, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to submit text to %s: %w", selector, err)
	}
	return nil
}

func (s *chromeSession) ClickXPath(ctx context.Context, xpath string) error {
	if err := s.run(ctx, chromedp.Click(xpath, chromedp.BySearch)); err != nil {
		return fmt.Errorf("failed to click %s: %w", xpath, err)
	}
	return nil
}

func (s *chromeSession) ScrollToBottom(ctx context.Context, settle time.Duration) (ScrollResult, error) {
	var before float64
	err := s.run(ctx,
		chromedp.Evaluate(scrollHeightJS, &before),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil),
	)
	if err != nil {
		return ContentStable, fmt.Errorf("failed to scroll: %w", err)
	}

	grew, err := WaitFor(ctx, settle, s.pollInterval, func(ctx context.Context) (bool, error) {
		var after float64
		if err := s.run(ctx, chromedp.Evaluate(scrollHeightJS, &after)); err != nil {
			return false, fmt.Errorf("failed to measure page height: %w", err)
		}
		return after != before, nil
	})
	if err != nil {
		return ContentStable, err
	}

	if grew {
		return ContentGrew, nil
	}
	return ContentStable, nil
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

func (s *chromeSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	s.capture.shutdown()
	return err
}
