package proxy

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"resty.dev/v3"
)

const maxParallelChecks = 50

// ProxySupplier hands out proxies for new browser sessions in round-robin order
type ProxySupplier interface {
	Get() string
	Len() int
}

// Checker reports whether a proxy can reach testURL
type Checker func(ctx context.Context, proxyURL, testURL string) bool

type proxySupplier struct {
	proxies []string
	current int
	mutex   sync.Mutex
}

// NewProxySupplier checks every configured proxy against testURL and keeps the
// working ones. An empty list yields a supplier that always returns "", which
// means a direct connection.
func NewProxySupplier(ctx context.Context, proxies []string, testURL string, check Checker) ProxySupplier {
	if len(proxies) == 0 {
		return &proxySupplier{}
	}
	if check == nil {
		check = isProxyValid
	}

	log.Infof("🔄 Testing %d proxies in parallel...", len(proxies))

	valid := make([]bool, len(proxies))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelChecks)

	for i, proxyURL := range proxies {
		proxyURL = normalize(proxyURL)
		g.Go(func() error {
			if check(ctx, proxyURL, testURL) {
				valid[i] = true
				log.Infof("✅ Proxy %s is working", proxyURL)
			} else {
				log.Infof("❌ Proxy %s is not working, skipping", proxyURL)
			}
			return nil
		})
	}
	_ = g.Wait()

	working := make([]string, 0, len(proxies))
	for i, ok := range valid {
		if ok {
			working = append(working, normalize(proxies[i]))
		}
	}

	log.Infof("✅ ProxySupplier initialized with %d working proxies out of %d tested", len(working), len(proxies))

	return &proxySupplier{proxies: working}
}

// Get returns the next proxy URL in round-robin fashion
func (p *proxySupplier) Get() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	proxy := p.proxies[p.current]
	p.current = (p.current + 1) % len(p.proxies)

	return proxy
}

func (p *proxySupplier) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return len(p.proxies)
}

// normalize adds the http scheme Chrome and resty both accept
func normalize(proxyURL string) string {
	proxyURL = strings.TrimSpace(proxyURL)
	if !strings.Contains(proxyURL, "://") {
		return "http://" + proxyURL
	}
	return proxyURL
}

// isProxyValid tests if a proxy can successfully make a request to the test URL
func isProxyValid(ctx context.Context, proxyURL, testURL string) bool {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(0).
		SetProxy(proxyURL)

	resp, err := client.R().
		SetContext(ctx).
		Get(testURL)

	if err != nil {
		log.Debugf("Proxy test failed for %s: %v", proxyURL, err)
		return false
	}

	if resp.IsError() {
		log.Debugf("Proxy test failed for %s with status: %s", proxyURL, resp.Status())
		return false
	}

	return true
}
