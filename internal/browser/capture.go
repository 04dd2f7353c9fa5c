package browser

import (
	"strings"
	"sync"
	"time"

	"storefront/scraper/internal/domain"
)

type captureEntry struct {
	exchange domain.Exchange
	ready    bool
	failed   bool
}

// capture records responses whose URL starts with a watched prefix. Entries
// keep the order in which their responses were received.
type capture struct {
	mu       sync.Mutex
	prefixes []string
	entries  []*captureEntry
	pending  map[string]*captureEntry
	inflight sync.WaitGroup
	closed   bool
	active   time.Time // last response or body event
	now      func() time.Time
}

func newCapture(prefixes []string) *capture {
	return &capture{
		prefixes: append([]string(nil), prefixes...),
		pending:  make(map[string]*captureEntry),
		now:      time.Now,
	}
}

func (c *capture) watches(url string) bool {
	for _, prefix := range c.prefixes {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

func (c *capture) responseReceived(requestID, url string, status int64, mimeType string) bool {
	if !c.watches(url) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &captureEntry{
		exchange: domain.Exchange{
			URL:      url,
			Status:   status,
			MimeType: mimeType,
		},
	}
	c.entries = append(c.entries, entry)
	c.pending[requestID] = entry
	c.active = c.now()
	return true
}

func (c *capture) isPending(requestID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.pending[requestID]
	return ok
}

// beginFetch registers a body fetch for a pending request. It returns false
// once shutdown started, the caller must then skip the fetch.
func (c *capture) beginFetch(requestID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	if _, ok := c.pending[requestID]; !ok {
		return false
	}
	c.inflight.Add(1)
	return true
}

func (c *capture) endFetch() {
	c.inflight.Done()
}

// shutdown stops new body fetches and waits for the running ones
func (c *capture) shutdown() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.inflight.Wait()
}

func (c *capture) finished(requestID string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.pending[requestID]
	if !ok {
		return
	}
	delete(c.pending, requestID)

	entry.exchange.Body = body
	entry.exchange.CapturedAt = c.now()
	entry.ready = true
	c.active = entry.exchange.CapturedAt
}

func (c *capture) failed(requestID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.pending[requestID]
	if !ok {
		return
	}
	delete(c.pending, requestID)
	entry.failed = true
	c.active = c.now()
}

// exchanges returns the completed exchanges matching prefix
func (c *capture) exchanges(prefix string) []domain.Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []domain.Exchange
	for _, entry := range c.entries {
		if entry.ready && entry.exchange.HasPrefix(prefix) {
			out = append(out, entry.exchange)
		}
	}
	return out
}

func (c *capture) hasAll(prefixes ...string) bool {
	for _, prefix := range prefixes {
		if len(c.exchanges(prefix)) == 0 {
			return false
		}
	}
	return true
}

// settled reports whether no body is loading and no watched response arrived
// for at least quiet
func (c *capture) settled(quiet time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) > 0 {
		return false
	}
	return c.active.IsZero() || c.now().Sub(c.active) >= quiet
}
