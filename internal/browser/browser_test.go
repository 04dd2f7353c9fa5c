package browser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitFor(t *testing.T) {
	calls := 0
	ok, err := WaitFor(context.Background(), time.Second, time.Millisecond, func(context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, calls)
}

func TestWaitForTimeout(t *testing.T) {
	start := time.Now()
	ok, err := WaitFor(context.Background(), 20*time.Millisecond, time.Millisecond, func(context.Context) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	require.False(t, ok)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWaitForConditionError(t *testing.T) {
	boom := errors.New("boom")
	_, err := WaitFor(context.Background(), time.Second, time.Millisecond, func(context.Context) (bool, error) {
		return false, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestWaitForCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WaitFor(ctx, time.Second, time.Millisecond, func(context.Context) (bool, error) {
		return false, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

type fakeScroller struct {
	heights []int
	calls   int
	err     error
	failAt  int
}

func (f *fakeScroller) ScrollToBottom(ctx context.Context, settle time.Duration) (ScrollResult, error) {
	f.calls++
	if f.err != nil && f.calls == f.failAt {
		return ContentStable, f.err
	}
	if f.calls >= len(f.heights) || f.heights[f.calls] == f.heights[f.calls-1] {
		return ContentStable, nil
	}
	return ContentGrew, nil
}

func TestLoadAllStopsWhenStable(t *testing.T) {
	scroller := &fakeScroller{heights: []int{1000, 2000, 3000, 3000, 4000}}

	var results []ScrollResult
	rounds, err := LoadAll(context.Background(), scroller, LoadOptions{
		OnRound: func(round int, result ScrollResult) {
			results = append(results, result)
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, rounds)
	require.Equal(t, []ScrollResult{ContentGrew, ContentGrew, ContentStable}, results)
}

func TestLoadAllMaxRounds(t *testing.T) {
	scroller := &fakeScroller{heights: []int{1, 2, 3, 4, 5, 6, 7, 8}}

	rounds, err := LoadAll(context.Background(), scroller, LoadOptions{MaxRounds: 4})
	require.NoError(t, err)
	require.Equal(t, 4, rounds)
	require.Equal(t, 4, scroller.calls)
}

func TestLoadAllScrollErrorIsNotEndOfContent(t *testing.T) {
	boom := errors.New("target closed")
	scroller := &fakeScroller{heights: []int{1, 2, 3, 4}, err: boom, failAt: 2}

	rounds, err := LoadAll(context.Background(), scroller, LoadOptions{})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, rounds)
}

func TestScrollResultString(t *testing.T) {
	require.Equal(t, "content-grew", ContentGrew.String())
	require.Equal(t, "content-stable", ContentStable.String())
}

func TestCaptureKeepsResponseOrder(t *testing.T) {
	c := newCapture([]string{"https://portal.grab.com/foodweb/v2/search"})

	require.True(t, c.responseReceived("1", "https://portal.grab.com/foodweb/v2/search?offset=0", 200, "application/json"))
	require.False(t, c.responseReceived("2", "https://food.grab.com/static/app.js", 200, "text/javascript"))
	require.True(t, c.responseReceived("3", "https://portal.grab.com/foodweb/v2/search?offset=32", 200, "application/json"))
	require.True(t, c.responseReceived("4", "https://portal.grab.com/foodweb/v2/search?offset=64", 200, "application/json"))

	require.True(t, c.isPending("1"))
	require.False(t, c.isPending("2"))

	// Bodies arrive out of order
	c.finished("3", []byte(`{"page":2}`))
	c.finished("1", []byte(`{"page":1}`))
	c.failed("4")

	exchanges := c.exchanges("https://portal.grab.com/foodweb/v2/search")
	require.Len(t, exchanges, 2)
	require.Equal(t, `{"page":1}`, string(exchanges[0].Body))
	require.Equal(t, `{"page":2}`, string(exchanges[1].Body))
	require.False(t, exchanges[0].CapturedAt.IsZero())

	require.False(t, c.isPending("4"))
	c.finished("4", []byte(`late`))
	require.Len(t, c.exchanges("https://portal.grab.com/"), 2)
}

func TestCaptureHasAll(t *testing.T) {
	c := newCapture([]string{"https://a/", "https://b/"})
	require.False(t, c.hasAll("https://a/", "https://b/"))

	c.responseReceived("1", "https://a/x", 200, "application/json")
	require.False(t, c.hasAll("https://a/"))

	c.finished("1", []byte(`{}`))
	require.True(t, c.hasAll("https://a/"))
	require.False(t, c.hasAll("https://a/", "https://b/"))

	c.responseReceived("2", "https://b/y", 200, "application/json")
	c.finished("2", []byte(`{}`))
	require.True(t, c.hasAll("https://a/", "https://b/"))
}

func TestCountSelector(t *testing.T) {
	html := `<html><body><div id="page-content">
		<a href="/ph/en/restaurant/jollibee-1">Jollibee</a>
		<a href="/ph/en/restaurant/mary-grace-2">Mary Grace</a>
		<a href="/ph/en/help">Help</a>
	</div></body></html>`

	count, err := CountSelector(html, `a[href*="/restaurant/"]`)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

type fakePage struct {
	results []ScrollResult
	cards   []int
	calls   int
	htmlErr error
}

func (p *fakePage) ScrollToBottom(ctx context.Context, settle time.Duration) (ScrollResult, error) {
	result := p.results[p.calls]
	p.calls++
	return result, nil
}

func (p *fakePage) HTML(ctx context.Context) (string, error) {
	if p.htmlErr != nil {
		return "", p.htmlErr
	}
	var b strings.Builder
	for i := 0; i < p.cards[p.calls]; i++ {
		b.WriteString(`<a href="/ph/en/restaurant/r">r</a>`)
	}
	return b.String(), nil
}

func TestElementScrollerCardsGrowWithStableHeight(t *testing.T) {
	page := &fakePage{
		results: []ScrollResult{ContentStable, ContentStable, ContentStable},
		cards:   []int{8, 16, 24, 24},
	}

	scroller, err := NewElementScroller(context.Background(), page, `a[href*="/restaurant/"]`)
	require.NoError(t, err)
	require.Equal(t, 8, scroller.Count())

	rounds, err := LoadAll(context.Background(), scroller, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, rounds)
	require.Equal(t, 24, scroller.Count())
}

func TestElementScrollerHeightGrowsWithStableCards(t *testing.T) {
	page := &fakePage{
		results: []ScrollResult{ContentGrew, ContentStable},
		cards:   []int{8, 8, 8},
	}

	scroller, err := NewElementScroller(context.Background(), page, `a[href*="/restaurant/"]`)
	require.NoError(t, err)

	rounds, err := LoadAll(context.Background(), scroller, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, rounds)
}

func TestElementScrollerHTMLError(t *testing.T) {
	boom := errors.New("target closed")

	_, err := NewElementScroller(context.Background(), &fakePage{htmlErr: boom}, "a")
	require.ErrorIs(t, err, boom)
}

func TestCaptureSettled(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := newCapture([]string{"https://a/"})
	c.now = func() time.Time { return now }

	require.True(t, c.settled(time.Second))

	c.responseReceived("1", "https://a/1", 200, "application/json")
	c.finished("1", []byte(`{}`))
	c.responseReceived("2", "https://a/2", 200, "application/json")
	require.True(t, c.hasAll("https://a/"))

	// A second page of products is still loading
	now = now.Add(5 * time.Second)
	require.False(t, c.settled(time.Second))

	c.finished("2", []byte(`{}`))
	require.False(t, c.settled(time.Second))

	now = now.Add(time.Second)
	require.True(t, c.settled(time.Second))
	require.Len(t, c.exchanges("https://a/"), 2)
}

func TestCaptureShutdownStopsFetches(t *testing.T) {
	c := newCapture([]string{"https://a/"})
	c.responseReceived("1", "https://a/1", 200, "application/json")
	c.responseReceived("2", "https://a/2", 200, "application/json")

	require.False(t, c.beginFetch("unknown"))
	require.True(t, c.beginFetch("1"))

	done := make(chan struct{})
	go func() {
		c.shutdown()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("shutdown returned while a fetch was running")
	case <-time.After(20 * time.Millisecond):
	}

	c.finished("1", []byte(`{}`))
	c.endFetch()
	<-done

	require.False(t, c.beginFetch("2"))
}
