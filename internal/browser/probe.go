package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// CountSelector returns how many elements of a rendered page match selector
func CountSelector(html, selector string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc.Find(selector).Length(), nil
}

// Page is a scrollable document whose rendered HTML can be read
type Page interface {
	Scroller
	HTML(ctx context.Context) (string, error)
}

// ElementScroller reports ContentGrew when either the document height or the
// number of elements matching its selector changed during a round. Lazy lists
// that recycle rows keep a constant height while new cards are rendered.
type ElementScroller struct {
	page     Page
	selector string
	count    int
}

// NewElementScroller counts the elements already on the page
func NewElementScroller(ctx context.Context, page Page, selector string) (*ElementScroller, error) {
	s := &ElementScroller{page: page, selector: selector}

	count, err := s.countElements(ctx)
	if err != nil {
		return nil, err
	}
	s.count = count

	return s, nil
}

// Count returns the number of matching elements seen after the last round
func (s *ElementScroller) Count() int {
	return s.count
}

func (s *ElementScroller) ScrollToBottom(ctx context.Context, settle time.Duration) (ScrollResult, error) {
	result, err := s.page.ScrollToBottom(ctx, settle)
	if err != nil {
		return result, err
	}

	count, err := s.countElements(ctx)
	if err != nil {
		return ContentStable, err
	}
	if count != s.count {
		s.count = count
		return ContentGrew, nil
	}

	return result, nil
}

func (s *ElementScroller) countElements(ctx context.Context) (int, error) {
	html, err := s.page.HTML(ctx)
	if err != nil {
		return 0, err
	}
	return CountSelector(html, s.selector)
}
