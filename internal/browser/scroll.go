package browser

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// ScrollResult is the outcome of one scroll-to-bottom round
type ScrollResult int

const (
	ContentGrew ScrollResult = iota
	ContentStable
)

func (r ScrollResult) String() string {
	switch r {
	case ContentGrew:
		return "content-grew"
	case ContentStable:
		return "content-stable"
	default:
		return "unknown"
	}
}

type Scroller interface {
	// ScrollToBottom scrolls once and reports whether the document grew
	// within settle.
	ScrollToBottom(ctx context.Context, settle time.Duration) (ScrollResult, error)
}

type LoadOptions struct {
	Pause     time.Duration // delay between rounds that grew
	Settle    time.Duration // how long a round waits for the document to grow
	MaxRounds int           // 0 means unbounded
	OnRound   func(round int, result ScrollResult)
}

// LoadAll keeps scrolling until a round reports ContentStable and returns the
// number of rounds performed. Scroll failures are returned as errors and never
// taken as the end of the content.
func LoadAll(ctx context.Context, scroller Scroller, opts LoadOptions) (int, error) {
	for round := 1; opts.MaxRounds <= 0 || round <= opts.MaxRounds; round++ {
		result, err := scroller.ScrollToBottom(ctx, opts.Settle)
		if err != nil {
			return round - 1, fmt.Errorf("scroll round %d failed: %w", round, err)
		}

		if opts.OnRound != nil {
			opts.OnRound(round, result)
		}

		if result == ContentStable {
			return round, nil
		}

		select {
		case <-ctx.Done():
			return round, ctx.Err()
		case <-time.After(opts.Pause):
		}
	}

	log.Warnf("⚠️ Page still growing after %d scroll rounds, stopping", opts.MaxRounds)
	return opts.MaxRounds, nil
}
