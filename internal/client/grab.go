package client

import (
	"context"
	"fmt"

	"storefront/scraper/internal/browser"
	"storefront/scraper/internal/config"
	"storefront/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

type GrabClient interface {
	// SearchRestaurants searches restaurants around location, scrolls until no
	// more results load and returns every captured search response
	SearchRestaurants(ctx context.Context, location string) ([]domain.Exchange, error)
}

type grabClient struct {
	config   config.GrabConfig
	launcher browser.Launcher
}

func NewGrabClient(cfg config.GrabConfig, launcher browser.Launcher) GrabClient {
	return &grabClient{
		config:   cfg,
		launcher: launcher,
	}
}

func (c *grabClient) SearchRestaurants(ctx context.Context, location string) ([]domain.Exchange, error) {
	session, err := c.launcher.Launch(ctx, c.config.SearchURLPrefix)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.Navigate(ctx, c.config.HomeURL); err != nil {
		return nil, err
	}

	if err := c.submitSearch(ctx, session, location); err != nil {
		return nil, err
	}

	found, err := session.WaitForExchanges(ctx, c.config.PageTimeout, c.config.SearchURLPrefix)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Warnf("⏱️ No search response within %s, scrolling anyway", c.config.PageTimeout)
	}

	scroller, err := browser.NewElementScroller(ctx, session, c.config.CardSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to count restaurant cards: %w", err)
	}

	rounds, err := browser.LoadAll(ctx, scroller, browser.LoadOptions{
		Pause:     c.config.ScrollPause,
		Settle:    c.config.ScrollSettle,
		MaxRounds: c.config.MaxScrolls,
		OnRound: func(round int, result browser.ScrollResult) {
			log.Debugf("Scroll round %d: %s, %d restaurants on page", round, result, scroller.Count())
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load all restaurants: %w", err)
	}

	// The last rounds may still have search bodies loading
	settled, err := session.WaitForExchanges(ctx, c.config.PageTimeout)
	if err != nil {
		return nil, err
	}
	if !settled {
		log.Warnf("⏱️ Search responses still loading after %s, keeping the ones already read", c.config.PageTimeout)
	}

	exchanges := session.Exchanges(c.config.SearchURLPrefix)
	log.Infof("📜 Scrolled %d rounds, %d restaurant cards, captured %d search responses", rounds, scroller.Count(), len(exchanges))

	return exchanges, nil
}

func (c *grabClient) submitSearch(ctx context.Context, session browser.Session, location string) error {
	pageCtx, cancel := context.WithTimeout(ctx, c.config.PageTimeout)
	defer cancel()

	if err := session.SubmitText(pageCtx, c.config.LocationSelector, location); err != nil {
		return err
	}

	return session.ClickXPath(pageCtx, c.config.SearchButtonXPath)
}
