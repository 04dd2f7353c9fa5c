package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/scraper/internal/browser"
	"storefront/scraper/internal/config"
	"storefront/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// HomePayloads are the responses captured while the storefront home page loads
type HomePayloads struct {
	City []domain.Exchange
	Menu []domain.Exchange
}

type BigBasketClient interface {
	GetHomePayloads(ctx context.Context) (*HomePayloads, error)
	GetSubcategoryPayloads(ctx context.Context, subcategory domain.Subcategory) ([]domain.Exchange, error)
}

type bigBasketClient struct {
	rl       ratelimit.Limiter
	config   config.BigBasketConfig
	launcher browser.Launcher
}

func NewBigBasketClient(cfg config.BigBasketConfig, launcher browser.Launcher) BigBasketClient {
	return newBigBasketClient(cfg, launcher, ratelimit.New(cfg.NavigationsPerMinute, ratelimit.Per(time.Minute)))
}

func newBigBasketClient(cfg config.BigBasketConfig, launcher browser.Launcher, rl ratelimit.Limiter) *bigBasketClient {
	return &bigBasketClient{
		rl:       rl,
		config:   cfg,
		launcher: launcher,
	}
}

func (c *bigBasketClient) GetHomePayloads(ctx context.Context) (*HomePayloads, error) {
	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/"

	exchanges, err := c.capture(ctx, url, c.config.CityURLPrefix, c.config.MenuURLPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to load home page: %w", err)
	}

	home := &HomePayloads{
		City: filter(exchanges, c.config.CityURLPrefix),
		Menu: filter(exchanges, c.config.MenuURLPrefix),
	}

	log.Debugf("Home page returned %d city and %d menu payloads", len(home.City), len(home.Menu))
	return home, nil
}

func (c *bigBasketClient) GetSubcategoryPayloads(ctx context.Context, subcategory domain.Subcategory) ([]domain.Exchange, error) {
	url := strings.TrimSuffix(c.config.BaseURL, "/") + subcategory.Path

	exchanges, err := c.capture(ctx, url, c.config.ProductsURLPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to load subcategory %s: %w", subcategory.Name, err)
	}

	return exchanges, nil
}

// capture opens url in a fresh browser and returns the responses matching
// prefixes once all of them were seen and the page went quiet, or the page
// timeout elapsed
func (c *bigBasketClient) capture(ctx context.Context, url string, prefixes ...string) ([]domain.Exchange, error) {
	c.rl.Take()

	session, err := c.launcher.Launch(ctx, prefixes...)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.Navigate(ctx, url); err != nil {
		return nil, err
	}

	complete, err := session.WaitForExchanges(ctx, c.config.PageTimeout, prefixes...)
	if err != nil {
		return nil, err
	}
	if !complete {
		log.Warnf("⏱️ Responses from %s still missing or loading after %s, keeping the ones already read", url, c.config.PageTimeout)
	}

	// Only watched responses are captured, the empty prefix returns all of them
	return session.Exchanges(""), nil
}

func filter(exchanges []domain.Exchange, prefix string) []domain.Exchange {
	var out []domain.Exchange
	for _, exchange := range exchanges {
		if exchange.HasPrefix(prefix) {
			out = append(out, exchange)
		}
	}
	return out
}
