package service

import (
	"context"
	"fmt"
	"slices"

	"storefront/scraper/internal/domain"
	"storefront/scraper/internal/extract"

	log "github.com/sirupsen/logrus"
)

// RunBigBasket reads the storefront menu, visits every subcategory of the
// first categories and exports the products found there
func (s *Service) RunBigBasket(ctx context.Context) (*domain.RunSummary, error) {
	pipeline := domain.PipelineBigBasket
	runID := s.newRunID()

	s.logLastRun(ctx, pipeline)
	log.Infof("🔄 Starting %s run %s", pipeline.GetPipelineName(), runID)

	home, err := s.bigBasket.GetHomePayloads(ctx)
	if err != nil {
		return nil, err
	}
	for _, exchange := range slices.Concat(home.City, home.Menu) {
		s.archiveExchange(ctx, runID, pipeline, exchange)
	}

	city, err := cityFrom(home.City)
	if err != nil {
		return nil, err
	}

	tree, err := categoryTreeFrom(home.Menu)
	if err != nil {
		return nil, err
	}
	log.Infof("🗂️ City %q, %d categories with %d subcategories", city, tree.Len(), tree.CountSubcategories())

	products := make([]domain.ProductRecord, 0)
	for _, category := range tree.Categories() {
		for _, subcategory := range category.Subcategories {
			exchanges, err := s.bigBasket.GetSubcategoryPayloads(ctx, subcategory)
			if err != nil {
				return nil, err
			}
			for _, exchange := range exchanges {
				s.archiveExchange(ctx, runID, pipeline, exchange)
			}

			records, err := productRecords(city, s.bigBasketConfig.BaseURL, exchanges)
			if err != nil {
				return nil, err
			}
			products = append(products, records...)

			log.Infof("🛒 %s / %s: %d products", category.Name, subcategory.Name, len(records))
		}
	}

	return s.finish(ctx, runID, pipeline, s.bigBasketConfig.OutputFile, domain.AsRecords(products))
}

// cityFrom returns the name from the last page data payload, or "" when none was captured
func cityFrom(exchanges []domain.Exchange) (string, error) {
	if len(exchanges) == 0 {
		log.Warnf("⚠️ No city payload captured, the City column will be empty")
		return "", nil
	}

	city := ""
	for _, exchange := range exchanges {
		name, err := extract.City(exchange.Body)
		if err != nil {
			return "", fmt.Errorf("failed to extract city from %s: %w", exchange.URL, err)
		}
		city = name
	}
	return city, nil
}

// categoryTreeFrom merges the trees of every menu payload in capture order
func categoryTreeFrom(exchanges []domain.Exchange) (domain.CategoryTree, error) {
	if len(exchanges) == 0 {
		log.Warnf("⚠️ No menu payload captured, nothing to scan")
	}

	var categories []domain.Category
	for _, exchange := range exchanges {
		tree, err := extract.CategoryTree(exchange.Body)
		if err != nil {
			return domain.CategoryTree{}, fmt.Errorf("failed to extract categories from %s: %w", exchange.URL, err)
		}
		categories = append(categories, tree.Categories()...)
	}

	return domain.NewCategoryTree(categories...), nil
}

func productRecords(city, origin string, exchanges []domain.Exchange) ([]domain.ProductRecord, error) {
	var products []domain.ProductRecord
	for _, exchange := range exchanges {
		records, err := extract.Products(city, origin, exchange.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to extract products from %s: %w", exchange.URL, err)
		}
		products = append(products, records...)
	}
	return products, nil
}
