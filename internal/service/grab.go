package service

import (
	"context"
	"fmt"

	"storefront/scraper/internal/domain"
	"storefront/scraper/internal/extract"

	log "github.com/sirupsen/logrus"
)

// RunGrab searches restaurants around location and exports their coordinates.
// An empty location falls back to the configured one.
func (s *Service) RunGrab(ctx context.Context, location string) (*domain.RunSummary, error) {
	pipeline := domain.PipelineGrab
	runID := s.newRunID()
	if location == "" {
		location = s.grabConfig.Location
	}

	s.logLastRun(ctx, pipeline)
	log.Infof("🔄 Starting %s run %s near %q", pipeline.GetPipelineName(), runID, location)

	exchanges, err := s.grab.SearchRestaurants(ctx, location)
	if err != nil {
		return nil, err
	}

	for _, exchange := range exchanges {
		s.archiveExchange(ctx, runID, pipeline, exchange)
	}

	restaurants, err := restaurantRecords(exchanges)
	if err != nil {
		return nil, err
	}

	return s.finish(ctx, runID, pipeline, s.grabConfig.OutputFile, domain.AsRecords(restaurants))
}

func restaurantRecords(exchanges []domain.Exchange) ([]domain.RestaurantRecord, error) {
	restaurants := make([]domain.RestaurantRecord, 0)
	for _, exchange := range exchanges {
		records, err := extract.Restaurants(exchange.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to extract restaurants from %s: %w", exchange.URL, err)
		}
		restaurants = append(restaurants, records...)
	}

	log.Infof("📍 Extracted %d restaurants from %d search responses", len(restaurants), len(exchanges))
	return restaurants, nil
}
