package service

import (
	"context"
	"fmt"

	"storefront/scraper/internal/domain"
	"storefront/scraper/internal/export"

	log "github.com/sirupsen/logrus"
)

// Replay extracts the payloads archived by an earlier run again and rewrites
// the pipeline's CSV without opening a browser
func (s *Service) Replay(ctx context.Context, pipeline domain.Pipeline, runID string) (*domain.RunSummary, error) {
	exchanges, err := s.archive.Load(ctx, runID, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to load archived run %s: %w", runID, err)
	}
	log.Infof("🔄 Replaying %d archived responses of %s run %s", len(exchanges), pipeline.GetPipelineName(), runID)

	var (
		records    []domain.Record
		outputFile string
	)

	switch pipeline {
	case domain.PipelineBigBasket:
		outputFile = s.bigBasketConfig.OutputFile

		city, err := cityFrom(filterPrefix(exchanges, s.bigBasketConfig.CityURLPrefix))
		if err != nil {
			return nil, err
		}
		products, err := productRecords(city, s.bigBasketConfig.BaseURL, filterPrefix(exchanges, s.bigBasketConfig.ProductsURLPrefix))
		if err != nil {
			return nil, err
		}
		records = domain.AsRecords(products)

	case domain.PipelineGrab:
		outputFile = s.grabConfig.OutputFile

		restaurants, err := restaurantRecords(filterPrefix(exchanges, s.grabConfig.SearchURLPrefix))
		if err != nil {
			return nil, err
		}
		records = domain.AsRecords(restaurants)

	default:
		return nil, fmt.Errorf("unknown pipeline: %s", pipeline)
	}

	written, err := export.WriteCSV(outputFile, records)
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", outputFile, err)
	}

	return &domain.RunSummary{
		RunID:      runID,
		Pipeline:   pipeline,
		Records:    len(records),
		OutputFile: outputFile,
		Written:    written,
		FinishedAt: s.now(),
	}, nil
}

func filterPrefix(exchanges []domain.Exchange, prefix string) []domain.Exchange {
	var out []domain.Exchange
	for _, exchange := range exchanges {
		if exchange.HasPrefix(prefix) {
			out = append(out, exchange)
		}
	}
	return out
}
