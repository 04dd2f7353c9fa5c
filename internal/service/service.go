package service

import (
	"context"
	"fmt"
	"time"

	"storefront/scraper/internal/archive"
	"storefront/scraper/internal/client"
	"storefront/scraper/internal/config"
	"storefront/scraper/internal/domain"
	"storefront/scraper/internal/export"
	"storefront/scraper/internal/repository"
	"storefront/scraper/internal/state"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	bigBasket    client.BigBasketClient
	grab         client.GrabClient
	archive      archive.Archive
	stateManager state.StateManager
	repository   repository.RecordRepository // nil when the database sink is disabled

	bigBasketConfig config.BigBasketConfig
	grabConfig      config.GrabConfig

	newRunID func() string
	now      func() time.Time
}

func NewService(
	bigBasket client.BigBasketClient,
	grab client.GrabClient,
	archive archive.Archive,
	stateManager state.StateManager,
	repository repository.RecordRepository,
	bigBasketConfig config.BigBasketConfig,
	grabConfig config.GrabConfig,
) *Service {
	return &Service{
		bigBasket:       bigBasket,
		grab:            grab,
		archive:         archive,
		stateManager:    stateManager,
		repository:      repository,
		bigBasketConfig: bigBasketConfig,
		grabConfig:      grabConfig,
		newRunID:        uuid.NewString,
		now:             time.Now,
	}
}

func (s *Service) logLastRun(ctx context.Context, pipeline domain.Pipeline) {
	last, err := s.stateManager.GetLastRun(ctx, pipeline)
	if err != nil {
		log.Warnf("⚠️ Failed to read last run of %s: %v", pipeline, err)
		return
	}
	if last == nil {
		return
	}
	log.Infof("🔄 Previous %s run %s finished at %s with %d records",
		pipeline.GetPipelineName(), last.RunID, last.FinishedAt.Format(time.RFC3339), last.Records)
}

func (s *Service) archiveExchange(ctx context.Context, runID string, pipeline domain.Pipeline, exchange domain.Exchange) {
	if _, err := s.archive.Store(ctx, runID, pipeline, exchange); err != nil {
		log.Warnf("⚠️ Failed to archive %s: %v", exchange.URL, err)
	}
}

// finish exports the records of a run: CSV first, then the optional database
// sink, then the run summary
func (s *Service) finish(ctx context.Context, runID string, pipeline domain.Pipeline, outputFile string, records []domain.Record) (*domain.RunSummary, error) {
	written, err := export.WriteCSV(outputFile, records)
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", outputFile, err)
	}

	summary := &domain.RunSummary{
		RunID:      runID,
		Pipeline:   pipeline,
		Records:    len(records),
		OutputFile: outputFile,
		Written:    written,
		FinishedAt: s.now(),
	}

	if s.repository != nil && len(records) > 0 {
		if err := s.repository.SaveRecords(ctx, pipeline, runID, records); err != nil {
			return summary, fmt.Errorf("failed to save records: %w", err)
		}
		log.Infof("🗄️ Saved %d records of run %s to the database", len(records), runID)
	}

	if err := s.stateManager.SetLastRun(ctx, *summary); err != nil {
		log.Warnf("⚠️ Failed to record run summary: %v", err)
	}

	log.Infof("✅ Completed %s run %s: %d records", pipeline.GetPipelineName(), runID, len(records))
	return summary, nil
}
