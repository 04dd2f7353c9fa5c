package repository

import (
	"context"
	"fmt"

	"storefront/scraper/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS scraped_records (
	run_id     TEXT        NOT NULL,
	pipeline   TEXT        NOT NULL,
	position   INTEGER     NOT NULL,
	data       JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, position)
)`

const insertRecord = `
INSERT INTO scraped_records (run_id, pipeline, position, data)
VALUES ($1, $2, $3, $4)`

type RecordRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveRecords(ctx context.Context, pipeline domain.Pipeline, runID string, records []domain.Record) error
}

type recordRepository struct {
	db *pgxpool.Pool
}

func NewRecordRepository(db *pgxpool.Pool) RecordRepository {
	return &recordRepository{
		db: db,
	}
}

func (r *recordRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createRecordsTable); err != nil {
		return fmt.Errorf("failed to create scraped_records table: %w", err)
	}
	return nil
}

// SaveRecords stores a whole run in one transaction, keeping export order in position
func (r *recordRepository) SaveRecords(ctx context.Context, pipeline domain.Pipeline, runID string, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, args := range recordRows(pipeline, runID, records) {
		batch.Queue(insertRecord, args...)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to save record %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}

	return nil
}

func recordRows(pipeline domain.Pipeline, runID string, records []domain.Record) [][]any {
	rows := make([][]any, len(records))
	for i, record := range records {
		rows[i] = []any{runID, pipeline.String(), i, domain.Fields(record)}
	}
	return rows
}
