package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"storefront/scraper/internal/domain"

	"github.com/redis/go-redis/v9"
)

// StateManager remembers the last finished run of each pipeline
type StateManager interface {
	GetLastRun(ctx context.Context, pipeline domain.Pipeline) (*domain.RunSummary, error)
	SetLastRun(ctx context.Context, summary domain.RunSummary) error
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   "scraper:last_run:",
	}
}

func (s *redisStateManager) GetLastRun(ctx context.Context, pipeline domain.Pipeline) (*domain.RunSummary, error) {
	key := s.keyPrefix + pipeline.String()
	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // No run recorded yet
		}
		return nil, fmt.Errorf("failed to get last run for pipeline %s: %w", pipeline, err)
	}

	var summary domain.RunSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse last run for pipeline %s: %w", pipeline, err)
	}

	return &summary, nil
}

func (s *redisStateManager) SetLastRun(ctx context.Context, summary domain.RunSummary) error {
	key := s.keyPrefix + summary.Pipeline.String()

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	if err := s.redisClient.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set last run for pipeline %s: %w", summary.Pipeline, err)
	}
	return nil
}

type memoryStateManager struct {
	mu   sync.Mutex
	runs map[domain.Pipeline]domain.RunSummary
}

// NewMemoryStateManager keeps run summaries for the lifetime of the process
func NewMemoryStateManager() StateManager {
	return &memoryStateManager{runs: make(map[domain.Pipeline]domain.RunSummary)}
}

func (s *memoryStateManager) GetLastRun(_ context.Context, pipeline domain.Pipeline) (*domain.RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.runs[pipeline]
	if !ok {
		return nil, nil
	}
	return &summary, nil
}

func (s *memoryStateManager) SetLastRun(_ context.Context, summary domain.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[summary.Pipeline] = summary
	return nil
}
