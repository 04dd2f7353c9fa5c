package archive

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"storefront/scraper/internal/config"
	"storefront/scraper/internal/domain"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Archive keeps the raw payloads a run consumed so they can be re-extracted
// later without a browser
type Archive interface {
	Store(ctx context.Context, runID string, pipeline domain.Pipeline, exchange domain.Exchange) (string, error) // Returns message ID
	Load(ctx context.Context, runID string, pipeline domain.Pipeline) ([]domain.Exchange, error)
}

type RedisArchive struct {
	redisClient  *redis.Client
	streamPrefix string
	maxLen       int64
}

func NewRedisArchive(redisClient *redis.Client, cfg config.RedisConfig) *RedisArchive {
	return &RedisArchive{
		redisClient:  redisClient,
		streamPrefix: "scraper:stream:",
		maxLen:       cfg.ArchiveLimit,
	}
}

func (a *RedisArchive) streamName(pipeline domain.Pipeline) string {
	return a.streamPrefix + pipeline.String()
}

func (a *RedisArchive) Store(ctx context.Context, runID string, pipeline domain.Pipeline, exchange domain.Exchange) (string, error) {
	streamName := a.streamName(pipeline)

	messageID, err := a.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		MaxLen: a.maxLen,
		Approx: true,
		Values: entryValues(runID, exchange),
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to add exchange to Redis stream %s: %w", streamName, err)
	}

	log.Debugf("Archived %s to stream %s with message ID: %s", exchange.URL, streamName, messageID)
	return messageID, nil
}

func (a *RedisArchive) Load(ctx context.Context, runID string, pipeline domain.Pipeline) ([]domain.Exchange, error) {
	streamName := a.streamName(pipeline)

	messages, err := a.redisClient.XRange(ctx, streamName, "-", "+").Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read Redis stream %s: %w", streamName, err)
	}

	return exchangesForRun(runID, messages)
}

func (a *RedisArchive) Close() error {
	if a.redisClient != nil {
		return a.redisClient.Close()
	}
	return nil
}

func entryValues(runID string, exchange domain.Exchange) map[string]interface{} {
	return map[string]interface{}{
		"run_id":      runID,
		"url":         exchange.URL,
		"status":      exchange.Status,
		"mime_type":   exchange.MimeType,
		"captured_at": exchange.CapturedAt.UTC().Format(time.RFC3339Nano),
		"body":        string(exchange.Body),
	}
}

// exchangesForRun decodes the stream messages that belong to runID, keeping stream order
func exchangesForRun(runID string, messages []redis.XMessage) ([]domain.Exchange, error) {
	var exchanges []domain.Exchange
	for _, msg := range messages {
		if id, _ := msg.Values["run_id"].(string); id != runID {
			continue
		}

		exchange, err := parseEntry(msg)
		if err != nil {
			return nil, err
		}
		exchanges = append(exchanges, exchange)
	}
	return exchanges, nil
}

func parseEntry(msg redis.XMessage) (domain.Exchange, error) {
	url, ok := msg.Values["url"].(string)
	if !ok {
		return domain.Exchange{}, fmt.Errorf("invalid url in message %s", msg.ID)
	}
	body, ok := msg.Values["body"].(string)
	if !ok {
		return domain.Exchange{}, fmt.Errorf("invalid body in message %s", msg.ID)
	}

	exchange := domain.Exchange{
		URL:  url,
		Body: []byte(body),
	}
	exchange.MimeType, _ = msg.Values["mime_type"].(string)

	if status, ok := msg.Values["status"].(string); ok {
		if code, err := strconv.ParseInt(status, 10, 64); err == nil {
			exchange.Status = code
		}
	}
	if capturedAt, ok := msg.Values["captured_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, capturedAt); err == nil {
			exchange.CapturedAt = ts
		}
	}

	return exchange, nil
}

type noopArchive struct{}

// NewNoopArchive is used when Redis is disabled
func NewNoopArchive() Archive {
	return noopArchive{}
}

func (noopArchive) Store(context.Context, string, domain.Pipeline, domain.Exchange) (string, error) {
	return "", nil
}

func (noopArchive) Load(context.Context, string, domain.Pipeline) ([]domain.Exchange, error) {
	return nil, fmt.Errorf("archive is disabled, enable redis to replay runs")
}
