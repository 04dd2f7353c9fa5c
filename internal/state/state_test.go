package state

import (
	"context"
	"testing"
	"time"

	"storefront/scraper/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestMemoryStateManager(t *testing.T) {
	ctx := context.Background()
	manager := NewMemoryStateManager()

	summary, err := manager.GetLastRun(ctx, domain.PipelineBigBasket)
	require.NoError(t, err)
	require.Nil(t, summary)

	first := domain.RunSummary{RunID: "1", Pipeline: domain.PipelineBigBasket, Records: 50, Written: true, FinishedAt: time.Now()}
	second := domain.RunSummary{RunID: "2", Pipeline: domain.PipelineBigBasket, Records: 0}
	require.NoError(t, manager.SetLastRun(ctx, first))
	require.NoError(t, manager.SetLastRun(ctx, second))

	summary, err = manager.GetLastRun(ctx, domain.PipelineBigBasket)
	require.NoError(t, err)
	require.Equal(t, "2", summary.RunID)

	summary, err = manager.GetLastRun(ctx, domain.PipelineGrab)
	require.NoError(t, err)
	require.Nil(t, summary)
}
