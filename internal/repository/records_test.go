package repository

import (
	"encoding/json"
	"testing"

	"storefront/scraper/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestRecordRows(t *testing.T) {
	records := domain.AsRecords([]domain.RestaurantRecord{
		{Name: "A", Latitude: json.Number("14.5"), Longitude: json.Number("121")},
		{Name: "B", Latitude: json.Number("14.6"), Longitude: json.Number("121.1")},
	})

	rows := recordRows(domain.PipelineGrab, "run-1", records)
	require.Len(t, rows, 2)
	require.Equal(t, []any{"run-1", "grab", 1, map[string]string{
		"Restaurant Name": "B",
		"Latitude":        "14.6",
		"Longitude":       "121.1",
	}}, rows[1])
}
