package extract

import (
	"encoding/json"
	"testing"

	"storefront/scraper/internal/domain"

	"github.com/stretchr/testify/require"
)

const searchPayload = `{
	"searchResult": {
		"searchID": "abc",
		"searchMerchants": [
			{
				"id": "1-C2XAJKDVUBUENN",
				"address": {"name": "Jollibee - BGC Stopover"},
				"latlng": {"latitude": 14.5502, "longitude": 121.0511}
			},
			{
				"id": "1-CYVVCFJUAUTDR6",
				"address": {"name": "Mary Grace Café"},
				"latlng": {"latitude": 14.55112345, "longitude": 121.05}
			}
		]
	}
}`

func TestRestaurants(t *testing.T) {
	records, err := Restaurants([]byte(searchPayload))
	require.NoError(t, err)
	require.Equal(t, []domain.RestaurantRecord{
		{Name: "Jollibee - BGC Stopover", Latitude: json.Number("14.5502"), Longitude: json.Number("121.0511")},
		{Name: "Mary Grace Café", Latitude: json.Number("14.55112345"), Longitude: json.Number("121.05")},
	}, records)

	require.Equal(t, []string{"Mary Grace Café", "14.55112345", "121.05"}, records[1].Row())
}

func TestRestaurantsEmpty(t *testing.T) {
	records, err := Restaurants([]byte(`{"searchResult": {"searchMerchants": []}}`))
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestRestaurantsFailFast(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		path    string
	}{
		{
			name: "missing latitude",
			payload: `{"searchResult": {"searchMerchants": [
				{"address": {"name": "A"}, "latlng": {"latitude": 1, "longitude": 2}},
				{"address": {"name": "B"}, "latlng": {"longitude": 2}},
				{"address": {"name": "C"}, "latlng": {"latitude": 1, "longitude": 2}}
			]}}`,
			path: "$.searchResult.searchMerchants[1].latlng.latitude",
		},
		{
			name: "missing name",
			payload: `{"searchResult": {"searchMerchants": [
				{"address": {}, "latlng": {"latitude": 1, "longitude": 2}}
			]}}`,
			path: "$.searchResult.searchMerchants[0].address.name",
		},
		{
			name: "missing longitude",
			payload: `{"searchResult": {"searchMerchants": [
				{"address": {"name": "A"}, "latlng": {"latitude": 1}}
			]}}`,
			path: "$.searchResult.searchMerchants[0].latlng.longitude",
		},
		{
			name:    "missing merchants",
			payload: `{"searchResult": {}}`,
			path:    "$.searchResult.searchMerchants",
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			records, err := Restaurants([]byte(test.payload))
			require.ErrorIs(t, err, ErrShapeMismatch)
			require.Nil(t, records)

			var shapeErr *ShapeError
			require.ErrorAs(t, err, &shapeErr)
			require.Equal(t, test.path, shapeErr.Path)
		})
	}
}
