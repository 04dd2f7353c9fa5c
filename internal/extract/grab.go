package extract

import (
	"storefront/scraper/internal/domain"
)

// Restaurants flattens searchResult.searchMerchants. Every field is
// required: the first merchant missing its name or coordinates fails the
// whole call and no records are returned.
func Restaurants(payload []byte) ([]domain.RestaurantRecord, error) {
	doc, err := decode(payload)
	if err != nil {
		return nil, err
	}

	list, err := doc.lookup("searchResult", "searchMerchants")
	if err != nil {
		return nil, err
	}
	merchants, err := list.array()
	if err != nil {
		return nil, err
	}

	records := make([]domain.RestaurantRecord, 0, len(merchants))
	for _, merchant := range merchants {
		name, err := merchant.lookup("address", "name")
		if err != nil {
			return nil, err
		}
		latitude, err := merchant.lookup("latlng", "latitude")
		if err != nil {
			return nil, err
		}
		longitude, err := merchant.lookup("latlng", "longitude")
		if err != nil {
			return nil, err
		}

		records = append(records, domain.RestaurantRecord{
			Name:      name.value,
			Latitude:  latitude.value,
			Longitude: longitude.value,
		})
	}

	return records, nil
}
