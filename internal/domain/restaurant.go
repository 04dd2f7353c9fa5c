package domain

var RestaurantHeader = []string{"Restaurant Name", "Latitude", "Longitude"}

type RestaurantRecord struct {
	Name      any `json:"name"`
	Latitude  any `json:"latitude"`
	Longitude any `json:"longitude"`
}

func (r RestaurantRecord) Header() []string {
	return append([]string(nil), RestaurantHeader...)
}

func (r RestaurantRecord) Row() []string {
	return []string{
		FormatValue(r.Name),
		FormatValue(r.Latitude),
		FormatValue(r.Longitude),
	}
}
