package domain

var ProductHeader = []string{
	"City",
	"Super Category (P0)",
	"Category (P1)",
	"Sub Category (P2)",
	"SKU ID",
	"Image",
	"Brand",
	"SKU Name",
	"SKU Size",
	"MRP",
	"SP",
	"Link",
	"Active?",
	"Out of Stock?",
}

// ProductRecord is one catalog entry. Every field except City and Link holds
// the upstream value verbatim or Missing.
type ProductRecord struct {
	City          string `json:"city"`
	SuperCategory any    `json:"super_category"` // tlc_n
	Category      any    `json:"category"`       // tlc_s
	SubCategory   any    `json:"sub_category"`   // llc_n
	SKU           any    `json:"sku"`
	ImageURL      any    `json:"image_url"`
	Brand         any    `json:"brand"`
	Name          any    `json:"name"`
	Size          any    `json:"size"`          // w
	ListPrice     any    `json:"list_price"`    // mrp
	SellingPrice  any    `json:"selling_price"` // base_price
	Link          string `json:"link"`
	Active        any    `json:"active"`
	OutOfStock    any    `json:"out_of_stock"`
}

func (p ProductRecord) Header() []string {
	return append([]string(nil), ProductHeader...)
}

func (p ProductRecord) Row() []string {
	return []string{
		p.City,
		FormatValue(p.SuperCategory),
		FormatValue(p.Category),
		FormatValue(p.SubCategory),
		FormatValue(p.SKU),
		FormatValue(p.ImageURL),
		FormatValue(p.Brand),
		FormatValue(p.Name),
		FormatValue(p.Size),
		FormatValue(p.ListPrice),
		FormatValue(p.SellingPrice),
		p.Link,
		FormatValue(p.Active),
		FormatValue(p.OutOfStock),
	}
}
