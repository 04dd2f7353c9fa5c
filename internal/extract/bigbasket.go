package extract

import (
	"storefront/scraper/internal/domain"
)

const (
	// MaxCategories is the number of top-level menu entries scanned per run
	MaxCategories = 5
	// MaxProducts is the number of products taken from one search payload
	MaxProducts = 10

	DefaultOrigin = "https://www.bigbasket.com"
)

// City reads current_city.name from a page data payload
func City(payload []byte) (string, error) {
	doc, err := decode(payload)
	if err != nil {
		return "", err
	}

	name, err := doc.lookup("current_city", "name")
	if err != nil {
		return "", err
	}

	return domain.FormatValue(name.value), nil
}

// CategoryTree builds the menu tree from the first MaxCategories entries of
// topcats. Only the first subcategory group of each entry is read. Any
// deviation from the expected shape is returned as an error.
func CategoryTree(payload []byte) (domain.CategoryTree, error) {
	doc, err := decode(payload)
	if err != nil {
		return domain.CategoryTree{}, err
	}

	topcats, err := doc.lookup("topcats")
	if err != nil {
		return domain.CategoryTree{}, err
	}
	entries, err := topcats.array()
	if err != nil {
		return domain.CategoryTree{}, err
	}

	categories := make([]domain.Category, 0, min(len(entries), MaxCategories))
	for _, entry := range entries[:min(len(entries), MaxCategories)] {
		category, err := parseCategory(entry)
		if err != nil {
			return domain.CategoryTree{}, err
		}
		categories = append(categories, category)
	}

	return domain.NewCategoryTree(categories...), nil
}

func parseCategory(entry node) (domain.Category, error) {
	group, err := entry.lookup("sub_cats", 0)
	if err != nil {
		return domain.Category{}, err
	}
	descriptors, err := group.array()
	if err != nil {
		return domain.Category{}, err
	}

	subcategories := make([]domain.Subcategory, 0, len(descriptors))
	for _, descriptor := range descriptors {
		subcategory, err := parseSubcategory(descriptor)
		if err != nil {
			return domain.Category{}, err
		}
		subcategories = append(subcategories, subcategory)
	}

	name, err := entry.lookup("top_category", "name")
	if err != nil {
		return domain.Category{}, err
	}

	return domain.Category{
		Name:          domain.FormatValue(name.value),
		Subcategories: subcategories,
	}, nil
}

// parseSubcategory reads a sub_category tuple: [name, slug, path, ...]
func parseSubcategory(descriptor node) (domain.Subcategory, error) {
	name, err := descriptor.lookup("sub_category", 0)
	if err != nil {
		return domain.Subcategory{}, err
	}

	pathNode, err := descriptor.lookup("sub_category", 2)
	if err != nil {
		return domain.Subcategory{}, err
	}
	path, err := pathNode.str()
	if err != nil {
		return domain.Subcategory{}, err
	}

	return domain.Subcategory{
		Name: domain.FormatValue(name.value),
		Path: path,
	}, nil
}

// Products flattens the first MaxProducts entries of a product search
// payload. Absent product fields become domain.Missing; only the path to the
// product list itself is strict.
func Products(city, origin string, payload []byte) ([]domain.ProductRecord, error) {
	doc, err := decode(payload)
	if err != nil {
		return nil, err
	}

	list, err := doc.lookup("tab_info", 0, "product_info", "products")
	if err != nil {
		return nil, err
	}
	entries, err := list.array()
	if err != nil {
		return nil, err
	}

	records := make([]domain.ProductRecord, 0, min(len(entries), MaxProducts))
	for _, entry := range entries[:min(len(entries), MaxProducts)] {
		product, err := entry.object()
		if err != nil {
			return nil, err
		}
		records = append(records, productRecord(city, origin, product))
	}

	return records, nil
}

func productRecord(city, origin string, product map[string]any) domain.ProductRecord {
	get := func(key string) any {
		if value, ok := product[key]; ok {
			return value
		}
		return domain.Missing
	}

	return domain.ProductRecord{
		City:          city,
		SuperCategory: get("tlc_n"),
		Category:      get("tlc_s"),
		SubCategory:   get("llc_n"),
		SKU:           get("sku"),
		ImageURL:      get("p_img_url"),
		Brand:         get("p_brand"),
		Name:          get("p_desc"),
		Size:          get("w"),
		ListPrice:     get("mrp"),
		SellingPrice:  get("base_price"),
		Link:          origin + domain.FormatValue(get("absolute_url")),
		Active:        get("active"),
		OutOfStock:    get("out_of_stock"),
	}
}
