package domain

// Subcategory is a single entry of the storefront menu
type Subcategory struct {
	Name string `json:"name"` // Display name like "Fresh Vegetables"
	Path string `json:"path"` // Relative URL path like "/pc/fruits-vegetables/fresh-vegetables/"
}

// Category groups the subcategories listed under one top-level menu entry
type Category struct {
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

// CategoryTree is an ordered mapping from category name to its subcategories.
// It is built once per run and never modified afterwards.
type CategoryTree struct {
	categories []Category
}

// NewCategoryTree builds a tree from categories in menu order. A repeated
// name replaces the subcategories of the earlier entry but keeps its position.
func NewCategoryTree(categories ...Category) CategoryTree {
	index := make(map[string]int, len(categories))
	tree := CategoryTree{categories: make([]Category, 0, len(categories))}

	for _, category := range categories {
		subcategories := append([]Subcategory(nil), category.Subcategories...)
		if i, ok := index[category.Name]; ok {
			tree.categories[i].Subcategories = subcategories
			continue
		}
		index[category.Name] = len(tree.categories)
		tree.categories = append(tree.categories, Category{
			Name:          category.Name,
			Subcategories: subcategories,
		})
	}

	return tree
}

// Categories returns a copy of the tree contents in menu order
func (t CategoryTree) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, category := range t.categories {
		out[i] = Category{
			Name:          category.Name,
			Subcategories: append([]Subcategory(nil), category.Subcategories...),
		}
	}
	return out
}

func (t CategoryTree) Len() int {
	return len(t.categories)
}

// CountSubcategories returns the number of subcategory pages a full scan visits
func (t CategoryTree) CountSubcategories() int {
	total := 0
	for _, category := range t.categories {
		total += len(category.Subcategories)
	}
	return total
}
