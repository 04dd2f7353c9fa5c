package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	testCases := []struct {
		value    any
		expected string
	}{
		{value: nil, expected: ""},
		{value: "Onion", expected: "Onion"},
		{value: Missing, expected: "-"},
		{value: json.Number("45.50"), expected: "45.50"},
		{value: true, expected: "True"},
		{value: false, expected: "False"},
		{value: 2.5, expected: "2.5"},
		{value: 7, expected: "7"},
		{value: map[string]any{"a": json.Number("1")}, expected: `{"a":1}`},
		{value: []any{"x", true}, expected: `["x",true]`},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, FormatValue(test.value))
	}
}

func TestFields(t *testing.T) {
	record := RestaurantRecord{Name: "A", Latitude: json.Number("1.5"), Longitude: json.Number("2")}
	require.Equal(t, map[string]string{
		"Restaurant Name": "A",
		"Latitude":        "1.5",
		"Longitude":       "2",
	}, Fields(record))
}

func TestProductRowMatchesHeader(t *testing.T) {
	record := ProductRecord{City: "Pune", Link: "https://www.bigbasket.com-"}
	require.Len(t, record.Row(), len(record.Header()))
	require.Equal(t, ProductHeader, record.Header())
}

func TestCategoryTree(t *testing.T) {
	source := []Subcategory{{Name: "Milk", Path: "/milk/"}}
	tree := NewCategoryTree(
		Category{Name: "Dairy", Subcategories: source},
		Category{Name: "Bakery"},
		Category{Name: "Dairy", Subcategories: []Subcategory{{Name: "Curd", Path: "/curd/"}, {Name: "Paneer", Path: "/paneer/"}}},
	)

	require.Equal(t, 2, tree.Len())
	require.Equal(t, 2, tree.CountSubcategories())

	categories := tree.Categories()
	require.Equal(t, "Dairy", categories[0].Name)
	require.Equal(t, "Curd", categories[0].Subcategories[0].Name)
	require.Equal(t, "Bakery", categories[1].Name)

	categories[0].Subcategories[0].Name = "changed"
	require.Equal(t, "Curd", tree.Categories()[0].Subcategories[0].Name)

	source[0].Name = "changed"
	require.Equal(t, "Curd", tree.Categories()[0].Subcategories[0].Name)
}

func TestParsePipeline(t *testing.T) {
	pipeline, err := ParsePipeline("grab")
	require.NoError(t, err)
	require.Equal(t, PipelineGrab, pipeline)

	_, err = ParsePipeline("amazon")
	require.Error(t, err)
}
