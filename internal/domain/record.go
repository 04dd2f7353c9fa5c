package domain

import (
	"encoding/json"
	"strconv"
)

// Missing is written in place of any product field absent from the payload
const Missing = "-"

// Record is a flat row ready for tabular export
type Record interface {
	Header() []string
	Row() []string
}

// FormatValue renders a decoded JSON value the way the exported CSV has
// always shown it: strings verbatim, numbers as their JSON literal,
// booleans as True/False, null as an empty cell.
func FormatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case json.Number:
		return value.String()
	case bool:
		if value {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// Fields pairs a record's header with its row
func Fields(r Record) map[string]string {
	header := r.Header()
	row := r.Row()

	fields := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(row) {
			fields[name] = row[i]
		}
	}
	return fields
}

// AsRecords converts a typed record slice for consumers that accept any record
func AsRecords[T Record](items []T) []Record {
	records := make([]Record, len(items))
	for i, item := range items {
		records[i] = item
	}
	return records
}
