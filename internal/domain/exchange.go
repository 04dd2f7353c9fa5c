package domain

import (
	"strings"
	"time"
)

// Exchange is a captured HTTP response observed by the browser
type Exchange struct {
	URL        string    `json:"url"`
	Status     int64     `json:"status"`
	MimeType   string    `json:"mime_type"`
	Body       []byte    `json:"body"`
	CapturedAt time.Time `json:"captured_at"`
}

func (e Exchange) HasPrefix(prefix string) bool {
	return strings.HasPrefix(e.URL, prefix)
}

// RunSummary describes a finished pipeline run
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Pipeline   Pipeline  `json:"pipeline"`
	Records    int       `json:"records"`
	OutputFile string    `json:"output_file"`
	Written    bool      `json:"written"` // false when nothing was extracted
	FinishedAt time.Time `json:"finished_at"`
}
