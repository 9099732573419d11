package dto

import "fmt"

// IngestionReport counts what a pipeline run scraped versus what it persisted.
// Failures surface here as the gap between the two, not as hard errors.
type IngestionReport struct {
	Source  string `json:"source"`
	Symbol  string `json:"symbol,omitempty"`
	Scraped int    `json:"scraped"`
	Saved   int    `json:"saved"`
}

// Summary renders the report in "N saved / M scraped" form.
func (r *IngestionReport) Summary() string {
	return fmt.Sprintf("%d saved / %d scraped", r.Saved, r.Scraped)
}
