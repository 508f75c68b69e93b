package model

import "time"

// Report is the in-memory result of one run
type Report struct {
	RunID     string           `json:"run_id"`
	StartedAt time.Time        `json:"started_at"`
	Records   []EnrichedRecord `json:"records"`
	Documents []FilingDocument `json:"documents"`
	Facts     FactSet          `json:"facts"`
	Tables    []Table          `json:"tables"`
}

// AggregateRow is one (group, metric) -> value cell
type AggregateRow struct {
	GroupKey string  `json:"group_key"`
	Metric   string  `json:"metric"`
	Value    float64 `json:"value"`
}

// Table is a named set of aggregate rows
type Table struct {
	Name string         `json:"name"`
	Rows []AggregateRow `json:"rows"`
}

// FetchedCount returns how many documents were fetched successfully
func (r *Report) FetchedCount() int {
	n := 0
	for _, d := range r.Documents {
		if d.OK() {
			n++
		}
	}
	return n
}

// PairCount is the number of records sharing a (key, secondary) pair
type PairCount struct {
	Key       string `json:"key"`
	Secondary string `json:"secondary"`
	Count     int    `json:"count"`
}
