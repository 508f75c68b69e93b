package aggregate

import "github.com/ppiankov/edgarscan/internal/model"

type cell struct {
	group, metric string
}

// Table maps (group, metric) to a value, remembering first-seen order
type Table struct {
	name   string
	order  []cell
	values map[cell]float64
}

// NewTable creates an empty table
func NewTable(name string) *Table {
	return &Table{name: name, values: make(map[cell]float64)}
}

// Add adds v to a cell. Empty groups are ignored.
func (t *Table) Add(group, metric string, v float64) {
	if group == "" {
		return
	}
	c := cell{group, metric}
	if _, ok := t.values[c]; !ok {
		t.order = append(t.order, c)
	}
	t.values[c] += v
}

// Get returns a cell's value, zero when absent
func (t *Table) Get(group, metric string) float64 {
	return t.values[cell{group, metric}]
}

// Model returns the table as rows in first-seen order
func (t *Table) Model() model.Table {
	rows := make([]model.AggregateRow, 0, len(t.order))
	for _, c := range t.order {
		rows = append(rows, model.AggregateRow{GroupKey: c.group, Metric: c.metric, Value: t.values[c]})
	}
	return model.Table{Name: t.name, Rows: rows}
}

// PairTable renders pair counts with the secondary value as the metric
func PairTable(name string, pairs []model.PairCount) model.Table {
	rows := make([]model.AggregateRow, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, model.AggregateRow{GroupKey: p.Key, Metric: p.Secondary, Value: float64(p.Count)})
	}
	return model.Table{Name: name, Rows: rows}
}

// GroupTable renders groups under a single metric
func GroupTable(name, metric string, groups []Group) model.Table {
	rows := make([]model.AggregateRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, model.AggregateRow{GroupKey: g.Key, Metric: metric, Value: float64(g.Value)})
	}
	return model.Table{Name: name, Rows: rows}
}
