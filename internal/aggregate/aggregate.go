// Package aggregate groups records and extracted facts into count tables.
// Items whose group key is empty are left out of every aggregate.
package aggregate

import (
	"sort"

	"github.com/ppiankov/edgarscan/internal/model"
)

// Group is one key with its aggregated value
type Group struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// grouper accumulates values per key in first-seen order
type grouper struct {
	order  []string
	values map[string]int
}

func newGrouper() *grouper {
	return &grouper{values: make(map[string]int)}
}

func (g *grouper) add(key string, v int) {
	if _, ok := g.values[key]; !ok {
		g.order = append(g.order, key)
	}
	g.values[key] += v
}

func (g *grouper) groups() []Group {
	out := make([]Group, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, Group{Key: k, Value: g.values[k]})
	}
	return out
}

// Count returns the number of items per key, in first-seen order
func Count[T any](items []T, key func(T) string) []Group {
	return Sum(items, key, func(T) int { return 1 })
}

// Sum adds value(item) per key, in first-seen order
func Sum[T any](items []T, key func(T) string, value func(T) int) []Group {
	g := newGrouper()
	for _, it := range items {
		k := key(it)
		if k == "" {
			continue
		}
		g.add(k, value(it))
	}
	return g.groups()
}

// SumFlag counts the items per key whose flag is set. Keys whose items
// all lack the flag are kept with a zero.
func SumFlag[T any](items []T, key func(T) string, flag func(T) bool) []Group {
	return Sum(items, key, func(it T) int {
		if flag(it) {
			return 1
		}
		return 0
	})
}

// CountPairs counts items per (key, secondary) pair, sorted by count
// descending with ties in first-seen order. Pairs with an empty key are
// skipped.
func CountPairs[T any](items []T, key, secondary func(T) string) []model.PairCount {
	type pair struct{ key, secondary string }

	index := make(map[pair]int)
	var out []model.PairCount
	for _, it := range items {
		p := pair{key(it), secondary(it)}
		if p.key == "" {
			continue
		}
		i, ok := index[p]
		if !ok {
			i = len(out)
			index[p] = i
			out = append(out, model.PairCount{Key: p.key, Secondary: p.secondary})
		}
		out[i].Count++
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// ByValueDesc sorts groups by value descending, ties in current order
func ByValueDesc(groups []Group) []Group {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	return groups
}

// ByKey sorts groups by key ascending
func ByKey(groups []Group) []Group {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// Peak returns the group with the largest value; the first wins a tie
func Peak(groups []Group) (Group, bool) {
	if len(groups) == 0 {
		return Group{}, false
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Value > best.Value {
			best = g
		}
	}
	return best, true
}
