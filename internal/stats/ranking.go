package stats

import "sort"

// Ranked is one row of a leaderboard.
type Ranked struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Counter tallies names while remembering the order they were first seen in,
// which is the tie-break order for Top.
type Counter struct {
	index map[string]int
	items []Ranked
}

func NewCounter() *Counter {
	return &Counter{index: make(map[string]int)}
}

// Add increments name by n, creating it on first sight.
func (c *Counter) Add(name string, n int64) {
	i, ok := c.index[name]
	if !ok {
		c.index[name] = len(c.items)
		c.items = append(c.items, Ranked{Name: name})
		i = len(c.items) - 1
	}
	c.items[i].Count += n
}

func (c *Counter) Get(name string) int64 {
	if i, ok := c.index[name]; ok {
		return c.items[i].Count
	}
	return 0
}

func (c *Counter) Len() int {
	return len(c.items)
}

// Top returns the limit highest counts. Ties keep first-seen order. A limit
// <= 0 returns every entry. The counter itself is not modified.
func (c *Counter) Top(limit int) []Ranked {
	return topN(c.items, func(a, b Ranked) bool { return a.Count > b.Count }, limit)
}

// topN stably sorts a copy of items with less and truncates it to limit.
func topN[T any](items []T, less func(a, b T) bool, limit int) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// table is a string-keyed map of *V that remembers insertion order.
type table[V any] struct {
	index map[string]*V
	order []*V
}

func newTable[V any]() *table[V] {
	return &table[V]{index: make(map[string]*V)}
}

// entry returns the value for key, calling create on first sight.
func (t *table[V]) entry(key string, create func() V) *V {
	if v, ok := t.index[key]; ok {
		return v
	}
	v := create()
	t.index[key] = &v
	t.order = append(t.order, &v)
	return &v
}

func (t *table[V]) lookup(key string) (V, bool) {
	if v, ok := t.index[key]; ok {
		return *v, true
	}
	var zero V
	return zero, false
}

// values copies the entries out in insertion order.
func (t *table[V]) values() []V {
	out := make([]V, len(t.order))
	for i, v := range t.order {
		out[i] = *v
	}
	return out
}
