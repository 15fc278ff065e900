package stats

import "sort"

// Count is a value with its number of occurrences.
type Count[K comparable] struct {
	Value K
	N     int
}

// counter tallies values and remembers the order they were first seen,
// which breaks ties deterministically.
type counter[K comparable] struct {
	index map[K]int
	items []Count[K]
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{index: make(map[K]int)}
}

func (c *counter[K]) add(v K) {
	if i, ok := c.index[v]; ok {
		c.items[i].N++
		return
	}
	c.index[v] = len(c.items)
	c.items = append(c.items, Count[K]{Value: v, N: 1})
}

// mode returns the most frequent value; among tied values the first seen
// wins. ok is false when nothing was counted.
func (c *counter[K]) mode() (Count[K], bool) {
	if len(c.items) == 0 {
		return Count[K]{}, false
	}
	best := c.items[0]
	for _, it := range c.items[1:] {
		if it.N > best.N {
			best = it
		}
	}
	return best, true
}

// ranked returns all counts, most frequent first, ties in first-seen order.
func (c *counter[K]) ranked() []Count[K] {
	out := make([]Count[K], len(c.items))
	copy(out, c.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].N > out[j].N })
	return out
}
