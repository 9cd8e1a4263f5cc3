package maintenance

import (
	"sort"
	"time"
)

// SortedHistory returns a copy of history ordered newest first by date.
// Entries whose date cannot be parsed keep their relative order at the end.
// The stored order is left untouched.
func SortedHistory(history []ServiceEntry) []ServiceEntry {
	type keyed struct {
		entry ServiceEntry
		when  time.Time
		ok    bool
	}

	items := make([]keyed, len(history))
	for i, entry := range history {
		when, err := entry.Time()
		items[i] = keyed{entry: entry, when: when, ok: err == nil}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		return a.when.After(b.when)
	})

	out := make([]ServiceEntry, len(items))
	for i, item := range items {
		out[i] = item.entry
	}
	return out
}
