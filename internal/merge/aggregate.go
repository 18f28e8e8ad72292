// Package merge implements the direction-aware log-line interleave and the
// deduplicating set unions for label and series responses. This is the
// federation engine's core algorithm.
package merge

import "lokifederation/internal/model"

// Aggregate merges b into a according to direction, returning a new slice.
// a is treated as "already merged, trusted ordering"; each element of b is
// inserted at the position the direction's rules dictate. Exact (timestamp,
// line) duplicates are skipped. a and b are never mutated; the returned slice
// is newly allocated.
func Aggregate(a, b []model.LogEntry, direction model.Direction) []model.LogEntry {
	result := make([]model.LogEntry, len(a), len(a)+len(b))
	copy(result, a)

	for _, item := range b {
		if contains(result, item) {
			continue
		}
		switch direction {
		case model.Forward:
			result = insertForward(result, item)
		default:
			result = insertBackward(result, item)
		}
	}
	return result
}

func contains(entries []model.LogEntry, item model.LogEntry) bool {
	for _, e := range entries {
		if e == item {
			return true
		}
	}
	return false
}

// insertForward implements the Forward branch of §4.D: ascending timestamps.
// A new element goes right after the last entry with a smaller timestamp,
// ahead of any entries that share its timestamp; only when no smaller entry
// exists does it go right after the first entry whose timestamp is not greater.
func insertForward(a []model.LogEntry, item model.LogEntry) []model.LogEntry {
	// 1. highest index i such that a[i].Timestamp < item.Timestamp -> insert at i+1.
	if i, ok := rposition(a, func(e model.LogEntry) bool { return e.Timestamp < item.Timestamp }); ok {
		return insertAt(a, i+1, item)
	}
	// 2. lowest index i such that a[i].Timestamp <= item.Timestamp -> insert at i+1.
	if i, ok := position(a, func(e model.LogEntry) bool { return e.Timestamp <= item.Timestamp }); ok {
		return insertAt(a, i+1, item)
	}
	// 3. insert at position 0.
	return insertAt(a, 0, item)
}

// insertBackward implements the Backward branch of §4.D: descending
// timestamps, new elements placed before a run of equal timestamps.
func insertBackward(a []model.LogEntry, item model.LogEntry) []model.LogEntry {
	// 1. lowest index i such that a[i].Timestamp <= item.Timestamp -> insert at i.
	if i, ok := position(a, func(e model.LogEntry) bool { return e.Timestamp <= item.Timestamp }); ok {
		return insertAt(a, i, item)
	}
	// 2. highest index i such that a[i].Timestamp > item.Timestamp -> insert at i+1.
	if i, ok := rposition(a, func(e model.LogEntry) bool { return e.Timestamp > item.Timestamp }); ok {
		return insertAt(a, i+1, item)
	}
	// 3. insert at position 0.
	return insertAt(a, 0, item)
}

// position returns the lowest index satisfying pred.
func position(a []model.LogEntry, pred func(model.LogEntry) bool) (int, bool) {
	for i, e := range a {
		if pred(e) {
			return i, true
		}
	}
	return 0, false
}

// rposition returns the highest index satisfying pred.
func rposition(a []model.LogEntry, pred func(model.LogEntry) bool) (int, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if pred(a[i]) {
			return i, true
		}
	}
	return 0, false
}

func insertAt(a []model.LogEntry, index int, item model.LogEntry) []model.LogEntry {
	a = append(a, model.LogEntry{})
	copy(a[index+1:], a[index:])
	a[index] = item
	return a
}
