// Package position computes the writes needed to keep a scoped collection
// (lists on a board, cards in a list) in a contiguous 0..n-1 order. It is
// pure: callers supply the current (id, position) tuples and persist the
// returned writes themselves.
package position

import (
	"sort"

	"github.com/google/uuid"
)

// Append requests insertion at the end of the sequence.
const Append = -1

// Item is one member of a scope's ordering.
type Item struct {
	ID  uuid.UUID
	Pos int
}

// Write is a single (id, position) assignment to persist.
type Write struct {
	ID  uuid.UUID
	Pos int
}

// Insert returns the writes for placing a new item at pos. Existing items
// at or above pos shift up by one. pos is clamped to [0, len(items)];
// Append (or any negative) lands at the end.
func Insert(items []Item, id uuid.UUID, pos int) []Write {
	sorted := sortedCopy(items)

	if pos < 0 || pos > len(sorted) {
		pos = len(sorted)
	}

	writes := make([]Write, 0, len(sorted)+1)
	for _, it := range sorted {
		if it.Pos >= pos {
			writes = append(writes, Write{ID: it.ID, Pos: it.Pos + 1})
		}
	}
	writes = append(writes, Write{ID: id, Pos: pos})

	return writes
}

// Move returns the writes for moving an existing item to newPos within the
// same scope. newPos is clamped to [0, len(items)-1]. Moving an item onto
// its current position yields no writes. The id must be present in items;
// an absent id yields no writes.
func Move(items []Item, id uuid.UUID, newPos int) []Write {
	sorted := sortedCopy(items)

	old := -1
	for _, it := range sorted {
		if it.ID == id {
			old = it.Pos
			break
		}
	}
	if old == -1 {
		return nil
	}

	if newPos < 0 {
		newPos = 0
	}
	if max := len(sorted) - 1; newPos > max {
		newPos = max
	}

	if newPos == old {
		return nil
	}

	writes := make([]Write, 0, len(sorted))
	for _, it := range sorted {
		switch {
		case it.ID == id:
			writes = append(writes, Write{ID: it.ID, Pos: newPos})
		case newPos > old && it.Pos > old && it.Pos <= newPos:
			writes = append(writes, Write{ID: it.ID, Pos: it.Pos - 1})
		case newPos < old && it.Pos >= newPos && it.Pos < old:
			writes = append(writes, Write{ID: it.ID, Pos: it.Pos + 1})
		}
	}

	return writes
}

// Remove returns the compaction writes after taking an item out of the
// scope: everything above the removed position shifts down by one. The
// removed item itself receives no write.
func Remove(items []Item, id uuid.UUID) []Write {
	sorted := sortedCopy(items)

	removed := -1
	for _, it := range sorted {
		if it.ID == id {
			removed = it.Pos
			break
		}
	}
	if removed == -1 {
		return nil
	}

	var writes []Write
	for _, it := range sorted {
		if it.Pos > removed {
			writes = append(writes, Write{ID: it.ID, Pos: it.Pos - 1})
		}
	}

	return writes
}

// Contiguous reports whether the items form exactly the sequence 0..n-1
// with no gaps or duplicates.
func Contiguous(items []Item) bool {
	seen := make(map[int]struct{}, len(items))
	for _, it := range items {
		if it.Pos < 0 || it.Pos >= len(items) {
			return false
		}
		if _, dup := seen[it.Pos]; dup {
			return false
		}
		seen[it.Pos] = struct{}{}
	}
	return true
}

// Apply merges writes into items and returns the resulting ordering. Items
// absent from the writes keep their position.
func Apply(items []Item, writes []Write) []Item {
	byID := make(map[uuid.UUID]int, len(writes))
	for _, w := range writes {
		byID[w.ID] = w.Pos
	}

	out := make([]Item, 0, len(items)+len(writes))
	applied := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		if pos, ok := byID[it.ID]; ok {
			it.Pos = pos
		}
		out = append(out, it)
		applied[it.ID] = struct{}{}
	}
	// Writes for ids not yet in the scope are insertions.
	for _, w := range writes {
		if _, ok := applied[w.ID]; !ok {
			out = append(out, Item{ID: w.ID, Pos: w.Pos})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Pos < out[j].Pos })
	return out
}

func sortedCopy(items []Item) []Item {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pos < sorted[j].Pos })
	return sorted
}
