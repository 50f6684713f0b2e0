package game

import "strings"

// Board is a fixed-length row of slots. A nil slot is empty.
type Board []*CardInstance

// NewBoard returns an empty board of the given size.
func NewBoard(size int) Board {
	return make(Board, size)
}

// Clone deep-copies the board and its instances.
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	out := make(Board, len(b))
	for i, ci := range b {
		out[i] = ci.Clone()
	}
	return out
}

// InRange reports whether i is a valid slot index.
func (b Board) InRange(i int) bool {
	return i >= 0 && i < len(b)
}

// At returns the occupant of slot i, or nil when empty or out of range.
func (b Board) At(i int) *CardInstance {
	if !b.InRange(i) {
		return nil
	}
	return b[i]
}

// EmptySlots returns the indices of all empty slots in ascending order.
func (b Board) EmptySlots() []int {
	var out []int
	for i, ci := range b {
		if ci == nil {
			out = append(out, i)
		}
	}
	return out
}

// Occupied returns the number of filled slots.
func (b Board) Occupied() int {
	n := 0
	for _, ci := range b {
		if ci != nil {
			n++
		}
	}
	return n
}

// Count returns how many occupants carry the sigil.
func (b Board) Count(s Sigil) int {
	n := 0
	for _, ci := range b {
		if ci != nil && ci.Has(s) {
			n++
		}
	}
	return n
}

// HasName reports whether any occupant is stamped from the named definition.
func (b Board) HasName(name string) bool {
	for _, ci := range b {
		if ci != nil && ci.Name() == name {
			return true
		}
	}
	return false
}

// Neighbors returns the in-range indices adjacent to i.
func (b Board) Neighbors(i int) []int {
	var out []int
	for _, n := range []int{i - 1, i + 1} {
		if b.InRange(n) {
			out = append(out, n)
		}
	}
	return out
}

// Clear empties every slot.
func (b Board) Clear() {
	for i := range b {
		b[i] = nil
	}
}

func (b Board) String() string {
	parts := make([]string, len(b))
	for i, ci := range b {
		parts[i] = ci.String()
	}
	return "[" + strings.Join(parts, " | ") + "]"
}
