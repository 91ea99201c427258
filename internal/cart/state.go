package cart

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// LineKey identifies a cart line. A cart holds at most one line per key.
type LineKey struct {
	ProductID uuid.UUID
	Size      types.Size
}

// Line is one (product, size, quantity) entry. Quantity is always positive.
type Line struct {
	Product  types.Product `json:"product"`
	Size     types.Size    `json:"size"`
	Quantity int           `json:"quantity"`
}

func (l Line) Key() LineKey {
	return LineKey{ProductID: l.Product.ID, Size: l.Size}
}

// Subtotal is price times quantity.
func (l Line) Subtotal() types.Money {
	return l.Product.Price.Times(l.Quantity)
}

// State is the cart plus its denormalized aggregates. Total and Count are
// recomputed by Reduce on every action and never by readers.
type State struct {
	Lines []Line      `json:"lines"`
	Total types.Money `json:"total"`
	Count int         `json:"count"`
}

// Empty returns a cart with no lines.
func Empty() State {
	return State{Lines: []Line{}, Total: types.ZeroMoney}
}

func (s State) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Find returns the line for key, if present.
func (s State) Find(key LineKey) (Line, bool) {
	for _, line := range s.Lines {
		if line.Key() == key {
			return line, true
		}
	}
	return Line{}, false
}

// Clone returns a copy that shares no line storage with s.
func (s State) Clone() State {
	lines := make([]Line, len(s.Lines))
	copy(lines, s.Lines)
	return State{Lines: lines, Total: s.Total, Count: s.Count}
}

// withLines builds a state from lines and recomputes the aggregates.
func withLines(lines []Line) State {
	total := types.ZeroMoney
	count := 0
	for _, line := range lines {
		total = total.Add(line.Subtotal())
		count += line.Quantity
	}
	return State{Lines: lines, Total: total, Count: count}
}
