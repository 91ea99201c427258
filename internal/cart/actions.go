package cart

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// Action is a cart mutation. The set is closed: AddLine, RemoveLine,
// SetLineQuantity and ClearCart.
type Action interface {
	actionName() string
}

// AddLine appends a line or, when the product and size are already in the cart,
// increases that line's quantity. A non-positive quantity counts as 1.
type AddLine struct {
	Product  types.Product
	Size     types.Size
	Quantity int
}

// RemoveLine drops the matching line. Removing an absent line is a no-op.
type RemoveLine struct {
	ProductID uuid.UUID
	Size      types.Size
}

// SetLineQuantity overwrites a line's quantity. Zero or less removes the line;
// an absent line is left absent.
type SetLineQuantity struct {
	ProductID uuid.UUID
	Size      types.Size
	Quantity  int
}

// ClearCart empties the cart.
type ClearCart struct{}

func (AddLine) actionName() string         { return "add_line" }
func (RemoveLine) actionName() string      { return "remove_line" }
func (SetLineQuantity) actionName() string { return "set_quantity" }
func (ClearCart) actionName() string       { return "clear" }

// Reduce applies action to state and returns the next state. It never mutates
// the input: the returned state owns a fresh line slice.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case AddLine:
		return reduceAdd(state, a)
	case RemoveLine:
		return reduceRemove(state, LineKey{ProductID: a.ProductID, Size: a.Size})
	case SetLineQuantity:
		return reduceSetQuantity(state, a)
	case ClearCart:
		return Empty()
	default:
		return state.Clone()
	}
}

func reduceAdd(state State, a AddLine) State {
	qty := a.Quantity
	if qty < 1 {
		qty = 1
	}
	key := LineKey{ProductID: a.Product.ID, Size: a.Size}
	lines := make([]Line, 0, len(state.Lines)+1)
	merged := false
	for _, line := range state.Lines {
		if line.Key() == key {
			line.Quantity += qty
			merged = true
		}
		lines = append(lines, line)
	}
	if !merged {
		lines = append(lines, Line{Product: a.Product, Size: a.Size, Quantity: qty})
	}
	return withLines(lines)
}

func reduceRemove(state State, key LineKey) State {
	lines := make([]Line, 0, len(state.Lines))
	for _, line := range state.Lines {
		if line.Key() == key {
			continue
		}
		lines = append(lines, line)
	}
	return withLines(lines)
}

func reduceSetQuantity(state State, a SetLineQuantity) State {
	key := LineKey{ProductID: a.ProductID, Size: a.Size}
	if a.Quantity <= 0 {
		return reduceRemove(state, key)
	}
	lines := make([]Line, 0, len(state.Lines))
	for _, line := range state.Lines {
		if line.Key() == key {
			line.Quantity = a.Quantity
		}
		lines = append(lines, line)
	}
	return withLines(lines)
}
