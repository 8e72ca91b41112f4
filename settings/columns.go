package settings

import "fmt"

// ColumnSet is the ordered list of document table columns. Operations on it change labels,
// visibility and order only; the number of columns and their ids never change.
type ColumnSet []DocumentColumn

// Direction of a column move.
type Direction string

const (
	Up   Direction = "up"   // toward index 0
	Down Direction = "down" // toward the end
)

func (cs ColumnSet) index(id string) int {
	for i := range cs {
		if cs[i].ID == id {
			return i
		}
	}
	return -1
}

// ToggleVisibility flips the visible flag of column id. Unknown ids are ignored.
func (cs ColumnSet) ToggleVisibility(id string) bool {
	i := cs.index(id)
	if i < 0 {
		return false
	}
	cs[i].Visible = !cs[i].Visible
	return true
}

// Relabel sets the display label of column id, hidden or not.
func (cs ColumnSet) Relabel(id, text string) bool {
	i := cs.index(id)
	if i < 0 {
		return false
	}
	cs[i].Label = text
	return true
}

// Move swaps the column at index with its neighbour in dir and renumbers every column's order
// to its position plus one. Moves past either end, or from an out-of-range index, do nothing.
func (cs ColumnSet) Move(index int, dir Direction) bool {
	var j int
	switch dir {
	case Up:
		j = index - 1
	case Down:
		j = index + 1
	default:
		return false
	}
	if index < 0 || index >= len(cs) || j < 0 || j >= len(cs) {
		return false
	}
	cs[index], cs[j] = cs[j], cs[index]
	for i := range cs {
		cs[i].Order = i + 1
	}
	return true
}

// Visible returns the visible columns in list order.
func (cs ColumnSet) Visible() []DocumentColumn {
	out := make([]DocumentColumn, 0, len(cs))
	for _, c := range cs {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// Column operation names accepted by Apply.
const (
	OpToggle  = "toggle"
	OpRelabel = "relabel"
	OpMove    = "move"
)

// ColumnOp is one edit of a batch sent by a client.
type ColumnOp struct {
	Op        string    `json:"op" validate:"required,oneof=toggle relabel move"`
	ID        string    `json:"id,omitempty"`
	Label     string    `json:"label,omitempty" validate:"max=60"`
	Index     int       `json:"index,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Apply runs ops in order. It stops at the first malformed op; ops that refer to unknown ids or
// boundary moves are no-ops, as they are when applied one by one.
func (cs ColumnSet) Apply(ops []ColumnOp) error {
	for i, op := range ops {
		switch op.Op {
		case OpToggle:
			cs.ToggleVisibility(op.ID)
		case OpRelabel:
			cs.Relabel(op.ID, op.Label)
		case OpMove:
			if op.Direction != Up && op.Direction != Down {
				return fmt.Errorf("op %d: %w: %q", i, ErrUnknownDirection, op.Direction)
			}
			cs.Move(op.Index, op.Direction)
		default:
			return fmt.Errorf("op %d: %w: %q", i, ErrUnknownColumnOp, op.Op)
		}
	}
	return nil
}
