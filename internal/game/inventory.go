package game

// PieceRecord is one piece available to a player.
type PieceRecord struct {
	Name  string
	Shape Shape
}

// Inventory is one player's working set of pieces, in authority order.
type Inventory struct {
	pieces []PieceRecord
}

// NewInventory copies pieces into a fresh inventory.
func NewInventory(pieces []PieceRecord) *Inventory {
	inv := &Inventory{pieces: make([]PieceRecord, 0, len(pieces))}
	for _, p := range pieces {
		inv.pieces = append(inv.pieces, PieceRecord{Name: p.Name, Shape: p.Shape.Clone()})
	}
	return inv
}

// Pieces returns a copy of the records.
func (inv *Inventory) Pieces() []PieceRecord {
	if inv == nil {
		return nil
	}
	out := make([]PieceRecord, len(inv.pieces))
	copy(out, inv.pieces)
	return out
}

func (inv *Inventory) Len() int {
	if inv == nil {
		return 0
	}
	return len(inv.pieces)
}

// Get looks a piece up by name.
func (inv *Inventory) Get(name string) (PieceRecord, bool) {
	if inv == nil {
		return PieceRecord{}, false
	}
	for _, p := range inv.pieces {
		if p.Name == name {
			return p, true
		}
	}
	return PieceRecord{}, false
}

// Remove drops the first piece called name. It removes at most one record.
func (inv *Inventory) Remove(name string) bool {
	if inv == nil {
		return false
	}
	for i, p := range inv.pieces {
		if p.Name == name {
			inv.pieces = append(inv.pieces[:i:i], inv.pieces[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceShape swaps in a new record for name carrying shape.
func (inv *Inventory) ReplaceShape(name string, shape Shape) bool {
	if inv == nil {
		return false
	}
	for i, p := range inv.pieces {
		if p.Name == name {
			inv.pieces[i] = PieceRecord{Name: name, Shape: shape.Clone()}
			return true
		}
	}
	return false
}
