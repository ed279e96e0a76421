package game

import "image"

// SelectState is the drag/selection lifecycle state.
type SelectState int

const (
	SelectIdle SelectState = iota
	SelectArmed
	SelectDragging
	SelectDropped
)

func (s SelectState) String() string {
	switch s {
	case SelectIdle:
		return "idle"
	case SelectArmed:
		return "armed"
	case SelectDragging:
		return "dragging"
	case SelectDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// DragContext exists only while a piece is being dragged. The clone it
// describes is independent of the tray entry, which stays untouched until the
// authority confirms a placement.
type DragContext struct {
	Piece  PieceRecord
	Offset image.Point // cursor position relative to the clone's origin
	Origin image.Point // where the picked-up tray slot was drawn
	Cursor image.Point
}

// ClonePos is where the dragged clone's origin is drawn.
func (d *DragContext) ClonePos() image.Point {
	return d.Cursor.Sub(d.Offset)
}

// Selection owns the armed piece and the drag context.
type Selection struct {
	cellSizePx int
	paddingPx  int

	state SelectState
	armed PieceRecord
	drag  *DragContext
}

// NewSelection returns an idle selection using the given drag geometry.
func NewSelection(cellSizePx, paddingPx int) *Selection {
	return &Selection{cellSizePx: cellSizePx, paddingPx: paddingPx}
}

func (s *Selection) State() SelectState { return s.state }

// Arm records p as the piece under the cursor. Ignored while dragging.
func (s *Selection) Arm(p PieceRecord) {
	if s.state == SelectDragging {
		return
	}
	s.armed = p
	s.state = SelectArmed
}

// Disarm returns an armed selection to idle. Ignored while dragging.
func (s *Selection) Disarm() {
	if s.state != SelectArmed {
		return
	}
	s.armed = PieceRecord{}
	s.state = SelectIdle
}

// Armed returns the selected piece while armed or dragging.
func (s *Selection) Armed() (PieceRecord, bool) {
	switch s.state {
	case SelectArmed:
		return s.armed, true
	case SelectDragging:
		return s.drag.Piece, true
	}
	return PieceRecord{}, false
}

// Refresh swaps in the current record for the selected piece after an
// orientation change, recomputing the drag offset if a drag is running.
func (s *Selection) Refresh(p PieceRecord) error {
	switch s.state {
	case SelectArmed:
		if s.armed.Name == p.Name {
			s.armed = p
		}
	case SelectDragging:
		if s.drag.Piece.Name != p.Name {
			return nil
		}
		off, err := CursorOffset(p.Shape, s.cellSizePx, s.paddingPx)
		if err != nil {
			s.Cancel()
			return &InvariantError{Op: "refresh", Err: err}
		}
		s.drag.Piece = p
		s.drag.Offset = off
	}
	return nil
}

// BeginDrag picks up the armed piece at cursor.
func (s *Selection) BeginDrag(cursor, origin image.Point) (*DragContext, error) {
	if s.state != SelectArmed {
		return nil, ErrNotArmed
	}
	off, err := CursorOffset(s.armed.Shape, s.cellSizePx, s.paddingPx)
	if err != nil {
		s.armed = PieceRecord{}
		s.state = SelectIdle
		return nil, &InvariantError{Op: "drag", Err: err}
	}
	s.drag = &DragContext{
		Piece:  PieceRecord{Name: s.armed.Name, Shape: s.armed.Shape.Clone()},
		Offset: off,
		Origin: origin,
		Cursor: cursor,
	}
	s.armed = PieceRecord{}
	s.state = SelectDragging
	return s.drag, nil
}

// MoveTo tracks the cursor during a drag. Only the clone moves.
func (s *Selection) MoveTo(cursor image.Point) {
	if s.state != SelectDragging {
		return
	}
	s.drag.Cursor = cursor
}

// Drag returns the live drag context, or nil.
func (s *Selection) Drag() *DragContext {
	if s.state != SelectDragging {
		return nil
	}
	return s.drag
}

// Release ends a drag. Over a board cell (onBoard) it yields a placement
// intent anchored at cell; anywhere else the drag is cancelled. Either way
// the selection ends idle, whatever later happens to the intent.
func (s *Selection) Release(cell Cell, onBoard bool) (PlacementIntent, bool) {
	if s.state != SelectDragging {
		return PlacementIntent{}, false
	}
	if !onBoard {
		s.Cancel()
		return PlacementIntent{}, false
	}
	s.state = SelectDropped
	intent := PlacementIntent{
		Piece:  s.drag.Piece.Name,
		Shape:  s.drag.Piece.Shape,
		Anchor: cell,
	}
	s.drag = nil
	s.state = SelectIdle
	return intent, true
}

// Cancel drops any drag or armed piece without issuing anything.
func (s *Selection) Cancel() {
	s.drag = nil
	s.armed = PieceRecord{}
	s.state = SelectIdle
}
