package game

import "image"

// BoardSize is the side length of the square board.
const BoardSize = 20

// Cell addresses a board square, or a cell inside a shape, by row and column.
type Cell struct {
	Row int
	Col int
}

// Add offsets c by o.
func (c Cell) Add(o Cell) Cell {
	return Cell{Row: c.Row + o.Row, Col: c.Col + o.Col}
}

// OnBoard reports whether c lies within [0,BoardSize)×[0,BoardSize).
func (c Cell) OnBoard() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

// Shape is a piece's occupancy matrix in its current orientation.
// Shapes issued by the authority are never mutated; orientation changes
// replace the whole matrix.
type Shape [][]bool

// ShapeFromInts converts the authority's 0/1 matrix form.
func ShapeFromInts(rows [][]int) Shape {
	s := make(Shape, len(rows))
	for i, row := range rows {
		s[i] = make([]bool, len(row))
		for j, v := range row {
			s[i][j] = v != 0
		}
	}
	return s
}

// Ints returns the 0/1 matrix form used on the wire.
func (s Shape) Ints() [][]int {
	out := make([][]int, len(s))
	for i, row := range s {
		out[i] = make([]int, len(row))
		for j, v := range row {
			if v {
				out[i][j] = 1
			}
		}
	}
	return out
}

func (s Shape) Rows() int { return len(s) }

func (s Shape) Cols() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Occupied counts the true cells.
func (s Shape) Occupied() int {
	n := 0
	for _, row := range s {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// Validate checks the shape invariants: rectangular and at least one cell set.
func (s Shape) Validate() error {
	for _, row := range s {
		if len(row) != len(s[0]) {
			return ErrJaggedShape
		}
	}
	if s.Occupied() == 0 {
		return ErrEmptyShape
	}
	return nil
}

func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for i, row := range s {
		out[i] = append([]bool(nil), row...)
	}
	return out
}

func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if len(s[i]) != len(o[i]) {
			return false
		}
		for j := range s[i] {
			if s[i][j] != o[i][j] {
				return false
			}
		}
	}
	return true
}

// BoundingBoxAnchor returns the top-left corner of the shape's bounding box:
// the minimum occupied row and the minimum occupied column, taken
// independently. The corner itself need not be occupied.
func BoundingBoxAnchor(s Shape) (Cell, error) {
	minRow, minCol := -1, -1
	for i, row := range s {
		for j, v := range row {
			if !v {
				continue
			}
			if minRow < 0 || i < minRow {
				minRow = i
			}
			if minCol < 0 || j < minCol {
				minCol = j
			}
		}
	}
	if minRow < 0 {
		return Cell{}, ErrEmptyShape
	}
	return Cell{Row: minRow, Col: minCol}, nil
}

// CoveredCells projects every occupied (i,j) of s to anchor+(i,j).
// Off-board results are kept; callers filter.
func CoveredCells(s Shape, anchor Cell) []Cell {
	out := make([]Cell, 0, s.Occupied())
	for i, row := range s {
		for j, v := range row {
			if v {
				out = append(out, anchor.Add(Cell{Row: i, Col: j}))
			}
		}
	}
	return out
}

// CursorOffset is the pixel distance from a dragged piece's visual origin to
// the cursor: the bounding-box corner scaled by cellSizePx, plus paddingPx on
// both axes.
func CursorOffset(s Shape, cellSizePx, paddingPx int) (image.Point, error) {
	a, err := BoundingBoxAnchor(s)
	if err != nil {
		return image.Point{}, err
	}
	return image.Point{
		X: a.Col*cellSizePx + paddingPx,
		Y: a.Row*cellSizePx + paddingPx,
	}, nil
}
