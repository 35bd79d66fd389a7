package screen

// Cell is a single grid position: a Unicode scalar plus the attributes it
// was printed with. Cells hash by (char, attrs).
type Cell struct {
	Char  rune
	Attrs Attrs
}

// blankCell is the cell written by erase operations and new rows: a space
// with DefaultAttrs (default colors, no style).
var blankCell = Cell{Char: ' ', Attrs: DefaultAttrs}

// NewCell returns a blank (space) cell with the given attributes.
func NewCell(attrs Attrs) Cell {
	return Cell{Char: ' ', Attrs: attrs}
}

// IsEmpty reports whether the cell is a space with no attributes set,
// i.e. indistinguishable from a freshly cleared cell.
func (c Cell) IsEmpty() bool {
	return c.Char == ' ' && c.Attrs == DefaultAttrs
}
