package cartsync

// Snapshot is an immutable view of the cart. Totals are derived from Lines
// when the snapshot is built and never updated on their own. Callers must
// not modify Lines.
type Snapshot struct {
	Lines       []Line `json:"lines"`
	TotalAmount int64  `json:"total_amount"`
	TotalItems  int    `json:"total_items"`
	Loading     bool   `json:"loading"`
}

func newSnapshot(lines []Line, loading bool) Snapshot {
	s := Snapshot{Lines: lines, Loading: loading}
	if s.Lines == nil {
		s.Lines = []Line{}
	}
	for _, l := range s.Lines {
		s.TotalItems += l.Quantity
		s.TotalAmount += l.Subtotal()
	}
	return s
}

// Line returns the line with the given identifier.
func (s Snapshot) Line(id LineID) (Line, bool) {
	if i := indexByID(s.Lines, id); i >= 0 {
		return s.Lines[i], true
	}
	return Line{}, false
}

// LineForProduct returns the line holding productID, if any.
func (s Snapshot) LineForProduct(productID string) (Line, bool) {
	if i := indexByProduct(s.Lines, productID); i >= 0 {
		return s.Lines[i], true
	}
	return Line{}, false
}

func indexByID(lines []Line, id LineID) int {
	for i, l := range lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func indexByProduct(lines []Line, productID string) int {
	for i, l := range lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines), len(lines)+1)
	copy(out, lines)
	return out
}

func withoutIndex(lines []Line, i int) []Line {
	out := make([]Line, 0, len(lines)-1)
	out = append(out, lines[:i]...)
	return append(out, lines[i+1:]...)
}
