package research

// DropOffset nudges drops by half a row so the rule lands between items.
const DropOffset = 6

// Pane is the on-screen scroll area of one list. Right and Bottom are exclusive.
type Pane struct {
	Left, Top, Right, Bottom int
	ScrollY                  int
}

func (p Pane) contains(pt Point) bool {
	return pt.X >= p.Left && pt.X < p.Right && pt.Y >= p.Top && pt.Y < p.Bottom
}

// Layout is a RowMapper for the usual two-pane editor window with the
// invented list above the pending list.
type Layout struct {
	Invented Pane
	Pending  Pane
	Offset   int
}

func NewLayout(invented, pending Pane) *Layout {
	return &Layout{Invented: invented, Pending: pending, Offset: DropOffset}
}

func (l *Layout) MapRow(pt Point) (ListID, int, bool) {
	switch {
	case l.Invented.contains(pt):
		return Invented, pt.Y - l.Invented.Top + l.Invented.ScrollY + l.Offset, true
	case l.Pending.contains(pt):
		return Pending, pt.Y - l.Pending.Top + l.Pending.ScrollY + l.Offset, true
	}
	return 0, 0, false
}
