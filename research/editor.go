// Package research reorders the invented and pending research lists of a park.
//
// An Editor drives drag and drop between the two lists on behalf of a UI. It
// never reports errors: picking up a locked item, committing without a held
// item, or dropping outside both lists are ignored. The editor is not safe for
// concurrent use; the host feeds it one input event at a time.
package research

import (
	"math/rand/v2"
)

const DefaultRowHeight = 12

type ChangeKind uint8

const (
	Lifted ChangeKind = iota // item left its list for the drag register
	Dropped
	Returned // drag cancelled, item back at its origin
	Shuffled
	Promoted
	Demoted
)

func (k ChangeKind) String() string {
	switch k {
	case Lifted:
		return "lifted"
	case Dropped:
		return "dropped"
	case Returned:
		return "returned"
	case Shuffled:
		return "shuffled"
	case Promoted:
		return "promoted"
	case Demoted:
		return "demoted"
	}
	return "unknown"
}

// Change is passed to the notify hook after every mutation of the lists.
type Change struct {
	Kind  ChangeKind
	Item  Item   // zero for bulk changes
	List  ListID // list the item ended up in
	Count int    // items affected
}

// DragSession is the content of the drag register. It lives from BeginDrag
// until CommitDrag or CancelDrag.
type DragSession struct {
	Item   Item
	Origin ListID
	Index  int
}

type Point struct {
	X, Y int
}

// RowMapper translates a pointer position into a list and a vertical offset
// inside that list's scroll area. ok is false outside both lists.
type RowMapper interface {
	MapRow(p Point) (list ListID, scrollY int, ok bool)
}

type RowMapperFunc func(p Point) (ListID, int, bool)

func (f RowMapperFunc) MapRow(p Point) (ListID, int, bool) {
	return f(p)
}

// Target is a drop location. A nil Before means the end of List.
type Target struct {
	List   ListID
	Before *Item
}

type Editor struct {
	state     *State
	rowHeight int
	mapper    RowMapper
	notify    func(Change)
	rng       *rand.Rand
	drag      *DragSession
}

type Option func(*Editor)

func WithRowHeight(h int) Option {
	return func(e *Editor) {
		if h > 0 {
			e.rowHeight = h
		}
	}
}

func WithRowMapper(m RowMapper) Option {
	return func(e *Editor) { e.mapper = m }
}

func WithNotify(fn func(Change)) Option {
	return func(e *Editor) { e.notify = fn }
}

func WithRand(r *rand.Rand) Option {
	return func(e *Editor) { e.rng = r }
}

func NewEditor(state *State, opts ...Option) *Editor {
	e := &Editor{
		state:     state,
		rowHeight: DefaultRowHeight,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

func (e *Editor) State() *State {
	return e.state
}

func (e *Editor) RowHeight() int {
	return e.rowHeight
}

func (e *Editor) changed(c Change) {
	if e.notify != nil {
		e.notify(c)
	}
}

func (e *Editor) Dragging() bool {
	return e.drag != nil
}

func (e *Editor) Dragged() (Item, bool) {
	if e.drag == nil {
		return Item{}, false
	}
	return e.drag.Item, true
}

// Session returns a copy of the drag register, or nil when it is empty.
func (e *Editor) Session() *DragSession {
	if e.drag == nil {
		return nil
	}
	s := *e.drag
	return &s
}

// BeginDrag lifts item out of whichever list holds it into the drag register.
func (e *Editor) BeginDrag(item Item) {
	if e.drag != nil {
		return
	}
	list, i, ok := e.state.Find(item)
	if !ok {
		return
	}
	// the stored copy carries the authoritative flags, not the caller's
	if e.state.List(list)[i].AlwaysResearched {
		return
	}
	held := e.state.removeAt(list, i)
	e.drag = &DragSession{Item: held, Origin: list, Index: i}
	e.changed(Change{Kind: Lifted, Item: held, List: list, Count: 1})
}

// BeginDragAt picks up the item under scrollY in list, like a mouse-down.
func (e *Editor) BeginDragAt(list ListID, scrollY int) {
	it, ok := e.ItemAt(list, scrollY)
	if !ok {
		return
	}
	e.BeginDrag(it)
}

func (e *Editor) CommitDrag(t Target) {
	if e.drag == nil {
		return
	}
	held := e.drag.Item
	e.drag = nil
	e.state.insertBefore(t.List, t.Before, held)
	e.changed(Change{Kind: Dropped, Item: held, List: t.List, Count: 1})
}

// CancelDrag puts the held item back where BeginDrag found it.
func (e *Editor) CancelDrag() {
	if e.drag == nil {
		return
	}
	s := e.drag
	e.drag = nil
	e.state.insertAt(s.Origin, s.Index, s.Item)
	e.changed(Change{Kind: Returned, Item: s.Item, List: s.Origin, Count: 1})
}

// Drop locates the target under p and commits there. With no target the drag
// is cancelled.
func (e *Editor) Drop(p Point) {
	if e.drag == nil {
		return
	}
	t, ok := e.LocateInsertionTarget(p)
	if !ok {
		e.CancelDrag()
		return
	}
	e.CommitDrag(t)
}

func (e *Editor) row(scrollY int) int {
	if scrollY < 0 {
		return -1
	}
	return scrollY / e.rowHeight
}

// ItemAt returns the item drawn at scrollY in list.
func (e *Editor) ItemAt(list ListID, scrollY int) (Item, bool) {
	r := e.row(scrollY)
	items := e.state.List(list)
	if r < 0 || r >= len(items) {
		return Item{}, false
	}
	return items[r], true
}

// CanPickUp reports whether a mouse-down at scrollY would start a drag.
func (e *Editor) CanPickUp(list ListID, scrollY int) bool {
	it, ok := e.ItemAt(list, scrollY)
	return ok && !it.AlwaysResearched
}

func (e *Editor) ScrollHeight(list ListID) int {
	return len(e.state.List(list)) * e.rowHeight
}

// LocateInsertionTarget maps a pointer position to a drop target. Rows holding
// locked items are skipped downwards so nothing lands above them.
func (e *Editor) LocateInsertionTarget(p Point) (Target, bool) {
	if e.mapper == nil {
		return Target{}, false
	}
	list, scrollY, ok := e.mapper.MapRow(p)
	if !ok {
		return Target{}, false
	}
	return e.targetAt(list, scrollY), true
}

func (e *Editor) targetAt(list ListID, scrollY int) Target {
	items := e.state.List(list)
	r := max(e.row(scrollY), 0)
	for r < len(items) && items[r].AlwaysResearched {
		r++
	}
	if r >= len(items) {
		return Target{List: list}
	}
	before := items[r]
	return Target{List: list, Before: &before}
}

// Shuffle permutes the unlocked pending items. Locked items keep their slots.
func (e *Editor) Shuffle() {
	pending := e.state.Pending
	var slots []int
	for i, it := range pending {
		if !it.AlwaysResearched {
			slots = append(slots, i)
		}
	}
	if len(slots) < 2 {
		return
	}
	e.rng.Shuffle(len(slots), func(i, j int) {
		a, b := slots[i], slots[j]
		pending[a], pending[b] = pending[b], pending[a]
	})
	e.changed(Change{Kind: Shuffled, List: Pending, Count: len(slots)})
}

func (e *Editor) PromoteAll() {
	if n := e.state.moveUnlocked(Pending, Invented); n > 0 {
		e.changed(Change{Kind: Promoted, List: Invented, Count: n})
	}
}

func (e *Editor) DemoteAll() {
	if n := e.state.moveUnlocked(Invented, Pending); n > 0 {
		e.changed(Change{Kind: Demoted, List: Pending, Count: n})
	}
}
