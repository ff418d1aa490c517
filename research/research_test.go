package research

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func ride(n uint8) Item {
	return Item{Type: Ride, EntryIndex: n, BaseRideType: n + 10, Category: RollerCoaster}
}

func locked(it Item) Item {
	it.AlwaysResearched = true
	return it
}

var equateEmpty = cmpopts.EquateEmpty()

// checkMembership verifies every item of all is in exactly one place.
func checkMembership(t *testing.T, e *Editor, all []Item) {
	t.Helper()
	count := map[uint32]int{}
	for _, it := range e.State().Invented {
		count[it.Raw()]++
	}
	for _, it := range e.State().Pending {
		count[it.Raw()]++
	}
	if it, ok := e.Dragged(); ok {
		count[it.Raw()]++
		if it.AlwaysResearched {
			t.Errorf("locked item %v in drag register", it)
		}
	}
	for _, it := range all {
		if count[it.Raw()] != 1 {
			t.Errorf("%v found %d times, want 1", it, count[it.Raw()])
		}
	}
	if len(count) != len(all) {
		t.Errorf("got %d distinct items, want %d", len(count), len(all))
	}
}

func TestDragWithinPending(t *testing.T) {
	a, b, c := ride(1), locked(ride(2)), ride(3)
	s := &State{Pending: []Item{a, b, c}}
	e := NewEditor(s)

	e.BeginDrag(a)
	if !cmp.Equal([]Item{b, c}, s.Pending, equateEmpty) {
		t.Errorf("after BeginDrag: %v", cmp.Diff([]Item{b, c}, s.Pending, equateEmpty))
	}
	if got, ok := e.Dragged(); !ok || !got.Equals(a) {
		t.Fatalf("Dragged() = %v, %v; want %v", got, ok, a)
	}
	checkMembership(t, e, []Item{a, b, c})

	e.CommitDrag(Target{List: Pending, Before: &c})
	want := []Item{b, a, c}
	if !cmp.Equal(want, s.Pending) {
		t.Errorf("after CommitDrag: %v", cmp.Diff(want, s.Pending))
	}
	if e.Dragging() {
		t.Error("register not cleared after commit")
	}
	checkMembership(t, e, []Item{a, b, c})
}

func TestBeginDragLockedIsNoop(t *testing.T) {
	a := locked(ride(1))
	s := &State{Pending: []Item{a}}
	changes := 0
	e := NewEditor(s, WithNotify(func(Change) { changes++ }))

	e.BeginDrag(a)
	// flags come from the stored item, not the argument
	e.BeginDrag(ride(1))

	if !cmp.Equal([]Item{a}, s.Pending) {
		t.Errorf("pending changed: %v", cmp.Diff([]Item{a}, s.Pending))
	}
	if e.Dragging() {
		t.Error("locked item entered the drag register")
	}
	if changes != 0 {
		t.Errorf("got %d notifications, want 0", changes)
	}
}

func TestBeginDragUnknownOrBusy(t *testing.T) {
	a, b := ride(1), ride(2)
	s := &State{Invented: []Item{a, b}}
	e := NewEditor(s)

	e.BeginDrag(ride(9))
	if e.Dragging() {
		t.Fatal("unknown item entered the drag register")
	}
	e.BeginDrag(a)
	e.BeginDrag(b)
	if got, _ := e.Dragged(); !got.Equals(a) {
		t.Errorf("second BeginDrag replaced the register with %v", got)
	}
	if !cmp.Equal([]Item{b}, s.Invented) {
		t.Errorf("invented = %v", s.Invented)
	}
}

func TestCommitWithoutDragIsNoop(t *testing.T) {
	a := ride(1)
	s := &State{Pending: []Item{a}}
	e := NewEditor(s)
	e.CommitDrag(Target{List: Invented})
	want := &State{Pending: []Item{a}}
	if !cmp.Equal(want, s, equateEmpty) {
		t.Errorf("state changed: %v", cmp.Diff(want, s, equateEmpty))
	}
}

func TestCommitAppendsWhenBeforeMissing(t *testing.T) {
	a, b, c := ride(1), ride(2), ride(3)
	s := &State{Invented: []Item{a}, Pending: []Item{b, c}}
	e := NewEditor(s)
	e.BeginDrag(b)
	e.CommitDrag(Target{List: Invented, Before: &c}) // c lives in pending
	if !cmp.Equal([]Item{a, b}, s.Invented) {
		t.Errorf("invented = %v", s.Invented)
	}
	if !cmp.Equal([]Item{c}, s.Pending) {
		t.Errorf("pending = %v", s.Pending)
	}
}

func TestCommitPlacesItemBeforeTarget(t *testing.T) {
	items := []Item{ride(1), ride(2), ride(3), ride(4), ride(5)}
	for from := range items {
		for to := range items {
			s := &State{Pending: slices.Clone(items)}
			e := NewEditor(s)
			dragged := items[from]
			before := items[to]
			e.BeginDrag(dragged)
			e.CommitDrag(Target{List: Pending, Before: &before})

			i := slices.IndexFunc(s.Pending, dragged.Equals)
			if from == to {
				// dropping onto itself: before is gone, so it lands at the end
				if i != len(s.Pending)-1 {
					t.Errorf("from %d to itself: at %d, want end", from, i)
				}
				continue
			}
			if i+1 >= len(s.Pending) || !s.Pending[i+1].Equals(before) {
				t.Errorf("from %d to %d: %v", from, to, s.Pending)
			}
			checkMembership(t, e, items)
		}
	}
}

func TestCancelReturnsItemToOrigin(t *testing.T) {
	a, b, c := ride(1), ride(2), ride(3)
	s := &State{Invented: []Item{a, b, c}}
	var got []Change
	e := NewEditor(s, WithNotify(func(c Change) { got = append(got, c) }))

	e.BeginDrag(b)
	wantSession := &DragSession{Item: b, Origin: Invented, Index: 1}
	if session := e.Session(); !cmp.Equal(wantSession, session) {
		t.Errorf("Session: %v", cmp.Diff(wantSession, session))
	}
	e.CancelDrag()
	if e.Session() != nil {
		t.Error("Session not nil after cancel")
	}
	if !cmp.Equal([]Item{a, b, c}, s.Invented) {
		t.Errorf("invented = %v", s.Invented)
	}
	if e.Dragging() {
		t.Error("register not cleared")
	}
	want := []Change{
		{Kind: Lifted, Item: b, List: Invented, Count: 1},
		{Kind: Returned, Item: b, List: Invented, Count: 1},
	}
	if !cmp.Equal(want, got) {
		t.Errorf("changes: %v", cmp.Diff(want, got))
	}

	// cancelling twice does nothing
	e.CancelDrag()
	if len(got) != 2 {
		t.Errorf("got %d changes after second cancel", len(got))
	}
}

func TestLocateInsertionTarget(t *testing.T) {
	a, b, c := ride(1), locked(ride(2)), ride(3)
	d := ride(4)
	s := &State{Invented: []Item{d}, Pending: []Item{b, c, a}}
	layout := NewLayout(
		Pane{Left: 0, Top: 0, Right: 100, Bottom: 50},
		Pane{Left: 0, Top: 60, Right: 100, Bottom: 160},
	)
	e := NewEditor(s, WithRowMapper(layout))

	tests := []struct {
		name   string
		p      Point
		ok     bool
		list   ListID
		before *Item
	}{
		{"outside", Point{X: 200, Y: 10}, false, 0, nil},
		{"between panes", Point{X: 10, Y: 55}, false, 0, nil},
		{"invented first row", Point{X: 10, Y: 0}, true, Invented, &d},
		{"invented past end", Point{X: 10, Y: 30}, true, Invented, nil},
		{"locked row skipped", Point{X: 10, Y: 60}, true, Pending, &c},
		{"third row", Point{X: 10, Y: 80}, true, Pending, &a},
		{"pending past end", Point{X: 10, Y: 150}, true, Pending, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.LocateInsertionTarget(tt.p)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			want := Target{List: tt.list, Before: tt.before}
			if !cmp.Equal(want, got) {
				t.Errorf("target: %v", cmp.Diff(want, got))
			}
		})
	}
}

func TestLocateWithoutMapper(t *testing.T) {
	e := NewEditor(&State{Pending: []Item{ride(1)}})
	if _, ok := e.LocateInsertionTarget(Point{}); ok {
		t.Error("got a target without a row mapper")
	}
}

func TestDropOutsideCancels(t *testing.T) {
	a, b := ride(1), ride(2)
	s := &State{Pending: []Item{a, b}}
	mapper := RowMapperFunc(func(Point) (ListID, int, bool) { return 0, 0, false })
	e := NewEditor(s, WithRowMapper(mapper))
	e.BeginDragAt(Pending, 0)
	e.Drop(Point{X: 1, Y: 1})
	if !cmp.Equal([]Item{a, b}, s.Pending) {
		t.Errorf("pending = %v", s.Pending)
	}
	if e.Dragging() {
		t.Error("register not cleared")
	}
}

func TestDropMovesAcrossLists(t *testing.T) {
	a, b, c := ride(1), ride(2), ride(3)
	s := &State{Invented: []Item{a}, Pending: []Item{b, c}}
	mapper := RowMapperFunc(func(p Point) (ListID, int, bool) { return Invented, p.Y, true })
	e := NewEditor(s, WithRowMapper(mapper))
	e.BeginDragAt(Pending, 13) // row 1: c
	e.Drop(Point{Y: 0})
	want := &State{Invented: []Item{c, a}, Pending: []Item{b}}
	if !cmp.Equal(want, s) {
		t.Errorf("state: %v", cmp.Diff(want, s))
	}
}

func TestItemAtAndCanPickUp(t *testing.T) {
	a, b := ride(1), locked(ride(2))
	e := NewEditor(&State{Pending: []Item{a, b}}, WithRowHeight(10))
	if got, ok := e.ItemAt(Pending, 9); !ok || !got.Equals(a) {
		t.Errorf("ItemAt(9) = %v, %v", got, ok)
	}
	if got, ok := e.ItemAt(Pending, 10); !ok || !got.Equals(b) {
		t.Errorf("ItemAt(10) = %v, %v", got, ok)
	}
	if _, ok := e.ItemAt(Pending, 20); ok {
		t.Error("ItemAt past end found an item")
	}
	if _, ok := e.ItemAt(Pending, -1); ok {
		t.Error("ItemAt(-1) found an item")
	}
	if !e.CanPickUp(Pending, 0) || e.CanPickUp(Pending, 15) {
		t.Error("CanPickUp disagrees with the locked flag")
	}
	if got := e.ScrollHeight(Pending); got != 20 {
		t.Errorf("ScrollHeight = %d, want 20", got)
	}
}

func TestShuffleKeepsMembershipAndLockedSlots(t *testing.T) {
	var pending []Item
	for i := range uint8(20) {
		it := ride(i)
		if i%7 == 0 {
			it = locked(it)
		}
		pending = append(pending, it)
	}
	before := slices.Clone(pending)
	invented := []Item{ride(100)}
	s := &State{Invented: slices.Clone(invented), Pending: pending}
	e := NewEditor(s, WithRand(rand.New(rand.NewPCG(1, 2))))

	e.Shuffle()

	if !cmp.Equal(invented, s.Invented) {
		t.Errorf("invented changed: %v", cmp.Diff(invented, s.Invented))
	}
	for i, it := range before {
		if it.AlwaysResearched && !s.Pending[i].Equals(it) {
			t.Errorf("locked item %v moved from slot %d", it, i)
		}
	}
	byRaw := cmpopts.SortSlices(func(a, b Item) bool { return a.Raw() < b.Raw() })
	if !cmp.Equal(before, s.Pending, byRaw) {
		t.Errorf("membership changed: %v", cmp.Diff(before, s.Pending, byRaw))
	}
	if cmp.Equal(before, s.Pending) {
		t.Error("shuffle left the order unchanged")
	}
}

func TestPromoteAll(t *testing.T) {
	a, b, c, d := ride(1), locked(ride(2)), ride(3), ride(4)
	s := &State{Invented: []Item{d}, Pending: []Item{a, b, c}}
	e := NewEditor(s)
	e.PromoteAll()
	want := &State{Invented: []Item{d, a, c}, Pending: []Item{b}}
	if !cmp.Equal(want, s) {
		t.Errorf("state: %v", cmp.Diff(want, s))
	}
}

func TestDemoteAll(t *testing.T) {
	a, b, c, d := ride(1), locked(ride(2)), ride(3), ride(4)
	s := &State{Invented: []Item{a, b, c}, Pending: []Item{d}}
	var got []Change
	e := NewEditor(s, WithNotify(func(c Change) { got = append(got, c) }))
	e.DemoteAll()
	want := &State{Invented: []Item{b}, Pending: []Item{d, a, c}}
	if !cmp.Equal(want, s) {
		t.Errorf("state: %v", cmp.Diff(want, s))
	}
	if len(got) != 1 || got[0].Kind != Demoted || got[0].Count != 2 {
		t.Errorf("changes = %v", got)
	}
	e.DemoteAll()
	if len(got) != 1 {
		t.Error("empty demote notified")
	}
}

func TestValidate(t *testing.T) {
	s := &State{Invented: []Item{ride(1)}, Pending: []Item{ride(2)}}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	s.Pending = append(s.Pending, locked(ride(1)))
	if err := s.Validate(); err == nil {
		t.Error("duplicate across lists not reported")
	}
	s = &State{Pending: []Item{{Type: Scenery, Category: NumCategories}}}
	if err := s.Validate(); err == nil {
		t.Error("bad category not reported")
	}
}

func TestRawRoundTrip(t *testing.T) {
	for _, it := range []Item{ride(7), {Type: Scenery, EntryIndex: 3}} {
		got, err := ItemFromRaw(it.Raw())
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equals(it) {
			t.Errorf("ItemFromRaw(%#x) = %v, want %v", it.Raw(), got, it)
		}
	}
	for _, raw := range []uint32{RawInventedEnd, RawPendingEnd, RawEnd, RawNull, 0x01000000, 0x00050000} {
		if _, err := ItemFromRaw(raw); err == nil {
			t.Errorf("ItemFromRaw(%#x) accepted", raw)
		}
	}
	// scenery ignores the base ride type in its identity
	a := Item{Type: Scenery, EntryIndex: 1, BaseRideType: 4}
	b := Item{Type: Scenery, EntryIndex: 1}
	if !a.Equals(b) {
		t.Error("scenery identity depends on BaseRideType")
	}
}
