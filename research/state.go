package research

import (
	"fmt"
	"slices"
)

// State holds the two research sequences of a park. Pending is processed in
// order by the simulation; the order of Invented is cosmetic.
type State struct {
	Invented []Item
	Pending  []Item
}

func (s *State) list(id ListID) *[]Item {
	if id == Invented {
		return &s.Invented
	}
	return &s.Pending
}

// List returns the sequence for id. The slice is shared with the state.
func (s *State) List(id ListID) []Item {
	return *s.list(id)
}

// Find locates item by identity in either list.
func (s *State) Find(item Item) (ListID, int, bool) {
	for _, id := range []ListID{Invented, Pending} {
		if i := indexOf(s.List(id), item); i >= 0 {
			return id, i, true
		}
	}
	return 0, -1, false
}

func (s *State) Len() int {
	return len(s.Invented) + len(s.Pending)
}

func (s *State) Clone() *State {
	return &State{
		Invented: slices.Clone(s.Invented),
		Pending:  slices.Clone(s.Pending),
	}
}

// Validate checks that no identity appears twice and every category is known.
func (s *State) Validate() error {
	seen := make(map[uint32]ListID, s.Len())
	for _, id := range []ListID{Invented, Pending} {
		for _, it := range s.List(id) {
			if !it.Category.Valid() {
				return fmt.Errorf("%v: unknown category %d", it, it.Category)
			}
			if prev, ok := seen[it.Raw()]; ok {
				return fmt.Errorf("%v appears in %v and %v", it, prev, id)
			}
			seen[it.Raw()] = id
		}
	}
	return nil
}

func indexOf(items []Item, item Item) int {
	return slices.IndexFunc(items, item.Equals)
}

func (s *State) removeAt(id ListID, i int) Item {
	l := s.list(id)
	it := (*l)[i]
	*l = slices.Delete(*l, i, i+1)
	return it
}

func (s *State) insertAt(id ListID, i int, item Item) {
	l := s.list(id)
	i = min(max(i, 0), len(*l))
	*l = slices.Insert(*l, i, item)
}

// insertBefore places item immediately before the first element equal to
// before, or at the end of the list when before is absent.
func (s *State) insertBefore(id ListID, before *Item, item Item) int {
	l := s.list(id)
	if before != nil {
		if i := indexOf(*l, *before); i >= 0 {
			*l = slices.Insert(*l, i, item)
			return i
		}
	}
	*l = append(*l, item)
	return len(*l) - 1
}

// moveUnlocked moves every unlocked item of from to the end of to, keeping order.
func (s *State) moveUnlocked(from, to ListID) int {
	src := s.list(from)
	dst := s.list(to)
	kept := (*src)[:0:0]
	moved := 0
	for _, it := range *src {
		if it.AlwaysResearched {
			kept = append(kept, it)
			continue
		}
		*dst = append(*dst, it)
		moved++
	}
	*src = kept
	return moved
}
