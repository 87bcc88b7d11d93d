package draw

import (
	"errors"
	"fmt"
	"sort"
)

var ErrNoSeries = errors.New("no such series")

// Series is one identified group of 7 draws. The draws have no meaning
// beyond their index 0..6.
type Series struct {
	ID    int
	Draws [PerSeries]Set
}

// History is the append-only store of all known series. Existing series are
// never mutated once added.
type History struct {
	series map[int]*Series
	ids    []int // ascending
}

func NewHistory() *History {
	return &History{series: make(map[int]*Series)}
}

// Add records a new series. Re-adding an existing id is an error; the store
// is append-only.
func (h *History) Add(s *Series) error {
	for i, d := range s.Draws {
		if !d.IsDraw() {
			return fmt.Errorf("series %d draw %d: not a valid %d-number draw: %v",
				s.ID, i, DrawSize, d)
		}
	}
	if _, ok := h.series[s.ID]; ok {
		return fmt.Errorf("series %d already recorded", s.ID)
	}
	h.series[s.ID] = s
	idx := sort.SearchInts(h.ids, s.ID)
	h.ids = append(h.ids, 0)
	copy(h.ids[idx+1:], h.ids[idx:])
	h.ids[idx] = s.ID
	return nil
}

func (h *History) Get(id int) (*Series, error) {
	s, ok := h.series[id]
	if !ok {
		return nil, fmt.Errorf("series %d: %w", id, ErrNoSeries)
	}
	return s, nil
}

func (h *History) Len() int {
	return len(h.series)
}

// IDs returns all series ids in ascending order. The returned slice is
// shared; callers must not modify it.
func (h *History) IDs() []int {
	return h.ids
}

// Before returns a view of the history restricted to series with id < target.
// Weight computation for a prediction target must use this view so that the
// target's own draws never leak into the weights.
func (h *History) Before(target int) *History {
	out := NewHistory()
	for _, id := range h.ids {
		if id >= target {
			break
		}
		out.series[id] = h.series[id]
		out.ids = append(out.ids, id)
	}
	return out
}

// AllDraws returns the set of every draw in the history, deduplicated.
// This is the seed for a search driver's exclusion set.
func (h *History) AllDraws() map[Set]struct{} {
	out := make(map[Set]struct{}, len(h.series)*PerSeries)
	for _, s := range h.series {
		for _, d := range s.Draws {
			out[d] = struct{}{}
		}
	}
	return out
}
