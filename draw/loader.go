package draw

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// ParseHistory reads a history from its JSON representation: an object
// mapping series-id strings to a list of 7 draws, each a list of 14 numbers
// in [1,25].
func ParseHistory(r io.Reader) (*History, error) {
	var raw map[string][][]int
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}
	h := NewHistory()
	for idstr, draws := range raw {
		id, err := strconv.Atoi(idstr)
		if err != nil {
			return nil, fmt.Errorf("bad series id %q: %w", idstr, err)
		}
		if len(draws) != PerSeries {
			return nil, fmt.Errorf("series %d has %d draws, want %d", id, len(draws), PerSeries)
		}
		s := &Series{ID: id}
		for i, nums := range draws {
			d, err := NewDraw(nums)
			if err != nil {
				return nil, fmt.Errorf("series %d draw %d: %w", id, i, err)
			}
			s.Draws[i] = d
		}
		if err := h.Add(s); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// LoadHistory parses a history from a JSON file on disk.
func LoadHistory(path string) (*History, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h, err := ParseHistory(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("series", h.Len()).Msg("loaded history")
	return h, nil
}
