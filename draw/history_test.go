package draw

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func seqDraw(t *testing.T, start int) Set {
	t.Helper()
	nums := make([]int, DrawSize)
	for i := range nums {
		nums[i] = start + i
	}
	d, err := NewDraw(nums)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func seqSeries(t *testing.T, id, start int) *Series {
	t.Helper()
	s := &Series{ID: id}
	for i := range s.Draws {
		s.Draws[i] = seqDraw(t, start)
	}
	return s
}

func TestHistoryAddGet(t *testing.T) {
	is := is.New(t)
	h := NewHistory()
	is.NoErr(h.Add(seqSeries(t, 100, 1)))
	is.NoErr(h.Add(seqSeries(t, 102, 2)))
	is.NoErr(h.Add(seqSeries(t, 101, 3)))
	is.Equal(h.Len(), 3)
	is.Equal(h.IDs(), []int{100, 101, 102})

	s, err := h.Get(101)
	is.NoErr(err)
	is.Equal(s.Draws[0], seqDraw(t, 3))

	_, err = h.Get(99)
	is.True(err != nil)

	// append-only
	is.True(h.Add(seqSeries(t, 100, 4)) != nil)
}

func TestHistoryRejectsBadDraw(t *testing.T) {
	is := is.New(t)
	h := NewHistory()
	s := seqSeries(t, 1, 1)
	s.Draws[3] = 0
	is.True(h.Add(s) != nil)
}

func TestHistoryBefore(t *testing.T) {
	is := is.New(t)
	h := NewHistory()
	for id := 100; id < 105; id++ {
		is.NoErr(h.Add(seqSeries(t, id, id-99)))
	}
	prior := h.Before(103)
	is.Equal(prior.IDs(), []int{100, 101, 102})
	_, err := prior.Get(103)
	is.True(err != nil)

	is.Equal(h.Before(100).Len(), 0)
}

func TestHistoryAllDraws(t *testing.T) {
	is := is.New(t)
	h := NewHistory()
	is.NoErr(h.Add(seqSeries(t, 1, 1)))
	is.NoErr(h.Add(seqSeries(t, 2, 1)))
	// Each series repeats one draw 7 times, and both series share it.
	all := h.AllDraws()
	is.Equal(len(all), 1)
	_, ok := all[seqDraw(t, 1)]
	is.True(ok)
}

func TestParseHistory(t *testing.T) {
	is := is.New(t)
	payload := `{
		"100": [
			[1,2,3,4,5,6,7,8,9,10,11,12,13,14],
			[1,2,3,4,5,6,7,8,9,10,11,12,13,14],
			[1,2,3,4,5,6,7,8,9,10,11,12,13,14],
			[1,2,3,4,5,6,7,8,9,10,11,12,13,14],
			[1,2,3,4,5,6,7,8,9,10,11,12,13,14],
			[1,2,3,4,5,6,7,8,9,10,11,12,13,14],
			[12,13,14,15,16,17,18,19,20,21,22,23,24,25]
		]
	}`
	h, err := ParseHistory(strings.NewReader(payload))
	is.NoErr(err)
	is.Equal(h.Len(), 1)
	s, err := h.Get(100)
	is.NoErr(err)
	is.Equal(s.Draws[6].Numbers()[0], 12)
}

func TestParseHistoryErrors(t *testing.T) {
	is := is.New(t)
	_, err := ParseHistory(strings.NewReader(`{"x": []}`))
	is.True(err != nil)
	_, err = ParseHistory(strings.NewReader(`{"1": [[1,2,3]]}`))
	is.True(err != nil)
	_, err = ParseHistory(strings.NewReader(`not json`))
	is.True(err != nil)
}
