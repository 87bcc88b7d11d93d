// Package draw contains the basic data model: number sets, draws, series,
// and the append-only draw history.
package draw

import (
	"fmt"
	"math/bits"
	"sort"
	"strconv"
	"strings"
)

// A draw universe of 25 numbers, 14 drawn per event, 7 events per series.
const (
	MaxNumber = 25
	DrawSize  = 14
	PerSeries = 7
)

// Set is a bitmask representation of a subset of {1..25}. Number n occupies
// bit n-1. This makes intersection, union, and set equality single
// instructions, and a Set is directly usable as a map key.
type Set uint32

// Universe is the full set {1..25}.
const Universe Set = (1 << MaxNumber) - 1

// FromNumbers builds a Set from a list of numbers. It rejects out-of-range
// and duplicate numbers but places no constraint on cardinality; use NewDraw
// for a full 14-number draw.
func FromNumbers(nums []int) (Set, error) {
	var s Set
	for _, n := range nums {
		if n < 1 || n > MaxNumber {
			return 0, fmt.Errorf("number %d out of range [1, %d]", n, MaxNumber)
		}
		b := Set(1) << (n - 1)
		if s&b != 0 {
			return 0, fmt.Errorf("duplicate number %d", n)
		}
		s |= b
	}
	return s, nil
}

// NewDraw builds a Set and additionally requires exactly DrawSize distinct
// numbers.
func NewDraw(nums []int) (Set, error) {
	s, err := FromNumbers(nums)
	if err != nil {
		return 0, err
	}
	if s.Card() != DrawSize {
		return 0, fmt.Errorf("draw must have exactly %d numbers, got %d", DrawSize, s.Card())
	}
	return s, nil
}

// IsDraw reports whether s is a well-formed draw (14 numbers, all in range).
func (s Set) IsDraw() bool {
	return s&^Universe == 0 && s.Card() == DrawSize
}

func (s Set) Has(n int) bool {
	if n < 1 || n > MaxNumber {
		return false
	}
	return s&(1<<(n-1)) != 0
}

func (s Set) Add(n int) Set {
	return s | (1 << (n - 1))
}

func (s Set) Remove(n int) Set {
	return s &^ (1 << (n - 1))
}

// Card returns the number of elements in the set.
func (s Set) Card() int {
	return bits.OnesCount32(uint32(s))
}

func (s Set) Inter(o Set) Set {
	return s & o
}

func (s Set) Union(o Set) Set {
	return s | o
}

// Diff returns the elements of s not in o.
func (s Set) Diff(o Set) Set {
	return s &^ o
}

// Overlap returns |s ∩ o| without allocating.
func (s Set) Overlap(o Set) int {
	return bits.OnesCount32(uint32(s & o))
}

// Numbers returns the elements in ascending order.
func (s Set) Numbers() []int {
	nums := make([]int, 0, s.Card())
	for v := uint32(s); v != 0; v &= v - 1 {
		nums = append(nums, bits.TrailingZeros32(v)+1)
	}
	return nums
}

func (s Set) String() string {
	nums := s.Numbers()
	strs := make([]string, len(nums))
	for i, n := range nums {
		strs[i] = strconv.Itoa(n)
	}
	return "{" + strings.Join(strs, " ") + "}"
}

// ParseSet parses a whitespace- or comma-separated list of numbers.
func ParseSet(text string) (Set, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	nums := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return 0, fmt.Errorf("bad number %q: %w", f, err)
		}
		nums = append(nums, n)
	}
	return FromNumbers(nums)
}

// SortSets orders sets by their ascending number lists, lexicographically.
// A smaller first element means a lower-order bit, which lands in a
// higher-order position of the reversed mask, so this is a single compare.
func SortSets(sets []Set) {
	sort.Slice(sets, func(i, j int) bool {
		return bits.Reverse32(uint32(sets[i])) > bits.Reverse32(uint32(sets[j]))
	})
}
