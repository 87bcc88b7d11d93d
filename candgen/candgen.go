// Package candgen generates 14-of-25 candidate draws, either exhaustively
// over an explicit pool or by weighted random sampling against an exclusion
// set.
package candgen

import (
	"errors"

	"github.com/javmunozm/randomsub/draw"
)

// ErrSpaceExhausted is returned when every combination of the generator's
// search space has already been produced or excluded.
var ErrSpaceExhausted = errors.New("candidate space exhausted")

// Generator yields one candidate per call to Next. Implementations never
// yield the same candidate twice in a run.
type Generator interface {
	Next() (draw.Set, error)
}
