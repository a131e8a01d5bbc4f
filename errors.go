package orthotree

import (
	"math"

	"github.com/pkg/errors"
)

// Precondition failures returned by the constructors and queries. Callers
// match them with errors.Cause.
var (
	ErrEmptyInput        = errors.New("no points supplied")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidEpsilon    = errors.New("epsilon must be a non-negative number")
	ErrInvalidBucketSize = errors.New("bucket size must be at least 1")
	ErrInvalidCoordinate = errors.New("coordinate is NaN")
)

func checkArity(p Point, k int, what string) error {
	if len(p) != k {
		return errors.Wrapf(ErrDimensionMismatch, "%s %v is %d dimensional, tree is %d", what, p, len(p), k)
	}
	return nil
}

func checkPoint(p Point, k int, what string) error {
	if err := checkArity(p, k, what); err != nil {
		return err
	}
	for i, c := range p {
		if math.IsNaN(c) {
			return errors.Wrapf(ErrInvalidCoordinate, "%s has NaN at axis %d", what, i)
		}
	}
	return nil
}
