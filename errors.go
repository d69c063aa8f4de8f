package elections

import (
	"errors"
	"math/bits"
)

// Data-integrity errors always propagate to the caller; continuing with
// a corrupted intermediate state would produce a wrong answer that
// independent parties could not reproduce.
var (
	// ErrInsufficientCandidates is returned when no candidate can be
	// elected for a requested seat: the candidate set is empty, or
	// Options.RequireExact is set and fewer seats could be filled.
	ErrInsufficientCandidates = errors.New("not enough electable candidates")

	// ErrEmptyVoter marks a voter with no accepted candidates.
	ErrEmptyVoter = errors.New("voter has no targets")

	// ErrZeroStake marks a voter without stake.
	ErrZeroStake = errors.New("voter has zero stake")

	// ErrDuplicateTarget marks a voter listing the same candidate twice.
	ErrDuplicateTarget = errors.New("duplicate target")

	// ErrOverflow is returned when a stake computation would exceed the
	// representable range. It is never silently saturated; saturation
	// would corrupt the conservation invariants.
	ErrOverflow = errors.New("stake arithmetic overflow")

	// ErrUnknownStake is returned when a stake lookup has no entry for
	// a voter named in an assignment.
	ErrUnknownStake = errors.New("no stake known for voter")
)

func addWeight(a, b VoteWeight) (VoteWeight, error) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return VoteWeight(sum), nil
}
