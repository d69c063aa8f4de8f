package elections

import (
	"math/big"

	"go.nposlab.org/elections/ratio"
)

// AccountID identifies a candidate or voter. The engine treats it as
// opaque except for ordering, which breaks ties deterministically.
type AccountID uint64

// VoteWeight is an absolute amount of stake.
type VoteWeight uint64

// Voter backs one or more candidates with its whole stake.
type Voter struct {
	Who     AccountID   `json:"who"`
	Stake   VoteWeight  `json:"stake"`
	Targets []AccountID `json:"targets"`
}

// Edge is one voter's fractional backing of a single candidate.
type Edge struct {
	Target AccountID
	Ratio  ratio.Ratio
}

// Assignment is a voter's stake distribution in ratio form. The ratios
// sum to exactly ratio.Accuracy; any rounding residual sits on the
// first edge.
type Assignment struct {
	Who          AccountID
	Distribution []Edge
}

// StakedEdge is one voter's absolute backing of a single candidate.
type StakedEdge struct {
	Target AccountID
	Weight VoteWeight
}

// StakedAssignment is a voter's stake distribution in absolute form.
// The weights sum to exactly the voter's stake.
type StakedAssignment struct {
	Who          AccountID
	Distribution []StakedEdge
}

// Support is the aggregate backing of one winner.
type Support struct {
	Total VoteWeight
	// Voters holds each backing voter and the amount it contributes.
	// Target is the voter account here.
	Voters []StakedEdge
}

// SupportMap maps every winner to its support. Winners nobody backs
// are present with a zero total.
type SupportMap map[AccountID]*Support

// ElectionScore summarizes a solution for comparison: the backing of
// the least-backed winner, the total backing, and the sum of squared
// backings. The square sum needs more than 64 bits.
type ElectionScore struct {
	MinimalStake    VoteWeight
	SumStake        VoteWeight
	SumStakeSquared *big.Int
}

// ElectionResult is the solver output: winners in election order and a
// ratio assignment for every voter with an edge to at least one winner.
type ElectionResult struct {
	Winners     []AccountID
	Assignments []Assignment
}

// BalanceConfig bounds the balancing post-process. Iterations is a hard
// cap on passes; Tolerance is the minimum relative score improvement a
// pass must deliver for another pass to run.
type BalanceConfig struct {
	Iterations int
	Tolerance  ratio.Ratio
}

// Options adjusts Solve. The zero value elects as many winners as
// possible without balancing.
type Options struct {
	// Balance enables the balancing post-process; nil disables it.
	Balance *BalanceConfig

	// RequireExact makes Solve fail when fewer winners than requested
	// can be elected, instead of returning the smaller set.
	RequireExact bool
}

// StakeOf looks up a voter's stake. The second return is false when the
// voter is unknown.
type StakeOf func(who AccountID) (VoteWeight, bool)
