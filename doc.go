// Package elections implements a stake-weighted, multi-winner election
// for selecting a bounded winner set from a candidate pool, proportional
// to the stake voters put behind each candidate.
//
// # Election Algorithm
//
// The solver runs the sequential Phragmen method: each round it scores
// every remaining candidate by the load its backers would carry if it
// were elected, elects the candidate with the lowest load (ties go to
// the lower identifier), and locks in the edges from its backers. After
// the greedy pass an optional balancing step redistributes each voter's
// stake across its elected candidates to flatten the support
// distribution.
//
// # Scoring
//
// A solution is summarized by a 3-component score: the backing of the
// least-backed winner, the total backing, and the sum of squared
// backings. Balancing is certified against the score: the minimal
// backing never drops, the total is conserved, and the sum of squares
// never grows.
//
// # Determinism
//
// The result feeds consensus-critical decisions, so identical inputs
// must produce bit-identical outputs on every machine. All fractional
// arithmetic uses the fixed-point ratio package, iteration follows input
// order, and tie-breaks use candidate identifiers.
//
// # Usage
//
// Run an election with ten balancing passes:
//
//	result, err := elections.Solve(count, candidates, voters, &elections.Options{
//	    Balance: &elections.BalanceConfig{Iterations: 10},
//	})
//
// A verifier re-scores any result independently:
//
//	staked, err := elections.NormalizeAssignments(result.Assignments, stakeOf)
//	score, err := elections.EvaluateSupport(elections.BuildSupportMap(result.Winners, staked))
package elections
