// Package fuzz generates random elections and checks that balancing
// never degrades a solution.
package fuzz

import (
	"math/rand"

	"go.nposlab.org/elections"
)

// Voter account ids sit far above candidate ids so a generated
// instance never aliases the two ranges.
const voterIDBase = 100_000

// baseStake is the floor for generated voter stakes.
const baseStake = 1_000_000_000

// Instance is one generated election: the candidate list, the voters
// backing them, and the seat count to fill.
type Instance struct {
	Candidates []elections.AccountID `json:"candidates"`
	Voters     []elections.Voter     `json:"voters"`
	ToElect    int                   `json:"to_elect"`
}

// StakeOf looks up voter stakes within the instance.
func (in *Instance) StakeOf() elections.StakeOf {
	stakes := make(map[elections.AccountID]elections.VoteWeight, len(in.Voters))
	for _, v := range in.Voters {
		stakes[v.Who] = v.Stake
	}
	return func(who elections.AccountID) (elections.VoteWeight, bool) {
		w, ok := stakes[who]
		return w, ok
	}
}

// GenerateInstance builds a random election with candidateCount
// candidates and voterCount voters, electing toElect seats. Every
// voter gets a stake in [baseStake, baseStake+1e11) and a target set
// drawn without replacement. The same rng state always produces the
// same instance.
func GenerateInstance(rng *rand.Rand, candidateCount, voterCount, toElect int) *Instance {
	in := &Instance{
		Candidates: make([]elections.AccountID, candidateCount),
		Voters:     make([]elections.Voter, voterCount),
		ToElect:    toElect,
	}
	for i := range in.Candidates {
		in.Candidates[i] = elections.AccountID(i + 1)
	}
	if candidateCount == 0 {
		// no candidates means no valid voters either
		in.Voters = nil
		return in
	}

	for i := range in.Voters {
		edges := 1
		if candidateCount > 1 {
			edges = 1 + rng.Intn(candidateCount-1)
		}
		targets := make([]elections.AccountID, edges)
		for j, ci := range rng.Perm(candidateCount)[:edges] {
			targets[j] = in.Candidates[ci]
		}
		in.Voters[i] = elections.Voter{
			Who:     elections.AccountID(voterIDBase + i),
			Stake:   elections.VoteWeight(baseStake + rng.Int63n(100_000_000_000)),
			Targets: targets,
		}
	}
	return in
}

// Range is an inclusive-exclusive interval for a generated dimension.
type Range struct {
	Min int `default:"0" usage:"lower bound (inclusive)"`
	Max int `default:"0" usage:"upper bound (exclusive); 0 pins to min"`
}

// Pick draws a value from the range. A degenerate range returns Min.
func (r Range) Pick(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min)
}
