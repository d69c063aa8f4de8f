package elections

import (
	"fmt"
	"math/bits"

	"go.nposlab.org/elections/ratio"
)

// The solver keeps candidates and voters in indexed arenas so each
// round walks flat arrays instead of a pointer graph. Loads are
// fixed-point values scaled by ratio.Accuracy.

type solveEdge struct {
	candidate int // arena index
	load      uint64
}

type solveVoter struct {
	who   AccountID
	stake VoteWeight
	load  uint64
	edges []solveEdge
}

type solveCandidate struct {
	who      AccountID
	approval VoteWeight
	backers  []int // voter arena indices
	elected  bool
}

// Solve elects up to toElect winners with the sequential Phragmen
// method and returns the winners along with a ratio assignment for
// every voter that backs at least one of them. A nil opts elects as
// many winners as possible without balancing.
//
// Identical inputs produce bit-identical results: candidate and voter
// order is honored, equal-load rounds elect the lower AccountID, and
// all ratio arithmetic is fixed-point.
func Solve(toElect int, candidates []AccountID, voters []Voter, opts *Options) (*ElectionResult, error) {
	if opts == nil {
		opts = &Options{}
	}
	if toElect > 0 && len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates for %d seats", ErrInsufficientCandidates, toElect)
	}

	index := make(map[AccountID]int, len(candidates))
	arena := make([]solveCandidate, 0, len(candidates))
	for _, who := range candidates {
		if _, ok := index[who]; ok {
			// repeated candidate entries collapse to one
			continue
		}
		index[who] = len(arena)
		arena = append(arena, solveCandidate{who: who})
	}

	varena := make([]solveVoter, 0, len(voters))
	for _, v := range voters {
		if v.Stake == 0 {
			return nil, fmt.Errorf("%w: voter %d", ErrZeroStake, v.Who)
		}
		if len(v.Targets) == 0 {
			return nil, fmt.Errorf("%w: voter %d", ErrEmptyVoter, v.Who)
		}
		sv := solveVoter{who: v.Who, stake: v.Stake}
		seen := make(map[AccountID]struct{}, len(v.Targets))
		for _, target := range v.Targets {
			if _, dup := seen[target]; dup {
				return nil, fmt.Errorf("%w: voter %d lists %d twice", ErrDuplicateTarget, v.Who, target)
			}
			seen[target] = struct{}{}
			ci, ok := index[target]
			if !ok {
				// edges to unknown candidates carry no stake
				continue
			}
			approval, err := addWeight(arena[ci].approval, v.Stake)
			if err != nil {
				return nil, fmt.Errorf("approval of candidate %d: %w", target, err)
			}
			arena[ci].approval = approval
			arena[ci].backers = append(arena[ci].backers, len(varena))
			sv.edges = append(sv.edges, solveEdge{candidate: ci})
		}
		varena = append(varena, sv)
	}

	winners := make([]AccountID, 0, toElect)
	for len(winners) < toElect {
		best := -1
		var bestScore uint64
		for ci := range arena {
			c := &arena[ci]
			if c.elected || c.approval == 0 {
				continue
			}
			score, err := roundScore(c, varena)
			if err != nil {
				return nil, err
			}
			if best < 0 || score < bestScore || (score == bestScore && c.who < arena[best].who) {
				best = ci
				bestScore = score
			}
		}
		if best < 0 {
			// fewer electable candidates than seats; not an error
			break
		}

		winner := &arena[best]
		winner.elected = true
		for _, vi := range winner.backers {
			v := &varena[vi]
			for ei := range v.edges {
				if v.edges[ei].candidate != best {
					continue
				}
				if bestScore > v.load {
					v.edges[ei].load = bestScore - v.load
					v.load = bestScore
				}
				break
			}
		}
		winners = append(winners, winner.who)
	}

	if opts.RequireExact && len(winners) < toElect {
		return nil, fmt.Errorf("%w: requested %d, elected %d",
			ErrInsufficientCandidates, toElect, len(winners))
	}

	assignments := assignmentsFromLoads(arena, varena)

	if opts.Balance != nil && opts.Balance.Iterations > 0 && len(winners) > 0 {
		stakes := make(map[AccountID]VoteWeight, len(varena))
		for i := range varena {
			stakes[varena[i].who] = varena[i].stake
		}
		staked, err := NormalizeAssignments(assignments, func(who AccountID) (VoteWeight, bool) {
			w, ok := stakes[who]
			return w, ok
		})
		if err != nil {
			return nil, err
		}
		balanced := Balance(winners, staked, *opts.Balance)
		// converting weights back to ratios costs rounding precision,
		// so keep the original assignments when nothing moved
		if !stakedEqual(staked, balanced) {
			assignments = assignments[:0]
			for _, sa := range balanced {
				assignments = append(assignments, toRatioAssignment(sa, stakes[sa.Who]))
			}
		}
	}

	return &ElectionResult{Winners: winners, Assignments: assignments}, nil
}

// roundScore computes the fixed-point load candidate c would carry if
// elected now: (1 + sum over backers of load*stake) / approval, scaled
// by ratio.Accuracy and truncated.
func roundScore(c *solveCandidate, voters []solveVoter) (uint64, error) {
	var sumHi, sumLo uint64
	for _, vi := range c.backers {
		v := &voters[vi]
		hi, lo := bits.Mul64(v.load, uint64(v.stake))
		var carry uint64
		sumLo, carry = bits.Add64(sumLo, lo, 0)
		sumHi, carry = bits.Add64(sumHi, hi, carry)
		if carry != 0 {
			return 0, fmt.Errorf("load of candidate %d: %w", c.who, ErrOverflow)
		}
	}
	if sumHi >= ratio.Accuracy {
		return 0, fmt.Errorf("load of candidate %d: %w", c.who, ErrOverflow)
	}
	scaled, _ := bits.Div64(sumHi, sumLo, ratio.Accuracy)
	total, carry := bits.Add64(scaled, ratio.Accuracy, 0)
	if carry != 0 {
		return 0, fmt.Errorf("load of candidate %d: %w", c.who, ErrOverflow)
	}
	hi, lo := bits.Mul64(total, ratio.Accuracy)
	if hi >= uint64(c.approval) {
		return 0, fmt.Errorf("load of candidate %d: %w", c.who, ErrOverflow)
	}
	score, _ := bits.Div64(hi, lo, uint64(c.approval))
	return score, nil
}

// assignmentsFromLoads converts accumulated edge loads into per-voter
// ratio assignments over elected candidates. Voters with no elected
// target get no assignment.
func assignmentsFromLoads(arena []solveCandidate, varena []solveVoter) []Assignment {
	assignments := make([]Assignment, 0, len(varena))
	for vi := range varena {
		v := &varena[vi]
		dist := make([]Edge, 0, len(v.edges))
		for _, e := range v.edges {
			if !arena[e.candidate].elected {
				continue
			}
			dist = append(dist, Edge{
				Target: arena[e.candidate].who,
				Ratio:  ratio.FromRational(e.load, v.load),
			})
		}
		if len(dist) == 0 {
			continue
		}
		var total uint64
		for _, e := range dist {
			total += uint64(e.Ratio)
		}
		if total < ratio.Accuracy {
			dist[0].Ratio += ratio.Ratio(ratio.Accuracy - total)
		}
		assignments = append(assignments, Assignment{Who: v.who, Distribution: dist})
	}
	return assignments
}

func stakedEqual(a, b []StakedAssignment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Who != b[i].Who || len(a[i].Distribution) != len(b[i].Distribution) {
			return false
		}
		for j := range a[i].Distribution {
			if a[i].Distribution[j] != b[i].Distribution[j] {
				return false
			}
		}
	}
	return true
}

// toRatioAssignment converts a staked assignment back to ratio form,
// with the rounding residual on the first edge so the ratios sum to
// exactly ratio.Accuracy.
func toRatioAssignment(sa StakedAssignment, stake VoteWeight) Assignment {
	dist := make([]Edge, len(sa.Distribution))
	var total uint64
	for i, se := range sa.Distribution {
		dist[i] = Edge{Target: se.Target, Ratio: ratio.FromRational(uint64(se.Weight), uint64(stake))}
		total += uint64(dist[i].Ratio)
	}
	if total < ratio.Accuracy && len(dist) > 0 {
		dist[0].Ratio += ratio.Ratio(ratio.Accuracy - total)
	}
	return Assignment{Who: sa.Who, Distribution: dist}
}
