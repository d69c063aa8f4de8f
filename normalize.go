package elections

import (
	"fmt"
)

// NormalizeAssignments converts ratio assignments into absolute stake
// amounts. Each voter's full stake is distributed across the voter's
// edges: every edge gets the floor of ratio*stake, and the rounding
// residual is spread one unit at a time across the edges in order.
// The per-voter edge weights therefore sum to exactly the voter's
// stake.
//
// stakeOf must report the stake of every assigned voter. The input is
// validated with the same sentinels Solve uses, so assignments from
// any source can be normalized safely.
func NormalizeAssignments(assignments []Assignment, stakeOf StakeOf) ([]StakedAssignment, error) {
	if stakeOf == nil {
		return nil, fmt.Errorf("%w: nil stake function", ErrUnknownStake)
	}
	out := make([]StakedAssignment, 0, len(assignments))
	for _, a := range assignments {
		stake, ok := stakeOf(a.Who)
		if !ok {
			return nil, fmt.Errorf("%w: voter %d", ErrUnknownStake, a.Who)
		}
		if stake == 0 {
			return nil, fmt.Errorf("%w: voter %d", ErrZeroStake, a.Who)
		}
		if len(a.Distribution) == 0 {
			return nil, fmt.Errorf("%w: voter %d", ErrEmptyVoter, a.Who)
		}

		seen := make(map[AccountID]struct{}, len(a.Distribution))
		dist := make([]StakedEdge, len(a.Distribution))
		var sum VoteWeight
		for i, e := range a.Distribution {
			if _, dup := seen[e.Target]; dup {
				return nil, fmt.Errorf("%w: voter %d lists %d twice", ErrDuplicateTarget, a.Who, e.Target)
			}
			seen[e.Target] = struct{}{}
			w := VoteWeight(e.Ratio.Mul(uint64(stake)))
			dist[i] = StakedEdge{Target: e.Target, Weight: w}
			var err error
			sum, err = addWeight(sum, w)
			if err != nil {
				return nil, fmt.Errorf("stake of voter %d: %w", a.Who, err)
			}
		}

		switch {
		case sum < stake:
			// floor rounding leaves up to len(dist)-1 units short;
			// a sparse distribution can leave more. Spread the
			// residual evenly, first edges taking one extra unit.
			residual := uint64(stake - sum)
			n := uint64(len(dist))
			each := residual / n
			extra := residual % n
			for i := range dist {
				add := each
				if uint64(i) < extra {
					add++
				}
				w, err := addWeight(dist[i].Weight, VoteWeight(add))
				if err != nil {
					return nil, fmt.Errorf("stake of voter %d: %w", a.Who, err)
				}
				dist[i].Weight = w
			}
		case sum > stake:
			// ratios summing above one; trim from the tail
			excess := uint64(sum - stake)
			for i := len(dist) - 1; i >= 0 && excess > 0; i-- {
				cut := uint64(dist[i].Weight)
				if cut > excess {
					cut = excess
				}
				dist[i].Weight -= VoteWeight(cut)
				excess -= cut
			}
		}

		out = append(out, StakedAssignment{Who: a.Who, Distribution: dist})
	}
	return out, nil
}
