package elections

// Balance evens out winner supports by shifting stake inside each
// voter's own distribution. A pass visits every voter with at least
// two winner edges and moves half the gap between that voter's most-
// and least-backed winners, capped by what the donor edge holds. Moves
// never lower the minimal support and never raise the sum of squares,
// so the result is never worse than the input.
//
// Passes stop at cfg.Iterations, when a pass moves nothing, or when a
// pass no longer improves the score by more than cfg.Tolerance. The
// winner set is unchanged; only edge weights move.
func Balance(winners []AccountID, staked []StakedAssignment, cfg BalanceConfig) []StakedAssignment {
	// the result never aliases the input, even when nothing can move
	out := make([]StakedAssignment, len(staked))
	for i, sa := range staked {
		dist := make([]StakedEdge, len(sa.Distribution))
		copy(dist, sa.Distribution)
		out[i] = StakedAssignment{Who: sa.Who, Distribution: dist}
	}
	if cfg.Iterations <= 0 || len(winners) == 0 {
		return out
	}

	supports := BuildSupportMap(winners, out)
	score, err := EvaluateSupport(supports)
	if err != nil {
		// supports beyond uint64 cannot be scored; don't touch anything
		return out
	}

	for pass := 0; pass < cfg.Iterations; pass++ {
		moved := false
		for i := range out {
			if balanceVoter(&out[i], supports) {
				moved = true
			}
		}
		if !moved {
			break
		}
		next, err := EvaluateSupport(supports)
		if err != nil {
			return out
		}
		improved := IsScoreBetter(next, score, cfg.Tolerance)
		score = next
		if !improved {
			// keep this pass's moves; they never hurt the score
			break
		}
	}
	return out
}

// balanceVoter shifts stake between the voter's most- and least-backed
// winner edges and updates supports in place. Ties resolve to the lower
// account so runs are reproducible. Reports whether stake moved.
func balanceVoter(sa *StakedAssignment, supports SupportMap) bool {
	maxIdx, minIdx := -1, -1
	var maxSupport, minSupport VoteWeight
	for i, se := range sa.Distribution {
		s, ok := supports[se.Target]
		if !ok {
			continue
		}
		if maxIdx < 0 || s.Total > maxSupport ||
			(s.Total == maxSupport && se.Target < sa.Distribution[maxIdx].Target) {
			maxIdx, maxSupport = i, s.Total
		}
		if minIdx < 0 || s.Total < minSupport ||
			(s.Total == minSupport && se.Target < sa.Distribution[minIdx].Target) {
			minIdx, minSupport = i, s.Total
		}
	}
	if maxIdx < 0 || minIdx < 0 || maxIdx == minIdx || maxSupport <= minSupport {
		return false
	}

	// half the gap keeps the donor at or above the recipient
	shift := (maxSupport - minSupport) / 2
	if shift > sa.Distribution[maxIdx].Weight {
		shift = sa.Distribution[maxIdx].Weight
	}
	if shift == 0 {
		return false
	}

	donor := &sa.Distribution[maxIdx]
	recipient := &sa.Distribution[minIdx]
	donor.Weight -= shift
	recipient.Weight += shift
	adjustSupport(supports[donor.Target], sa.Who, donor.Weight, shift, true)
	adjustSupport(supports[recipient.Target], sa.Who, recipient.Weight, shift, false)
	return true
}

// adjustSupport applies a single voter's weight change to a winner's
// aggregate, keeping both the total and the per-voter entry in sync.
func adjustSupport(s *Support, voter AccountID, newWeight, shift VoteWeight, down bool) {
	if down {
		s.Total -= shift
	} else {
		s.Total += shift
	}
	for i := range s.Voters {
		if s.Voters[i].Target == voter {
			s.Voters[i].Weight = newWeight
			return
		}
	}
	s.Voters = append(s.Voters, StakedEdge{Target: voter, Weight: newWeight})
}
