package elections

import (
	"fmt"
	"math/big"
	"sort"

	"go.nposlab.org/elections/ratio"
)

// EvaluateSupport reduces a support map to its score. An empty map
// scores zero on all three axes. Total stake is summed with overflow
// checking so a corrupt support map cannot produce a quietly wrapped
// score.
func EvaluateSupport(supports SupportMap) (ElectionScore, error) {
	score := ElectionScore{SumStakeSquared: new(big.Int)}
	if len(supports) == 0 {
		return score, nil
	}

	// map order is random; walk winners sorted for a stable sum
	winners := make([]AccountID, 0, len(supports))
	for who := range supports {
		winners = append(winners, who)
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i] < winners[j] })

	first := true
	square := new(big.Int)
	for _, who := range winners {
		total := supports[who].Total
		if first || total < score.MinimalStake {
			score.MinimalStake = total
		}
		first = false
		var err error
		score.SumStake, err = addWeight(score.SumStake, total)
		if err != nil {
			return ElectionScore{}, fmt.Errorf("sum of supports: %w", err)
		}
		square.SetUint64(uint64(total))
		square.Mul(square, square)
		score.SumStakeSquared.Add(score.SumStakeSquared, square)
	}
	return score, nil
}

// IsScoreBetter reports whether a beats b: a strictly higher minimal
// stake wins; on a tie a strictly lower square sum wins; on a further
// tie a strictly higher total wins. Each comparison ignores differences
// within epsilon of b, the reference score.
func IsScoreBetter(a, b ElectionScore, epsilon ratio.Ratio) bool {
	if gt := cmpWithin(uint64(a.MinimalStake), uint64(b.MinimalStake), epsilon); gt != 0 {
		return gt > 0
	}
	if gt := cmpBigWithin(a.SumStakeSquared, b.SumStakeSquared, epsilon); gt != 0 {
		return gt < 0
	}
	return cmpWithin(uint64(a.SumStake), uint64(b.SumStake), epsilon) > 0
}

// cmpWithin compares a against b with a relative tolerance of
// epsilon*b. It returns +1 when a exceeds b by more than the
// tolerance, -1 when it falls short by more, and 0 otherwise.
func cmpWithin(a, b uint64, epsilon ratio.Ratio) int {
	margin := epsilon.Mul(b)
	switch {
	case a > b && a-b > margin:
		return 1
	case b > a && b-a > margin:
		return -1
	default:
		return 0
	}
}

// cmpBigWithin is cmpWithin over big integers.
func cmpBigWithin(a, b *big.Int, epsilon ratio.Ratio) int {
	margin := mulRatioBig(b, epsilon)
	diff := new(big.Int).Sub(a, b)
	switch {
	case diff.Sign() > 0 && diff.Cmp(margin) > 0:
		return 1
	case diff.Sign() < 0 && diff.Neg(diff).Cmp(margin) > 0:
		return -1
	default:
		return 0
	}
}

// mulRatioBig computes floor(v*r/Accuracy) for a non-negative big v.
func mulRatioBig(v *big.Int, r ratio.Ratio) *big.Int {
	out := new(big.Int).Mul(v, new(big.Int).SetUint64(uint64(r)))
	return out.Quo(out, new(big.Int).SetUint64(ratio.Accuracy))
}
