package elections

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"go.nposlab.org/elections/ratio"
)

func singleStake(who AccountID, stake VoteWeight) StakeOf {
	return func(id AccountID) (VoteWeight, bool) {
		if id == who {
			return stake, true
		}
		return 0, false
	}
}

func TestNormalizeConservesStake(t *testing.T) {
	tests := []struct {
		name   string
		stake  VoteWeight
		ratios []ratio.Ratio
	}{
		{"even_split", 100, []ratio.Ratio{ratio.Accuracy / 2, ratio.Accuracy / 2}},
		{"thirds", 100, []ratio.Ratio{333333334, 333333333, 333333333}},
		{"single_edge", 997, []ratio.Ratio{ratio.One}},
		{"tiny_stake_many_edges", 3, []ratio.Ratio{250000000, 250000000, 250000000, 250000000}},
		{"lopsided", 1_000_003, []ratio.Ratio{999999999, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist := make([]Edge, len(tt.ratios))
			for i, r := range tt.ratios {
				dist[i] = Edge{Target: AccountID(i + 1), Ratio: r}
			}
			staked, err := NormalizeAssignments(
				[]Assignment{{Who: 101, Distribution: dist}},
				singleStake(101, tt.stake),
			)
			require.NoError(t, err)
			require.Len(t, staked, 1)

			var sum VoteWeight
			for _, se := range staked[0].Distribution {
				sum += se.Weight
			}
			require.Equal(t, tt.stake, sum)
		})
	}
}

func TestNormalizeResidualGoesToFirstEdges(t *testing.T) {
	// floor(1/3 of 100) = 33 on each edge, 1 unit left over
	dist := []Edge{
		{Target: 1, Ratio: 333333333},
		{Target: 2, Ratio: 333333333},
		{Target: 3, Ratio: 333333334},
	}
	staked, err := NormalizeAssignments(
		[]Assignment{{Who: 101, Distribution: dist}},
		singleStake(101, 100),
	)
	require.NoError(t, err)

	weights := []VoteWeight{
		staked[0].Distribution[0].Weight,
		staked[0].Distribution[1].Weight,
		staked[0].Distribution[2].Weight,
	}
	require.Equal(t, []VoteWeight{34, 33, 33}, weights)
}

func TestNormalizeTrimsExcess(t *testing.T) {
	// ratios that sum above one must not mint stake
	dist := []Edge{
		{Target: 1, Ratio: ratio.One},
		{Target: 2, Ratio: ratio.Accuracy / 2},
	}
	staked, err := NormalizeAssignments(
		[]Assignment{{Who: 101, Distribution: dist}},
		singleStake(101, 100),
	)
	require.NoError(t, err)

	var sum VoteWeight
	for _, se := range staked[0].Distribution {
		sum += se.Weight
	}
	require.Equal(t, VoteWeight(100), sum)
	// the cut comes off the tail
	require.Equal(t, VoteWeight(100), staked[0].Distribution[0].Weight)
	require.Equal(t, VoteWeight(0), staked[0].Distribution[1].Weight)
}

func TestNormalizeErrors(t *testing.T) {
	valid := Assignment{Who: 101, Distribution: []Edge{{Target: 1, Ratio: ratio.One}}}

	tests := []struct {
		name       string
		assignment Assignment
		stakeOf    StakeOf
		want       error
	}{
		{"unknown_voter", valid, singleStake(999, 10), ErrUnknownStake},
		{"nil_stake_func", valid, nil, ErrUnknownStake},
		{"zero_stake", valid, singleStake(101, 0), ErrZeroStake},
		{
			"empty_distribution",
			Assignment{Who: 101},
			singleStake(101, 10),
			ErrEmptyVoter,
		},
		{
			"duplicate_target",
			Assignment{Who: 101, Distribution: []Edge{
				{Target: 1, Ratio: ratio.Accuracy / 2},
				{Target: 1, Ratio: ratio.Accuracy / 2},
			}},
			singleStake(101, 10),
			ErrDuplicateTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeAssignments([]Assignment{tt.assignment}, tt.stakeOf)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	staked, err := NormalizeAssignments(nil, singleStake(101, 10))
	require.NoError(t, err)
	require.Empty(t, staked)
}
