package elections

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSupportMap(t *testing.T) {
	staked := []StakedAssignment{
		{Who: 101, Distribution: []StakedEdge{{Target: 1, Weight: 60}, {Target: 2, Weight: 40}}},
		{Who: 102, Distribution: []StakedEdge{{Target: 2, Weight: 75}}},
	}
	supports := BuildSupportMap([]AccountID{1, 2}, staked)

	require.Len(t, supports, 2)
	require.Equal(t, VoteWeight(60), supports[1].Total)
	require.Equal(t, VoteWeight(115), supports[2].Total)
	require.Equal(t, []StakedEdge{{Target: 101, Weight: 40}, {Target: 102, Weight: 75}}, supports[2].Voters)
}

func TestBuildSupportMapDropsNonWinnerEdges(t *testing.T) {
	staked := []StakedAssignment{
		{Who: 101, Distribution: []StakedEdge{{Target: 1, Weight: 30}, {Target: 99, Weight: 70}}},
	}
	supports := BuildSupportMap([]AccountID{1}, staked)

	require.Len(t, supports, 1)
	require.Equal(t, VoteWeight(30), supports[1].Total)
	_, ok := supports[99]
	require.False(t, ok)
}

func TestBuildSupportMapZeroBackingWinner(t *testing.T) {
	supports := BuildSupportMap([]AccountID{1, 2}, []StakedAssignment{
		{Who: 101, Distribution: []StakedEdge{{Target: 1, Weight: 10}}},
	})

	s, ok := supports[2]
	require.True(t, ok)
	require.Equal(t, VoteWeight(0), s.Total)
	require.Empty(t, s.Voters)
}
