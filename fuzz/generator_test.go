package fuzz

import (
	"math/rand"
	"reflect"
	"testing"

	"go.nposlab.org/elections"
)

func TestGenerateInstanceDeterministic(t *testing.T) {
	a := GenerateInstance(rand.New(rand.NewSource(42)), 16, 30, 8)
	b := GenerateInstance(rand.New(rand.NewSource(42)), 16, 30, 8)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different instances")
	}

	c := GenerateInstance(rand.New(rand.NewSource(43)), 16, 30, 8)
	if reflect.DeepEqual(a, c) {
		t.Fatal("different seeds produced identical instances")
	}
}

func TestGenerateInstanceShape(t *testing.T) {
	in := GenerateInstance(rand.New(rand.NewSource(1)), 20, 50, 10)

	if len(in.Candidates) != 20 {
		t.Fatalf("candidates = %d, want 20", len(in.Candidates))
	}
	if len(in.Voters) != 50 {
		t.Fatalf("voters = %d, want 50", len(in.Voters))
	}
	if in.ToElect != 10 {
		t.Fatalf("toElect = %d, want 10", in.ToElect)
	}

	for _, v := range in.Voters {
		if v.Who < voterIDBase {
			t.Errorf("voter %d below id base", v.Who)
		}
		if v.Stake < baseStake {
			t.Errorf("voter %d stake %d below base", v.Who, v.Stake)
		}
		if len(v.Targets) == 0 || len(v.Targets) >= 20 {
			t.Errorf("voter %d has %d targets", v.Who, len(v.Targets))
		}
		seen := map[elections.AccountID]bool{}
		for _, target := range v.Targets {
			if seen[target] {
				t.Errorf("voter %d lists %d twice", v.Who, target)
			}
			seen[target] = true
			if target < 1 || target > 20 {
				t.Errorf("voter %d targets unknown candidate %d", v.Who, target)
			}
		}
	}
}

func TestGenerateInstanceNoCandidates(t *testing.T) {
	in := GenerateInstance(rand.New(rand.NewSource(1)), 0, 10, 0)
	if len(in.Candidates) != 0 || len(in.Voters) != 0 {
		t.Fatalf("expected empty instance, got %d candidates, %d voters",
			len(in.Candidates), len(in.Voters))
	}
}

func TestInstanceStakeOf(t *testing.T) {
	in := GenerateInstance(rand.New(rand.NewSource(7)), 5, 10, 3)
	stakeOf := in.StakeOf()

	for _, v := range in.Voters {
		got, ok := stakeOf(v.Who)
		if !ok || got != v.Stake {
			t.Errorf("stakeOf(%d) = %d, %v, want %d, true", v.Who, got, ok, v.Stake)
		}
	}
	if _, ok := stakeOf(1); ok {
		t.Error("candidate id resolved as a voter stake")
	}
}

func TestRangePick(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	fixed := Range{Min: 7}
	for i := 0; i < 10; i++ {
		if got := fixed.Pick(rng); got != 7 {
			t.Fatalf("degenerate range picked %d, want 7", got)
		}
	}

	spread := Range{Min: 5, Max: 9}
	for i := 0; i < 100; i++ {
		got := spread.Pick(rng)
		if got < 5 || got >= 9 {
			t.Fatalf("Pick() = %d, want [5,9)", got)
		}
	}
}
