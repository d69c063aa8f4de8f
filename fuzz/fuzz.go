package fuzz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"

	"go.nposlab.org/elections"
	"go.nposlab.org/elections/ratio"
)

// Config bounds the generated instances. Each round draws every
// dimension fresh from its range, seeded by Seed plus the round
// number so any failing round replays exactly.
type Config struct {
	Seed       int64
	Voters     Range
	Candidates Range
	Elect      Range
	Iterations Range
}

type metrics struct {
	rounds     prometheus.Counter
	skipped    prometheus.Counter
	improved   prometheus.Counter
	violations prometheus.Counter
	errcount   prometheus.Counter
}

// Runner drives fuzz rounds: generate an election, solve it twice
// (unbalanced and balanced), and fail loudly if balancing made the
// outcome worse.
type Runner struct {
	cfg Config
	log *slog.Logger
	m   *metrics
}

func New(log *slog.Logger, cfg Config, prom prometheus.Registerer) *Runner {
	met := &metrics{
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fuzz_rounds",
			Help: "fuzz rounds executed",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fuzz_rounds_skipped",
			Help: "rounds skipped for degenerate elections",
		}),
		improved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fuzz_rounds_improved",
			Help: "rounds where balancing improved the score",
		}),
		violations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fuzz_violations",
			Help: "rounds where balancing degraded the score",
		}),
		errcount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fuzz_errors",
			Help: "solver or scoring errors",
		}),
	}
	prom.MustRegister(met.rounds)
	prom.MustRegister(met.skipped)
	prom.MustRegister(met.improved)
	prom.MustRegister(met.violations)
	prom.MustRegister(met.errcount)

	return &Runner{cfg: cfg, log: log, m: met}
}

// Run executes one fuzz round. The round number folds into the seed;
// rerunning a round id reproduces it bit for bit.
func (r *Runner) Run(ctx context.Context, round int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.m.rounds.Add(1)

	rng := rand.New(rand.NewSource(r.cfg.Seed + round))
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rng)
	log := r.log.With("round", round, "id", id.String())

	candidateCount := r.cfg.Candidates.Pick(rng)
	voterCount := r.cfg.Voters.Pick(rng)
	toElect := r.cfg.Elect.Pick(rng)
	if toElect > candidateCount {
		toElect = candidateCount
	}
	iterations := r.cfg.Iterations.Pick(rng)

	in := GenerateInstance(rng, candidateCount, voterCount, toElect)
	log.Debug("generated instance",
		"candidates", candidateCount,
		"voters", voterCount,
		"elect", toElect,
		"iterations", iterations,
	)

	unbalanced, err := solveAndScore(in, nil)
	if err != nil {
		r.m.errcount.Add(1)
		return fmt.Errorf("unbalanced solve: %w", err)
	}
	if unbalanced.score.MinimalStake == 0 {
		// a zero-backed winner makes the score comparison vacuous
		r.m.skipped.Add(1)
		log.Debug("skipping round with zero-backed winner")
		return nil
	}

	balanced, err := solveAndScore(in, &elections.BalanceConfig{Iterations: iterations})
	if err != nil {
		r.m.errcount.Add(1)
		return fmt.Errorf("balanced solve: %w", err)
	}

	if err := CheckScores(balanced.score, unbalanced.score); err != nil {
		r.m.violations.Add(1)
		log.Error("balancing degraded the election",
			"err", err,
			"seed", r.cfg.Seed+round,
			"unbalanced", scoreAttrs(unbalanced.score),
			"balanced", scoreAttrs(balanced.score),
		)
		return err
	}

	if elections.IsScoreBetter(balanced.score, unbalanced.score, ratio.Zero) {
		r.m.improved.Add(1)
	}
	log.Info("round ok",
		"winners", len(balanced.winners),
		"minimal", uint64(balanced.score.MinimalStake),
	)
	return nil
}

// CheckScores verifies that balanced is at least as good as unbalanced
// on every axis: the minimal stake must not drop, the total must not
// change, and the square sum must not grow.
func CheckScores(balanced, unbalanced elections.ElectionScore) error {
	if balanced.MinimalStake < unbalanced.MinimalStake {
		return fmt.Errorf("minimal stake dropped: %d -> %d",
			unbalanced.MinimalStake, balanced.MinimalStake)
	}
	if balanced.SumStake != unbalanced.SumStake {
		return fmt.Errorf("total stake changed: %d -> %d",
			unbalanced.SumStake, balanced.SumStake)
	}
	if balanced.SumStakeSquared.Cmp(unbalanced.SumStakeSquared) > 0 {
		return fmt.Errorf("square sum grew: %s -> %s",
			unbalanced.SumStakeSquared, balanced.SumStakeSquared)
	}
	return nil
}

type solution struct {
	winners []elections.AccountID
	score   elections.ElectionScore
}

// solveAndScore runs a full pipeline pass: solve, normalize to stakes,
// aggregate supports, score. A nil balance solves without balancing.
func solveAndScore(in *Instance, balance *elections.BalanceConfig) (*solution, error) {
	opts := &elections.Options{Balance: balance}
	result, err := elections.Solve(in.ToElect, in.Candidates, in.Voters, opts)
	if err != nil {
		return nil, err
	}
	staked, err := elections.NormalizeAssignments(result.Assignments, in.StakeOf())
	if err != nil {
		return nil, err
	}
	supports := elections.BuildSupportMap(result.Winners, staked)
	score, err := elections.EvaluateSupport(supports)
	if err != nil {
		return nil, err
	}
	return &solution{winners: result.Winners, score: score}, nil
}

func scoreAttrs(s elections.ElectionScore) slog.Value {
	return slog.GroupValue(
		slog.Uint64("minimal", uint64(s.MinimalStake)),
		slog.Uint64("sum", uint64(s.SumStake)),
		slog.String("squared", s.SumStakeSquared.String()),
	)
}
