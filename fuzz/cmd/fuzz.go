package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"go.nposlab.org/elections"
	"go.nposlab.org/elections/fuzz"
	"go.nposlab.org/elections/logger"
	"go.nposlab.org/elections/metricsserver"
)

func (cli *CLI) fuzzRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	runner := fuzz.New(log, cli.Config.FuzzerConfig(), prometheus.DefaultRegisterer)
	return runner.Run(ctx, 0)
}

func (cli *CLI) fuzzLoop(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	log := logger.FromContext(ctx)
	cfg := cli.Config

	metricssrv := metricsserver.New()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.MetricsPort > 0 {
		g.Go(func() error {
			err := metricssrv.ListenAndServe(ctx, cfg.MetricsPort)
			if err != nil {
				log.Error("metricssrv", "err", err)
			}
			return err
		})
	}

	runner := fuzz.New(log, cfg.FuzzerConfig(), metricssrv.Registry())

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	log.Info("starting", "workers", workers, "rounds", cfg.Rounds, "seed", cfg.Seed)

	var next atomic.Int64
	wg, wctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		wg.Go(func() error {
			for {
				round := next.Add(1) - 1
				if cfg.Rounds > 0 && round >= cfg.Rounds {
					return nil
				}
				if err := runner.Run(wctx, round); err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
			}
		})
	}
	g.Go(func() error {
		// release the metrics listener once the workers are done
		defer cancel()
		return wg.Wait()
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (cli *CLI) solveFile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var in fuzz.Instance
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	toElect := in.ToElect
	if cli.Config.Solve.Elect > 0 {
		toElect = cli.Config.Solve.Elect
	}

	opts := &elections.Options{}
	if cli.Config.Solve.Iterations > 0 {
		opts.Balance = &elections.BalanceConfig{Iterations: cli.Config.Solve.Iterations}
	}

	log.Info("solving",
		"candidates", len(in.Candidates),
		"voters", len(in.Voters),
		"elect", toElect,
	)

	result, err := elections.Solve(toElect, in.Candidates, in.Voters, opts)
	if err != nil {
		return err
	}
	staked, err := elections.NormalizeAssignments(result.Assignments, in.StakeOf())
	if err != nil {
		return err
	}
	supports := elections.BuildSupportMap(result.Winners, staked)
	score, err := elections.EvaluateSupport(supports)
	if err != nil {
		return err
	}

	winners := append([]elections.AccountID{}, result.Winners...)
	sort.Slice(winners, func(i, j int) bool {
		return supports[winners[i]].Total > supports[winners[j]].Total
	})
	for _, who := range winners {
		fmt.Printf("%12d  support %d (%d voters)\n",
			who, supports[who].Total, len(supports[who].Voters))
	}
	fmt.Printf("score: minimal %d, sum %d, squared %s\n",
		score.MinimalStake, score.SumStake, score.SumStakeSquared)

	return nil
}
