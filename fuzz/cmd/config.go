package cmd

import (
	"flag"
	"fmt"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigdotenv"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/spf13/cobra"

	"go.nposlab.org/elections/fuzz"
	"go.nposlab.org/elections/logger"
)

type CLI struct {
	Config *FuzzConfig
}

type FuzzConfig struct {
	Seed    int64 `default:"1" flag:"seed" usage:"base random seed; round n uses seed+n"`
	Rounds  int64 `default:"0" flag:"rounds" usage:"rounds to run, 0 runs until interrupted"`
	Workers int   `default:"1" flag:"workers" usage:"parallel fuzz workers"`

	MetricsPort int `default:"0" flag:"metrics-port" usage:"serve prometheus metrics on this port, 0 disables"`

	Voters     fuzz.Range
	Candidates fuzz.Range
	Elect      fuzz.Range
	Iterations fuzz.Range

	Solve struct {
		Elect      int `default:"0" usage:"seats to fill, 0 uses the instance's own count"`
		Iterations int `default:"10" usage:"balancing iterations"`
	}

	loaded bool
	loader *aconfig.Loader
	args   []string
}

func NewCLI() *CLI {
	cli := &CLI{}
	cli.Config = &FuzzConfig{}
	cli.Config.setLoader([]string{})
	return cli
}

func (cfg *FuzzConfig) Flags() *flag.FlagSet {
	return cfg.loader.Flags()
}

func (cfg *FuzzConfig) Load(args []string) error {
	if cfg.loaded {
		return nil
	}

	cfg.setLoader(args)

	err := cfg.loader.Load()
	if err != nil {
		return err
	}
	cfg.setRangeDefaults()
	cfg.loaded = true
	return nil
}

// setRangeDefaults fills in the generator ranges that were not set by
// file, environment or flags.
func (cfg *FuzzConfig) setRangeDefaults() {
	if cfg.Voters == (fuzz.Range{}) {
		cfg.Voters = fuzz.Range{Min: 50, Max: 1000}
	}
	if cfg.Candidates == (fuzz.Range{}) {
		cfg.Candidates = fuzz.Range{Min: 50, Max: 2000}
	}
	if cfg.Elect == (fuzz.Range{}) {
		cfg.Elect = fuzz.Range{Min: 25, Max: 100}
	}
	if cfg.Iterations == (fuzz.Range{}) {
		cfg.Iterations = fuzz.Range{Min: 1, Max: 50}
	}
}

// FuzzerConfig is the subset the fuzz runner consumes.
func (cfg *FuzzConfig) FuzzerConfig() fuzz.Config {
	return fuzz.Config{
		Seed:       cfg.Seed,
		Voters:     cfg.Voters,
		Candidates: cfg.Candidates,
		Elect:      cfg.Elect,
		Iterations: cfg.Iterations,
	}
}

func (cfg *FuzzConfig) setLoader(args []string) {

	acfg := aconfig.Config{
		FileFlag: "config",
		Files:    []string{"npos-fuzz.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
			".env":  aconfigdotenv.New(),
		},
	}

	if args != nil {
		cfg.args = args
	}

	// an empty non-nil slice still overrides aconfig's os.Args
	// fallback, which would choke on flags meant for other parsers
	if cfg.args != nil {
		acfg.Args = cfg.args
	}

	cfg.loader = aconfig.LoaderFor(cfg, acfg)

}

func (cli *CLI) Run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := cli.Config.Load(args)
		if err != nil {
			fmt.Printf("Could not load config: %s", err)
			return err
		}

		log := logger.Setup()
		cmd.SetContext(logger.NewContext(cmd.Context(), log))

		err = fn(cmd, args)
		if err != nil {
			log.Error("command failed", "err", err)
			return err
		}
		return nil
	}
}
