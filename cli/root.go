// Package cli is the debt-planner command line: the HTTP server plus one-shot
// projection and comparison commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"debt-planner/config"
	"debt-planner/logging"
)

// Version is injected at build time.
var Version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

// env is what every subcommand receives once the root has loaded config.
type env struct {
	cfg *config.Config
	log logging.Logger
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	e := &env{}

	cmd := &cobra.Command{
		Use:           "debt-planner",
		Short:         "Debt repayment projections and payoff strategy comparison",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			// One-shot commands print JSON on stdout.
			if cmd.Name() != "serve" && cfg.Log.Output == "" {
				cfg.Log.Output = "stderr"
			}
			log, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			e.cfg, e.log = cfg, log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCommand(e),
		newProjectCommand(e),
		newCompareCommand(e),
	)
	return cmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// readInput decodes JSON from the named file, or stdin for "" and "-".
func readInput(cmd *cobra.Command, args []string, v any) error {
	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
