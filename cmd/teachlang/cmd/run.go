package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/teachlang/teachlang/internal/config"
	"github.com/teachlang/teachlang/internal/diag"
	"github.com/teachlang/teachlang/internal/interp"
	"github.com/teachlang/teachlang/internal/trace"
)

var (
	configPath string
	traceCalls bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a teachlang source file",
	Long: `Execute a teachlang program from a file.

Example:
  teachlang run examples/fizzbuzz.tl`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&configPath, "config", "teachlang.yaml", "project config file (import paths, recursion limit)")
	runCmd.Flags().BoolVar(&traceCalls, "trace", false, "print a call/return trace to stderr")
}

func runScript(_ *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError("loading %s: %v", configPath, err)
		return nil
	}

	ip := interp.New(os.Stdout, os.Stdin)
	if cfg.MaxCallDepth > 0 {
		ip.SetMaxCallDepth(cfg.MaxCallDepth)
	}
	ip.ImportPaths = cfg.ImportPaths
	if traceCalls {
		ip.Trace = trace.New(os.Stderr)
	}

	if err := ip.RunFile(path); err != nil {
		if de, ok := err.(*diag.Error); ok {
			if verbose {
				if source, readErr := os.ReadFile(path); readErr == nil {
					exitWithError("%s", diag.FormatWithSource(de, string(source)))
					return nil
				}
			}
			exitWithError("%s", de.Format(true))
			return nil
		}
		exitWithError("%v", err)
	}
	return nil
}
