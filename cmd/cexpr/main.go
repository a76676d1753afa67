package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/raymyers/cexpr/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var version = "0.1.0"

// Dump flags select the output format
var (
	dParse bool
	dC     bool
	dDot   bool
)

// Input and parser options
var (
	exprFlags  []string
	typedefs   []string
	configPath string
	maxDepth   int
	jobs       int
	watch      bool
	verbose    int
)

// ErrParse indicates at least one input failed to parse. The diagnostics
// have already been written by the time it is returned.
var ErrParse = errors.New("parse failed")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Accept CompCert-style single-dash dump flags
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// dumpFlagNames lists the flags that also accept a single dash
var dumpFlagNames = []string{"dparse", "dc", "ddot"}

// normalizeFlags converts single-dash flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		for _, flagName := range dumpFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
		if result[i] == "" {
			result[i] = arg
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cexpr [file...]",
		Short: "cexpr parses C expressions",
		Long: `cexpr parses C expressions into an abstract syntax tree and
dumps the result as a tree, as re-parseable C, or as a Graphviz graph.
Files hold expressions separated by semicolons.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(exprFlags) == 0 {
				cmd.Help()
				return nil
			}

			cfg, err := loadSettings(cmd)
			if err != nil {
				fmt.Fprintf(errOut, "cexpr: %v\n", err)
				return err
			}

			inputs := make([]input, 0, len(exprFlags)+len(args))
			for i, src := range exprFlags {
				inputs = append(inputs, input{name: fmt.Sprintf("-e#%d", i+1), src: src, inline: true})
			}
			for _, filename := range args {
				inputs = append(inputs, input{name: filename})
			}

			if err := processInputs(cmd.Context(), inputs, cfg, out, errOut); err != nil && !watch {
				return err
			}
			if watch {
				return watchInputs(cmd.Context(), args, cfg, out, errOut)
			}
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	// Dump flags
	rootCmd.Flags().BoolVarP(&dParse, "dparse", "", false, "Dump the syntax tree")
	rootCmd.Flags().BoolVarP(&dC, "dc", "", false, "Dump as C source")
	rootCmd.Flags().BoolVarP(&dDot, "ddot", "", false, "Dump as a Graphviz graph")

	rootCmd.Flags().StringArrayVarP(&exprFlags, "expr", "e", nil, "Parse EXPR given on the command line")
	rootCmd.Flags().StringArrayVarP(&typedefs, "typedef", "T", nil, "Treat NAME as a type name in casts")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Read settings from a YAML file")
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum expression nesting (default from config, else 256)")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of files parsed in parallel (0 = one per file)")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-parse files when they change")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Log more (repeat for debug output)")
	// --max_depth spelled as in the config file also works
	rootCmd.Flags().SetNormalizeFunc(underscoreToDash)

	rootCmd.AddCommand(newGrammarCmd(out))

	return rootCmd
}

func underscoreToDash(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// loadSettings layers the config file and then command line flags over the defaults
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	log := commonlog.GetLogger("cexpr.cli")

	cfg := config.Default()
	if configPath != "" {
		fileCfg, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		if err := fileCfg.CheckVersion(version); err != nil {
			return cfg, fmt.Errorf("%s: %w", configPath, err)
		}
		cfg = cfg.Merge(fileCfg)
		log.Infof("loaded config %s", configPath)
	}

	flagCfg := config.Config{Typedefs: typedefs}
	if cmd.Flags().Changed("max-depth") {
		if maxDepth <= 0 {
			return cfg, fmt.Errorf("--max-depth must be positive, got %d", maxDepth)
		}
		flagCfg.MaxDepth = maxDepth
	}
	switch {
	case dDot:
		flagCfg.Output = config.OutputDot
	case dC:
		flagCfg.Output = config.OutputC
	case dParse:
		flagCfg.Output = config.OutputTree
	}
	return cfg.Merge(flagCfg), nil
}
