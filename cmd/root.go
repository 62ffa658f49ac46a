// Package cmd provides the root command and CLI setup for pyintroduce.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mouse-blink/pyintroduce/internal/adapter"
	"github.com/mouse-blink/pyintroduce/internal/config"
	"github.com/mouse-blink/pyintroduce/internal/controller"
	"github.com/mouse-blink/pyintroduce/internal/domain"
	"github.com/mouse-blink/pyintroduce/internal/logging"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// workflow is built lazily once configuration is known; tests replace it.
var workflow domain.Workflow
var cfg *config.Config
var logger = zap.NewNop()

var cfgFileFlag string
var logLevelFlag string
var logFormatFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pyintroduce",
		Short: "Introduce-variable refactoring for Python",
		Long: `pyintroduce extracts a Python expression into a named variable.

It finds every equivalent occurrence of the expression in its scope, proposes
names, inserts the declaration before the first use and replaces the
occurrences with a reference to the new variable.

Commands:
  introduce   rewrite a file, introducing a variable at a position
  suggest     show what an introduction would do without editing
  scan        report repeated expressions worth a variable`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = logger.Sync()
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFileFlag, "config", "", "config file (default: ./.pyintroduce.yaml)")
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "log format (console, json)")

	return cmd
}

// setup loads the configuration, builds the logger and wires the workflow
// unless one was injected.
func setup(cmd *cobra.Command, _ []string) error {
	v, err := config.Load(cfgFileFlag)
	if err != nil {
		return err
	}

	if logLevelFlag != "" {
		v.Set("log.level", logLevelFlag)
	}

	if logFormatFlag != "" {
		v.Set("log.format", logFormatFlag)
	}

	if cfg, err = config.New(v); err != nil {
		return err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	logger = log

	if workflow == nil {
		workflow = newWorkflow(cmd, cfg, logger)
	}

	return nil
}

func newWorkflow(cmd *cobra.Command, cfg *config.Config, log *zap.Logger) domain.Workflow {
	newParser := func() adapter.PythonFileAdapter {
		return adapter.NewTreeSitterPythonAdapter()
	}

	suggester := domain.NewNameSuggester(domain.DefaultValidator(), cfg.Introduce.DefaultName, cfg.Introduce.MaxSuffix)
	introducer := domain.NewIntroducer(newParser(), suggester, log)
	ui := controller.NewUI(cmd, controller.IsTTY(cmd.OutOrStdout()))

	return domain.NewWorkflow(adapter.NewLocalSourceFSAdapter(), ui, introducer, newParser, log)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// parsePosition parses a 1-based LINE:COLUMN pair.
func parsePosition(s string) (m.Position, error) {
	line, column, ok := strings.Cut(s, ":")
	if !ok {
		return m.Position{}, fmt.Errorf("invalid position %q: want LINE:COLUMN", s)
	}

	l, err := strconv.Atoi(line)
	if err != nil {
		return m.Position{}, fmt.Errorf("invalid position %q: %w", s, err)
	}

	c, err := strconv.Atoi(column)
	if err != nil {
		return m.Position{}, fmt.Errorf("invalid position %q: %w", s, err)
	}

	if l < 1 || c < 1 {
		return m.Position{}, fmt.Errorf("invalid position %q: line and column start at 1", s)
	}

	return m.Position{Line: l, Column: c}, nil
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
