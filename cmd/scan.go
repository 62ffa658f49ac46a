package cmd

import (
	"fmt"

	"github.com/mouse-blink/pyintroduce/internal/controller"
	"github.com/mouse-blink/pyintroduce/internal/domain"
	"github.com/spf13/cobra"
)

var scanParallelFlag int
var scanMinFlag int
var scanExcludeFlags []string
var scanFormatFlag string

const scanLongDescription = `Report expressions repeated within a scope.

Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./pkg/...      recursively scan pkg directory
  - ./app ./lib    scan multiple directories

Each file is parsed on its own worker; --parallel bounds the number of
workers. Trivial expressions such as names, numbers and short strings are
not reported.`

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Report repeated expressions worth a variable",
		Long:  scanLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := cfg.Scan

			if cmd.Flags().Changed("parallel") {
				settings.Parallel = scanParallelFlag
			}

			if cmd.Flags().Changed("min") {
				settings.MinOccurrences = scanMinFlag
			}

			if cmd.Flags().Changed("format") {
				settings.Format = scanFormatFlag
			}

			exclude := append(append([]string{}, settings.Exclude...), scanExcludeFlags...)

			if settings.Parallel < 1 {
				return fmt.Errorf("invalid --parallel %d: want at least 1", settings.Parallel)
			}

			if settings.MinOccurrences < 2 {
				return fmt.Errorf("invalid --min %d: want at least 2", settings.MinOccurrences)
			}

			if !controller.ValidFormat(settings.Format) {
				return fmt.Errorf("invalid --format %q: want table, yaml or json", settings.Format)
			}

			paths := parsePaths(args)
			if len(paths) == 0 {
				paths = parsePaths([]string{"./..."})
			}

			return workflow.Scan(cmd.Context(), domain.ScanArgs{
				Paths:    paths,
				Exclude:  exclude,
				Parallel: settings.Parallel,
				Min:      settings.MinOccurrences,
				Format:   settings.Format,
			})
		},
	}
	cmd.Flags().IntVarP(&scanParallelFlag, "parallel", "p", 1, "number of parallel workers")
	cmd.Flags().IntVar(&scanMinFlag, "min", domain.DefaultMinOccurrences, "least number of occurrences to report")
	cmd.Flags().StringArrayVarP(&scanExcludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")
	cmd.Flags().StringVar(&scanFormatFlag, "format", controller.FormatTable, "output format: table, yaml or json")

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
