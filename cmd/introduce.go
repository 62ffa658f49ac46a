package cmd

import (
	"fmt"

	"github.com/mouse-blink/pyintroduce/internal/config"
	"github.com/mouse-blink/pyintroduce/internal/domain"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"github.com/spf13/cobra"
)

var introduceAtFlag string
var introduceToFlag string
var introduceNameFlag string
var introduceReplaceFlag string
var introduceInitPlaceFlag string
var introduceDialogFlag bool
var introduceDryRunFlag bool
var introduceAutoChooseFlag bool

const introduceLongDescription = `Introduce a variable for the expression at a position.

With only --at the expression is found around the caret; when several nested
expressions qualify you are asked which one to use (or the innermost is taken
with --auto-choose). With --to the selected range is used as is; a range
inside a string literal introduces the selected part of the literal.

Every equivalent occurrence in the enclosing scope can be replaced. The
declaration is inserted before the first of them, or as an attribute in
__init__ or setUp with --init-place.

Examples:
  pyintroduce introduce app.py --at 12:9
  pyintroduce introduce app.py --at 12:9 --to 12:21 --name total --replace all
  pyintroduce introduce tests/test_app.py --at 8:15 --init-place set-up --dry-run`

// introduceCmd represents the introduce command.
var introduceCmd = newIntroduceCmd()

func newIntroduceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "introduce FILE",
		Short: "Introduce a variable for an expression",
		Long:  introduceLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parsePosition(introduceAtFlag)
			if err != nil {
				return err
			}

			var to *m.Position

			if introduceToFlag != "" {
				pos, err := parsePosition(introduceToFlag)
				if err != nil {
					return err
				}

				to = &pos
			}

			opts, err := introduceOptions(cmd, cfg.Introduce)
			if err != nil {
				return err
			}

			return workflow.Introduce(cmd.Context(), domain.IntroduceArgs{
				Path:    m.Path(args[0]),
				At:      at,
				To:      to,
				Options: opts,
				DryRun:  introduceDryRunFlag,
			})
		},
	}
	cmd.Flags().StringVar(&introduceAtFlag, "at", "", "caret or selection start as LINE:COLUMN")
	cmd.Flags().StringVar(&introduceToFlag, "to", "", "selection end as LINE:COLUMN (exclusive)")
	cmd.Flags().StringVar(&introduceNameFlag, "name", "", "variable name instead of the first suggestion")
	cmd.Flags().StringVar(&introduceReplaceFlag, "replace", "", "occurrences to replace: ask, all or one")
	cmd.Flags().StringVar(&introduceInitPlaceFlag, "init-place", "", "where to declare: same-scope, constructor or set-up")
	cmd.Flags().BoolVar(&introduceDialogFlag, "dialog", false, "confirm name, occurrences and placement before editing")
	cmd.Flags().BoolVar(&introduceDryRunFlag, "dry-run", false, "print the rewritten file instead of saving it")
	cmd.Flags().BoolVar(&introduceAutoChooseFlag, "auto-choose", false, "take the innermost expression at the caret without asking")

	_ = cmd.MarkFlagRequired("at")

	return cmd
}

// introduceOptions merges flags over the configured defaults.
func introduceOptions(cmd *cobra.Command, defaults config.IntroduceConfig) (domain.Options, error) {
	settings := defaults

	if introduceReplaceFlag != "" {
		settings.Replace = introduceReplaceFlag
	}

	if introduceInitPlaceFlag != "" {
		settings.InitPlace = introduceInitPlaceFlag
	}

	switch settings.Replace {
	case config.ReplaceAsk, config.ReplaceAll, config.ReplaceOne:
	default:
		return domain.Options{}, fmt.Errorf("invalid --replace %q: want ask, all or one", settings.Replace)
	}

	place := m.InitPlace(settings.InitPlace)
	if !place.Valid() {
		return domain.Options{}, fmt.Errorf("invalid --init-place %q: want same-scope, constructor or set-up", settings.InitPlace)
	}

	dialog := !settings.Inplace
	if cmd.Flags().Changed("dialog") {
		dialog = introduceDialogFlag
	}

	return domain.Options{
		Name:       introduceNameFlag,
		ReplaceAll: settings.ReplaceAllPreset(),
		InitPlace:  place,
		Dialog:     dialog,
		AutoChoose: introduceAutoChooseFlag,
	}, nil
}

func init() {
	rootCmd.AddCommand(introduceCmd)
}
