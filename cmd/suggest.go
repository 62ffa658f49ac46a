package cmd

import (
	"github.com/mouse-blink/pyintroduce/internal/domain"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"github.com/spf13/cobra"
)

var suggestAtFlag string
var suggestToFlag string

// suggestCmd represents the suggest command.
var suggestCmd = newSuggestCmd()

func newSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest FILE",
		Short: "Show the expression, occurrences and names an introduction would use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parsePosition(suggestAtFlag)
			if err != nil {
				return err
			}

			var to *m.Position

			if suggestToFlag != "" {
				pos, err := parsePosition(suggestToFlag)
				if err != nil {
					return err
				}

				to = &pos
			}

			return workflow.Suggest(cmd.Context(), domain.SuggestArgs{
				Path: m.Path(args[0]),
				At:   at,
				To:   to,
			})
		},
	}
	cmd.Flags().StringVar(&suggestAtFlag, "at", "", "caret or selection start as LINE:COLUMN")
	cmd.Flags().StringVar(&suggestToFlag, "to", "", "selection end as LINE:COLUMN (exclusive)")

	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
