package controller

import (
	"fmt"

	m "github.com/mouse-blink/pyintroduce/internal/model"
	"github.com/spf13/cobra"
)

// SimpleUI implements UI using cobra Command's output. It never blocks on
// input: every question is answered with its default.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Choose answers req with its defaults: the innermost target, the proposed
// replace-all flag, the first name and the requested placement.
func (s *SimpleUI) Choose(req m.ChoiceRequest) (m.Choice, error) {
	choice := m.Choice{ReplaceAll: req.ReplaceAll}

	switch req.Kind {
	case m.ChooseTarget:
		if len(req.Targets) == 0 {
			return m.Choice{}, fmt.Errorf("no targets to choose from")
		}

		s.printf("using innermost of %s: %s\n", plural(len(req.Targets), "expression"), req.Targets[0].Text)
	case m.ChooseOccurrences:
		if req.ReplaceAll {
			s.printf("replacing all %s\n", plural(len(req.Occurrences), "occurrence"))
		}
	case m.ConfirmName:
		if len(req.Names) > 0 {
			choice.Name = req.Names[0]
		}
	}

	return choice, nil
}

// DisplayResult prints the introduced declaration, or the whole rewritten
// file on a dry run.
func (s *SimpleUI) DisplayResult(result m.IntroduceResult, dryRun bool) error {
	if dryRun {
		s.printf("%s", result.Content)
		return nil
	}

	doc := m.Document{Path: result.Path, Content: result.Content}
	s.printf("%s:%s: %s\n", result.Path, doc.Position(result.DeclarationSpan.Start), result.Declaration)
	s.printf("introduced %q %s, %s\n", result.Name, placeLabel(result.InitPlace),
		plural(len(result.References), "reference"))

	return nil
}

// DisplaySuggestions prints the analysis of a selection.
func (s *SimpleUI) DisplaySuggestions(suggestion m.Suggestion) error {
	s.printf("expression: %s (line %d)\n", singleLine(suggestion.Target.Text), suggestion.Target.Line)

	if suggestion.Type != "" {
		s.printf("type: %s\n", suggestion.Type)
	}

	s.printf("declaration goes before line %d\n", suggestion.AnchorLine)
	s.printf("names: %v\n\n", suggestion.Names)

	return writeSuggestionTables(s.cmd.OutOrStdout(), suggestion)
}

// DisplayScan prints scan reports as a table, YAML or JSON.
func (s *SimpleUI) DisplayScan(reports []m.ScanReport, format string) error {
	return writeScan(s.cmd.OutOrStdout(), reports, format)
}

// StartScan notes the size of the scan on stderr, keeping stdout for the
// reports.
func (s *SimpleUI) StartScan(files, workers int) {
	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), "scanning %s with %s\n", plural(files, "file"), plural(workers, "worker"))
}

// DisplayScanningFile does nothing: plain output has no live view.
func (s *SimpleUI) DisplayScanningFile(m.Path, int) {}

// DisplayScannedFile does nothing: failures are part of the reports.
func (s *SimpleUI) DisplayScannedFile(m.ScanReport, int) {}

// FinishScan does nothing.
func (s *SimpleUI) FinishScan() {}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
