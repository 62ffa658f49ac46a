// Package controller provides the interactive and plain-text front ends that
// answer refactoring questions and display results.
package controller

import (
	"errors"

	m "github.com/mouse-blink/pyintroduce/internal/model"
)

// ErrCancelled is returned by Choose when the user dismisses a question.
var ErrCancelled = errors.New("cancelled by user")

// Scan output formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// UI answers the questions of a paused refactoring and displays results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Choose(req m.ChoiceRequest) (m.Choice, error)
	DisplayResult(result m.IntroduceResult, dryRun bool) error
	DisplaySuggestions(suggestion m.Suggestion) error
	DisplayScan(reports []m.ScanReport, format string) error
	// StartScan, DisplayScanningFile, DisplayScannedFile and FinishScan
	// report scan progress. The display calls come from the scan workers.
	StartScan(files, workers int)
	DisplayScanningFile(path m.Path, worker int)
	DisplayScannedFile(report m.ScanReport, worker int)
	FinishScan()
}

// ValidFormat reports whether format names a scan output format.
func ValidFormat(format string) bool {
	switch format {
	case FormatTable, FormatYAML, FormatJSON:
		return true
	}

	return false
}
