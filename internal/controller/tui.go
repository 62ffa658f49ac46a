package controller

import (
	"fmt"
	"io"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "github.com/mouse-blink/pyintroduce/internal/model"
)

// TUI implements UI using Bubble Tea for interactive questions.
type TUI struct {
	input  io.Reader
	output io.Writer
	// run executes a Bubble Tea model to completion; tests replace it.
	run func(model tea.Model) (tea.Model, error)
	// background starts a model that is fed with send and stopped by wait.
	background func(model tea.Model) (send func(tea.Msg), wait func())

	send func(tea.Msg)
	wait func()
}

// NewTUI creates a new TUI.
func NewTUI(input io.Reader, output io.Writer) *TUI {
	t := &TUI{input: input, output: output}
	t.run = t.runProgram
	t.background = t.runInBackground

	return t
}

func (t *TUI) runInBackground(model tea.Model) (func(tea.Msg), func()) {
	program := tea.NewProgram(model, tea.WithInput(nil), tea.WithOutput(t.output))
	done := make(chan struct{})

	go func() {
		defer close(done)

		_, _ = program.Run()
	}()

	return program.Send, func() { <-done }
}

func (t *TUI) runProgram(model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(model, tea.WithInput(t.input), tea.WithOutput(t.output))

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run prompt: %w", err)
	}

	return final, nil
}

// Choose asks the question in req interactively.
func (t *TUI) Choose(req m.ChoiceRequest) (m.Choice, error) {
	choice := m.Choice{ReplaceAll: req.ReplaceAll}

	switch req.Kind {
	case m.ChooseTarget:
		idx, err := t.pick("Which expression?", candidateItems(req.Targets))
		if err != nil {
			return m.Choice{}, err
		}

		choice.Target = idx
	case m.ChooseOccurrences:
		all, err := t.pickReplaceAll(len(req.Occurrences))
		if err != nil {
			return m.Choice{}, err
		}

		choice.ReplaceAll = all
	case m.ConfirmName:
		name, err := t.askName(req.Names)
		if err != nil {
			return m.Choice{}, err
		}

		choice.Name = name

		if len(req.Occurrences) > 1 {
			if choice.ReplaceAll, err = t.pickReplaceAll(len(req.Occurrences)); err != nil {
				return m.Choice{}, err
			}
		}

		if len(req.InitPlaces) > 1 {
			items := make([]choiceItem, 0, len(req.InitPlaces))
			for _, p := range req.InitPlaces {
				items = append(items, choiceItem{tag: "", text: placeLabel(p)})
			}

			idx, err := t.pick("Where should the variable be initialized?", items)
			if err != nil {
				return m.Choice{}, err
			}

			choice.InitPlace = req.InitPlaces[idx]
		}
	}

	return choice, nil
}

func (t *TUI) pickReplaceAll(occurrences int) (bool, error) {
	idx, err := t.pick(fmt.Sprintf("%s found", plural(occurrences, "occurrence")), []choiceItem{
		{tag: "all", text: fmt.Sprintf("Replace all %d occurrences", occurrences)},
		{tag: "one", text: "Replace this occurrence only"},
	})
	if err != nil {
		return false, err
	}

	return idx == 0, nil
}

func (t *TUI) pick(title string, items []choiceItem) (int, error) {
	width, height := terminalSize(t.output)

	final, err := t.run(newChoiceModel(title, items, width, height))
	if err != nil {
		return 0, err
	}

	model, ok := final.(choiceModel)
	if !ok || model.cancelled || model.chosen < 0 {
		return 0, ErrCancelled
	}

	return model.chosen, nil
}

func (t *TUI) askName(suggestions []string) (string, error) {
	width, _ := terminalSize(t.output)

	final, err := t.run(newNameModel(suggestions, width))
	if err != nil {
		return "", err
	}

	model, ok := final.(nameModel)
	if !ok || model.cancelled || model.name == "" {
		return "", ErrCancelled
	}

	return model.name, nil
}

func candidateItems(candidates []m.Candidate) []choiceItem {
	items := make([]choiceItem, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, choiceItem{tag: strconv.Itoa(c.Line), text: singleLine(c.Text)})
	}

	return items
}

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// DisplayResult shows the introduced declaration, or the rewritten file on a
// dry run.
func (t *TUI) DisplayResult(result m.IntroduceResult, dryRun bool) error {
	if dryRun {
		_, err := fmt.Fprintf(t.output, "%s\n%s", faintStyle.Render("# "+string(result.Path)+" (dry run)"), result.Content)
		return err
	}

	doc := m.Document{Path: result.Path, Content: result.Content}

	_, err := fmt.Fprintf(t.output, "%s %s\n  %s %s\n  %s\n",
		titleStyle.Render("Introduced"),
		accentStyle.Render(result.Name),
		faintStyle.Render(fmt.Sprintf("%s:%s", result.Path, doc.Position(result.DeclarationSpan.Start))),
		result.Declaration,
		faintStyle.Render(fmt.Sprintf("%s, %s", placeLabel(result.InitPlace), plural(len(result.References), "reference"))),
	)

	return err
}

// DisplaySuggestions shows the analysis of a selection.
func (t *TUI) DisplaySuggestions(suggestion m.Suggestion) error {
	_, err := fmt.Fprintf(t.output, "%s %s\n", titleStyle.Render("Expression"), singleLine(suggestion.Target.Text))
	if err != nil {
		return err
	}

	if suggestion.Type != "" {
		_, _ = fmt.Fprintf(t.output, "  type %s\n", accentStyle.Render(suggestion.Type))
	}

	_, _ = fmt.Fprintf(t.output, "  declared before line %s\n", accentStyle.Render(strconv.Itoa(suggestion.AnchorLine)))
	_, _ = fmt.Fprintf(t.output, "  names %s\n\n", accentStyle.Render(fmt.Sprint(suggestion.Names)))

	return writeSuggestionTables(t.output, suggestion)
}

// StartScan opens the progress view of a scan over files with workers
// parsing in parallel.
func (t *TUI) StartScan(files, workers int) {
	t.send, t.wait = t.background(newScanModel(files, workers))
}

// DisplayScanningFile marks path as being parsed by worker. Safe for
// concurrent use.
func (t *TUI) DisplayScanningFile(path m.Path, worker int) {
	if t.send != nil {
		t.send(scanningFileMsg{worker: worker, path: path})
	}
}

// DisplayScannedFile records the report of a finished file. Safe for
// concurrent use.
func (t *TUI) DisplayScannedFile(report m.ScanReport, worker int) {
	if t.send != nil {
		t.send(scannedFileMsg{worker: worker, report: report})
	}
}

// FinishScan closes the progress view and waits for it to be drawn.
func (t *TUI) FinishScan() {
	if t.send == nil {
		return
	}

	t.send(scanFinishedMsg{})
	t.wait()

	t.send, t.wait = nil, nil
}

// DisplayScan shows scan reports as a table, YAML or JSON.
func (t *TUI) DisplayScan(reports []m.ScanReport, format string) error {
	return writeScan(t.output, reports, format)
}
