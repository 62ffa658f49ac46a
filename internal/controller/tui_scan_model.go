package controller

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "github.com/mouse-blink/pyintroduce/internal/model"
)

type scanningFileMsg struct {
	worker int
	path   m.Path
}

type scannedFileMsg struct {
	worker int
	report m.ScanReport
}

type scanFinishedMsg struct{}

// scanModel shows the progress of a scan while the workers parse files.
type scanModel struct {
	width       int
	progressBar progress.Model
	total       int
	workers     int
	completed   int
	sites       int
	failed      int
	percent     float64
	workerFiles map[int]m.Path
	finished    bool
}

func newScanModel(total, workers int) scanModel {
	return scanModel{
		width: 80,
		progressBar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
		total:       total,
		workers:     max(workers, 1),
		workerFiles: make(map[int]m.Path),
	}
}

func (s scanModel) Init() tea.Cmd {
	return nil
}

func (s scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width

		s.progressBar.Width = max(s.width-8, 20)
	case scanningFileMsg:
		s.workerFiles[msg.worker] = msg.path
	case scannedFileMsg:
		s = s.handleScanned(msg)
	case scanFinishedMsg:
		s.finished = true
		return s, tea.Quit
	}

	return s, nil
}

func (s scanModel) handleScanned(msg scannedFileMsg) scanModel {
	delete(s.workerFiles, msg.worker)

	s.completed++
	s.sites += len(msg.report.Sites)

	if msg.report.Error != "" {
		s.failed++
	}

	if s.total > 0 {
		s.percent = float64(s.completed) / float64(s.total)
	}

	return s
}

func (s scanModel) View() string {
	summary := fmt.Sprintf("Scanned: %s / %s  •  Sites: %s  •  Errors: %s",
		accentStyle.Render(strconv.Itoa(s.completed)),
		accentStyle.Render(strconv.Itoa(s.total)),
		accentStyle.Render(strconv.Itoa(s.sites)),
		accentStyle.Render(strconv.Itoa(s.failed)),
	)

	if s.finished {
		return summary + "\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Scanning for repeated expressions"),
		summary,
		s.progressBar.ViewAs(s.percent),
		s.renderWorkers(),
	) + "\n"
}

func (s scanModel) renderWorkers() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Padding(0, 1)

	// border and padding on both sides
	available := max(s.width-4, 10)

	lines := make([]string, 0, s.workers)

	for i := range s.workers {
		label := ""
		if s.workers > 1 {
			label = fmt.Sprintf("Worker %d: ", i)
		}

		path, ok := s.workerFiles[i]
		if !ok {
			lines = append(lines, label+faintStyle.Render("idle"))
			continue
		}

		lines = append(lines, label+truncateToWidth(string(path), available-lipgloss.Width(label)))
	}

	return box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
