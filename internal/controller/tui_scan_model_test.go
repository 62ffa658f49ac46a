package controller

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func updateScan(t *testing.T, model scanModel, msg tea.Msg) (scanModel, tea.Cmd) {
	t.Helper()

	next, cmd := model.Update(msg)

	s, ok := next.(scanModel)
	require.True(t, ok)

	return s, cmd
}

func TestScanModel_Update(t *testing.T) {
	t.Run("tracks files per worker", func(t *testing.T) {
		s := newScanModel(3, 2)

		s, _ = updateScan(t, s, scanningFileMsg{worker: 0, path: "a.py"})
		s, _ = updateScan(t, s, scanningFileMsg{worker: 1, path: "b.py"})
		assert.Equal(t, map[int]m.Path{0: "a.py", 1: "b.py"}, s.workerFiles)

		s, _ = updateScan(t, s, scannedFileMsg{worker: 0, report: m.ScanReport{Path: "a.py", Sites: make([]m.Site, 2)}})
		assert.Equal(t, map[int]m.Path{1: "b.py"}, s.workerFiles)
		assert.Equal(t, 1, s.completed)
		assert.Equal(t, 2, s.sites)
		assert.InDelta(t, 1.0/3, s.percent, 1e-9)

		view := s.View()
		assert.Contains(t, view, "Worker 0: ")
		assert.Contains(t, view, "idle")
		assert.Contains(t, view, "b.py")
	})

	t.Run("counts failed files", func(t *testing.T) {
		s, _ := updateScan(t, newScanModel(1, 1), scannedFileMsg{report: m.ScanReport{Path: "a.py", Error: "boom"}})

		assert.Equal(t, 1, s.failed)
		assert.NotContains(t, s.View(), "Worker 0")
	})

	t.Run("an empty scan keeps zero progress", func(t *testing.T) {
		s, _ := updateScan(t, newScanModel(0, 0), scannedFileMsg{})

		assert.Equal(t, 1, s.workers)
		assert.Zero(t, s.percent)
	})

	t.Run("finishing quits with a summary", func(t *testing.T) {
		s, cmd := updateScan(t, newScanModel(1, 1), scanFinishedMsg{})

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.True(t, s.finished)
		assert.NotContains(t, s.View(), "Scanning")
		assert.Contains(t, s.View(), "Errors")
	})

	t.Run("window size narrows the bar", func(t *testing.T) {
		s, _ := updateScan(t, newScanModel(1, 1), tea.WindowSizeMsg{Width: 10, Height: 5})

		assert.Equal(t, 10, s.width)
		assert.Equal(t, 20, s.progressBar.Width)
	})
}

func TestScanModel_TruncatesLongPaths(t *testing.T) {
	s, _ := updateScan(t, newScanModel(1, 1), tea.WindowSizeMsg{Width: 20})
	s, _ = updateScan(t, s, scanningFileMsg{path: "some/very/long/directory/name/file.py"})

	assert.Contains(t, s.View(), "…")
}
