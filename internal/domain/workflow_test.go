package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mouse-blink/pyintroduce/internal/adapter"
	adaptermocks "github.com/mouse-blink/pyintroduce/internal/adapter/mocks"
	controllermocks "github.com/mouse-blink/pyintroduce/internal/controller/mocks"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func statTempFile(t *testing.T, content string) os.FileInfo {
	t.Helper()

	path := filepath.Join(t.TempDir(), "a.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	info, err := os.Stat(path)
	require.NoError(t, err)

	return info
}

func newTestWorkflow(t *testing.T, fs *adaptermocks.MockSourceFSAdapter, ui *controllermocks.MockUI) Workflow {
	t.Helper()

	parser := func() adapter.PythonFileAdapter { return adapter.NewTreeSitterPythonAdapter() }

	return NewWorkflow(fs, ui, newTestIntroducer(t), parser, zaptest.NewLogger(t))
}

func TestWorkflow_Introduce(t *testing.T) {
	ctx := context.Background()
	src := "def g(x):\n    a = f(x)\n    b = f(x)\n    return a + b\n"
	path := m.Path("a.py")

	t.Run("asks through the UI and writes the result", func(t *testing.T) {
		fs := adaptermocks.NewMockSourceFSAdapter(t)
		ui := controllermocks.NewMockUI(t)

		fs.EXPECT().FileInfo(path).Return(statTempFile(t, src), nil)
		fs.EXPECT().ReadFile(path).Return([]byte(src), nil)

		ui.EXPECT().Choose(mock.Anything).RunAndReturn(func(req m.ChoiceRequest) (m.Choice, error) {
			assert.Equal(t, m.ChooseOccurrences, req.Kind)
			assert.Len(t, req.Occurrences, 2)

			return m.Choice{ReplaceAll: true}, nil
		})

		var written []byte

		fs.EXPECT().WriteFile(path, mock.Anything).Run(func(_ m.Path, content []byte) {
			written = content
		}).Return(nil)
		ui.EXPECT().DisplayResult(mock.Anything, false).Run(func(result m.IntroduceResult, _ bool) {
			assert.Equal(t, "t", result.Name)
		}).Return(nil)

		err := newTestWorkflow(t, fs, ui).Introduce(ctx, IntroduceArgs{
			Path:    path,
			At:      m.Position{Line: 2, Column: 9},
			To:      &m.Position{Line: 2, Column: 13},
			Options: Options{Name: "t"},
		})
		require.NoError(t, err)

		assert.Equal(t, "def g(x):\n    t = f(x)\n    a = t\n    b = t\n    return a + b\n", string(written))
	})

	t.Run("dry run shows the result without writing", func(t *testing.T) {
		fs := adaptermocks.NewMockSourceFSAdapter(t)
		ui := controllermocks.NewMockUI(t)

		fs.EXPECT().FileInfo(path).Return(statTempFile(t, src), nil)
		fs.EXPECT().ReadFile(path).Return([]byte(src), nil)
		ui.EXPECT().DisplayResult(mock.Anything, true).Run(func(result m.IntroduceResult, _ bool) {
			assert.Contains(t, string(result.Content), "t = f(x)")
		}).Return(nil)

		err := newTestWorkflow(t, fs, ui).Introduce(ctx, IntroduceArgs{
			Path:    path,
			At:      m.Position{Line: 2, Column: 9},
			To:      &m.Position{Line: 2, Column: 13},
			Options: Options{Name: "t", ReplaceAll: boolPtr(true)},
			DryRun:  true,
		})
		require.NoError(t, err)
	})

	t.Run("stops when the UI fails", func(t *testing.T) {
		fs := adaptermocks.NewMockSourceFSAdapter(t)
		ui := controllermocks.NewMockUI(t)
		cancelled := errors.New("cancelled")

		fs.EXPECT().FileInfo(path).Return(statTempFile(t, src), nil)
		fs.EXPECT().ReadFile(path).Return([]byte(src), nil)
		ui.EXPECT().Choose(mock.Anything).Return(m.Choice{}, cancelled)

		err := newTestWorkflow(t, fs, ui).Introduce(ctx, IntroduceArgs{
			Path: path,
			At:   m.Position{Line: 2, Column: 9},
			To:   &m.Position{Line: 2, Column: 13},
		})
		require.ErrorIs(t, err, cancelled)
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		fs := adaptermocks.NewMockSourceFSAdapter(t)
		ui := controllermocks.NewMockUI(t)
		missing := errors.New("missing")

		fs.EXPECT().FileInfo(path).Return(nil, missing)

		err := newTestWorkflow(t, fs, ui).Introduce(ctx, IntroduceArgs{Path: path, At: m.Position{Line: 1, Column: 1}})
		require.ErrorIs(t, err, missing)
	})

	t.Run("fails on a directory", func(t *testing.T) {
		fs := adaptermocks.NewMockSourceFSAdapter(t)
		ui := controllermocks.NewMockUI(t)

		info, err := os.Stat(t.TempDir())
		require.NoError(t, err)
		fs.EXPECT().FileInfo(path).Return(info, nil)

		err = newTestWorkflow(t, fs, ui).Introduce(ctx, IntroduceArgs{Path: path, At: m.Position{Line: 1, Column: 1}})
		require.ErrorContains(t, err, "is a directory")
	})
}

func TestWorkflow_Suggest(t *testing.T) {
	src := "def g(x):\n    a = f(x)\n    b = f(x)\n    return a + b\n"
	path := m.Path("a.py")

	fs := adaptermocks.NewMockSourceFSAdapter(t)
	ui := controllermocks.NewMockUI(t)

	fs.EXPECT().FileInfo(path).Return(statTempFile(t, src), nil)
	fs.EXPECT().ReadFile(path).Return([]byte(src), nil)
	ui.EXPECT().DisplaySuggestions(mock.Anything).Run(func(s m.Suggestion) {
		assert.Equal(t, "f(x)", s.Target.Text)
		assert.Len(t, s.Occurrences, 2)
		assert.Equal(t, 2, s.AnchorLine)
		assert.NotEmpty(t, s.Names)
	}).Return(nil)

	err := newTestWorkflow(t, fs, ui).Suggest(context.Background(), SuggestArgs{
		Path: path,
		At:   m.Position{Line: 2, Column: 9},
		To:   &m.Position{Line: 2, Column: 13},
	})
	require.NoError(t, err)
}

func TestWorkflow_Scan(t *testing.T) {
	repeated := "def g(items):\n    a = len(items)\n    b = len(items)\n"
	clean := "x = 1\n"

	fs := adaptermocks.NewMockSourceFSAdapter(t)
	ui := controllermocks.NewMockUI(t)

	fs.EXPECT().Get([]m.Path{"./..."}, []string{"venv"}).Return([]m.Path{"a.py", "b.py", "c.py", "d.py"}, nil)
	fs.EXPECT().ReadFile(m.Path("a.py")).Return([]byte(repeated), nil)
	fs.EXPECT().ReadFile(m.Path("b.py")).Return([]byte(clean), nil)
	fs.EXPECT().ReadFile(m.Path("c.py")).Return(nil, errors.New("permission denied"))
	fs.EXPECT().ReadFile(m.Path("d.py")).Return([]byte(repeated), nil)

	ui.EXPECT().StartScan(4, 2).Return().Once()
	ui.EXPECT().DisplayScanningFile(mock.Anything, mock.Anything).Return().Times(4)

	var scanned []m.Path

	var mu sync.Mutex

	ui.EXPECT().DisplayScannedFile(mock.Anything, mock.Anything).Run(func(report m.ScanReport, worker int) {
		mu.Lock()
		defer mu.Unlock()

		assert.Less(t, worker, 2)
		scanned = append(scanned, report.Path)
	}).Return().Times(4)
	ui.EXPECT().FinishScan().Return().Once()

	ui.EXPECT().DisplayScan(mock.Anything, "json").Run(func(reports []m.ScanReport, _ string) {
		require.Len(t, reports, 3)

		assert.Equal(t, m.Path("a.py"), reports[0].Path)
		require.Len(t, reports[0].Sites, 1)
		assert.Equal(t, "len(items)", reports[0].Sites[0].Expression)

		assert.Equal(t, m.Path("c.py"), reports[1].Path)
		assert.Equal(t, "permission denied", reports[1].Error)

		assert.Equal(t, m.Path("d.py"), reports[2].Path)
	}).Return(nil)

	err := newTestWorkflow(t, fs, ui).Scan(context.Background(), ScanArgs{
		Paths:    []m.Path{"./..."},
		Exclude:  []string{"venv"},
		Parallel: 2,
		Format:   "json",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []m.Path{"a.py", "b.py", "c.py", "d.py"}, scanned)
}
