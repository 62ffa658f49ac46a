package domain

import (
	"context"
	"fmt"

	"github.com/mouse-blink/pyintroduce/internal/adapter"
	"github.com/mouse-blink/pyintroduce/internal/controller"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"go.uber.org/zap"
)

// IntroduceArgs holds the arguments for one introduce-variable run.
type IntroduceArgs struct {
	Path m.Path
	// At is the caret, or the selection start when To is set.
	At      m.Position
	To      *m.Position
	Options Options
	// DryRun shows the result without writing the file.
	DryRun bool
}

// SuggestArgs holds the arguments for an analysis-only run.
type SuggestArgs struct {
	Path m.Path
	At   m.Position
	To   *m.Position
}

// ScanArgs holds the arguments for scanning files for repeated expressions.
type ScanArgs struct {
	Paths    []m.Path
	Exclude  []string
	Parallel int
	// Min is the least number of occurrences a site needs to be reported.
	Min    int
	Format string
}

// Workflow defines the operations exposed to the CLI.
type Workflow interface {
	Introduce(ctx context.Context, args IntroduceArgs) error
	Suggest(ctx context.Context, args SuggestArgs) error
	Scan(ctx context.Context, args ScanArgs) error
}

// ParserFactory creates a parser; the scan uses one per worker.
type ParserFactory func() adapter.PythonFileAdapter

type workflow struct {
	fsAdapter  adapter.SourceFSAdapter
	ui         controller.UI
	introducer *Introducer
	newParser  ParserFactory
	log        *zap.Logger
}

// NewWorkflow creates a new Workflow instance with the provided adapters.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	ui controller.UI,
	introducer *Introducer,
	newParser ParserFactory,
	log *zap.Logger,
) Workflow {
	if log == nil {
		log = zap.NewNop()
	}

	return &workflow{
		fsAdapter:  fsAdapter,
		ui:         ui,
		introducer: introducer,
		newParser:  newParser,
		log:        log,
	}
}

// Introduce reads the file, runs an introduction driving every pending
// question through the UI, and writes the result back unless DryRun is set.
func (w *workflow) Introduce(ctx context.Context, args IntroduceArgs) error {
	doc, err := w.load(args.Path)
	if err != nil {
		return err
	}

	sel, err := selection(doc, args.At, args.To)
	if err != nil {
		return err
	}

	session, err := w.introducer.Invoke(ctx, doc, sel, args.Options)
	if err != nil {
		return err
	}
	defer session.Cancel()

	for req := session.Pending(); req != nil; req = session.Pending() {
		choice, err := w.ui.Choose(*req)
		if err != nil {
			return fmt.Errorf("failed to get choice for %s: %w", req.Kind, err)
		}

		if err := session.Resume(ctx, choice); err != nil {
			return err
		}
	}

	result, err := session.Result()
	if err != nil {
		return err
	}

	session.Finish()

	if !args.DryRun {
		if err := w.fsAdapter.WriteFile(args.Path, result.Content); err != nil {
			return fmt.Errorf("failed to write %s: %w", args.Path, err)
		}

		w.log.Info("introduced variable",
			zap.String("path", string(args.Path)),
			zap.String("name", result.Name),
			zap.Int("references", len(result.References)))
	}

	return w.ui.DisplayResult(*result, args.DryRun)
}

// Suggest shows what an introduction at the position would do.
func (w *workflow) Suggest(ctx context.Context, args SuggestArgs) error {
	doc, err := w.load(args.Path)
	if err != nil {
		return err
	}

	sel, err := selection(doc, args.At, args.To)
	if err != nil {
		return err
	}

	suggestion, err := w.introducer.Analyze(ctx, doc, sel)
	if err != nil {
		return err
	}

	return w.ui.DisplaySuggestions(*suggestion)
}

func (w *workflow) load(path m.Path) (m.Document, error) {
	info, err := w.fsAdapter.FileInfo(path)
	if err != nil {
		return m.Document{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.IsDir() {
		return m.Document{}, fmt.Errorf("%s is a directory", path)
	}

	content, err := w.fsAdapter.ReadFile(path)
	if err != nil {
		return m.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return m.Document{
		Path:     path,
		Content:  content,
		ReadOnly: info.Mode().Perm()&0o200 == 0,
	}, nil
}

// selection converts 1-based positions into a byte span. A reversed range is
// swapped.
func selection(doc m.Document, at m.Position, to *m.Position) (m.Span, error) {
	start, err := doc.Offset(at)
	if err != nil {
		return m.Span{}, err
	}

	if to == nil {
		return m.Span{Start: start, End: start}, nil
	}

	end, err := doc.Offset(*to)
	if err != nil {
		return m.Span{}, err
	}

	if end < start {
		start, end = end, start
	}

	return m.Span{Start: start, End: end}, nil
}
