package domain

import (
	"context"
	"fmt"
	"sort"

	"github.com/mouse-blink/pyintroduce/internal/adapter"
	"github.com/mouse-blink/pyintroduce/internal/domain/pylang"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMinOccurrences is the least count a repeated expression needs.
const DefaultMinOccurrences = 2

// Scan parses every Python file under the roots on a bounded worker pool and
// reports the expressions repeated within one scope. Files that cannot be
// read or parsed are reported with their error instead of failing the scan.
func (w *workflow) Scan(ctx context.Context, args ScanArgs) error {
	files, err := w.fsAdapter.Get(args.Paths, args.Exclude)
	if err != nil {
		return fmt.Errorf("failed to collect sources: %w", err)
	}

	threads := max(args.Parallel, 1)
	minCount := max(args.Min, DefaultMinOccurrences)

	w.log.Debug("scan started", zap.Int("files", len(files)), zap.Int("parallel", threads))

	workers := make(chan scanWorker, threads)
	for id := range threads {
		workers <- scanWorker{id: id, parser: w.newParser()}
	}

	reports := make([]m.ScanReport, len(files))

	w.ui.StartScan(len(files), threads)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			worker := <-workers
			defer func() { workers <- worker }()

			w.ui.DisplayScanningFile(path, worker.id)
			reports[i] = w.scanFile(gctx, worker.parser, path, minCount)
			w.ui.DisplayScannedFile(reports[i], worker.id)

			return nil
		})
	}

	err = g.Wait()

	w.ui.FinishScan()

	if err != nil {
		return err
	}

	kept := reports[:0]

	for _, r := range reports {
		if len(r.Sites) > 0 || r.Error != "" {
			kept = append(kept, r)
		}
	}

	return w.ui.DisplayScan(kept, args.Format)
}

// scanWorker is a parser slot of the scan pool; id names it in progress
// updates.
type scanWorker struct {
	id     int
	parser adapter.PythonFileAdapter
}

func (w *workflow) scanFile(ctx context.Context, parser adapter.PythonFileAdapter, path m.Path, minCount int) m.ScanReport {
	report := m.ScanReport{Path: path}

	content, err := w.fsAdapter.ReadFile(path)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	tree, err := parser.Parse(ctx, content)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.Sites = RepeatedExpressions(tree, w.introducer.suggester, minCount)

	w.log.Debug("scanned file", zap.String("path", string(path)), zap.Int("sites", len(report.Sites)))

	return report
}

type repeatGroup struct {
	scope syntax.NodeID
	nodes []syntax.NodeID
}

// RepeatedExpressions finds expressions that occur at least minCount times in
// the same scope, in read positions where a variable could replace them.
// Sub-expressions of a reported site that repeat exactly as often are not
// reported separately. Code under a "# pyintroduce: ignore" directive is
// skipped.
func RepeatedExpressions(tree *syntax.Tree, suggester *NameSuggester, minCount int) []m.Site {
	ix := buildIgnoreIndex(tree)
	if ix.file.all {
		return nil
	}

	buckets := make(map[string][]*repeatGroup)

	var order []*repeatGroup

	tree.Walk(tree.Root(), func(id syntax.NodeID) bool {
		if trivialExpression(tree, id) || !isReadPosition(tree, id) || !validIntroduceContext(tree, id) {
			return true
		}

		scope := scopeOwner(tree, id)
		if ix.ignored(tree, id, scopeName(tree, scope)) {
			return true
		}

		key := scope.String() + "\x00" + tree.Type(id) + "\x00" + tree.Fingerprint(id)

		for _, g := range buckets[key] {
			if syntax.Equivalent(tree, g.nodes[0], tree, id) {
				g.nodes = append(g.nodes, id)
				return true
			}
		}

		g := &repeatGroup{scope: scope, nodes: []syntax.NodeID{id}}
		buckets[key] = append(buckets[key], g)
		order = append(order, g)

		return true
	})

	owner := make(map[syntax.NodeID]*repeatGroup)

	for _, g := range order {
		if len(g.nodes) >= minCount {
			for _, n := range g.nodes {
				owner[n] = g
			}
		}
	}

	text := tree.String()

	var sites []m.Site

	for _, g := range order {
		if len(g.nodes) < minCount || nestedInSameCount(tree, g, owner) {
			continue
		}

		first := g.nodes[0]
		span, _ := tree.Span(first)

		site := m.Site{
			Expression: reconstruct(tree, first, nil),
			Count:      len(g.nodes),
			Scope:      scopeName(tree, g.scope),
			Line:       lineOf(text, span.Start),
		}

		if suggester != nil {
			if names, err := suggester.Suggest(tree, first, nil); err == nil {
				site.Name = names[0]
			}
		}

		sites = append(sites, site)
	}

	sort.SliceStable(sites, func(i, j int) bool {
		if sites[i].Line != sites[j].Line {
			return sites[i].Line < sites[j].Line
		}

		return sites[i].Expression < sites[j].Expression
	})

	return sites
}

func nestedInSameCount(tree *syntax.Tree, g *repeatGroup, owner map[syntax.NodeID]*repeatGroup) bool {
	for cur := tree.Parent(g.nodes[0]); !cur.IsZero() && cur != g.scope; cur = tree.Parent(cur) {
		if outer, ok := owner[cur]; ok && outer != g && len(outer.nodes) == len(g.nodes) {
			return true
		}
	}

	return false
}

// trivialExpression reports expressions not worth a variable: names,
// constants other than strings, and parentheses around something else.
func trivialExpression(tree *syntax.Tree, id syntax.NodeID) bool {
	typ := tree.Type(id)

	switch {
	case !pylang.IsExpression(typ):
		return true
	case typ == "identifier", typ == "parenthesized_expression", typ == "lambda":
		return true
	case typ == "string", typ == "concatenated_string":
		return len(tree.Text(id)) < 5
	case pylang.IsLiteral(typ):
		return true
	}

	return false
}

func scopeName(tree *syntax.Tree, scope syntax.NodeID) string {
	switch tree.Type(scope) {
	case "function_definition", "class_definition":
		return tree.Text(tree.ChildByField(scope, "name"))
	case "lambda":
		return "<lambda>"
	}

	return "<module>"
}
