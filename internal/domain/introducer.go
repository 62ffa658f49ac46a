package domain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/mouse-blink/pyintroduce/internal/adapter"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"go.uber.org/zap"
)

// Options tune a single invocation.
type Options struct {
	// Name overrides the first suggestion.
	Name string
	// ReplaceAll presets the occurrence choice; nil means ask when there is
	// more than one occurrence.
	ReplaceAll *bool
	InitPlace  m.InitPlace
	// Dialog asks for name, replace-all and placement up front instead of
	// introducing in place with the first suggestion.
	Dialog bool
	// AutoChoose picks the innermost expression at a caret instead of asking.
	AutoChoose bool
}

// Introducer starts introduce-variable sessions. At most one in-place
// session may be open per document.
type Introducer struct {
	parser    adapter.PythonFileAdapter
	suggester *NameSuggester
	log       *zap.Logger

	mu     sync.Mutex
	active map[m.Path]*Session
}

// NewIntroducer creates an Introducer. A nil suggester uses the default
// validators and name; a nil logger logs nothing.
func NewIntroducer(parser adapter.PythonFileAdapter, suggester *NameSuggester, log *zap.Logger) *Introducer {
	if suggester == nil {
		suggester = NewNameSuggester(DefaultValidator(), DefaultName, DefaultMaxSuffix)
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Introducer{
		parser:    parser,
		suggester: suggester,
		log:       log,
		active:    make(map[m.Path]*Session),
	}
}

// Invoke starts an introduction on doc. An empty selection is a caret at
// sel.Start. The returned session either has finished, or is waiting for a
// choice reported by Pending.
func (in *Introducer) Invoke(ctx context.Context, doc m.Document, sel m.Span, opts Options) (*Session, error) {
	if doc.ReadOnly {
		return nil, withLocation(newError(KindReadOnlyTarget, "file is read-only"), doc.Path, sel.Start)
	}

	if err := in.checkIdle(doc.Path, nil); err != nil {
		return nil, err
	}

	if opts.InitPlace == "" {
		opts.InitPlace = m.InitSameScope
	}

	if !opts.InitPlace.Valid() {
		return nil, withLocation(newError(KindInvalidInitPlace, "unknown placement %q", opts.InitPlace), doc.Path, sel.Start)
	}

	tree, err := in.parser.Parse(ctx, doc.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", doc.Path, err)
	}

	s := newSession(in, doc, tree, opts)
	s.log.Debug("introduce invoked", zap.Int("start", sel.Start), zap.Int("end", sel.End))

	if err := s.start(ctx, sel); err != nil {
		s.abort()
		return nil, withLocation(err, doc.Path, sel.Start)
	}

	return s, nil
}

// Analyze resolves the selection and reports what an introduction would do
// without changing anything.
func (in *Introducer) Analyze(ctx context.Context, doc m.Document, sel m.Span) (*m.Suggestion, error) {
	tree, err := in.parser.Parse(ctx, doc.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", doc.Path, err)
	}

	t, err := resolveAny(tree, sel)
	if err != nil {
		return nil, withLocation(err, doc.Path, sel.Start)
	}

	if name, ok := innerBinding(tree, t.initializer); ok {
		return nil, withLocation(noExpression("%q is bound inside the expression's lambda or comprehension", name), doc.Path, sel.Start)
	}

	occurrences := occurrencesOf(tree, t)

	names, err := in.suggester.Suggest(tree, t.initializer, t.partial)
	if err != nil {
		return nil, withLocation(err, doc.Path, sel.Start)
	}

	text := tree.String()
	out := &m.Suggestion{
		Path:   doc.Path,
		Target: candidate(tree, text, t.element),
		Names:  names,
	}

	if t.partial != nil {
		out.Target.Text = t.partial.substring()
	}

	for _, occ := range occurrences {
		out.Occurrences = append(out.Occurrences, candidate(tree, text, occ))
	}

	if anchor := FindAnchor(tree, occurrences); !anchor.IsZero() {
		if span, err := tree.Span(anchor); err == nil {
			out.AnchorLine = lineOf(text, span.Start)
		}
	}

	out.Type, _ = in.suggester.inferrer.Infer(tree, t.initializer)

	return out, nil
}

// resolveAny resolves a selection, or the innermost expression at a caret,
// falling back to the caret's line.
func resolveAny(tree *syntax.Tree, sel m.Span) (target, error) {
	if !sel.Empty() {
		return resolveSelection(tree, sel)
	}

	candidates, err := caretCandidates(tree, sel.Start)
	if err != nil {
		return target{}, err
	}

	if len(candidates) > 0 {
		return newTarget(tree, candidates[0], nil)
	}

	line := lineSelection(tree.String(), sel.Start)
	if line.Empty() {
		return target{}, noExpression("nothing to introduce at offset %d", sel.Start)
	}

	return resolveSelection(tree, line)
}

func (in *Introducer) checkIdle(path m.Path, self *Session) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if s, ok := in.active[path]; ok && s != self {
		return withLocation(newError(KindIntroduceInProgress, "introduction %s is still open", s.ID), path, 0)
	}

	return nil
}

func (in *Introducer) register(s *Session) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if other, ok := in.active[s.doc.Path]; ok && other != s {
		return withLocation(newError(KindIntroduceInProgress, "introduction %s is still open", other.ID), s.doc.Path, 0)
	}

	in.active[s.doc.Path] = s

	return nil
}

func (in *Introducer) release(s *Session) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.active[s.doc.Path] == s {
		delete(in.active, s.doc.Path)
	}
}

// occurrencesOf returns the occurrences of the target's initializer in its
// scope. A partial literal selection only ever replaces its own literal.
func occurrencesOf(tree *syntax.Tree, t target) []syntax.NodeID {
	if t.partial != nil {
		return []syntax.NodeID{t.partial.literal}
	}

	scope := scopeOwner(tree, t.initializer)
	if scope.IsZero() {
		scope = tree.Root()
	}

	out := FindOccurrences(tree, t.initializer, scope)
	out = slices.DeleteFunc(out, func(occ syntax.NodeID) bool {
		_, bound := innerBinding(tree, occ)
		return occ != t.initializer && bound
	})

	if len(out) == 0 {
		out = []syntax.NodeID{t.initializer}
	}

	return out
}

// availablePlaces lists the placements t can use: fields need a method of a
// class, and set-up needs a test case.
func availablePlaces(tree *syntax.Tree, t target) []m.InitPlace {
	places := []m.InitPlace{m.InitSameScope}

	class := methodClass(tree, t.initializer)
	if class.IsZero() {
		return places
	}

	places = append(places, m.InitConstructor)

	if strings.Contains(tree.Text(tree.ChildByField(class, "superclasses")), "TestCase") {
		places = append(places, m.InitSetUp)
	}

	return places
}

func candidate(tree *syntax.Tree, text string, id syntax.NodeID) m.Candidate {
	span, _ := tree.Span(id)

	return m.Candidate{
		Text: reconstruct(tree, id, nil),
		Span: m.Span{Start: span.Start, End: span.End},
		Line: lineOf(text, span.Start),
	}
}

// withLocation records where an IntroduceError happened when it does not say
// already.
func withLocation(err error, path m.Path, offset int) error {
	var ie *IntroduceError
	if errors.As(err, &ie) && ie.Path == "" {
		ie.Path = path
		ie.Offset = offset
	}

	return err
}
