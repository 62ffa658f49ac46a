package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/mouse-blink/pyintroduce/internal/domain/pylang"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"go.uber.org/zap"
)

// SessionState is the lifecycle position of a Session.
type SessionState int

const (
	// SessionAwaitingTarget waits for the expression to use at a caret.
	SessionAwaitingTarget SessionState = iota
	// SessionAwaitingReplaceChoice waits for replace-all or this-one.
	SessionAwaitingReplaceChoice
	// SessionAwaitingName waits for the dialog answers.
	SessionAwaitingName
	// SessionInplace has applied the edit and still accepts renames.
	SessionInplace
	// SessionFinished is done; Result holds the edit.
	SessionFinished
	// SessionAborted ended without an edit.
	SessionAborted
)

func (s SessionState) String() string {
	switch s {
	case SessionAwaitingTarget:
		return "AwaitingTarget"
	case SessionAwaitingReplaceChoice:
		return "AwaitingReplaceChoice"
	case SessionAwaitingName:
		return "AwaitingName"
	case SessionInplace:
		return "Inplace"
	case SessionFinished:
		return "Finished"
	case SessionAborted:
		return "Aborted"
	}

	return "Unknown"
}

// Session is one introduction in progress. It is not safe for concurrent use.
type Session struct {
	ID string

	intro *Introducer
	doc   m.Document
	tree  *syntax.Tree
	opts  Options
	log   *zap.Logger

	state   SessionState
	pending *m.ChoiceRequest

	candidates  []syntax.NodeID
	target      target
	occurrences []syntax.NodeID
	names       []string
	replaceAll  bool
	place       m.InitPlace
	name        string

	outcome replaceOutcome
}

func newSession(in *Introducer, doc m.Document, tree *syntax.Tree, opts Options) *Session {
	id := uuid.NewString()

	return &Session{
		ID:    id,
		intro: in,
		doc:   doc,
		tree:  tree,
		opts:  opts,
		log:   in.log.With(zap.String("session", id), zap.String("path", string(doc.Path))),
		place: opts.InitPlace,
		name:  opts.Name,
	}
}

// State reports where the session is in its lifecycle.
func (s *Session) State() SessionState {
	return s.state
}

// Pending returns the open question, or nil when none is waiting.
func (s *Session) Pending() *m.ChoiceRequest {
	return s.pending
}

func (s *Session) setState(to SessionState) {
	s.log.Debug("session transition", zap.Stringer("from", s.state), zap.Stringer("to", to))
	s.state = to
}

func (s *Session) start(ctx context.Context, sel m.Span) error {
	if !sel.Empty() {
		t, err := resolveSelection(s.tree, sel)
		if err != nil {
			return err
		}

		return s.prepare(ctx, t)
	}

	candidates, err := caretCandidates(s.tree, sel.Start)
	if err != nil {
		return err
	}

	switch {
	case len(candidates) == 0:
		line := lineSelection(s.tree.String(), sel.Start)
		if line.Empty() {
			return noExpression("nothing to introduce at offset %d", sel.Start)
		}

		t, err := resolveSelection(s.tree, line)
		if err != nil {
			return err
		}

		return s.prepare(ctx, t)
	case len(candidates) == 1 || s.opts.AutoChoose:
		t, err := newTarget(s.tree, candidates[0], nil)
		if err != nil {
			return err
		}

		return s.prepare(ctx, t)
	}

	s.candidates = candidates
	text := s.tree.String()

	req := &m.ChoiceRequest{Kind: m.ChooseTarget, Path: s.doc.Path}
	for _, c := range candidates {
		req.Targets = append(req.Targets, candidate(s.tree, text, c))
	}

	s.pending = req
	s.setState(SessionAwaitingTarget)

	return nil
}

// prepare computes occurrences and names for t and moves on to the next
// question, or performs the edit when nothing is left to ask.
func (s *Session) prepare(ctx context.Context, t target) error {
	if name, ok := innerBinding(s.tree, t.initializer); ok {
		return noExpression("%q is bound inside the expression's lambda or comprehension", name)
	}

	s.target = t
	s.occurrences = occurrencesOf(s.tree, t)

	names, err := s.intro.suggester.Suggest(s.tree, t.initializer, t.partial)
	if err != nil {
		return err
	}

	s.names = names

	switch {
	case len(s.occurrences) <= 1:
		s.replaceAll = false
	case s.opts.ReplaceAll != nil:
		s.replaceAll = *s.opts.ReplaceAll
	default:
		s.replaceAll = true
	}

	s.log.Debug("target resolved",
		zap.String("expression", reconstruct(s.tree, t.initializer, t.partial)),
		zap.Int("occurrences", len(s.occurrences)),
		zap.Strings("names", names))

	if s.opts.Dialog {
		text := s.tree.String()

		req := &m.ChoiceRequest{
			Kind:       m.ConfirmName,
			Path:       s.doc.Path,
			Names:      s.offeredNames(),
			InitPlaces: availablePlaces(s.tree, t),
			ReplaceAll: s.replaceAll,
		}

		for _, occ := range s.occurrences {
			req.Occurrences = append(req.Occurrences, candidate(s.tree, text, occ))
		}

		s.pending = req
		s.setState(SessionAwaitingName)

		return nil
	}

	if len(s.occurrences) > 1 && s.opts.ReplaceAll == nil {
		text := s.tree.String()

		req := &m.ChoiceRequest{Kind: m.ChooseOccurrences, Path: s.doc.Path, ReplaceAll: true}
		for _, occ := range s.occurrences {
			req.Occurrences = append(req.Occurrences, candidate(s.tree, text, occ))
		}

		s.pending = req
		s.setState(SessionAwaitingReplaceChoice)

		return nil
	}

	return s.perform(ctx)
}

func (s *Session) offeredNames() []string {
	if s.name == "" {
		return s.names
	}

	out := []string{s.name}

	for _, n := range s.names {
		if n != s.name {
			out = append(out, n)
		}
	}

	return out
}

// Resume answers the pending request and continues the session.
func (s *Session) Resume(ctx context.Context, choice m.Choice) error {
	if s.pending == nil {
		return withLocation(newError(KindNoPendingChoice, "session is %s", s.state), s.doc.Path, 0)
	}

	s.pending = nil

	err := s.resume(ctx, choice)
	if err != nil {
		s.abort()
		return withLocation(err, s.doc.Path, 0)
	}

	return nil
}

func (s *Session) resume(ctx context.Context, choice m.Choice) error {
	switch s.state {
	case SessionAwaitingTarget:
		if choice.Target < 0 || choice.Target >= len(s.candidates) {
			return noExpression("target %d is not one of the %d offered", choice.Target, len(s.candidates))
		}

		t, err := newTarget(s.tree, s.candidates[choice.Target], nil)
		if err != nil {
			return err
		}

		return s.prepare(ctx, t)
	case SessionAwaitingReplaceChoice:
		s.replaceAll = choice.ReplaceAll

		return s.perform(ctx)
	case SessionAwaitingName:
		if choice.Name != "" {
			s.name = choice.Name
		}

		if choice.InitPlace != "" {
			s.place = choice.InitPlace
		}

		s.replaceAll = choice.ReplaceAll && len(s.occurrences) > 1

		return s.perform(ctx)
	}

	return newError(KindNoPendingChoice, "session is %s", s.state)
}

// perform runs the replacement engine with the decided name, placement and
// occurrences.
func (s *Session) perform(ctx context.Context) error {
	name := s.name
	if name == "" {
		name = s.names[0]
	}

	if !pylang.IsIdentifier(name) || pylang.IsReserved(name) {
		return newError(KindNoAcceptableName, "%q is not a valid variable name", name)
	}

	if !s.intro.suggester.validator.Check(name, s.tree, s.target.initializer) {
		return newError(KindNoAcceptableName, "%q is already used here", name)
	}

	if !s.place.Valid() {
		return newError(KindInvalidInitPlace, "unknown placement %q", s.place)
	}

	s.name = name

	if !s.opts.Dialog {
		if err := s.intro.register(s); err != nil {
			return err
		}
	}

	anchored := s.occurrences
	if !s.replaceAll {
		anchored = []syntax.NodeID{s.target.initializer}
		if s.target.partial != nil {
			anchored = []syntax.NodeID{s.target.partial.literal}
		}
	}

	r := replacement{
		name:        name,
		place:       s.place,
		target:      s.target,
		occurrences: s.occurrences,
		replaceAll:  s.replaceAll,
		anchor:      FindAnchor(s.tree, anchored),
	}

	out, err := newEngine(s.tree, s.intro.parser, s.log).run(ctx, r)
	if err != nil {
		return err
	}

	s.outcome = out

	s.log.Debug("introduced variable",
		zap.String("name", name),
		zap.Bool("replace_all", s.replaceAll),
		zap.Int("references", len(out.references)))

	if s.opts.Dialog {
		s.setState(SessionFinished)
	} else {
		s.setState(SessionInplace)
	}

	return nil
}

// Result describes the edit once the session is Inplace or Finished.
func (s *Session) Result() (*m.IntroduceResult, error) {
	if s.state != SessionInplace && s.state != SessionFinished {
		return nil, withLocation(newError(KindNoPendingChoice, "session is %s", s.state), s.doc.Path, 0)
	}

	declSpan, err := s.tree.Span(s.outcome.declaration)
	if err != nil {
		return nil, treeError(err)
	}

	res := &m.IntroduceResult{
		Path:            s.doc.Path,
		Content:         []byte(s.tree.String()),
		Name:            s.name,
		Declaration:     s.tree.Text(s.outcome.declaration),
		DeclarationSpan: m.Span{Start: declSpan.Start, End: declSpan.End},
		InitPlace:       s.place,
	}

	for _, ref := range s.outcome.references {
		span, err := s.tree.Span(referenceNode(s.tree, ref))
		if err != nil {
			return nil, treeError(err)
		}

		res.References = append(res.References, m.Span{Start: span.Start, End: span.End})
	}

	caret := s.outcome.caretRef
	if caret.IsZero() {
		caret = s.outcome.nameLeaf
	}

	span, err := s.tree.Span(caret)
	if err != nil {
		return nil, treeError(err)
	}

	res.Caret = span.Start

	return res, nil
}

// referenceNode returns the whole self.name attribute for a field reference.
func referenceNode(tree *syntax.Tree, leaf syntax.NodeID) syntax.NodeID {
	if parent := tree.Parent(leaf); tree.Type(parent) == "attribute" && tree.Field(leaf) == "attribute" {
		return parent
	}

	return leaf
}

// Rename changes the name of the variable introduced in place. The
// declaration, every reference and every format key follow in one
// transaction.
func (s *Session) Rename(name string) error {
	if s.state != SessionInplace {
		return withLocation(newError(KindNoPendingChoice, "cannot rename in state %s", s.state), s.doc.Path, 0)
	}

	if name == s.name {
		return nil
	}

	if !pylang.IsIdentifier(name) || pylang.IsReserved(name) || !s.intro.suggester.validator.Check(name, s.tree, s.outcome.nameLeaf) {
		return withLocation(newError(KindNoAcceptableName, "%q cannot name the variable here", name), s.doc.Path, 0)
	}

	txn, err := s.tree.Begin()
	if err != nil {
		return treeError(err)
	}
	defer txn.Close()

	leaves := append([]syntax.NodeID{s.outcome.nameLeaf}, s.outcome.references...)
	for _, id := range leaves {
		if err := s.tree.SetText(id, name); err != nil {
			return withLocation(treeError(err), s.doc.Path, 0)
		}
	}

	for _, id := range s.outcome.keyLeaves {
		text := name
		if s.tree.Type(id) == "string" {
			text = renameKey(s.tree.Text(id), s.name, name)
		}

		if err := s.tree.SetText(id, text); err != nil {
			return withLocation(treeError(err), s.doc.Path, 0)
		}
	}

	if err := txn.Commit(); err != nil {
		return treeError(err)
	}

	s.log.Debug("renamed variable", zap.String("from", s.name), zap.String("to", name))
	s.name = name

	return nil
}

// Finish ends an in-place session, keeping the edit.
func (s *Session) Finish() {
	if s.state == SessionInplace {
		s.setState(SessionFinished)
	}

	s.intro.release(s)
}

// Cancel abandons a session waiting for a choice. An in-place session keeps
// its edit and simply finishes.
func (s *Session) Cancel() {
	if s.state == SessionInplace {
		s.Finish()
		return
	}

	if s.state != SessionFinished {
		s.abort()
	}
}

func (s *Session) abort() {
	s.pending = nil
	s.setState(SessionAborted)
	s.intro.release(s)
}
