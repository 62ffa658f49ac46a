package domain

import (
	"context"
	"strings"

	"github.com/mouse-blink/pyintroduce/internal/adapter"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"go.uber.org/zap"
)

type engineState int

const (
	stateIdle engineState = iota
	stateDeclarationBuilt
	stateInserted
	stateOccurrencesReplaced
	stateCommitted
	stateAborted
)

func (s engineState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateDeclarationBuilt:
		return "DeclarationBuilt"
	case stateInserted:
		return "Inserted"
	case stateOccurrencesReplaced:
		return "OccurrencesReplaced"
	case stateCommitted:
		return "Committed"
	case stateAborted:
		return "Aborted"
	}

	return "Unknown"
}

// engine rewrites one tree for one introduction. It is single use: once it
// reaches Committed or Aborted it refuses further runs.
type engine struct {
	tree   *syntax.Tree
	parser adapter.PythonFileAdapter
	log    *zap.Logger
	state  engineState
}

// replacement is everything the engine needs to perform an introduction.
type replacement struct {
	name        string
	place       m.InitPlace
	target      target
	occurrences []syntax.NodeID
	replaceAll  bool
	anchor      syntax.NodeID
}

// replaceOutcome holds the handles an in-place rename needs afterwards.
type replaceOutcome struct {
	declaration syntax.NodeID
	// nameLeaf is the identifier declared, the attribute name for fields.
	nameLeaf syntax.NodeID
	// references are identifier leaves reading the variable.
	references []syntax.NodeID
	// caretRef is the reference standing where the selected element was.
	caretRef syntax.NodeID
	// keyLeaves mention the name as a format key or keyword.
	keyLeaves []syntax.NodeID
}

func newEngine(tree *syntax.Tree, parser adapter.PythonFileAdapter, log *zap.Logger) *engine {
	if log == nil {
		log = zap.NewNop()
	}

	return &engine{tree: tree, parser: parser, log: log}
}

func (e *engine) transition(to engineState) {
	e.log.Debug("engine transition", zap.Stringer("from", e.state), zap.Stringer("to", to))
	e.state = to
}

func (r replacement) field() bool {
	return r.place == m.InitConstructor || r.place == m.InitSetUp
}

func (r replacement) reference() string {
	if r.field() {
		return selfName + "." + r.name
	}

	return r.name
}

// run performs the introduction inside one transaction. On any failure the
// tree is left exactly as it was.
func (e *engine) run(ctx context.Context, r replacement) (replaceOutcome, error) {
	if e.state != stateIdle {
		return replaceOutcome{}, newError(KindMalformedResult, "engine already ran (%s)", e.state)
	}

	if err := e.checkHandles(r); err != nil {
		e.transition(stateAborted)
		return replaceOutcome{}, err
	}

	hadErrors := e.tree.HasErrors()

	txn, err := e.tree.Begin()
	if err != nil {
		e.transition(stateAborted)
		return replaceOutcome{}, treeError(err)
	}
	defer txn.Close()

	out, err := e.apply(ctx, r)
	if err != nil {
		e.transition(stateAborted)
		return replaceOutcome{}, err
	}

	e.tree.Normalize()

	if !hadErrors {
		if err := e.verify(ctx); err != nil {
			e.transition(stateAborted)
			return replaceOutcome{}, err
		}
	}

	if err := txn.Commit(); err != nil {
		e.transition(stateAborted)
		return replaceOutcome{}, treeError(err)
	}

	e.transition(stateCommitted)

	return out, nil
}

func (e *engine) apply(ctx context.Context, r replacement) (replaceOutcome, error) {
	decl, nameLeaf, err := e.buildDeclaration(ctx, r)
	if err != nil {
		return replaceOutcome{}, err
	}

	e.transition(stateDeclarationBuilt)

	if err := e.insert(ctx, r, decl); err != nil {
		return replaceOutcome{}, err
	}

	e.transition(stateInserted)

	out, err := e.replaceTargets(ctx, r)
	if err != nil {
		return replaceOutcome{}, err
	}

	e.transition(stateOccurrencesReplaced)

	out.declaration = decl
	out.nameLeaf = nameLeaf

	return out, nil
}

func (e *engine) checkHandles(r replacement) error {
	handles := append([]syntax.NodeID{r.target.element, r.target.initializer, r.anchor}, r.occurrences...)
	for _, id := range handles {
		if !id.IsZero() && !e.tree.Valid(id) {
			return newError(KindStaleTreeReference, "node %s no longer exists", id)
		}
	}

	return nil
}

// buildDeclaration parses "name = initializer" and grafts it into the tree.
func (e *engine) buildDeclaration(ctx context.Context, r replacement) (syntax.NodeID, syntax.NodeID, error) {
	text := r.reference() + " = " + reconstruct(e.tree, r.target.initializer, r.target.partial)

	decl, err := e.parseStatement(ctx, text)
	if err != nil {
		return syntax.NodeID{}, syntax.NodeID{}, err
	}

	var assignment syntax.NodeID
	if sig := e.tree.SignificantChildren(decl); len(sig) == 1 && e.tree.Type(sig[0]) == "assignment" {
		assignment = sig[0]
	}

	left := e.tree.ChildByField(assignment, "left")

	switch e.tree.Type(left) {
	case "identifier":
		return decl, left, nil
	case "attribute":
		return decl, e.tree.ChildByField(left, "attribute"), nil
	}

	return syntax.NodeID{}, syntax.NodeID{}, newError(KindMalformedResult, "declaration %q is not an assignment", text)
}

func (e *engine) insert(ctx context.Context, r replacement, decl syntax.NodeID) error {
	if !r.field() {
		if r.anchor.IsZero() {
			return noExpression("no statement to insert the declaration before")
		}

		return e.insertBefore(r.anchor, decl)
	}

	class, err := checkFieldPlacement(e.tree, r.target, r.place)
	if err != nil {
		return err
	}

	return e.insertField(ctx, class, r.anchor, decl, r.target, r.place)
}

func (e *engine) replaceTargets(ctx context.Context, r replacement) (replaceOutcome, error) {
	var out replaceOutcome

	targets := r.occurrences
	if !r.replaceAll || len(targets) == 0 {
		targets = []syntax.NodeID{r.target.initializer}
	}

	for _, occ := range targets {
		if !e.tree.Valid(occ) {
			return replaceOutcome{}, newError(KindStaleTreeReference, "occurrence %s no longer exists", occ)
		}

		selected := occ == r.target.initializer

		if p := r.target.partial; p != nil && occ == p.literal {
			ref, keys, err := e.replacePartial(ctx, r, p)
			if err != nil {
				return replaceOutcome{}, err
			}

			out.references = append(out.references, ref)
			out.keyLeaves = append(out.keyLeaves, keys...)

			if selected {
				out.caretRef = ref
			}

			continue
		}

		if e.deletable(occ) {
			if err := e.tree.DeleteWithLayout(e.tree.Parent(occ)); err != nil {
				return replaceOutcome{}, treeError(err)
			}

			continue
		}

		ref, nameLeaf, err := e.newReference(r)
		if err != nil {
			return replaceOutcome{}, err
		}

		if err := e.tree.Replace(occ, ref); err != nil {
			return replaceOutcome{}, treeError(err)
		}

		out.references = append(out.references, nameLeaf)

		if selected {
			out.caretRef = nameLeaf
		}
	}

	return out, nil
}

// deletable reports whether occ is a whole expression statement whose removal
// leaves valid code behind.
func (e *engine) deletable(occ syntax.NodeID) bool {
	stmt := e.tree.Parent(occ)
	if e.tree.Type(stmt) != "expression_statement" || len(e.tree.SignificantChildren(stmt)) != 1 {
		return false
	}

	block := e.tree.Parent(stmt)
	if len(statementsOf(e.tree, block)) < 2 {
		return false
	}

	siblings := e.tree.SignificantChildren(block)

	for i, c := range siblings {
		if c != stmt {
			continue
		}

		if i > 0 && e.tree.Type(siblings[i-1]) == ";" {
			return false
		}

		if i+1 < len(siblings) && e.tree.Type(siblings[i+1]) == ";" {
			return false
		}
	}

	return true
}

// newReference builds a detached node reading the variable, returning it and
// its name leaf.
func (e *engine) newReference(r replacement) (syntax.NodeID, syntax.NodeID, error) {
	name := e.tree.NewLeaf("identifier", syntax.KindToken, r.name)
	if !r.field() {
		return name, name, nil
	}

	object := e.tree.NewLeaf("identifier", syntax.KindToken, selfName)
	dot := e.tree.NewLeaf(".", syntax.KindToken, ".")

	if err := e.tree.SetField(object, "object"); err != nil {
		return syntax.NodeID{}, syntax.NodeID{}, treeError(err)
	}

	if err := e.tree.SetField(name, "attribute"); err != nil {
		return syntax.NodeID{}, syntax.NodeID{}, treeError(err)
	}

	ref, err := e.tree.NewComposite("attribute", object, dot, name)
	if err != nil {
		return syntax.NodeID{}, syntax.NodeID{}, treeError(err)
	}

	return ref, name, nil
}

// replacePartial rewrites the literal, or the format expression owning it, so
// that the selected part is read from the variable.
func (e *engine) replacePartial(ctx context.Context, r replacement, p *partialLiteral) (syntax.NodeID, []syntax.NodeID, error) {
	text := p.splitReplacement(e.tree, r.name, r.reference())

	replaced := p.literal
	if p.format != formatNone {
		replaced = p.owner
	}

	expr, err := e.parseExpression(ctx, text)
	if err != nil {
		return syntax.NodeID{}, nil, err
	}

	if err := e.tree.Replace(replaced, expr); err != nil {
		return syntax.NodeID{}, nil, treeError(err)
	}

	var (
		ref  syntax.NodeID
		keys []syntax.NodeID
	)

	e.tree.Walk(expr, func(id syntax.NodeID) bool {
		switch e.tree.Type(id) {
		case "attribute":
			if r.field() && ref.IsZero() && e.tree.Text(id) == r.reference() {
				ref = e.tree.ChildByField(id, "attribute")
				return false
			}
		case "identifier":
			if e.tree.Text(id) != r.name {
				return true
			}

			if isNamePosition(e.tree, id) {
				keys = append(keys, id)
			} else if !r.field() && ref.IsZero() {
				ref = id
			}
		case "string":
			if mentionsKey(e.tree.Text(id), r.name) {
				keys = append(keys, id)
			}
		}

		return true
	})

	if ref.IsZero() {
		return syntax.NodeID{}, nil, newError(KindMalformedResult, "rewritten literal %q lost its reference", text)
	}

	return ref, keys, nil
}

// mentionsKey reports whether a string literal uses name as a format key or
// is the dictionary key name.
func mentionsKey(literal, name string) bool {
	if strings.Contains(literal, "{"+name+"}") || strings.Contains(literal, "%("+name+")") {
		return true
	}

	q := literalQuotes(literal)

	return literal == q.Open()+name+q.Close()
}

// renameKey rewrites the mentions of old in a string literal.
func renameKey(literal, old, name string) string {
	q := literalQuotes(literal)
	if literal == q.Open()+old+q.Close() {
		return q.Open() + name + q.Close()
	}

	literal = strings.ReplaceAll(literal, "{"+old+"}", "{"+name+"}")

	return strings.ReplaceAll(literal, "%("+old+")", "%("+name+")")
}

// verify reparses the rewritten text and rejects it when it no longer parses.
func (e *engine) verify(ctx context.Context) error {
	reparsed, err := e.parser.Parse(ctx, []byte(e.tree.String()))
	if err != nil {
		return &IntroduceError{Kind: KindMalformedResult, Message: "rewritten source could not be parsed", Cause: err}
	}

	if reparsed.HasErrors() {
		return newError(KindMalformedResult, "rewritten source has syntax errors")
	}

	return nil
}

func (e *engine) parseSnippet(ctx context.Context, text string) (*syntax.Tree, syntax.NodeID, error) {
	snippet, err := e.parser.Parse(ctx, []byte(text))
	if err != nil {
		return nil, syntax.NodeID{}, &IntroduceError{Kind: KindMalformedResult, Message: "cannot parse " + text, Cause: err}
	}

	if snippet.HasErrors() {
		return nil, syntax.NodeID{}, newError(KindMalformedResult, "generated code %q has syntax errors", text)
	}

	stmts := statementsOf(snippet, snippet.Root())
	if len(stmts) != 1 {
		return nil, syntax.NodeID{}, newError(KindMalformedResult, "generated code %q is not one statement", text)
	}

	return snippet, stmts[0], nil
}

// parseStatement parses text as a single statement and grafts it, detached,
// into the tree.
func (e *engine) parseStatement(ctx context.Context, text string) (syntax.NodeID, error) {
	snippet, stmt, err := e.parseSnippet(ctx, text)
	if err != nil {
		return syntax.NodeID{}, err
	}

	id, err := e.tree.Graft(snippet, stmt)
	if err != nil {
		return syntax.NodeID{}, treeError(err)
	}

	return id, nil
}

// parseExpression parses text as a single expression and grafts it, detached,
// into the tree.
func (e *engine) parseExpression(ctx context.Context, text string) (syntax.NodeID, error) {
	snippet, stmt, err := e.parseSnippet(ctx, text)
	if err != nil {
		return syntax.NodeID{}, err
	}

	sig := snippet.SignificantChildren(stmt)
	if snippet.Type(stmt) != "expression_statement" || len(sig) != 1 {
		return syntax.NodeID{}, newError(KindMalformedResult, "generated code %q is not an expression", text)
	}

	id, err := e.tree.Graft(snippet, sig[0])
	if err != nil {
		return syntax.NodeID{}, treeError(err)
	}

	return id, nil
}
