package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrLossyParse is returned when the converted tree does not render back to
// the exact input.
var ErrLossyParse = errors.New("syntax tree does not reproduce the source")

// PythonFileAdapter encapsulates Python parsing so the domain layer works on
// a lossless syntax tree without knowing which parser produced it.
type PythonFileAdapter interface {
	// Parse builds a lossless tree for src. Syntax errors do not fail the
	// parse; they are reported by Tree.HasErrors.
	Parse(ctx context.Context, src []byte) (*syntax.Tree, error)
}

// fieldNames are the grammar fields the domain looks at.
var fieldNames = []string{
	"function", "arguments", "name", "value", "left", "right", "body",
	"parameters", "object", "attribute", "condition", "alternative",
	"consequence", "operator", "argument", "type", "return_type",
	"definition", "superclasses", "key", "subscript", "alias",
	"module_name",
}

// TreeSitterPythonAdapter provides a PythonFileAdapter backed by tree-sitter.
// A single parser is reused and guarded by a mutex; use one adapter per
// goroutine for parallel parsing.
type TreeSitterPythonAdapter struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

// NewTreeSitterPythonAdapter constructs a TreeSitterPythonAdapter.
func NewTreeSitterPythonAdapter() *TreeSitterPythonAdapter {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	return &TreeSitterPythonAdapter{parser: parser}
}

// Parse converts the tree-sitter concrete syntax tree of src into a syntax.Tree.
func (a *TreeSitterPythonAdapter) Parse(ctx context.Context, src []byte) (*syntax.Tree, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ts, err := a.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse python source: %w", err)
	}
	defer ts.Close()

	root := ts.RootNode()
	b := &treeBuilder{src: src, tree: syntax.New()}

	id, err := b.build(root, 0, len(src))
	if err != nil {
		return nil, err
	}

	if err := b.tree.SetRoot(id); err != nil {
		return nil, err
	}

	b.tree.SetHasErrors(root.HasError())

	if b.tree.String() != string(src) {
		return nil, ErrLossyParse
	}

	return b.tree, nil
}

type treeBuilder struct {
	src  []byte
	tree *syntax.Tree
}

func (b *treeBuilder) build(n *sitter.Node, start, end int) (syntax.NodeID, error) {
	typ := n.Type()

	if typ == "string" || n.ChildCount() == 0 && typ != "module" {
		return b.tree.NewLeaf(typ, leafKind(typ), string(b.src[start:end])), nil
	}

	fields := b.fields(n)

	var children []syntax.NodeID

	pos := start

	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}

		cs, ce := int(c.StartByte()), int(c.EndByte())
		cs = max(cs, pos)
		ce = min(ce, end)

		if ce <= cs {
			continue
		}

		children = append(children, b.gap(pos, cs)...)

		child, err := b.build(c, cs, ce)
		if err != nil {
			return syntax.NodeID{}, err
		}

		if field, ok := fields[fieldKey(c)]; ok {
			if err := b.tree.SetField(child, field); err != nil {
				return syntax.NodeID{}, err
			}
		}

		children = append(children, child)
		pos = ce
	}

	children = append(children, b.gap(pos, end)...)

	return b.tree.NewComposite(typ, children...)
}

func (b *treeBuilder) fields(n *sitter.Node) map[string]string {
	out := make(map[string]string)

	for _, name := range fieldNames {
		c := n.ChildByFieldName(name)
		if c == nil {
			continue
		}

		if _, taken := out[fieldKey(c)]; !taken {
			out[fieldKey(c)] = name
		}
	}

	return out
}

func fieldKey(n *sitter.Node) string {
	return fmt.Sprintf("%s@%d:%d", n.Type(), n.StartByte(), n.EndByte())
}

func (b *treeBuilder) gap(start, end int) []syntax.NodeID {
	if end <= start {
		return nil
	}

	text := string(b.src[start:end])
	if strings.Trim(text, " \t\r\n\f\\") == "" {
		return []syntax.NodeID{b.tree.NewLeaf(syntax.TypeWhitespace, syntax.KindWhitespace, text)}
	}

	return []syntax.NodeID{b.tree.NewLeaf(syntax.TypeText, syntax.KindToken, text)}
}

func leafKind(typ string) syntax.Kind {
	switch typ {
	case "comment":
		return syntax.KindComment
	case "line_continuation":
		return syntax.KindWhitespace
	}

	return syntax.KindToken
}
