// Package syntax implements a lossless, arena-backed syntax tree. Node handles
// carry a generation so a handle to a deleted or replaced node is reported as
// stale instead of silently pointing at whatever reused its slot.
package syntax

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrStale is returned for handles whose node no longer exists.
	ErrStale = errors.New("stale node reference")
	// ErrAttached is returned when a node that already has a parent is inserted again.
	ErrAttached = errors.New("node is already attached")
	// ErrNotComposite is returned when children are requested from a leaf.
	ErrNotComposite = errors.New("node is not a composite")
	// ErrNotLeaf is returned when text is set on a composite.
	ErrNotLeaf = errors.New("node is not a leaf")
	// ErrDetached is returned when a position is requested for a node outside the root.
	ErrDetached = errors.New("node is not attached to the root")
)

// Kind classifies nodes independently of the grammar type.
type Kind uint8

const (
	// KindComposite nodes only carry children.
	KindComposite Kind = iota
	// KindToken leaves hold significant source text.
	KindToken
	// KindWhitespace leaves hold blanks, newlines and line continuations.
	KindWhitespace
	// KindComment leaves hold comments.
	KindComment
)

// Grammar types used for leaves synthesised from the gaps between parser nodes.
const (
	TypeWhitespace = "whitespace"
	TypeText       = "text"
)

// NodeID is a generation-checked handle into a Tree.
type NodeID struct {
	index uint32
	gen   uint64
}

// IsZero reports whether the handle was never assigned.
func (id NodeID) IsZero() bool {
	return id.gen == 0
}

func (id NodeID) String() string {
	return fmt.Sprintf("#%d.%d", id.index, id.gen)
}

// Span is a half-open byte range in the rendered tree.
type Span struct {
	Start int
	End   int
}

// Node is the payload stored in an arena slot.
type Node struct {
	Type  string
	Field string
	Kind  Kind
	Text  string

	parent   NodeID
	children []NodeID
}

// Trivia reports whether the node is whitespace or a comment.
func (n *Node) Trivia() bool {
	return n.Kind == KindWhitespace || n.Kind == KindComment
}

type slot struct {
	node Node
	gen  uint64
	live bool
}

// Tree is a mutable syntax tree. It is not safe for concurrent use.
type Tree struct {
	slots     []slot
	free      []uint32
	gen       uint64
	root      NodeID
	hasErrors bool

	version     uint64
	spanVersion uint64
	spans       []Span

	txn *Txn
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{spanVersion: ^uint64(0)}
}

func (t *Tree) touch() {
	t.version++
}

func (t *Tree) alloc(n Node) NodeID {
	t.gen++
	t.touch()

	s := slot{node: n, gen: t.gen, live: true}

	if k := len(t.free); k > 0 {
		idx := t.free[k-1]
		t.free = t.free[:k-1]
		t.slots[idx] = s

		return NodeID{index: idx, gen: t.gen}
	}

	t.slots = append(t.slots, s)

	return NodeID{index: uint32(len(t.slots) - 1), gen: t.gen}
}

func (t *Tree) lookup(id NodeID) (*Node, error) {
	if id.IsZero() || int(id.index) >= len(t.slots) {
		return nil, fmt.Errorf("%w: %s", ErrStale, id)
	}

	s := &t.slots[id.index]
	if !s.live || s.gen != id.gen {
		return nil, fmt.Errorf("%w: %s", ErrStale, id)
	}

	return &s.node, nil
}

// Valid reports whether id still refers to a live node.
func (t *Tree) Valid(id NodeID) bool {
	_, err := t.lookup(id)
	return err == nil
}

// NewLeaf allocates a detached leaf.
func (t *Tree) NewLeaf(typ string, kind Kind, text string) NodeID {
	if kind == KindComposite {
		kind = KindToken
	}

	return t.alloc(Node{Type: typ, Kind: kind, Text: text})
}

// NewComposite allocates a composite adopting the given detached children.
func (t *Tree) NewComposite(typ string, children ...NodeID) (NodeID, error) {
	for _, c := range children {
		if err := t.checkDetached(c); err != nil {
			return NodeID{}, err
		}
	}

	id := t.alloc(Node{Type: typ, Kind: KindComposite, children: slices.Clone(children)})
	for _, c := range children {
		t.slots[c.index].node.parent = id
	}

	return id, nil
}

// SetRoot makes id the root of the tree.
func (t *Tree) SetRoot(id NodeID) error {
	if err := t.checkDetached(id); err != nil {
		return err
	}

	t.root = id
	t.touch()

	return nil
}

// Root returns the root handle.
func (t *Tree) Root() NodeID {
	return t.root
}

// SetHasErrors records whether the parser reported syntax errors.
func (t *Tree) SetHasErrors(v bool) {
	t.hasErrors = v
}

// HasErrors reports whether the parser reported syntax errors.
func (t *Tree) HasErrors() bool {
	return t.hasErrors
}

// SetField records the grammar field a node occupies in its parent.
func (t *Tree) SetField(id NodeID, field string) error {
	n, err := t.lookup(id)
	if err != nil {
		return err
	}

	n.Field = field

	return nil
}

// Type returns the grammar type of id, or "" for stale handles.
func (t *Tree) Type(id NodeID) string {
	n, err := t.lookup(id)
	if err != nil {
		return ""
	}

	return n.Type
}

// Field returns the grammar field name of id within its parent.
func (t *Tree) Field(id NodeID) string {
	n, err := t.lookup(id)
	if err != nil {
		return ""
	}

	return n.Field
}

// Kind returns the kind of id. Stale handles report KindComposite.
func (t *Tree) Kind(id NodeID) Kind {
	n, err := t.lookup(id)
	if err != nil {
		return KindComposite
	}

	return n.Kind
}

// IsLeaf reports whether id is a live leaf.
func (t *Tree) IsLeaf(id NodeID) bool {
	n, err := t.lookup(id)

	return err == nil && n.Kind != KindComposite
}

// IsTrivia reports whether id is a whitespace or comment leaf.
func (t *Tree) IsTrivia(id NodeID) bool {
	n, err := t.lookup(id)

	return err == nil && n.Trivia()
}

// Parent returns the parent of id or the zero handle.
func (t *Tree) Parent(id NodeID) NodeID {
	n, err := t.lookup(id)
	if err != nil {
		return NodeID{}
	}

	return n.parent
}

// Children returns a copy of the children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	n, err := t.lookup(id)
	if err != nil {
		return nil
	}

	return slices.Clone(n.children)
}

// SignificantChildren returns the children of id that are not trivia.
func (t *Tree) SignificantChildren(id NodeID) []NodeID {
	n, err := t.lookup(id)
	if err != nil {
		return nil
	}

	out := make([]NodeID, 0, len(n.children))

	for _, c := range n.children {
		if !t.slots[c.index].node.Trivia() {
			out = append(out, c)
		}
	}

	return out
}

// ChildByField returns the first child of id occupying field.
func (t *Tree) ChildByField(id NodeID, field string) NodeID {
	n, err := t.lookup(id)
	if err != nil {
		return NodeID{}
	}

	for _, c := range n.children {
		if t.slots[c.index].node.Field == field {
			return c
		}
	}

	return NodeID{}
}

// Text renders the source text of the subtree rooted at id.
func (t *Tree) Text(id NodeID) string {
	if !t.Valid(id) {
		return ""
	}

	var b strings.Builder

	t.render(&b, id)

	return b.String()
}

func (t *Tree) render(b *strings.Builder, id NodeID) {
	n := &t.slots[id.index].node
	if n.Kind != KindComposite {
		b.WriteString(n.Text)
		return
	}

	for _, c := range n.children {
		t.render(b, c)
	}
}

// String renders the whole tree.
func (t *Tree) String() string {
	return t.Text(t.root)
}

// Walk visits the subtree rooted at id in pre-order. Returning false from fn
// skips the children of the visited node.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	n, err := t.lookup(id)
	if err != nil {
		return
	}

	if !fn(id) {
		return
	}

	for _, c := range slices.Clone(n.children) {
		t.Walk(c, fn)
	}
}

// IsAncestor reports whether ancestor encloses id. With strict set a node is
// not its own ancestor.
func (t *Tree) IsAncestor(ancestor, id NodeID, strict bool) bool {
	cur := id
	if strict {
		cur = t.Parent(cur)
	}

	for !cur.IsZero() {
		if cur == ancestor {
			return true
		}

		cur = t.Parent(cur)
	}

	return false
}

// Ancestor returns the nearest ancestor of id for which match returns true.
func (t *Tree) Ancestor(id NodeID, strict bool, match func(NodeID) bool) NodeID {
	cur := id
	if strict {
		cur = t.Parent(cur)
	}

	for !cur.IsZero() {
		if match(cur) {
			return cur
		}

		cur = t.Parent(cur)
	}

	return NodeID{}
}

// Leaves returns the leaves of the subtree rooted at id in document order.
func (t *Tree) Leaves(id NodeID) []NodeID {
	var out []NodeID

	t.Walk(id, func(n NodeID) bool {
		if t.IsLeaf(n) {
			out = append(out, n)
		}

		return true
	})

	return out
}

func (t *Tree) firstLeaf(id NodeID) NodeID {
	n := &t.slots[id.index].node
	if n.Kind != KindComposite {
		return id
	}

	for _, c := range n.children {
		if l := t.firstLeaf(c); !l.IsZero() {
			return l
		}
	}

	return NodeID{}
}

func (t *Tree) lastLeaf(id NodeID) NodeID {
	n := &t.slots[id.index].node
	if n.Kind != KindComposite {
		return id
	}

	for i := len(n.children) - 1; i >= 0; i-- {
		if l := t.lastLeaf(n.children[i]); !l.IsZero() {
			return l
		}
	}

	return NodeID{}
}

// NextLeaf returns the first leaf following the subtree of id in document order.
func (t *Tree) NextLeaf(id NodeID) NodeID {
	cur := id

	for {
		p, idx, err := t.indexInParent(cur)
		if err != nil {
			return NodeID{}
		}

		siblings := t.slots[p.index].node.children
		for i := idx + 1; i < len(siblings); i++ {
			if l := t.firstLeaf(siblings[i]); !l.IsZero() {
				return l
			}
		}

		cur = p
	}
}

// PrevLeaf returns the last leaf preceding the subtree of id in document order.
func (t *Tree) PrevLeaf(id NodeID) NodeID {
	cur := id

	for {
		p, idx, err := t.indexInParent(cur)
		if err != nil {
			return NodeID{}
		}

		siblings := t.slots[p.index].node.children
		for i := idx - 1; i >= 0; i-- {
			if l := t.lastLeaf(siblings[i]); !l.IsZero() {
				return l
			}
		}

		cur = p
	}
}

func (t *Tree) layout() {
	if t.spanVersion == t.version {
		return
	}

	spans := make([]Span, len(t.slots))
	for i := range spans {
		spans[i] = Span{Start: -1, End: -1}
	}

	offset := 0

	var visit func(id NodeID)
	visit = func(id NodeID) {
		n := &t.slots[id.index].node
		start := offset

		if n.Kind != KindComposite {
			offset += len(n.Text)
		} else {
			for _, c := range n.children {
				visit(c)
			}
		}

		spans[id.index] = Span{Start: start, End: offset}
	}

	if t.Valid(t.root) {
		visit(t.root)
	}

	t.spans = spans
	t.spanVersion = t.version
}

// Span returns the byte range of id in the rendered tree.
func (t *Tree) Span(id NodeID) (Span, error) {
	if _, err := t.lookup(id); err != nil {
		return Span{}, err
	}

	t.layout()

	s := t.spans[id.index]
	if s.Start < 0 {
		return Span{}, fmt.Errorf("%w: %s", ErrDetached, id)
	}

	return s, nil
}

// LeafAt returns the non-empty leaf containing offset. An offset at the end of
// the text resolves to the last leaf.
func (t *Tree) LeafAt(offset int) NodeID {
	if !t.Valid(t.root) {
		return NodeID{}
	}

	t.layout()

	cur := t.root

	for {
		n := &t.slots[cur.index].node
		if n.Kind != KindComposite {
			return cur
		}

		next := NodeID{}

		for _, c := range n.children {
			s := t.spans[c.index]
			if s.Start <= offset && offset < s.End {
				next = c
				break
			}
		}

		if next.IsZero() {
			if s := t.spans[t.root.index]; offset == s.End && s.End > 0 {
				return t.lastLeaf(t.root)
			}

			return NodeID{}
		}

		cur = next
	}
}

func (t *Tree) checkDetached(id NodeID) error {
	n, err := t.lookup(id)
	if err != nil {
		return err
	}

	if !n.parent.IsZero() || id == t.root {
		return fmt.Errorf("%w: %s", ErrAttached, id)
	}

	return nil
}

func (t *Tree) indexInParent(id NodeID) (NodeID, int, error) {
	n, err := t.lookup(id)
	if err != nil {
		return NodeID{}, 0, err
	}

	if n.parent.IsZero() {
		return NodeID{}, 0, fmt.Errorf("%w: %s", ErrDetached, id)
	}

	p := &t.slots[n.parent.index].node

	idx := slices.Index(p.children, id)
	if idx < 0 {
		return NodeID{}, 0, fmt.Errorf("%w: %s missing from parent", ErrStale, id)
	}

	return n.parent, idx, nil
}

// InsertBefore inserts detached nodes immediately before anchor.
func (t *Tree) InsertBefore(anchor NodeID, ids ...NodeID) error {
	p, idx, err := t.indexInParent(anchor)
	if err != nil {
		return err
	}

	return t.insertAt(p, idx, ids)
}

// InsertAfter inserts detached nodes immediately after anchor.
func (t *Tree) InsertAfter(anchor NodeID, ids ...NodeID) error {
	p, idx, err := t.indexInParent(anchor)
	if err != nil {
		return err
	}

	return t.insertAt(p, idx+1, ids)
}

// Append adds detached nodes as the last children of parent.
func (t *Tree) Append(parent NodeID, ids ...NodeID) error {
	n, err := t.lookup(parent)
	if err != nil {
		return err
	}

	return t.insertAt(parent, len(n.children), ids)
}

func (t *Tree) insertAt(parent NodeID, idx int, ids []NodeID) error {
	pn, err := t.lookup(parent)
	if err != nil {
		return err
	}

	if pn.Kind != KindComposite {
		return fmt.Errorf("%w: %s", ErrNotComposite, parent)
	}

	for _, id := range ids {
		if err := t.checkDetached(id); err != nil {
			return err
		}
	}

	for _, id := range ids {
		t.slots[id.index].node.parent = parent
	}

	pn.children = slices.Insert(pn.children, idx, ids...)
	t.touch()

	return nil
}

// Replace puts the detached node repl in the place of old and frees old.
func (t *Tree) Replace(old, repl NodeID) error {
	if err := t.checkDetached(repl); err != nil {
		return err
	}

	if old == t.root {
		t.release(old)
		t.root = repl
		t.touch()

		return nil
	}

	p, idx, err := t.indexInParent(old)
	if err != nil {
		return err
	}

	t.slots[p.index].node.children[idx] = repl
	t.slots[repl.index].node.parent = p
	t.slots[repl.index].node.Field = t.slots[old.index].node.Field
	t.release(old)
	t.touch()

	return nil
}

// Delete removes id and its subtree.
func (t *Tree) Delete(id NodeID) error {
	p, idx, err := t.indexInParent(id)
	if err != nil {
		return err
	}

	pn := &t.slots[p.index].node
	pn.children = slices.Delete(pn.children, idx, idx+1)
	t.release(id)
	t.touch()

	return nil
}

// DeleteWithLayout removes id and, when it sat on a line of its own, the line
// break and indentation that would otherwise leave a blank line behind.
func (t *Tree) DeleteWithLayout(id NodeID) error {
	prev := t.PrevLeaf(id)
	next := t.NextLeaf(id)

	if err := t.Delete(id); err != nil {
		return err
	}

	if next.IsZero() || t.Kind(next) != KindWhitespace {
		return nil
	}

	nextText := t.slots[next.index].node.Text

	j := strings.IndexByte(nextText, '\n')
	if j < 0 || strings.TrimSpace(nextText[:j]) != "" {
		return nil
	}

	switch {
	case prev.IsZero():
		return t.SetText(next, nextText[j+1:])
	case t.Kind(prev) == KindWhitespace:
		prevText := t.slots[prev.index].node.Text

		i := strings.LastIndexByte(prevText, '\n')
		if i < 0 {
			return nil
		}

		if err := t.SetText(prev, prevText[:i+1]); err != nil {
			return err
		}

		return t.SetText(next, nextText[j+1:])
	}

	return nil
}

// SetText replaces the text of a leaf.
func (t *Tree) SetText(id NodeID, text string) error {
	n, err := t.lookup(id)
	if err != nil {
		return err
	}

	if n.Kind == KindComposite {
		return fmt.Errorf("%w: %s", ErrNotLeaf, id)
	}

	n.Text = text
	t.touch()

	return nil
}

func (t *Tree) release(id NodeID) {
	n := &t.slots[id.index].node
	for _, c := range n.children {
		t.release(c)
	}

	t.slots[id.index].live = false
	t.slots[id.index].node = Node{}
	t.free = append(t.free, id.index)
}

// Graft copies the subtree rooted at id in src into t and returns the
// detached copy.
func (t *Tree) Graft(src *Tree, id NodeID) (NodeID, error) {
	n, err := src.lookup(id)
	if err != nil {
		return NodeID{}, err
	}

	if n.Kind != KindComposite {
		leaf := t.alloc(Node{Type: n.Type, Field: n.Field, Kind: n.Kind, Text: n.Text})
		return leaf, nil
	}

	children := make([]NodeID, 0, len(n.children))

	for _, c := range slices.Clone(n.children) {
		cc, err := t.Graft(src, c)
		if err != nil {
			return NodeID{}, err
		}

		children = append(children, cc)
	}

	copied, err := t.NewComposite(n.Type, children...)
	if err != nil {
		return NodeID{}, err
	}

	t.slots[copied.index].node.Field = src.slots[id.index].node.Field

	return copied, nil
}

// Normalize merges adjacent whitespace siblings and drops empty whitespace or
// text leaves.
func (t *Tree) Normalize() {
	var composites []NodeID

	t.Walk(t.root, func(id NodeID) bool {
		if !t.IsLeaf(id) {
			composites = append(composites, id)
		}

		return true
	})

	for _, id := range composites {
		n, err := t.lookup(id)
		if err != nil {
			continue
		}

		kept := n.children[:0:0]

		for _, c := range n.children {
			cn := &t.slots[c.index].node

			if cn.Text == "" && (cn.Kind == KindWhitespace || cn.Type == TypeText) {
				t.release(c)
				continue
			}

			if cn.Kind == KindWhitespace && len(kept) > 0 {
				last := &t.slots[kept[len(kept)-1].index].node
				if last.Kind == KindWhitespace {
					last.Text += cn.Text
					t.release(c)

					continue
				}
			}

			kept = append(kept, c)
		}

		n.children = kept
	}

	t.touch()
}
