package syntax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCall builds "f(x)" as call(identifier, argument_list("(", identifier, ")")).
func buildCall(t *testing.T, tree *Tree) NodeID {
	t.Helper()

	fn := tree.NewLeaf("identifier", KindToken, "f")
	require.NoError(t, tree.SetField(fn, "function"))

	args, err := tree.NewComposite("argument_list",
		tree.NewLeaf("(", KindToken, "("),
		tree.NewLeaf("identifier", KindToken, "x"),
		tree.NewLeaf(")", KindToken, ")"),
	)
	require.NoError(t, err)
	require.NoError(t, tree.SetField(args, "arguments"))

	call, err := tree.NewComposite("call", fn, args)
	require.NoError(t, err)

	return call
}

// buildModule builds "a = f(x)\nb = 1\n".
func buildModule(t *testing.T) (*Tree, NodeID, NodeID) {
	t.Helper()

	tree := New()

	assign, err := tree.NewComposite("assignment",
		tree.NewLeaf("identifier", KindToken, "a"),
		tree.NewLeaf(TypeWhitespace, KindWhitespace, " "),
		tree.NewLeaf("=", KindToken, "="),
		tree.NewLeaf(TypeWhitespace, KindWhitespace, " "),
		buildCall(t, tree),
	)
	require.NoError(t, err)

	first, err := tree.NewComposite("expression_statement", assign)
	require.NoError(t, err)

	second, err := tree.NewComposite("expression_statement",
		tree.NewLeaf("identifier", KindToken, "b"),
		tree.NewLeaf(TypeWhitespace, KindWhitespace, " "),
		tree.NewLeaf("=", KindToken, "="),
		tree.NewLeaf(TypeWhitespace, KindWhitespace, " "),
		tree.NewLeaf("integer", KindToken, "1"),
	)
	require.NoError(t, err)

	root, err := tree.NewComposite("module",
		first,
		tree.NewLeaf(TypeWhitespace, KindWhitespace, "\n"),
		second,
		tree.NewLeaf(TypeWhitespace, KindWhitespace, "\n"),
	)
	require.NoError(t, err)
	require.NoError(t, tree.SetRoot(root))

	return tree, first, second
}

func TestTree_Render(t *testing.T) {
	tree, first, second := buildModule(t)

	assert.Equal(t, "a = f(x)\nb = 1\n", tree.String())
	assert.Equal(t, "a = f(x)", tree.Text(first))
	assert.Equal(t, "b = 1", tree.Text(second))

	span, err := tree.Span(second)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 9, End: 14}, span)
}

func TestTree_LeafNavigation(t *testing.T) {
	tree, first, _ := buildModule(t)

	t.Run("leaf at offset", func(t *testing.T) {
		leaf := tree.LeafAt(4)
		assert.Equal(t, "f", tree.Text(leaf))

		end := tree.LeafAt(len(tree.String()))
		assert.Equal(t, "\n", tree.Text(end))

		assert.True(t, tree.LeafAt(100).IsZero())
	})

	t.Run("previous and next leaves cross composite boundaries", func(t *testing.T) {
		next := tree.NextLeaf(first)
		assert.Equal(t, "\n", tree.Text(next))

		prev := tree.PrevLeaf(tree.LeafAt(9))
		assert.Equal(t, "\n", tree.Text(prev))
	})

	t.Run("leaves in document order", func(t *testing.T) {
		var texts []string
		for _, l := range tree.Leaves(first) {
			texts = append(texts, tree.Text(l))
		}

		want := []string{"a", " ", "=", " ", "f", "(", "x", ")"}
		if diff := cmp.Diff(want, texts); diff != "" {
			t.Errorf("Leaves() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ancestors", func(t *testing.T) {
		leaf := tree.LeafAt(6)
		assert.True(t, tree.IsAncestor(first, leaf, true))
		assert.True(t, tree.IsAncestor(leaf, leaf, false))
		assert.False(t, tree.IsAncestor(leaf, leaf, true))

		call := tree.Ancestor(leaf, false, func(id NodeID) bool { return tree.Type(id) == "call" })
		assert.Equal(t, "f(x)", tree.Text(call))
	})
}

func TestTree_Mutations(t *testing.T) {
	t.Run("insert before and after keep text lossless", func(t *testing.T) {
		tree, first, second := buildModule(t)

		decl := tree.NewLeaf("text", KindToken, "t = 0")
		require.NoError(t, tree.InsertBefore(first, decl, tree.NewLeaf(TypeWhitespace, KindWhitespace, "\n")))
		require.NoError(t, tree.InsertAfter(second, tree.NewLeaf("comment", KindComment, "  # end")))

		assert.Equal(t, "t = 0\na = f(x)\nb = 1  # end\n", tree.String())
	})

	t.Run("inserting an attached node fails", func(t *testing.T) {
		tree, first, second := buildModule(t)

		err := tree.InsertBefore(second, first)
		require.ErrorIs(t, err, ErrAttached)
	})

	t.Run("replace frees the old subtree", func(t *testing.T) {
		tree, first, _ := buildModule(t)

		call := tree.Ancestor(tree.LeafAt(4), false, func(id NodeID) bool { return tree.Type(id) == "call" })
		inner := tree.LeafAt(6)
		ref := tree.NewLeaf("identifier", KindToken, "t")

		require.NoError(t, tree.Replace(call, ref))
		assert.Equal(t, "a = t", tree.Text(first))
		assert.False(t, tree.Valid(call))
		assert.False(t, tree.Valid(inner))

		_, err := tree.Span(inner)
		require.ErrorIs(t, err, ErrStale)
	})

	t.Run("freed slots are reused with a new generation", func(t *testing.T) {
		tree, _, second := buildModule(t)

		require.NoError(t, tree.Delete(second))

		fresh := tree.NewLeaf("identifier", KindToken, "z")
		assert.NotEqual(t, second, fresh)
		assert.False(t, tree.Valid(second))
		assert.True(t, tree.Valid(fresh))
	})

	t.Run("delete with layout removes the emptied line", func(t *testing.T) {
		tree, first, _ := buildModule(t)

		require.NoError(t, tree.DeleteWithLayout(first))
		assert.Equal(t, "b = 1\n", tree.String())
	})

	t.Run("normalize merges whitespace", func(t *testing.T) {
		tree, first, _ := buildModule(t)

		require.NoError(t, tree.InsertAfter(first, tree.NewLeaf(TypeWhitespace, KindWhitespace, "")))
		require.NoError(t, tree.InsertAfter(first, tree.NewLeaf(TypeWhitespace, KindWhitespace, "\n")))

		before := len(tree.Children(tree.Root()))
		tree.Normalize()

		assert.Equal(t, before-2, len(tree.Children(tree.Root())))
		assert.Equal(t, "a = f(x)\n\nb = 1\n", tree.String())
	})

	t.Run("set text rejects composites", func(t *testing.T) {
		tree, first, _ := buildModule(t)

		require.ErrorIs(t, tree.SetText(first, "x"), ErrNotLeaf)
	})
}

func TestTree_Graft(t *testing.T) {
	src := New()
	call := buildCall(t, src)

	dst, first, _ := buildModule(t)
	copied, err := dst.Graft(src, call)
	require.NoError(t, err)

	assert.Equal(t, "f(x)", dst.Text(copied))
	assert.Equal(t, "arguments", dst.Field(dst.Children(copied)[1]))

	target := dst.Ancestor(dst.LeafAt(4), false, func(id NodeID) bool { return dst.Type(id) == "call" })
	assert.True(t, Equivalent(dst, target, src, call))

	require.NoError(t, dst.Replace(target, copied))
	assert.Equal(t, "a = f(x)", dst.Text(first))
}

func TestTree_Transactions(t *testing.T) {
	t.Run("rollback restores text and invalidates new handles", func(t *testing.T) {
		tree, first, second := buildModule(t)
		before := tree.String()

		txn, err := tree.Begin()
		require.NoError(t, err)

		added := tree.NewLeaf("comment", KindComment, "# x")
		require.NoError(t, tree.InsertAfter(second, added))
		require.NoError(t, tree.Delete(first))
		require.NoError(t, txn.Rollback())

		assert.Equal(t, before, tree.String())
		assert.True(t, tree.Valid(first))
		assert.False(t, tree.Valid(added))
	})

	t.Run("commit keeps changes", func(t *testing.T) {
		tree, first, _ := buildModule(t)

		txn, err := tree.Begin()
		require.NoError(t, err)
		require.NoError(t, tree.Delete(first))
		require.NoError(t, txn.Commit())

		assert.Equal(t, "\nb = 1\n", tree.String())
		require.ErrorIs(t, txn.Rollback(), ErrTxnClosed)
	})

	t.Run("only one transaction at a time", func(t *testing.T) {
		tree, _, _ := buildModule(t)

		txn, err := tree.Begin()
		require.NoError(t, err)
		defer txn.Close()

		_, err = tree.Begin()
		require.ErrorIs(t, err, ErrTxnActive)
	})
}

func TestEquivalent(t *testing.T) {
	a := New()
	x := buildCall(t, a)

	b := New()
	fn := b.NewLeaf("identifier", KindToken, "f")
	args, err := b.NewComposite("argument_list",
		b.NewLeaf("(", KindToken, "("),
		b.NewLeaf(TypeWhitespace, KindWhitespace, " "),
		b.NewLeaf("identifier", KindToken, "x"),
		b.NewLeaf("comment", KindComment, "# c"),
		b.NewLeaf(")", KindToken, ")"),
	)
	require.NoError(t, err)
	y, err := b.NewComposite("call", fn, args)
	require.NoError(t, err)

	assert.True(t, Equivalent(a, x, b, y))
	assert.Equal(t, a.Fingerprint(x), b.Fingerprint(y))

	require.NoError(t, b.SetText(b.Children(args)[2], "z"))
	assert.False(t, Equivalent(a, x, b, y))
}
