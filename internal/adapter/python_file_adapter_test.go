package adapter

import (
	"context"
	"testing"

	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeSitterPythonAdapter_Parse(t *testing.T) {
	adapter := NewTreeSitterPythonAdapter()

	t.Run("renders back the exact source", func(t *testing.T) {
		sources := []string{
			"def g(x):\n    a = f(x)\n    b = f(x)\n    return a + b\n",
			"# leading comment\n\nx = 'a' \\\n    'b'  # trailing\n",
			"class A:\n\tdef m(self):  pass\n",
			"",
		}

		for _, src := range sources {
			tree, err := adapter.Parse(context.Background(), []byte(src))
			require.NoError(t, err)
			assert.Equal(t, src, tree.String())
			assert.False(t, tree.HasErrors(), src)
		}
	})

	t.Run("keeps grammar fields", func(t *testing.T) {
		src := "y = f(x)\n"
		tree, err := adapter.Parse(context.Background(), []byte(src))
		require.NoError(t, err)

		leaf := tree.LeafAt(4)
		require.Equal(t, "f", tree.Text(leaf))
		assert.Equal(t, "function", tree.Field(leaf))

		call := tree.Parent(leaf)
		assert.Equal(t, "call", tree.Type(call))
		assert.Equal(t, "right", tree.Field(call))
		assert.Equal(t, "(x)", tree.Text(tree.ChildByField(call, "arguments")))
	})

	t.Run("collapses string literals and marks comments", func(t *testing.T) {
		src := "s = 'a\\n'  # note\n"
		tree, err := adapter.Parse(context.Background(), []byte(src))
		require.NoError(t, err)

		str := tree.LeafAt(5)
		assert.Equal(t, "string", tree.Type(str))
		assert.Equal(t, "'a\\n'", tree.Text(str))

		comment := tree.LeafAt(12)
		assert.Equal(t, syntax.KindComment, tree.Kind(comment))
	})

	t.Run("reports syntax errors without failing", func(t *testing.T) {
		src := "def (:\n"
		tree, err := adapter.Parse(context.Background(), []byte(src))
		require.NoError(t, err)
		assert.True(t, tree.HasErrors())
		assert.Equal(t, src, tree.String())
	})
}
