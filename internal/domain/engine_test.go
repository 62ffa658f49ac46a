package domain

import (
	"context"
	"testing"

	"github.com/mouse-blink/pyintroduce/internal/adapter"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestEngine(t *testing.T, tree *syntax.Tree) *engine {
	t.Helper()

	return newEngine(tree, adapter.NewTreeSitterPythonAdapter(), zaptest.NewLogger(t))
}

func TestEngine_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("declares the variable and replaces every occurrence", func(t *testing.T) {
		src := "x = f(1)\ny = f(1)\n"
		tree := parse(t, src)
		first := nodeAt(t, tree, "f(1)", 0)
		second := nodeAt(t, tree, "f(1)", 1)
		occurrences := []syntax.NodeID{first, second}

		e := newTestEngine(t, tree)
		out, err := e.run(ctx, replacement{
			name:        "v",
			target:      target{element: first, initializer: first},
			occurrences: occurrences,
			replaceAll:  true,
			anchor:      FindAnchor(tree, occurrences),
		})
		require.NoError(t, err)

		assert.Equal(t, "v = f(1)\nx = v\ny = v\n", tree.String())
		assert.Equal(t, stateCommitted, e.state)
		assert.Len(t, out.references, 2)
		assert.Equal(t, "v", tree.Text(out.nameLeaf))
		assert.Equal(t, "v", tree.Text(out.caretRef))
	})

	t.Run("replaces only the selected occurrence", func(t *testing.T) {
		src := "x = f(1)\ny = f(1)\n"
		tree := parse(t, src)
		first := nodeAt(t, tree, "f(1)", 0)
		second := nodeAt(t, tree, "f(1)", 1)

		_, err := newTestEngine(t, tree).run(ctx, replacement{
			name:        "v",
			target:      target{element: second, initializer: second},
			occurrences: []syntax.NodeID{first, second},
			anchor:      FindAnchor(tree, []syntax.NodeID{second}),
		})
		require.NoError(t, err)

		assert.Equal(t, "x = f(1)\nv = f(1)\ny = v\n", tree.String())
	})

	t.Run("fails on a stale handle without touching the tree", func(t *testing.T) {
		src := "x = f(1)\ny = g(2)\n"
		tree := parse(t, src)
		occ := nodeAt(t, tree, "g(2)", 0)
		anchor := FindAnchor(tree, []syntax.NodeID{occ})

		require.NoError(t, tree.Replace(occ, tree.NewLeaf("identifier", syntax.KindToken, "z")))
		before := tree.String()

		e := newTestEngine(t, tree)
		_, err := e.run(ctx, replacement{
			name:        "v",
			target:      target{element: occ, initializer: occ},
			occurrences: []syntax.NodeID{occ},
			anchor:      anchor,
		})
		require.ErrorIs(t, err, ErrStaleTreeReference)

		assert.Equal(t, before, tree.String())
		assert.Equal(t, stateAborted, e.state)
	})

	t.Run("rolls back a half-done replacement", func(t *testing.T) {
		src := "x = f(f(1))\n"
		tree := parse(t, src)
		outer := nodeAt(t, tree, "f(f(1))", 0)
		inner := nodeAt(t, tree, "f(1)", 0)
		occurrences := []syntax.NodeID{outer, inner}

		_, err := newTestEngine(t, tree).run(ctx, replacement{
			name:        "v",
			target:      target{element: outer, initializer: outer},
			occurrences: occurrences,
			replaceAll:  true,
			anchor:      FindAnchor(tree, occurrences),
		})
		require.ErrorIs(t, err, ErrStaleTreeReference)

		assert.Equal(t, src, tree.String())
		assert.False(t, tree.InTxn())
	})

	t.Run("refuses a second run", func(t *testing.T) {
		src := "x = f(1)\n"
		tree := parse(t, src)
		occ := nodeAt(t, tree, "f(1)", 0)
		r := replacement{
			name:        "v",
			target:      target{element: occ, initializer: occ},
			occurrences: []syntax.NodeID{occ},
			anchor:      FindAnchor(tree, []syntax.NodeID{occ}),
		}

		e := newTestEngine(t, tree)
		_, err := e.run(ctx, r)
		require.NoError(t, err)

		_, err = e.run(ctx, r)
		require.ErrorIs(t, err, ErrMalformedResult)
	})
}

func TestEngineState_String(t *testing.T) {
	assert.Equal(t, "Idle", stateIdle.String())
	assert.Equal(t, "OccurrencesReplaced", stateOccurrencesReplaced.String())
	assert.Equal(t, "Unknown", engineState(42).String())
}
