package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepeatedExpressions(t *testing.T) {
	suggester := NewNameSuggester(DefaultValidator(), "", 0)

	t.Run("reports an expression repeated within a function", func(t *testing.T) {
		tree := parse(t, "def g(items):\n    a = len(items)\n    b = len(items)\n    return a + b\n")

		sites := RepeatedExpressions(tree, suggester, 2)
		require.Len(t, sites, 1)

		assert.Equal(t, "len(items)", sites[0].Expression)
		assert.Equal(t, 2, sites[0].Count)
		assert.Equal(t, "g", sites[0].Scope)
		assert.Equal(t, 2, sites[0].Line)
		assert.NotEmpty(t, sites[0].Name)
	})

	t.Run("does not group expressions of different scopes", func(t *testing.T) {
		tree := parse(t, "def g(items):\n    return len(items)\n\n\ndef h(items):\n    return len(items)\n")

		assert.Empty(t, RepeatedExpressions(tree, suggester, 2))
	})

	t.Run("respects the minimum count", func(t *testing.T) {
		tree := parse(t, "def g(items):\n    a = len(items)\n    b = len(items)\n")

		assert.Empty(t, RepeatedExpressions(tree, suggester, 3))
	})

	t.Run("skips sub-expressions repeating as often as their parent", func(t *testing.T) {
		tree := parse(t, "def g(o):\n    a = f(o.size)\n    b = f(o.size)\n")

		sites := RepeatedExpressions(tree, nil, 2)
		require.Len(t, sites, 1)
		assert.Equal(t, "f(o.size)", sites[0].Expression)
		assert.Empty(t, sites[0].Name)
	})

	t.Run("skips a line with an ignore directive", func(t *testing.T) {
		tree := parse(t, "def g(items):\n    a = len(items)  # pyintroduce: ignore\n    b = len(items)\n")

		assert.Empty(t, RepeatedExpressions(tree, suggester, 2))
	})

	t.Run("skips a definition with an ignore directive above it", func(t *testing.T) {
		tree := parse(t, "import os\n\n\n# pyintroduce: ignore\ndef g(items):\n    a = len(items)\n    b = len(items)\n")

		assert.Empty(t, RepeatedExpressions(tree, suggester, 2))
	})

	t.Run("skips the whole file with a leading directive", func(t *testing.T) {
		tree := parse(t, "# pyintroduce: ignore\nimport os\n\n\ndef g(items):\n    a = len(items)\n    b = len(items)\n")

		assert.Nil(t, RepeatedExpressions(tree, suggester, 2))
	})

	t.Run("skips only the named scopes", func(t *testing.T) {
		src := "# pyintroduce: ignore g\nimport os\n\n\n" +
			"def g(items):\n    a = len(items)\n    b = len(items)\n\n\n" +
			"def h(items):\n    a = len(items)\n    b = len(items)\n"
		tree := parse(t, src)

		sites := RepeatedExpressions(tree, suggester, 2)
		require.Len(t, sites, 1)
		assert.Equal(t, "h", sites[0].Scope)
	})
}
