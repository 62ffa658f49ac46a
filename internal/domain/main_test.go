package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/mouse-blink/pyintroduce/internal/adapter"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()

	tree, err := adapter.NewTreeSitterPythonAdapter().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.False(t, tree.HasErrors(), "test source does not parse:\n%s", src)

	return tree
}

func newTestIntroducer(t *testing.T) *Introducer {
	t.Helper()

	return NewIntroducer(adapter.NewTreeSitterPythonAdapter(), nil, zaptest.NewLogger(t))
}

func doc(src string) m.Document {
	return m.Document{Path: "test.py", Content: []byte(src)}
}

// spanOf returns the span of the nth (0-based) occurrence of sub in src.
func spanOf(t *testing.T, src, sub string, nth int) m.Span {
	t.Helper()

	offset := 0

	for i := 0; ; i++ {
		idx := strings.Index(src[offset:], sub)
		require.GreaterOrEqual(t, idx, 0, "%q occurrence %d not found", sub, nth)

		if i == nth {
			return m.Span{Start: offset + idx, End: offset + idx + len(sub)}
		}

		offset += idx + len(sub)
	}
}

// nodeAt returns the innermost node exactly covering the nth occurrence of
// sub.
func nodeAt(t *testing.T, tree *syntax.Tree, sub string, nth int) syntax.NodeID {
	t.Helper()

	span := spanOf(t, tree.String(), sub, nth)

	var found syntax.NodeID

	tree.Walk(tree.Root(), func(id syntax.NodeID) bool {
		if tree.IsTrivia(id) {
			return true
		}

		s, err := tree.Span(id)
		if err == nil && s.Start == span.Start && s.End == span.End {
			found = id
		}

		return true
	})

	require.False(t, found.IsZero(), "no node spans %q", sub)

	return found
}

func boolPtr(v bool) *bool {
	return &v
}
