package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_OffsetAndPosition(t *testing.T) {
	doc := Document{Path: "a.py", Content: []byte("x = 1\ny = f(x)\n")}

	t.Run("round trips positions", func(t *testing.T) {
		off, err := doc.Offset(Position{Line: 2, Column: 5})
		require.NoError(t, err)
		assert.Equal(t, 10, off)
		assert.Equal(t, Position{Line: 2, Column: 5}, doc.Position(off))
	})

	t.Run("clamps columns to the line end", func(t *testing.T) {
		off, err := doc.Offset(Position{Line: 1, Column: 40})
		require.NoError(t, err)
		assert.Equal(t, 5, off)
	})

	t.Run("rejects lines past the end", func(t *testing.T) {
		_, err := doc.Offset(Position{Line: 9, Column: 1})
		require.Error(t, err)
	})

	t.Run("rejects zero positions", func(t *testing.T) {
		_, err := doc.Offset(Position{})
		require.Error(t, err)
	})
}

func TestInitPlace_Valid(t *testing.T) {
	for _, p := range InitPlaces() {
		assert.True(t, p.Valid(), p)
	}

	assert.False(t, InitPlace("elsewhere").Valid())
}
