package controller

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestTruncateToWidth(t *testing.T) {
	assert.Equal(t, "", truncateToWidth("abc", 0))
	assert.Equal(t, "abc", truncateToWidth("abc", 3))
	assert.Equal(t, "ab…", truncateToWidth("abcdef", 3))
	assert.Equal(t, "…", truncateToWidth("abcdef", 1))
}

func TestAnimateScroll(t *testing.T) {
	t.Run("short text does not move", func(t *testing.T) {
		assert.Equal(t, "abc", animateScroll("abc", 10, 42))
	})

	t.Run("long text pauses before scrolling", func(t *testing.T) {
		assert.Equal(t, "abc…", animateScroll("abcdefgh", 4, 0))
	})

	t.Run("long text scrolls and wraps", func(t *testing.T) {
		assert.Equal(t, "bcde", animateScroll("abcdefgh", 4, 6))
		assert.Equal(t, "h   ", animateScroll("abcdefgh", 4, 12))
		assert.Equal(t, "abcd", animateScroll("abcdefgh", 4, 16))
	})
}

func TestChoiceModel(t *testing.T) {
	items := []choiceItem{{tag: "1", text: "first"}, {tag: "2", text: "second"}}

	t.Run("enter picks the selected item", func(t *testing.T) {
		model := tea.Model(newChoiceModel("pick", items, 80, 24))

		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
		model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})

		final := model.(choiceModel)
		assert.Equal(t, 1, final.chosen)
		assert.NotNil(t, cmd)
		assert.Empty(t, final.View())
	})

	t.Run("q cancels", func(t *testing.T) {
		model, _ := newChoiceModel("pick", items, 80, 24).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

		final := model.(choiceModel)
		assert.True(t, final.cancelled)
		assert.Equal(t, -1, final.chosen)
	})

	t.Run("view shows title and items", func(t *testing.T) {
		view := newChoiceModel("Which expression?", items, 80, 24).View()

		assert.Contains(t, view, "Which expression?")
		assert.Contains(t, view, "first")
		assert.True(t, strings.Contains(view, "enter choose"))
	})

	t.Run("ticks advance the animation", func(t *testing.T) {
		model, cmd := newChoiceModel("pick", items, 80, 24).Update(tickMsg(time.Now()))

		assert.Equal(t, 1, model.(choiceModel).animOffset)
		assert.NotNil(t, cmd)
	})

	t.Run("resizing keeps a usable list", func(t *testing.T) {
		model, _ := newChoiceModel("pick", items, 80, 24).Update(tea.WindowSizeMsg{Width: 10, Height: 4})

		final := model.(choiceModel)
		assert.Equal(t, 20, final.listWidth())
		assert.Equal(t, 3, final.listHeight())
	})
}

func TestNameModel(t *testing.T) {
	t.Run("tab cycles suggestions", func(t *testing.T) {
		model := tea.Model(newNameModel([]string{"a", "b"}, 80))

		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, "b", model.(nameModel).input.Value())

		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, "a", model.(nameModel).input.Value())
	})

	t.Run("enter on empty input keeps asking", func(t *testing.T) {
		model := tea.Model(newNameModel(nil, 80))

		model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
		assert.Empty(t, model.(nameModel).name)
		assert.Contains(t, model.View(), "Introduce variable")
	})
}
