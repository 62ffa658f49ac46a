package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const tagWidth = 6

// Simple delegate for chooser list items.
type choiceDelegate struct {
	offset int
}

func (d choiceDelegate) Height() int  { return 1 }
func (d choiceDelegate) Spacing() int { return 0 }
func (d choiceDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d choiceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	choice, ok := item.(choiceItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	var textStyle, tagStyle lipgloss.Style

	var displayText string

	width := m.Width() - tagWidth - 2

	if isSelected {
		textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true).
			Width(tagWidth).
			Align(lipgloss.Right)

		displayText = animateScroll(choice.text, width, d.offset)
	} else {
		textStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Width(tagWidth).
			Align(lipgloss.Right)

		displayText = truncateToWidth(choice.text, width)
	}

	_, _ = fmt.Fprintf(w, "%s  %s", tagStyle.Render(choice.tag), textStyle.Render(displayText))
}

// animateScroll shows a window of text that moves with offset once the text
// no longer fits, after a short pause.
func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const (
		gap   = "   "
		pause = 5
	)

	if offset < pause {
		return truncateToWidth(text, width)
	}

	runes := []rune(text + gap)
	start := (offset - pause) % len(runes)

	res := make([]rune, 0, width)
	for i := range width {
		res = append(res, runes[(start+i)%len(runes)])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// choiceModel asks the user to pick one item of a list.
type choiceModel struct {
	title    string
	width    int
	height   int
	items    list.Model
	delegate choiceDelegate

	animOffset   int
	lastSelected int

	chosen    int
	cancelled bool
}

func newChoiceModel(title string, items []choiceItem, width, height int) choiceModel {
	delegate := choiceDelegate{}

	listItems := make([]list.Item, 0, len(items))
	for _, it := range items {
		listItems = append(listItems, it)
	}

	l := list.New(listItems, delegate, 0, 0)
	l.SetShowPagination(true)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)

	m := choiceModel{
		title:    title,
		width:    width,
		height:   height,
		items:    l,
		delegate: delegate,
		chosen:   -1,
	}
	m.items.SetWidth(m.listWidth())
	m.items.SetHeight(m.listHeight())

	return m
}

func (m choiceModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.items.SetWidth(m.listWidth())
		m.items.SetHeight(m.listHeight())

		return m, nil

	case tickMsg:
		m.animOffset++
		m.delegate.offset = m.animOffset
		m.items.SetDelegate(m.delegate)

		return m, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			m.chosen = m.items.Index()
			return m, tea.Quit
		}

		var cmd tea.Cmd

		m.items, cmd = m.items.Update(msg)

		// Detect selection change to reset animation
		if m.items.Index() != m.lastSelected {
			m.lastSelected = m.items.Index()
			m.animOffset = 0
			m.delegate.offset = 0
			m.items.SetDelegate(m.delegate)
		}

		return m, cmd
	}

	return m, nil
}

func (m choiceModel) listWidth() int {
	return max(m.width-6, 20)
}

func (m choiceModel) listHeight() int {
	// title, border and footer
	return min(max(m.height-6, 3), len(m.items.Items())+1)
}

func (m choiceModel) View() string {
	if m.chosen >= 0 || m.cancelled {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(0, 0, 0, 2)

	container := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Padding(0, 0, 0, 2).
		Render("↑/k up • ↓/j down • enter choose • esc cancel")

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		container.Render(m.items.View()),
		footer,
	) + "\n"
}
