package controller

import "time"

type tickMsg time.Time

// choiceItem is one row of a chooser list.
type choiceItem struct {
	// tag is the short left column, a line number or a marker.
	tag  string
	text string
}

func (c choiceItem) FilterValue() string {
	return c.text
}
