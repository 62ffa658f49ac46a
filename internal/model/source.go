// Package model defines the data structures shared by the introduce-variable
// refactoring, its UI and its CLI.
package model

import "fmt"

// Path represents a file system path.
type Path string

// Span is a half-open byte range in a document.
type Span struct {
	Start int
	End   int
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Contains reports whether offset lies in the span. An empty span contains
// its own start.
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && (offset < s.End || s.Empty() && offset == s.Start)
}

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Document is a Python source file loaded for refactoring.
type Document struct {
	Path     Path
	Content  []byte
	ReadOnly bool
}

// Offset converts a 1-based position into a byte offset. Columns past the end
// of a line clamp to the line end.
func (d Document) Offset(p Position) (int, error) {
	if p.Line < 1 || p.Column < 1 {
		return 0, fmt.Errorf("invalid position %s", p)
	}

	line := 1
	start := 0

	for i := 0; i < len(d.Content) && line < p.Line; i++ {
		if d.Content[i] == '\n' {
			line++
			start = i + 1
		}
	}

	if line < p.Line {
		return 0, fmt.Errorf("position %s is past the end of %s", p, d.Path)
	}

	end := start
	for end < len(d.Content) && d.Content[end] != '\n' {
		end++
	}

	return min(start+p.Column-1, end), nil
}

// Position converts a byte offset into a 1-based position.
func (d Document) Position(offset int) Position {
	pos := Position{Line: 1, Column: 1}

	for i := 0; i < len(d.Content) && i < offset; i++ {
		if d.Content[i] == '\n' {
			pos.Line++
			pos.Column = 1

			continue
		}

		pos.Column++
	}

	return pos
}

// InitPlace selects where the declaration of the new variable goes.
type InitPlace string

const (
	// InitSameScope declares a local right before the anchor statement.
	InitSameScope InitPlace = "same-scope"
	// InitConstructor assigns an attribute in __init__ of the enclosing class.
	InitConstructor InitPlace = "constructor"
	// InitSetUp assigns an attribute in setUp of the enclosing test class.
	InitSetUp InitPlace = "set-up"
)

// InitPlaces lists every supported placement.
func InitPlaces() []InitPlace {
	return []InitPlace{InitSameScope, InitConstructor, InitSetUp}
}

// Valid reports whether p is a known placement.
func (p InitPlace) Valid() bool {
	switch p {
	case InitSameScope, InitConstructor, InitSetUp:
		return true
	}

	return false
}
