package domain

import (
	"strings"

	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
)

// reconstruct renders expr as single-line initializer source. Newlines in
// whitespace become spaces and line continuations are removed, except
// between the parts of an implicitly concatenated string, which keep their
// line breaks behind an explicit continuation. Comments are dropped. A
// partial literal selection renders as its substring in the literal's quotes.
func reconstruct(tree *syntax.Tree, expr syntax.NodeID, partial *partialLiteral) string {
	var b strings.Builder

	var visit func(id syntax.NodeID)
	visit = func(id syntax.NodeID) {
		if partial != nil && id == partial.literal {
			q := literalQuotes(partial.text)
			b.WriteString(q.Open() + partial.substring() + q.Close())

			return
		}

		switch tree.Kind(id) {
		case syntax.KindComment:
			return
		case syntax.KindWhitespace:
			text := strings.ReplaceAll(tree.Text(id), "\n", " ")
			b.WriteString(strings.ReplaceAll(text, "\\", ""))

			return
		case syntax.KindToken:
			b.WriteString(tree.Text(id))
			return
		}

		if tree.Type(id) == "concatenated_string" {
			writeConcatenated(&b, tree, id)
			return
		}

		for _, c := range tree.Children(id) {
			visit(c)
		}
	}

	visit(expr)

	return strings.TrimSpace(b.String())
}

func writeConcatenated(b *strings.Builder, tree *syntax.Tree, id syntax.NodeID) {
	for _, c := range tree.Children(id) {
		text := tree.Text(c)

		switch tree.Kind(c) {
		case syntax.KindComment:
			continue
		case syntax.KindWhitespace:
			if strings.Contains(text, "\n") {
				if !strings.Contains(text, "\\") {
					b.WriteString("\\")
				}

				b.WriteString(text)
			}

			continue
		}

		b.WriteString(text)
	}
}
