package domain

import (
	"strings"

	"github.com/mouse-blink/pyintroduce/internal/domain/pylang"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
	m "github.com/mouse-blink/pyintroduce/internal/model"
)

type formatKind int

const (
	formatNone formatKind = iota
	formatPercent
	formatNewStyle
)

// partialLiteral records a selection covering only part of a string literal.
type partialLiteral struct {
	literal syntax.NodeID
	text    string
	rng     pylang.Range
	format  formatKind
	// owner is the % expression or the .format call the literal formats.
	owner syntax.NodeID
	// values is the right operand of % or the argument list of .format.
	values syntax.NodeID
	keyed  bool
}

func (p *partialLiteral) substring() string {
	return p.rng.Substring(p.text)
}

// formatOperand reports whether lit is the format string of a % expression
// or of a str.format call.
func formatOperand(tree *syntax.Tree, lit syntax.NodeID) (formatKind, syntax.NodeID, syntax.NodeID) {
	parent := tree.Parent(lit)

	switch tree.Type(parent) {
	case "binary_operator":
		op := tree.ChildByField(parent, "operator")
		if tree.Field(lit) == "left" && tree.Text(op) == "%" {
			return formatPercent, parent, tree.ChildByField(parent, "right")
		}
	case "attribute":
		attr := tree.ChildByField(parent, "attribute")
		call := tree.Parent(parent)

		if tree.Field(lit) == "object" && tree.Text(attr) == "format" &&
			tree.Type(call) == "call" && tree.ChildByField(call, "function") == parent {
			return formatNewStyle, call, tree.ChildByField(call, "arguments")
		}
	}

	return formatNone, syntax.NodeID{}, syntax.NodeID{}
}

// checkPartialLiteral validates a selection strictly inside the string leaf
// lit. It returns nil when the selection covers the whole value, which is
// handled like a selection of the literal itself.
func checkPartialLiteral(tree *syntax.Tree, lit syntax.NodeID, sel m.Span) (*partialLiteral, error) {
	if tree.Type(tree.Parent(lit)) == "concatenated_string" {
		return nil, newError(KindUnsupportedPartialLiteral, "substrings of implicitly concatenated literals are not supported")
	}

	span, err := tree.Span(lit)
	if err != nil {
		return nil, treeError(err)
	}

	text := tree.Text(lit)
	value := pylang.ValueRange(text)
	rel := pylang.Range{Start: sel.Start - span.Start, End: sel.End - span.Start}

	final := rel
	if in, ok := rel.Intersect(value); ok {
		final = in
	}

	if final == value {
		return nil, nil //nolint:nilnil // whole value selected, not a partial selection
	}

	if final.Len() <= 0 || !value.Contains(final) {
		return nil, newError(KindNoValidExpression, "selection does not cover literal text")
	}

	p := &partialLiteral{literal: lit, text: text, rng: final}
	p.format, p.owner, p.values = formatOperand(tree, lit)

	var placeholders []pylang.Placeholder

	switch p.format {
	case formatPercent:
		placeholders = pylang.PercentPlaceholders(text)
	case formatNewStyle:
		placeholders = pylang.NewStylePlaceholders(text)
	}

	for _, ph := range placeholders {
		if final.Overlaps(ph.Range) {
			return nil, newError(KindUnsupportedPartialLiteral, "selection breaks format placeholder %q", ph.Substring(text))
		}

		if ph.Key != "" && p.format == formatPercent {
			p.keyed = true
		}
	}

	if p.format == formatPercent && p.keyed && tree.Type(p.values) != "dictionary" {
		return nil, newError(KindUnsupportedPartialLiteral, "mapping for keyed placeholders is not a dict display")
	}

	for _, esc := range pylang.EscapeRanges(text) {
		if final.Contains(esc) {
			continue
		}

		if final.Overlaps(esc) {
			return nil, newError(KindUnsupportedPartialLiteral, "selection breaks escape sequence %q", esc.Substring(text))
		}
	}

	return p, nil
}

// literalQuotes returns the delimiters to use when rebuilding pieces of the
// literal. Unrecognised text falls back to single quotes.
func literalQuotes(text string) pylang.Quotes {
	if q, ok := pylang.DetectQuotes(text); ok {
		return q
	}

	return pylang.Quotes{Quote: "'"}
}

// splitReplacement renders the expression that replaces the literal once the
// selected part moves into a variable named by ref. The name is used for the
// placeholder key of format strings.
func (p *partialLiteral) splitReplacement(tree *syntax.Tree, name, ref string) string {
	q := literalQuotes(p.text)
	value := pylang.ValueRange(p.text)
	pre := p.text[value.Start:p.rng.Start]
	post := p.text[p.rng.End:value.End]

	switch p.format {
	case formatPercent:
		return p.percentReplacement(tree, q, pre, post, name, ref)
	case formatNewStyle:
		return p.newStyleReplacement(tree, q, pre, post, name, ref)
	}

	var parts []string
	if pre != "" {
		parts = append(parts, q.Open()+pre+q.Close())
	}

	parts = append(parts, ref)

	if post != "" {
		parts = append(parts, q.Open()+post+q.Close())
	}

	out := strings.Join(parts, " + ")
	if len(parts) > 1 && needsParens(tree, p.literal) {
		out = "(" + out + ")"
	}

	return out
}

func (p *partialLiteral) percentReplacement(tree *syntax.Tree, q pylang.Quotes, pre, post, name, ref string) string {
	ownerText := tree.Text(p.owner)
	ownerSpan, _ := tree.Span(p.owner)
	litSpan, _ := tree.Span(p.literal)
	valSpan, _ := tree.Span(p.values)
	middle := ownerText[litSpan.End-ownerSpan.Start : valSpan.Start-ownerSpan.Start]

	if p.keyed {
		literal := q.Open() + pre + "%(" + name + ")s" + post + q.Close()
		return literal + middle + insertIntoDisplay(tree, p.values, "'"+name+"': "+ref, -1)
	}

	index := 0

	for _, ph := range pylang.PercentPlaceholders(p.text) {
		if ph.End <= p.rng.Start {
			index += ph.Args
		}
	}

	literal := q.Open() + pre + "%s" + post + q.Close()

	var values string

	if tree.Type(p.values) == "tuple" {
		values = insertIntoDisplay(tree, p.values, ref, index)
	} else {
		items := []string{tree.Text(p.values)}
		items = insertAt(items, min(index, 1), ref)
		values = "(" + strings.Join(items, ", ") + ")"
	}

	return literal + middle + values
}

func (p *partialLiteral) newStyleReplacement(tree *syntax.Tree, q pylang.Quotes, pre, post, name, ref string) string {
	ownerText := tree.Text(p.owner)
	ownerSpan, _ := tree.Span(p.owner)
	litSpan, _ := tree.Span(p.literal)
	argsSpan, _ := tree.Span(p.values)
	middle := ownerText[litSpan.End-ownerSpan.Start : argsSpan.Start-ownerSpan.Start]

	literal := q.Open() + pre + "{" + name + "}" + post + q.Close()

	return literal + middle + insertIntoDisplay(tree, p.values, name+"="+ref, -1)
}

// insertIntoDisplay renders a bracketed display (tuple, dict or argument list)
// with item inserted at index, or appended when index is negative.
func insertIntoDisplay(tree *syntax.Tree, display syntax.NodeID, item string, index int) string {
	var items []string

	for _, c := range tree.SignificantChildren(display) {
		switch tree.Type(c) {
		case "(", ")", "{", "}", "[", "]", ",":
			continue
		}

		items = append(items, tree.Text(c))
	}

	if index < 0 || index > len(items) {
		index = len(items)
	}

	items = insertAt(items, index, item)

	open, closing := "(", ")"
	if tree.Type(display) == "dictionary" {
		open, closing = "{", "}"
	}

	return open + strings.Join(items, ", ") + closing
}

func insertAt(items []string, index int, item string) []string {
	items = append(items, "")
	copy(items[index+1:], items[index:])
	items[index] = item

	return items
}

// needsParens reports whether a concatenation replacing id would bind
// differently than the node it replaces.
func needsParens(tree *syntax.Tree, id syntax.NodeID) bool {
	switch tree.Type(tree.Parent(id)) {
	case "argument_list", "assignment", "augmented_assignment", "expression_statement", "return_statement",
		"list", "tuple", "set", "keyword_argument", "pair", "parenthesized_expression", "expression_list":
		return false
	}

	return true
}
