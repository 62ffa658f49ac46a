package domain

import (
	"sort"
	"strings"
	"unicode"

	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
)

// ignoreDirective marks code the scan should not report, e.g.
//
//	# pyintroduce: ignore
//	# pyintroduce: ignore helper, setUp
//
// Before the first statement it applies to the whole file, on or directly
// above a def or class header to that definition, anywhere else to its line.
// Names restrict the directive to sites in scopes of those names.
const ignoreDirective = "pyintroduce: ignore"

type ignoreRule struct {
	all   bool
	names map[string]struct{}
}

func (r ignoreRule) ignores(scope string) bool {
	if r.all {
		return true
	}

	if len(r.names) == 0 {
		return false
	}

	_, ok := r.names[scope]

	return ok
}

func mergeIgnoreRule(dst *ignoreRule, src ignoreRule) {
	if src.all {
		dst.all = true
		dst.names = nil

		return
	}

	if dst.all || len(src.names) == 0 {
		return
	}

	if dst.names == nil {
		dst.names = make(map[string]struct{}, len(src.names))
	}

	for name := range src.names {
		dst.names[name] = struct{}{}
	}
}

func parseIgnoreDirective(comment string) (ignoreRule, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(comment), "#"))

	if !strings.HasPrefix(s, ignoreDirective) {
		return ignoreRule{}, false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(s, ignoreDirective))
	if rest == "" {
		return ignoreRule{all: true}, true
	}

	parts := strings.Split(rest, ",")
	rule := ignoreRule{names: make(map[string]struct{}, len(parts))}

	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		rule.names[name] = struct{}{}
	}

	if len(rule.names) == 0 {
		rule.all = true
		rule.names = nil
	}

	return rule, true
}

type ignoreIndex struct {
	file       ignoreRule
	line       map[int]ignoreRule
	lineStarts []int
}

func buildIgnoreIndex(tree *syntax.Tree) ignoreIndex {
	content := tree.String()
	ix := ignoreIndex{line: make(map[int]ignoreRule), lineStarts: computeLineStarts(content)}

	body := len(content)
	if stmts := statementsOf(tree, tree.Root()); len(stmts) > 0 {
		if span, err := tree.Span(stmts[0]); err == nil {
			body = span.Start
		}
	}

	for _, leaf := range tree.Leaves(tree.Root()) {
		if tree.Kind(leaf) != syntax.KindComment {
			continue
		}

		r, ok := parseIgnoreDirective(tree.Text(leaf))
		if !ok {
			continue
		}

		span, err := tree.Span(leaf)
		if err != nil {
			continue
		}

		if span.Start < body {
			mergeIgnoreRule(&ix.file, r)
			continue
		}

		line := ix.lineAt(span.Start)
		if isLeadingComment(line, span.Start, ix.lineStarts, content) {
			line++
		}

		current := ix.line[line]
		mergeIgnoreRule(&current, r)
		ix.line[line] = current
	}

	return ix
}

// ignored reports whether a site at id in the named scope is suppressed by
// its own line or by the header of an enclosing definition.
func (ix ignoreIndex) ignored(tree *syntax.Tree, id syntax.NodeID, scope string) bool {
	if ix.file.ignores(scope) {
		return true
	}

	if len(ix.line) == 0 {
		return false
	}

	for cur := id; !cur.IsZero(); cur = tree.Parent(cur) {
		if cur != id {
			switch tree.Type(cur) {
			case "function_definition", "class_definition", "decorated_definition":
			default:
				continue
			}
		}

		span, err := tree.Span(cur)
		if err != nil {
			continue
		}

		if rule, ok := ix.line[ix.lineAt(span.Start)]; ok && rule.ignores(scope) {
			return true
		}
	}

	return false
}

func (ix ignoreIndex) lineAt(offset int) int {
	return sort.Search(len(ix.lineStarts), func(i int) bool {
		return ix.lineStarts[i] > offset
	})
}

func computeLineStarts(content string) []int {
	starts := []int{0}

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}

func isLeadingComment(line int, hashOffset int, lineStarts []int, content string) bool {
	if line <= 0 || line > len(lineStarts) {
		return false
	}

	start := lineStarts[line-1]
	if hashOffset < start || hashOffset > len(content) {
		return false
	}

	for _, r := range content[start:hashOffset] {
		if !unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
