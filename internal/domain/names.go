package domain

import (
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/mouse-blink/pyintroduce/internal/domain/pylang"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
)

const (
	// DefaultName is used when nothing can be derived from the expression.
	DefaultName = "x"
	// DefaultMaxSuffix bounds the numeric suffixes tried for a taken name.
	DefaultMaxSuffix = 1000

	maxCandidateLength = 25
)

// NameSuggester proposes variable names for an expression.
type NameSuggester struct {
	validator   NameValidator
	inferrer    TypeInferrer
	defaultName string
	maxSuffix   int
}

// NewNameSuggester builds a suggester. A nil validator accepts every
// syntactically valid identifier.
func NewNameSuggester(validator NameValidator, defaultName string, maxSuffix int) *NameSuggester {
	if validator == nil {
		validator = IdentifierValidator()
	}

	if defaultName == "" {
		defaultName = DefaultName
	}

	if maxSuffix <= 0 {
		maxSuffix = DefaultMaxSuffix
	}

	return &NameSuggester{validator: validator, defaultName: defaultName, maxSuffix: maxSuffix}
}

// Suggest returns the names offered for expr, best first. The result is never
// empty and every name passes the validator.
func (s *NameSuggester) Suggest(tree *syntax.Tree, expr syntax.NodeID, partial *partialLiteral) ([]string, error) {
	candidates := s.candidates(tree, expr, partial)
	if len(candidates) == 0 {
		candidates = []string{s.defaultName}
	}

	var accepted []string

	for _, name := range candidates {
		if s.validator.Check(name, tree, expr) {
			accepted = append(accepted, name)
		}
	}

	if len(accepted) > 0 {
		return accepted, nil
	}

	for _, name := range candidates {
		for i := 1; i <= s.maxSuffix; i++ {
			suffixed := name + strconv.Itoa(i)
			if s.validator.Check(suffixed, tree, expr) {
				accepted = append(accepted, suffixed)
				break
			}
		}
	}

	if len(accepted) == 0 {
		return nil, newError(KindNoAcceptableName, "no acceptable name among %v", candidates)
	}

	return accepted, nil
}

func (s *NameSuggester) candidates(tree *syntax.Tree, expr syntax.NodeID, partial *partialLiteral) []string {
	var out []string

	add := func(names ...string) {
		for _, n := range names {
			if n == "" || pylang.IsReserved(n) || slices.Contains(out, n) {
				continue
			}

			out = append(out, n)
		}
	}

	text := tree.Text(expr)
	if partial != nil {
		text = partial.substring()
	}

	if tree.Type(expr) == "call" {
		if callee := tree.ChildByField(expr, "function"); !callee.IsZero() {
			text = tree.Text(callee)
		}
	}

	add(GenerateNames(text)...)

	if typeName, builtin := s.inferrer.Infer(tree, expr); typeName != "" {
		if builtin {
			typeName = typeName[:1]
		}

		add(GenerateNamesByType(typeName)...)
	}

	parent := tree.Parent(expr)
	if tree.Type(parent) == "keyword_argument" && tree.Field(expr) == "value" {
		add(tree.Text(tree.ChildByField(parent, "name")))
	}

	if tree.Type(parent) == "argument_list" {
		add(mappedParameter(tree, parent, expr))
	}

	return out
}

// mappedParameter resolves the callee of args to a def in the same file and
// returns the name of the positional parameter arg binds to.
func mappedParameter(tree *syntax.Tree, args, arg syntax.NodeID) string {
	call := tree.Parent(args)
	if tree.Type(call) != "call" {
		return ""
	}

	def := resolveFunction(tree, tree.ChildByField(call, "function"))
	if def.IsZero() {
		return ""
	}

	position := -1

	for i, c := range positionalArguments(tree, args) {
		if c == arg {
			position = i
		}
	}

	if position < 0 {
		return ""
	}

	params := parameterNames(tree, def)
	if len(params) > 0 && (params[0] == "self" || params[0] == "cls") && tree.Type(tree.ChildByField(call, "function")) == "attribute" {
		params = params[1:]
	}

	if position >= len(params) {
		return ""
	}

	return params[position]
}

func positionalArguments(tree *syntax.Tree, args syntax.NodeID) []syntax.NodeID {
	var out []syntax.NodeID

	for _, c := range tree.SignificantChildren(args) {
		switch tree.Type(c) {
		case "(", ")", ",", "keyword_argument", "list_splat", "dictionary_splat":
			continue
		}

		out = append(out, c)
	}

	return out
}

func parameterNames(tree *syntax.Tree, def syntax.NodeID) []string {
	var out []string

	for _, p := range tree.SignificantChildren(tree.ChildByField(def, "parameters")) {
		switch tree.Type(p) {
		case "identifier":
			out = append(out, tree.Text(p))
		case "default_parameter", "typed_parameter", "typed_default_parameter":
			name := tree.ChildByField(p, "name")
			if name.IsZero() {
				if ids := tree.SignificantChildren(p); len(ids) > 0 {
					name = ids[0]
				}
			}

			out = append(out, tree.Text(name))
		case "list_splat_pattern", "dictionary_splat_pattern", "*", "keyword_separator":
			return out
		}
	}

	return out
}

// resolveFunction finds the def a callee names: a module-level function for a
// plain name, or a method of the enclosing class for self.method.
func resolveFunction(tree *syntax.Tree, callee syntax.NodeID) syntax.NodeID {
	switch tree.Type(callee) {
	case "identifier":
		return findDefinition(tree, tree.Root(), "function_definition", tree.Text(callee))
	case "attribute":
		obj := tree.ChildByField(callee, "object")
		if tree.Text(obj) != "self" {
			return syntax.NodeID{}
		}

		class := tree.Ancestor(callee, true, isType(tree, "class_definition"))
		if class.IsZero() {
			return syntax.NodeID{}
		}

		return findDefinition(tree, tree.ChildByField(class, "body"), "function_definition",
			tree.Text(tree.ChildByField(callee, "attribute")))
	}

	return syntax.NodeID{}
}

// findDefinition looks for a def or class named name among the statements of
// block, looking through decorators.
func findDefinition(tree *syntax.Tree, block syntax.NodeID, typ, name string) syntax.NodeID {
	for _, stmt := range tree.SignificantChildren(block) {
		if tree.Type(stmt) == "decorated_definition" {
			stmt = tree.ChildByField(stmt, "definition")
		}

		if tree.Type(stmt) == typ && tree.Text(tree.ChildByField(stmt, "name")) == name {
			return stmt
		}
	}

	return syntax.NodeID{}
}

// GenerateNames derives identifier candidates from source text, shortest
// first: "self.getValue" yields value, get_value and self_get_value.
func GenerateNames(text string) []string {
	name := deleteNonLetters(unquote(strings.ReplaceAll(text, ".", "_")))
	name = decapitalize(name)

	if strings.HasPrefix(name, "get") {
		name = name[3:]
	} else if strings.HasPrefix(name, "is") {
		name = name[2:]
	}

	name = strings.Trim(name, "_")

	var out []string

	for i := 0; i < len(name); i++ {
		c := rune(name[i])
		if !unicode.IsLetter(c) {
			continue
		}

		boundary := i == 0 || name[i-1] == '_' ||
			unicode.IsLower(rune(name[i-1])) && unicode.IsUpper(c)
		if !boundary {
			continue
		}

		candidate := decapitalize(name[i:])
		if len(candidate) >= maxCandidateLength {
			continue
		}

		candidate = toUnderscoreCase(candidate)
		if !slices.Contains(out, candidate) {
			out = append(out, candidate)
		}
	}

	slices.Reverse(out)

	return out
}

// GenerateNamesByType derives names from a type name: the name itself and its
// first letter.
func GenerateNamesByType(typeName string) []string {
	name := toUnderscoreCase(decapitalize(deleteNonLetters(strings.ReplaceAll(typeName, ".", "_"))))
	name = strings.Trim(name, "_")

	if name == "" {
		return nil
	}

	if len(name) == 1 {
		return []string{name}
	}

	return []string{name, name[:1]}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}

	return s
}

func deleteNonLetters(s string) string {
	var b strings.Builder

	pending := false

	for _, r := range s {
		if r == '_' || r < unicode.MaxASCII && unicode.IsLetter(r) {
			if pending {
				b.WriteByte('_')

				pending = false
			}

			b.WriteRune(r)

			continue
		}

		pending = true
	}

	if pending {
		b.WriteByte('_')
	}

	return b.String()
}

// decapitalize lowers the first letter unless the first two are both upper
// case, so URL stays URL while Value becomes value.
func decapitalize(s string) string {
	if s == "" {
		return s
	}

	if len(s) > 1 && unicode.IsUpper(rune(s[0])) && unicode.IsUpper(rune(s[1])) {
		return s
	}

	return strings.ToLower(s[:1]) + s[1:]
}

func toUnderscoreCase(s string) string {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		c := rune(s[i])

		if unicode.IsUpper(c) && i > 0 {
			prev := rune(s[i-1])
			nextLower := i+1 < len(s) && unicode.IsLower(rune(s[i+1]))

			if prev != '_' && (unicode.IsLower(prev) || unicode.IsDigit(prev) || unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}

		if c == '_' && b.Len() > 0 && strings.HasSuffix(b.String(), "_") {
			continue
		}

		b.WriteRune(unicode.ToLower(c))
	}

	return b.String()
}
