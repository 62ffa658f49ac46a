// Package pylang holds the Python-specific knowledge the refactoring needs:
// which grammar node types are expressions, statements and scope owners,
// reserved words, builtin types, and the layout of string literals.
package pylang

import "slices"

var expressionTypes = map[string]bool{
	"identifier":               true,
	"call":                     true,
	"attribute":                true,
	"subscript":                true,
	"binary_operator":          true,
	"boolean_operator":         true,
	"comparison_operator":      true,
	"not_operator":             true,
	"unary_operator":           true,
	"parenthesized_expression": true,
	"string":                   true,
	"concatenated_string":      true,
	"integer":                  true,
	"float":                    true,
	"true":                     true,
	"false":                    true,
	"none":                     true,
	"list":                     true,
	"tuple":                    true,
	"dictionary":               true,
	"set":                      true,
	"list_comprehension":       true,
	"dictionary_comprehension": true,
	"set_comprehension":        true,
	"generator_expression":     true,
	"lambda":                   true,
	"conditional_expression":   true,
	"await":                    true,
	"ellipsis":                 true,
}

var statementTypes = map[string]bool{
	"expression_statement":    true,
	"return_statement":        true,
	"if_statement":            true,
	"for_statement":           true,
	"while_statement":         true,
	"try_statement":           true,
	"with_statement":          true,
	"raise_statement":         true,
	"assert_statement":        true,
	"delete_statement":        true,
	"pass_statement":          true,
	"break_statement":         true,
	"continue_statement":      true,
	"global_statement":        true,
	"nonlocal_statement":      true,
	"import_statement":        true,
	"import_from_statement":   true,
	"future_import_statement": true,
	"print_statement":         true,
	"exec_statement":          true,
	"match_statement":         true,
	"type_alias_statement":    true,
	"function_definition":     true,
	"class_definition":        true,
	"decorated_definition":    true,
}

var scopeOwnerTypes = map[string]bool{
	"module":              true,
	"function_definition": true,
	"class_definition":    true,
	"lambda":              true,
}

// IsExpression reports whether typ is a grammar type that denotes a Python
// expression usable as an initializer.
func IsExpression(typ string) bool {
	return expressionTypes[typ]
}

// IsStatement reports whether typ is a statement type.
func IsStatement(typ string) bool {
	return statementTypes[typ]
}

// IsScopeOwner reports whether typ opens a new name scope.
func IsScopeOwner(typ string) bool {
	return scopeOwnerTypes[typ]
}

// IsBlock reports whether typ is a statement container.
func IsBlock(typ string) bool {
	return typ == "block" || typ == "module"
}

// IsLiteral reports whether typ is a constant literal.
func IsLiteral(typ string) bool {
	switch typ {
	case "string", "concatenated_string", "integer", "float", "true", "false", "none", "ellipsis":
		return true
	}

	return false
}

var keywords = []string{
	"False", "None", "True", "and", "as", "assert", "async", "await",
	"break", "class", "continue", "def", "del", "elif", "else", "except",
	"exec", "finally", "for", "from", "global", "if", "import", "in", "is",
	"lambda", "nonlocal", "not", "or", "pass", "print", "raise", "return",
	"try", "while", "with", "yield",
}

// IsReserved reports whether name is a keyword of any supported Python
// version. exec and print are included because they were statements in
// Python 2.
func IsReserved(name string) bool {
	_, found := slices.BinarySearch(keywords, name)

	return found
}

// IsIdentifier reports whether name is a syntactically valid, non-reserved
// Python identifier in the ASCII subset.
func IsIdentifier(name string) bool {
	if name == "" || IsReserved(name) {
		return false
	}

	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}

var builtinTypes = map[string]bool{
	"int": true, "float": true, "complex": true, "str": true, "bytes": true,
	"bytearray": true, "bool": true, "list": true, "tuple": true, "dict": true,
	"set": true, "frozenset": true, "object": true, "type": true,
	"range": true, "slice": true, "function": true, "generator": true,
	"memoryview": true, "unicode": true, "long": true,
}

// IsBuiltinType reports whether name is a builtin Python type.
func IsBuiltinType(name string) bool {
	return builtinTypes[name]
}
