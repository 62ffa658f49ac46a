package domain

import (
	"strings"
	"unicode"

	"github.com/mouse-blink/pyintroduce/internal/domain/pylang"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
)

// TypeInferrer guesses the type of an expression from its syntax alone.
type TypeInferrer struct{}

var literalTypes = map[string]string{
	"concatenated_string":      "str",
	"integer":                  "int",
	"float":                    "float",
	"true":                     "bool",
	"false":                    "bool",
	"list":                     "list",
	"list_comprehension":       "list",
	"tuple":                    "tuple",
	"dictionary":               "dict",
	"dictionary_comprehension": "dict",
	"set":                      "set",
	"set_comprehension":        "set",
	"comparison_operator":      "bool",
	"not_operator":             "bool",
}

// Infer returns the type name of expr and whether it is a builtin type. An
// empty name means the type is unknown or None.
func (TypeInferrer) Infer(tree *syntax.Tree, expr syntax.NodeID) (string, bool) {
	typ := tree.Type(expr)

	if name, ok := literalTypes[typ]; ok {
		return name, true
	}

	switch typ {
	case "string":
		if literalQuotes(tree.Text(expr)).Bytes() {
			return "bytes", true
		}

		return "str", true
	case "parenthesized_expression":
		for _, c := range tree.SignificantChildren(expr) {
			if pylang.IsExpression(tree.Type(c)) {
				return TypeInferrer{}.Infer(tree, c)
			}
		}
	case "binary_operator":
		left, lb := TypeInferrer{}.Infer(tree, tree.ChildByField(expr, "left"))
		right, _ := TypeInferrer{}.Infer(tree, tree.ChildByField(expr, "right"))

		if left != "" && left == right {
			return left, lb
		}
	case "boolean_operator":
		left, lb := TypeInferrer{}.Infer(tree, tree.ChildByField(expr, "left"))
		right, _ := TypeInferrer{}.Infer(tree, tree.ChildByField(expr, "right"))

		if left != "" && left == right {
			return left, lb
		}
	case "call":
		return inferCall(tree, expr)
	}

	return "", false
}

func inferCall(tree *syntax.Tree, call syntax.NodeID) (string, bool) {
	callee := tree.ChildByField(call, "function")
	name := tree.Text(callee)

	if tree.Type(callee) == "identifier" {
		if pylang.IsBuiltinType(name) {
			return name, true
		}

		if class := findDefinition(tree, tree.Root(), "class_definition", name); !class.IsZero() {
			return name, false
		}
	}

	if def := resolveFunction(tree, callee); !def.IsZero() {
		ret := strings.TrimSpace(tree.Text(tree.ChildByField(def, "return_type")))
		if ret == "" || ret == "None" {
			return "", false
		}

		return ret, pylang.IsBuiltinType(ret)
	}

	last := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		last = name[i+1:]
	}

	if last != "" && unicode.IsUpper(rune(last[0])) && tree.Type(callee) != "call" {
		return last, false
	}

	return "", false
}
