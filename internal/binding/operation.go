// Package binding applies variables and paint styles to document nodes and records each
// application in the history.
package binding

import (
	"strings"

	"github.com/bethropolis/bindery/internal/document"
)

// Operation names the property a variable is applied to.
type Operation string

const (
	OpFill              Operation = "fill"
	OpStroke            Operation = "stroke"
	OpSpaceBetween      Operation = "spaceBetween"
	OpPaddingVertical   Operation = "paddingVertical"
	OpPaddingHorizontal Operation = "paddingHorizontal"
	OpPaddingGeneral    Operation = "paddingGeneral"
	OpBorderRadius      Operation = "borderRadius"
	OpStrokeWidth       Operation = "strokeWidth"
)

// Operations lists every operation, color ones first.
var Operations = []Operation{
	OpFill, OpStroke,
	OpSpaceBetween, OpPaddingVertical, OpPaddingHorizontal, OpPaddingGeneral,
	OpBorderRadius, OpStrokeWidth,
}

// ParseOperation resolves an operation name case-insensitively.
func ParseOperation(name string) (Operation, bool) {
	for _, op := range Operations {
		if strings.EqualFold(string(op), strings.TrimSpace(name)) {
			return op, true
		}
	}
	return "", false
}

// OperationsFor returns the operations that accept variables of kind.
func OperationsFor(kind document.VariableKind) []Operation {
	var out []Operation
	for _, op := range Operations {
		if op.VariableKind() == kind {
			out = append(out, op)
		}
	}
	return out
}

// VariableKind is the kind of variable the operation binds.
func (o Operation) VariableKind() document.VariableKind {
	switch o {
	case OpFill, OpStroke:
		return document.VariableColor
	default:
		return document.VariableNumber
	}
}

// Label is the short human name used in descriptions.
func (o Operation) Label() string {
	switch o {
	case OpSpaceBetween:
		return "spacing"
	case OpPaddingVertical:
		return "vertical padding"
	case OpPaddingHorizontal:
		return "horizontal padding"
	case OpPaddingGeneral:
		return "padding"
	case OpBorderRadius:
		return "border radius"
	case OpStrokeWidth:
		return "stroke width"
	default:
		return string(o)
	}
}

// NeedsAutoLayout reports whether the operation binds auto-layout fields.
func (o Operation) NeedsAutoLayout() bool {
	switch o {
	case OpSpaceBetween, OpPaddingVertical, OpPaddingHorizontal, OpPaddingGeneral:
		return true
	}
	return false
}

func (o Operation) isPadding() bool {
	return o == OpPaddingVertical || o == OpPaddingHorizontal || o == OpPaddingGeneral
}

// numberFields returns the node fields a number operation binds on n.
func (o Operation) numberFields(n *document.Node) []string {
	switch o {
	case OpSpaceBetween:
		return []string{"itemSpacing"}
	case OpPaddingVertical:
		return []string{"paddingTop", "paddingBottom"}
	case OpPaddingHorizontal:
		return []string{"paddingLeft", "paddingRight"}
	case OpPaddingGeneral:
		return []string{"paddingTop", "paddingBottom", "paddingLeft", "paddingRight"}
	case OpBorderRadius:
		return []string{"topLeftRadius", "topRightRadius", "bottomLeftRadius", "bottomRightRadius"}
	case OpStrokeWidth:
		if n.Has(document.HasEdgeStrokes) {
			return []string{"strokeWeight", "strokeTopWeight", "strokeRightWeight", "strokeBottomWeight", "strokeLeftWeight"}
		}
		return []string{"strokeWeight"}
	}
	return nil
}
