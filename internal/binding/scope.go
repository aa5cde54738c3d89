package binding

import "github.com/bethropolis/bindery/internal/document"

// ValidScope reports whether v's scopes allow applying it with op to n.
func ValidScope(v *document.Variable, op Operation, n *document.Node) bool {
	if v.HasScope(document.ScopeAll) {
		return true
	}
	switch op {
	case OpFill:
		if !n.Has(document.HasFills) {
			return false
		}
		if v.HasScope(document.ScopeAllFills) {
			return true
		}
		switch n.Kind() {
		case document.KindFrame:
			return v.HasScope(document.ScopeFrameFill)
		case document.KindRectangle, document.KindEllipse, document.KindPolygon, document.KindStar:
			return v.HasScope(document.ScopeShapeFill)
		case document.KindText:
			return v.HasScope(document.ScopeTextFill)
		}
		return false
	case OpStroke:
		return n.Has(document.HasStrokes) && v.HasScope(document.ScopeStrokeColor)
	case OpSpaceBetween, OpPaddingVertical, OpPaddingHorizontal, OpPaddingGeneral:
		return v.HasScope(document.ScopeGap)
	case OpBorderRadius:
		return v.HasScope(document.ScopeCornerRadius)
	case OpStrokeWidth:
		return v.HasScope(document.ScopeStrokeFloat)
	}
	return false
}

// scopeWarning returns a hint when v is allowed for op but through a scope meant for
// something else.
func scopeWarning(v *document.Variable, op Operation) string {
	if v.HasScope(document.ScopeAll) {
		return ""
	}
	if op.isPadding() && v.HasScope(document.ScopeGap) {
		return "This variable uses GAP scope, which is meant for spacing. Use ALL_SCOPES if padding does not apply correctly."
	}
	return ""
}
