package binding

import (
	"fmt"

	"github.com/bethropolis/bindery/internal/document"
)

var black = document.RGB{}

// applyColor binds v to the color of the first fill or stroke paint, creating a black
// solid paint when there is none. c is v's resolved color.
func applyColor(n *document.Node, v *document.Variable, c document.RGB, op Operation) error {
	switch op {
	case OpFill:
		paints := n.Fills()
		if len(paints) == 0 {
			paints = []document.Paint{document.SolidPaint(black)}
		}
		paints[0] = paints[0].WithBoundVariable("color", v)
		paints[0].Color = c
		return n.SetFills(paints)
	case OpStroke:
		paints := n.Strokes()
		if len(paints) == 0 {
			paints = []document.Paint{document.SolidPaint(black)}
		} else if paints[0].Type != document.PaintSolid {
			paints[0] = document.SolidPaint(black)
		}
		paints[0] = paints[0].WithBoundVariable("color", v)
		paints[0].Color = c
		return n.SetStrokes(paints)
	}
	return fmt.Errorf("%s is not a color operation", op)
}

// applyNumber binds v to every field the operation covers.
func applyNumber(n *document.Node, v *document.Variable, op Operation) error {
	if op == OpStrokeWidth && !hasVisibleStroke(n) {
		if err := n.SetStrokes([]document.Paint{document.SolidPaint(black)}); err != nil {
			return err
		}
	}
	fields := op.numberFields(n)
	if len(fields) == 0 {
		return fmt.Errorf("%s is not a number operation", op)
	}
	for _, field := range fields {
		if err := n.SetBoundVariable(field, v); err != nil {
			return err
		}
	}
	return nil
}

func hasVisibleStroke(n *document.Node) bool {
	for _, p := range n.Strokes() {
		if p.Visible {
			return true
		}
	}
	return false
}

// applyStyle replaces the first fill or stroke paint with the style's first paint.
func applyStyle(n *document.Node, style *document.PaintStyle, op Operation) error {
	paint := style.Paints[0].Clone()
	switch op {
	case OpFill:
		paints := n.Fills()
		if len(paints) == 0 {
			paints = []document.Paint{paint}
		} else {
			paints[0] = paint
		}
		return n.SetFills(paints)
	case OpStroke:
		paints := n.Strokes()
		if len(paints) == 0 {
			paints = []document.Paint{paint}
		} else {
			paints[0] = paint
		}
		return n.SetStrokes(paints)
	}
	return fmt.Errorf("styles apply to fill or stroke, not %s", op)
}
