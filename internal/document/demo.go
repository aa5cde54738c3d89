package document

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const demoSeed = `
name = "Demo"

[[variables]]
id = "VariableID:1:1"
name = "brand/primary"
collection = "Colors"
kind = "color"
scopes = ["ALL_SCOPES"]
color = "#3b82f6"

[[variables]]
id = "VariableID:1:2"
name = "brand/danger"
collection = "Colors"
kind = "color"
scopes = ["ALL_FILLS", "STROKE_COLOR"]
color = "#ef4444"

[[variables]]
id = "VariableID:1:3"
name = "text/muted"
collection = "Colors"
kind = "color"
scopes = ["TEXT_FILL"]
color = "#6b7280"

[[variables]]
id = "VariableID:2:1"
name = "space/md"
collection = "Spacing"
kind = "number"
scopes = ["GAP"]
number = 16

[[variables]]
id = "VariableID:2:2"
name = "radius/lg"
collection = "Radius"
kind = "number"
scopes = ["CORNER_RADIUS"]
number = 12

[[variables]]
id = "VariableID:2:3"
name = "border/thin"
collection = "Borders"
library = "Core UI"
kind = "number"
scopes = ["ALL_SCOPES"]
number = 1

[[styles]]
id = "S:surface"
name = "Surface"
color = "#f8fafc"

[[nodes]]
id = "1:1"
name = "Card"
kind = "frame"
width = 320
height = 200
fill = "#ffffff"
layout = "vertical"
spacing = 8
padding = 12

  [[nodes.children]]
  id = "1:2"
  name = "Title"
  kind = "text"
  width = 200
  height = 24
  fill = "#111827"

  [[nodes.children]]
  id = "1:3"
  name = "Button"
  kind = "rectangle"
  width = 120
  height = 40
  fill = "#e5e7eb"
  radius = 4

[[nodes]]
id = "2:1"
name = "Badge"
kind = "ellipse"
x = 400
y = 40
width = 32
height = 32
fill = "#22c55e"

[[nodes]]
id = "3:1"
name = "Toolbar"
kind = "frame"
x = 0
y = 260
width = 480
height = 48
layout = "none"
`

// Demo returns a small sample document.
func Demo() *Document {
	var seed Seed
	if _, err := toml.Decode(demoSeed, &seed); err != nil {
		panic(fmt.Sprintf("document: demo seed: %v", err))
	}
	doc, err := FromSeed(seed)
	if err != nil {
		panic(fmt.Sprintf("document: demo seed: %v", err))
	}
	return doc
}
