package component

import "image/color"

// RenderLayer is used to sort draw order deterministically.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()

// Appearance is the flat colour an entity's collider is drawn with.
type Appearance struct {
	Color color.RGBA
}

var AppearanceComponent = NewComponent[Appearance]()
