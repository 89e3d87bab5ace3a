package render

import "github.com/milk9111/platformer/common"

// Camera maps Y-up world units to screen pixels. X and Y are the world
// point at the centre of the screen.
type Camera struct {
	X, Y          float64
	PixelsPerUnit float64
	ScreenW       int
	ScreenH       int
	// Smoothing is the fraction of the remaining distance covered per Follow.
	Smoothing float64
}

func NewCamera(screenW, screenH int, pixelsPerUnit float64) *Camera {
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = 32
	}
	return &Camera{PixelsPerUnit: pixelsPerUnit, ScreenW: screenW, ScreenH: screenH, Smoothing: 0.15}
}

func (c *Camera) ToScreen(x, y float64) (float64, float64) {
	sx := (x-c.X)*c.PixelsPerUnit + float64(c.ScreenW)/2
	sy := float64(c.ScreenH)/2 - (y-c.Y)*c.PixelsPerUnit
	return sx, sy
}

func (c *Camera) ToWorld(sx, sy float64) (float64, float64) {
	x := (sx-float64(c.ScreenW)/2)/c.PixelsPerUnit + c.X
	y := (float64(c.ScreenH)/2-sy)/c.PixelsPerUnit + c.Y
	return x, y
}

// RectToScreen converts a box centred on (x, y) to its top-left corner and
// size in pixels.
func (c *Camera) RectToScreen(x, y, w, h float64) (float32, float32, float32, float32) {
	left, top := c.ToScreen(x-w/2, y+h/2)
	return float32(left), float32(top), float32(w * c.PixelsPerUnit), float32(h * c.PixelsPerUnit)
}

// Follow eases the camera toward a target, keeping it inside the level when
// bounds are known.
func (c *Camera) Follow(x, y, levelW, levelH float64) {
	t := c.Smoothing
	if t <= 0 || t > 1 {
		t = 1
	}
	c.X = common.Lerp(c.X, x, t)
	c.Y = common.Lerp(c.Y, y, t)
	if levelW <= 0 || levelH <= 0 {
		return
	}
	halfW := float64(c.ScreenW) / 2 / c.PixelsPerUnit
	halfH := float64(c.ScreenH) / 2 / c.PixelsPerUnit
	c.X = clampAxis(c.X, halfW, levelW)
	c.Y = clampAxis(c.Y, halfH, levelH)
}

func clampAxis(v, half, size float64) float64 {
	if size <= 2*half {
		return size / 2
	}
	return common.Clamp(v, half, size-half)
}
