package math3d

// Vec2 represents a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Float32 returns the components narrowed to float32.
func (a Vec2) Float32() [2]float32 {
	return [2]float32{float32(a.X), float32(a.Y)}
}
