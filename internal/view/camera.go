// Package view computes camera placement for the external renderer. It
// reads the store's mesh bounds and produces position, target and up
// vectors; rasterization and the orbit widget live outside this module.
package view

import "github.com/chewxy/math32"

// Vec3 is a float32 vector matching the precision the renderer consumes.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Scale multiplies the vector by a scalar
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector in the same direction
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return v.Scale(1 / length)
}

// Camera holds the orbit camera state shared with the renderer.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
	// FOV is the vertical field of view in degrees.
	FOV float32
}

// NewCamera creates a camera with the default field of view.
func NewCamera() *Camera {
	return &Camera{
		Up:  Vec3{Y: 1},
		FOV: 45,
	}
}

// framingDistance is the camera distance at which a model of the given
// maximum dimension fills the view with a comfortable margin.
func framingDistance(maxDim, fov float32) float32 {
	return maxDim / (2 * math32.Tan(fov*math32.Pi/360)) * 1.5
}
