package view

import (
	"fmt"

	"github.com/agentcad/agentcad/internal/state"
)

// namedView pairs a camera direction (from the target towards the
// camera) with the up vector it requires.
type namedView struct {
	direction Vec3
	up        Vec3
}

// isoDirection is the default three-quarter view direction.
var isoDirection = Vec3{X: 1, Y: 1, Z: 1}.Normalize()

// namedViews maps view names to their camera placement. Top and bottom
// look along the Y axis, so they need a Z-aligned up vector.
var namedViews = map[string]namedView{
	"front":     {direction: Vec3{Z: 1}, up: Vec3{Y: 1}},
	"back":      {direction: Vec3{Z: -1}, up: Vec3{Y: 1}},
	"left":      {direction: Vec3{X: -1}, up: Vec3{Y: 1}},
	"right":     {direction: Vec3{X: 1}, up: Vec3{Y: 1}},
	"top":       {direction: Vec3{Y: 1}, up: Vec3{Z: -1}},
	"bottom":    {direction: Vec3{Y: -1}, up: Vec3{Z: 1}},
	"isometric": {direction: isoDirection, up: Vec3{Y: 1}},
}

// Controller places the camera from the loaded mesh's extents.
type Controller struct {
	store  *state.Store
	camera *Camera
}

// NewController creates a view controller over the given store and
// camera.
func NewController(store *state.Store, camera *Camera) *Controller {
	return &Controller{store: store, camera: camera}
}

// Camera returns the controlled camera.
func (c *Controller) Camera() *Camera {
	return c.camera
}

// FitToExtents frames the whole model: the camera is placed along the
// isometric direction at a distance derived from the mesh bounding box,
// and the orbit target is moved to the model center. No-op without a
// loaded model.
func (c *Controller) FitToExtents() {
	center, maxDim, ok := c.extents()
	if !ok {
		return
	}
	distance := framingDistance(maxDim, c.camera.FOV)
	c.camera.Up = Vec3{Y: 1}
	c.camera.Target = center
	c.camera.Position = center.Add(isoDirection.Scale(distance))
}

// SetView places the camera at a named view. Zoom scales the framing
// distance: 1.0 fits the model, 2.0 is twice as close. The up vector is
// set before the position so top and bottom views are unambiguous.
func (c *Controller) SetView(name string, zoom float32) error {
	v, ok := namedViews[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}
	if zoom <= 0 {
		zoom = 1
	}
	center, maxDim, hasModel := c.extents()
	if !hasModel {
		return fmt.Errorf("no model loaded")
	}

	distance := framingDistance(maxDim, c.camera.FOV) / zoom

	c.camera.Up = v.up
	c.camera.Target = center
	c.camera.Position = center.Add(v.direction.Scale(distance))
	return nil
}

func (c *Controller) extents() (center Vec3, maxDim float32, ok bool) {
	mesh := c.store.Mesh()
	if mesh == nil || mesh.VertexCount() == 0 {
		return Vec3{}, 0, false
	}
	bbox := mesh.BoundingBox()
	mid := bbox.Center()
	return Vec3{X: float32(mid.X), Y: float32(mid.Y), Z: float32(mid.Z)}, float32(bbox.MaxDimension()), true
}
