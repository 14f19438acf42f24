package view

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcad/agentcad/internal/state"
	"github.com/agentcad/agentcad/pkg/cad"
)

// cubeStore loads a unit-scale box spanning (0,0,0)..(10,10,10).
func cubeStore() *state.Store {
	s := state.NewStore()
	mesh := &cad.MeshData{
		Vertices: []float32{
			0, 0, 0,
			10, 10, 10,
		},
		NumFaces: 1,
	}
	s.Load(mesh, []cad.FaceMetadata{{ID: 0, SurfaceType: cad.SurfacePlanar}}, cad.ModelInfo{}, "cube.step")
	return s
}

func TestFitToExtents(t *testing.T) {
	s := cubeStore()
	c := NewController(s, NewCamera())
	c.FitToExtents()

	cam := c.Camera()
	assert.Equal(t, Vec3{X: 5, Y: 5, Z: 5}, cam.Target)

	expected := framingDistance(10, 45)
	offset := cam.Position.Add(cam.Target.Scale(-1))
	assert.InDelta(t, float64(expected), float64(offset.Length()), 1e-3)
}

func TestFramingDistanceFormula(t *testing.T) {
	// maxDim / (2 tan(fov/2)) * 1.5
	expected := 10 / (2 * math32.Tan(45*math32.Pi/360)) * 1.5
	assert.InDelta(t, float64(expected), float64(framingDistance(10, 45)), 1e-5)
}

func TestSetViewTopUsesZUp(t *testing.T) {
	s := cubeStore()
	c := NewController(s, NewCamera())

	require.NoError(t, c.SetView("top", 1.0))
	cam := c.Camera()
	assert.Equal(t, Vec3{Z: -1}, cam.Up)
	assert.Greater(t, cam.Position.Y, cam.Target.Y)
	assert.InDelta(t, float64(cam.Target.X), float64(cam.Position.X), 1e-6)
	assert.InDelta(t, float64(cam.Target.Z), float64(cam.Position.Z), 1e-6)
}

func TestSetViewZoomHalvesDistance(t *testing.T) {
	s := cubeStore()
	c := NewController(s, NewCamera())

	require.NoError(t, c.SetView("front", 1.0))
	far := c.Camera().Position.Add(c.Camera().Target.Scale(-1)).Length()

	require.NoError(t, c.SetView("front", 2.0))
	near := c.Camera().Position.Add(c.Camera().Target.Scale(-1)).Length()

	assert.InDelta(t, float64(far/2), float64(near), 1e-3)
}

func TestSetViewUnknownName(t *testing.T) {
	s := cubeStore()
	c := NewController(s, NewCamera())
	assert.Error(t, c.SetView("diagonal", 1.0))
}

func TestSetViewWithoutModel(t *testing.T) {
	c := NewController(state.NewStore(), NewCamera())
	assert.Error(t, c.SetView("front", 1.0))
}

func TestFitToExtentsWithoutModelIsNoOp(t *testing.T) {
	cam := NewCamera()
	c := NewController(state.NewStore(), cam)
	c.FitToExtents()
	assert.Equal(t, Vec3{}, cam.Position)
}
