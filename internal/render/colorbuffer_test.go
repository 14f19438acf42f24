package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcad/agentcad/pkg/cad"
)

// testMesh has 3 faces with one triangle each; triangles share no vertices
// so per-face painting is easy to assert.
func testMesh() *cad.MeshData {
	return &cad.MeshData{
		Vertices:  make([]float32, 9*3),
		Triangles: []int32{0, 1, 2, 3, 4, 5, 6, 7, 8},
		FaceIDs:   []int32{0, 1, 2},
		NumFaces:  3,
	}
}

func vertexColor(buf []float32, vertex int) [3]float32 {
	return [3]float32{buf[vertex*3], buf[vertex*3+1], buf[vertex*3+2]}
}

func TestBuildFillsBase(t *testing.T) {
	b := NewBuilder()
	buf := b.Build(testMesh(), Frame{Hover: -1})

	require.Len(t, buf, 27)
	for v := 0; v < 9; v++ {
		assert.Equal(t, baseColor, vertexColor(buf, v))
	}
}

func TestBuildPriorityOrder(t *testing.T) {
	featureRed := [3]float32{0.8, 0.1, 0.1}
	frame := Frame{
		Selection:     map[int]struct{}{2: {}},
		Hover:         1,
		FaceColors:    map[int][3]float32{0: featureRed, 1: featureRed, 2: featureRed},
		ColorsVisible: true,
	}

	b := NewBuilder()
	buf := b.Build(testMesh(), frame)

	// Face 0: feature color only.
	assert.Equal(t, featureRed, vertexColor(buf, 0))
	// Face 1: hovered and not selected, hover wins over feature.
	assert.Equal(t, hoverColor, vertexColor(buf, 3))
	// Face 2: selected, selection always wins.
	assert.Equal(t, selectionColor, vertexColor(buf, 6))
}

func TestBuildHoverSuppressedOnSelectedFace(t *testing.T) {
	frame := Frame{
		Selection: map[int]struct{}{1: {}},
		Hover:     1,
	}

	b := NewBuilder()
	buf := b.Build(testMesh(), frame)

	assert.Equal(t, selectionColor, vertexColor(buf, 3))
}

func TestBuildColorsHiddenSkipsFeatures(t *testing.T) {
	frame := Frame{
		Hover:         -1,
		FaceColors:    map[int][3]float32{0: {1, 0, 0}},
		ColorsVisible: false,
	}

	b := NewBuilder()
	buf := b.Build(testMesh(), frame)

	assert.Equal(t, baseColor, vertexColor(buf, 0))
}

func TestBuildIsIdempotent(t *testing.T) {
	frame := Frame{
		Selection:     map[int]struct{}{0: {}},
		Hover:         2,
		FaceColors:    map[int][3]float32{1: {0.2, 0.4, 0.6}},
		ColorsVisible: true,
	}

	b := NewBuilder()
	first := make([]float32, 27)
	copy(first, b.Build(testMesh(), frame))

	second := b.Build(testMesh(), frame)
	assert.Equal(t, first, second)
}

func TestBuildReusesBufferAcrossCalls(t *testing.T) {
	b := NewBuilder()
	mesh := testMesh()

	buf1 := b.Build(mesh, Frame{Hover: -1})
	buf2 := b.Build(mesh, Frame{Hover: -1})
	assert.Equal(t, &buf1[0], &buf2[0], "same mesh size should reuse the arena")

	// A differently sized mesh reallocates.
	small := &cad.MeshData{
		Vertices:  make([]float32, 9),
		Triangles: []int32{0, 1, 2},
		FaceIDs:   []int32{0},
		NumFaces:  1,
	}
	buf3 := b.Build(small, Frame{Hover: -1})
	assert.Len(t, buf3, 9)
}
