// Package render derives per-vertex display colors from the interaction
// state. It owns a single pre-allocated color buffer that is rewritten in
// full on every build; downstream rendering replaces its copy atomically
// and never patches it.
package render

import "github.com/agentcad/agentcad/pkg/cad"

// Colors used by the vertex painter. Feature colors come from the palette
// carried on each feature.
var (
	baseColor      = [3]float32{0.72, 0.73, 0.75}
	hoverColor     = [3]float32{1.00, 0.85, 0.40}
	selectionColor = [3]float32{1.00, 0.55, 0.10}
)

// Frame is the snapshot of interaction state a color buffer is derived
// from.
type Frame struct {
	Selection     map[int]struct{}
	Hover         int
	FaceColors    map[int][3]float32
	ColorsVisible bool
}

// Builder computes vertex color buffers. It keeps its output buffer
// between calls and reuses it while the mesh size is unchanged; the
// returned slice is owned by the Builder and overwritten by the next
// Build.
type Builder struct {
	buf []float32
}

// NewBuilder creates a color buffer builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build derives the per-vertex color buffer (3 floats per vertex) for the
// mesh under the given frame. Priority order, later wins: neutral base,
// feature color (when colors are visible), hover (only while the hovered
// face is unselected), selection. The walk is a full pass over all
// triangles every time; identical inputs produce identical output.
func (b *Builder) Build(mesh *cad.MeshData, frame Frame) []float32 {
	size := mesh.VertexCount() * 3
	if len(b.buf) != size {
		b.buf = make([]float32, size)
	}

	for i := 0; i < size; i += 3 {
		b.buf[i] = baseColor[0]
		b.buf[i+1] = baseColor[1]
		b.buf[i+2] = baseColor[2]
	}

	if frame.ColorsVisible && len(frame.FaceColors) > 0 {
		for t := 0; t < mesh.TriangleCount(); t++ {
			color, ok := frame.FaceColors[int(mesh.FaceIDs[t])]
			if !ok {
				continue
			}
			b.paintTriangle(mesh, t, color)
		}
	}

	if frame.Hover >= 0 {
		if _, selected := frame.Selection[frame.Hover]; !selected {
			for t := 0; t < mesh.TriangleCount(); t++ {
				if int(mesh.FaceIDs[t]) == frame.Hover {
					b.paintTriangle(mesh, t, hoverColor)
				}
			}
		}
	}

	if len(frame.Selection) > 0 {
		for t := 0; t < mesh.TriangleCount(); t++ {
			if _, selected := frame.Selection[int(mesh.FaceIDs[t])]; selected {
				b.paintTriangle(mesh, t, selectionColor)
			}
		}
	}

	return b.buf
}

func (b *Builder) paintTriangle(mesh *cad.MeshData, tri int, color [3]float32) {
	for corner := 0; corner < 3; corner++ {
		v := int(mesh.Triangles[tri*3+corner]) * 3
		b.buf[v] = color[0]
		b.buf[v+1] = color[1]
		b.buf[v+2] = color[2]
	}
}
