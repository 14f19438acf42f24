package cad

import "github.com/agentcad/agentcad/pkg/geometry"

// TriangleCount returns the number of triangles in the mesh
func (m *MeshData) TriangleCount() int {
	return len(m.Triangles) / 3
}

// VertexCount returns the number of vertices in the mesh
func (m *MeshData) VertexCount() int {
	return len(m.Vertices) / 3
}

// BoundingBox calculates the axis-aligned bounding box of all mesh vertices
func (m *MeshData) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		bbox.Extend(geometry.Vector3{
			X: float64(m.Vertices[i]),
			Y: float64(m.Vertices[i+1]),
			Z: float64(m.Vertices[i+2]),
		})
	}
	return bbox
}

// FaceTriangles returns the indices of all triangles belonging to the
// given face id.
func (m *MeshData) FaceTriangles(faceID int) []int {
	var tris []int
	for i, id := range m.FaceIDs {
		if int(id) == faceID {
			tris = append(tris, i)
		}
	}
	return tris
}
