// Package cad defines the data model exchanged with the CAD backend:
// tessellated mesh buffers, per-face B-rep metadata, and feature groups.
package cad

import "github.com/agentcad/agentcad/pkg/geometry"

// SurfaceType classifies the underlying B-rep surface of a face.
type SurfaceType string

// Surface types reported by the backend's tessellator.
const (
	SurfacePlanar      SurfaceType = "planar"
	SurfaceCylindrical SurfaceType = "cylindrical"
	SurfaceConical     SurfaceType = "conical"
	SurfaceSpherical   SurfaceType = "spherical"
	SurfaceToroidal    SurfaceType = "toroidal"
	SurfaceBSpline     SurfaceType = "bspline"
	SurfaceBezier      SurfaceType = "bezier"
	SurfaceRevolution  SurfaceType = "revolution"
	SurfaceExtrusion   SurfaceType = "extrusion"
	SurfaceOffset      SurfaceType = "offset"
	SurfaceOther       SurfaceType = "other"
)

// MeshData is the tessellated representation of a loaded model. Vertex
// positions and normals are flat xyz triples, triangles are flat index
// triples, and FaceIDs maps each triangle to its originating CAD face.
// Edges holds flat line-segment endpoints for topology edges.
type MeshData struct {
	Vertices  []float32 `json:"vertices"`
	Normals   []float32 `json:"normals"`
	Triangles []int32   `json:"triangles"`
	FaceIDs   []int32   `json:"face_ids"`
	NumFaces  int       `json:"num_faces"`
	Edges     []float32 `json:"edges"`
}

// FaceMetadata describes one CAD face. Surface-specific attributes
// (radius, axis, arc angle) are nil when they do not apply.
type FaceMetadata struct {
	ID            int               `json:"id"`
	SurfaceType   SurfaceType       `json:"surface_type"`
	Area          float64           `json:"area"`
	Centroid      geometry.Vector3  `json:"centroid"`
	Normal        geometry.Vector3  `json:"normal"`
	Bounds        [6]float64        `json:"bounds"`
	Radius        *float64          `json:"radius,omitempty"`
	AxisDirection *geometry.Vector3 `json:"axis_direction,omitempty"`
	AxisPoint     *geometry.Vector3 `json:"axis_point,omitempty"`
	ArcAngle      *float64          `json:"arc_angle,omitempty"`
	StepName      string            `json:"step_name,omitempty"`
}

// ModelInfo summarizes a loaded model.
type ModelInfo struct {
	NumFaces        int     `json:"num_faces"`
	NumStepEntities int     `json:"num_step_entities"`
	LengthUnit      string  `json:"length_unit"`
	LengthScale     float64 `json:"length_scale"`
}

// FeatureMember is one face inside a feature, with an optional sub-name
// used when exporting named STEP entities.
type FeatureMember struct {
	FaceID  int    `json:"face_id"`
	SubName string `json:"sub_name,omitempty"`
}

// Feature is a named group of faces with an assigned display color.
type Feature struct {
	Name    string          `json:"name"`
	Color   [3]float32      `json:"color"`
	Members []FeatureMember `json:"faces"`
}

// UploadResponse is the backend's reply to a model upload.
type UploadResponse struct {
	Success  bool           `json:"success"`
	Info     *ModelInfo     `json:"info,omitempty"`
	Mesh     *MeshData      `json:"mesh,omitempty"`
	Faces    []FaceMetadata `json:"faces,omitempty"`
	Filename string         `json:"filename,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ExportRequest carries the feature map for a named STEP export.
type ExportRequest struct {
	Features map[string][]FeatureMember `json:"features"`
}
