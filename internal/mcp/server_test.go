package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcad/agentcad/internal/state"
	"github.com/agentcad/agentcad/internal/view"
	"github.com/agentcad/agentcad/pkg/cad"
)

func fptr(v float64) *float64 { return &v }

func testServer(t *testing.T) *Server {
	t.Helper()
	store := state.NewStore()
	mesh := &cad.MeshData{
		Vertices: []float32{
			0, 0, 0, 10, 0, 0, 0, 10, 0,
			0, 0, 10, 10, 0, 10, 0, 10, 10,
		},
		Normals:   make([]float32, 18),
		Triangles: []int32{0, 1, 2, 3, 4, 5, 0, 1, 3},
		FaceIDs:   []int32{0, 1, 2},
		NumFaces:  3,
	}
	faces := []cad.FaceMetadata{
		{ID: 0, SurfaceType: cad.SurfacePlanar, Area: 100},
		{ID: 1, SurfaceType: cad.SurfacePlanar, Area: 0.5},
		{ID: 2, SurfaceType: cad.SurfaceCylindrical, Area: 12,
			Radius: fptr(3), ArcAngle: fptr(360)},
	}
	store.Load(mesh, faces, cad.ModelInfo{NumFaces: 3, LengthUnit: "mm", LengthScale: 1.0}, "part.step")
	return NewServer(store, view.NewController(store, view.NewCamera()))
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestQueryFacesFilters(t *testing.T) {
	s := testServer(t)

	cases := []struct {
		name string
		args map[string]any
		want []int
	}{
		{"by surface type", map[string]any{"surface_type": "planar"}, []int{0, 1}},
		{"by min area", map[string]any{"min_area": 1.0}, []int{0, 2}},
		{"by max area", map[string]any{"max_area": 1.0}, []int{1}},
		{"by ids", map[string]any{"face_ids": "[2]"}, []int{2}},
		{"limited", map[string]any{"limit": 2.0}, []int{0, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := s.handleQueryFaces(context.Background(), callRequest("query_faces", tc.args))
			require.NoError(t, err)

			var got struct {
				Count int                `json:"count"`
				Faces []cad.FaceMetadata `json:"faces"`
			}
			require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
			ids := make([]int, 0, len(got.Faces))
			for _, f := range got.Faces {
				ids = append(ids, f.ID)
			}
			assert.Equal(t, tc.want, ids)
			assert.Equal(t, len(tc.want), got.Count)
		})
	}
}

func TestQueryFacesRejectsBadIDList(t *testing.T) {
	s := testServer(t)

	res, err := s.handleQueryFaces(context.Background(),
		callRequest("query_faces", map[string]any{"face_ids": "not json"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestSelectFacesTool(t *testing.T) {
	s := testServer(t)

	res, err := s.handleSelectFaces(context.Background(),
		callRequest("select_faces", map[string]any{"face_ids": "[0, 2]"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, []int{0, 2}, s.store.Selection())

	_, err = s.handleClearSelection(context.Background(), callRequest("clear_selection", nil))
	require.NoError(t, err)
	assert.Empty(t, s.store.Selection())
}

func TestCreateFeatureTool(t *testing.T) {
	s := testServer(t)
	s.store.SelectFaces([]int{0, 1})

	res, err := s.handleCreateFeature(context.Background(),
		callRequest("create_feature", map[string]any{"name": "base_plates"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	_, ok := s.store.Feature("base_plates")
	assert.True(t, ok)
	assert.Empty(t, s.store.Selection())

	// Invalid names surface as tool errors, not Go errors.
	res, err = s.handleCreateFeature(context.Background(),
		callRequest("create_feature", map[string]any{"name": "Bad Name"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestMeasureSelectionTool(t *testing.T) {
	s := testServer(t)
	s.store.SelectFaces([]int{2})

	res, err := s.handleMeasureSelection(context.Background(), callRequest("measure_selection", nil))
	require.NoError(t, err)
	assert.Equal(t, "Diameter: 6.000 mm", resultText(t, res))
}

func TestSetViewTool(t *testing.T) {
	s := testServer(t)

	res, err := s.handleSetView(context.Background(),
		callRequest("set_view", map[string]any{"view": "top", "zoom": 2.0}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleSetView(context.Background(),
		callRequest("set_view", map[string]any{"view": "sideways"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetModelInfoWithoutModel(t *testing.T) {
	store := state.NewStore()
	s := NewServer(store, view.NewController(store, view.NewCamera()))

	res, err := s.handleGetModelInfo(context.Background(), callRequest("get_model_info", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "No model loaded")
}
