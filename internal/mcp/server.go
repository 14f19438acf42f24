// Package mcp exposes the model interaction state to an AI agent over
// the Model Context Protocol. The tools mutate the same store the local
// UI and the WebSocket dispatcher mutate, so agent-driven and hand-driven
// edits stay consistent by construction.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentcad/agentcad/internal/measure"
	"github.com/agentcad/agentcad/internal/state"
	"github.com/agentcad/agentcad/internal/view"
	"github.com/agentcad/agentcad/pkg/cad"
	"github.com/agentcad/agentcad/version"
)

const defaultQueryLimit = 50

// Server wraps the store and view controller as an MCP server.
type Server struct {
	store     *state.Store
	views     *view.Controller
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers all tools.
func NewServer(store *state.Store, views *view.Controller) *Server {
	s := &Server{
		store:     store,
		views:     views,
		mcpServer: server.NewMCPServer("agentcad", strings.TrimSpace(version.GetVersion())),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_model_info",
		mcp.WithDescription("Get information about the currently loaded CAD model: filename, number of faces, length unit, and existing features."),
	), s.handleGetModelInfo)

	s.mcpServer.AddTool(mcp.NewTool("query_faces",
		mcp.WithDescription("Query face metadata. Filter by surface type, minimum/maximum area, or specific face IDs. Returns matching face metadata (id, surface_type, area, centroid, normal, radius, etc.)."),
		mcp.WithString("surface_type", mcp.Description("Filter by surface type: planar, cylindrical, conical, spherical, toroidal, bspline, etc.")),
		mcp.WithNumber("min_area", mcp.Description("Minimum face area filter.")),
		mcp.WithNumber("max_area", mcp.Description("Maximum face area filter.")),
		mcp.WithString("face_ids", mcp.Description("JSON array of specific face IDs to retrieve.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results to return. Defaults to 50.")),
	), s.handleQueryFaces)

	s.mcpServer.AddTool(mcp.NewTool("select_faces",
		mcp.WithDescription("Select (highlight) faces in the 3D viewport by their IDs. Replaces the current selection."),
		mcp.WithString("face_ids", mcp.Required(), mcp.Description("JSON array of face IDs to select.")),
	), s.handleSelectFaces)

	s.mcpServer.AddTool(mcp.NewTool("clear_selection",
		mcp.WithDescription("Clear all face selections in the 3D viewport."),
	), s.handleClearSelection)

	s.mcpServer.AddTool(mcp.NewTool("create_feature",
		mcp.WithDescription("Create a named feature from the currently selected faces. Faces must be selected first (use select_faces). The name should be snake_case."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Feature name in snake_case, e.g. 'mounting_holes'.")),
	), s.handleCreateFeature)

	s.mcpServer.AddTool(mcp.NewTool("delete_feature",
		mcp.WithDescription("Delete a named feature, unassigning its faces."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the feature to delete.")),
	), s.handleDeleteFeature)

	s.mcpServer.AddTool(mcp.NewTool("set_display",
		mcp.WithDescription("Control viewport display settings: x-ray mode, wireframe visibility, face colors, clip planes, and fit-to-extents."),
		mcp.WithBoolean("xray", mcp.Description("Enable or disable x-ray (transparent) mode.")),
		mcp.WithBoolean("wireframe", mcp.Description("Show or hide wireframe edges.")),
		mcp.WithBoolean("colors", mcp.Description("Show or hide face colors.")),
		mcp.WithString("clip_plane", mcp.Description("Clip plane: XY, YZ, XZ, or off.")),
		mcp.WithBoolean("fit_all", mcp.Description("Fit the camera to the model extents.")),
	), s.handleSetDisplay)

	s.mcpServer.AddTool(mcp.NewTool("set_view",
		mcp.WithDescription("Set the camera to a named view orientation."),
		mcp.WithString("view", mcp.Required(), mcp.Description("View name: front, back, left, right, top, bottom, or isometric.")),
		mcp.WithNumber("zoom", mcp.Description("Zoom factor: 1.0 fits the model, 2.0 is twice as close.")),
	), s.handleSetView)

	s.mcpServer.AddTool(mcp.NewTool("measure_selection",
		mcp.WithDescription("Measure the currently selected faces: radius/diameter for one cylinder, distance or angle for face pairs."),
	), s.handleMeasureSelection)
}

func (s *Server) handleGetModelInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.store.HasModel() {
		return mcp.NewToolResultText("No model loaded. Ask the user to import a STEP file first."), nil
	}

	info := s.store.Info()
	features := s.store.Features()
	featureNames := make([]string, 0, len(features))
	for _, f := range features {
		featureNames = append(featureNames, f.Name)
	}

	result := map[string]any{
		"filename":    s.store.Filename(),
		"num_faces":   info.NumFaces,
		"length_unit": info.LengthUnit,
		"features":    featureNames,
		"selection":   s.store.Selection(),
	}
	return jsonResult(result)
}

func (s *Server) handleQueryFaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.store.HasModel() {
		return mcp.NewToolResultError("no model loaded"), nil
	}
	args := request.GetArguments()

	var wantIDs map[int]struct{}
	if raw, ok := args["face_ids"].(string); ok && raw != "" {
		ids, err := parseIDList(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid face_ids: %v", err)), nil
		}
		wantIDs = make(map[int]struct{}, len(ids))
		for _, id := range ids {
			wantIDs[id] = struct{}{}
		}
	}

	surfaceType, _ := args["surface_type"].(string)
	minArea, hasMin := args["min_area"].(float64)
	maxArea, hasMax := args["max_area"].(float64)
	limit := defaultQueryLimit
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	var matches []cad.FaceMetadata
	for _, face := range s.store.Faces() {
		if surfaceType != "" && string(face.SurfaceType) != surfaceType {
			continue
		}
		if hasMin && face.Area < minArea {
			continue
		}
		if hasMax && face.Area > maxArea {
			continue
		}
		if wantIDs != nil {
			if _, ok := wantIDs[face.ID]; !ok {
				continue
			}
		}
		matches = append(matches, face)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return jsonResult(map[string]any{"count": len(matches), "faces": matches})
}

func (s *Server) handleSelectFaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("face_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ids, err := parseIDList(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid face_ids: %v", err)), nil
	}

	s.store.SelectFaces(ids)
	return mcp.NewToolResultText(fmt.Sprintf("Selected %d faces.", len(s.store.Selection()))), nil
}

func (s *Server) handleClearSelection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.store.ClearSelection()
	return mcp.NewToolResultText("Selection cleared."), nil
}

func (s *Server) handleCreateFeature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	feature, err := s.store.CreateFeature(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created feature %q with %d faces.", feature.Name, len(feature.Members))), nil
}

func (s *Server) handleDeleteFeature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.store.DeleteFeature(name)
	return mcp.NewToolResultText(fmt.Sprintf("Deleted feature %q if it existed.", name)), nil
}

func (s *Server) handleSetDisplay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	var applied []string

	if v, ok := args["xray"].(bool); ok {
		s.store.SetXRay(v)
		applied = append(applied, fmt.Sprintf("xray=%t", v))
	}
	if v, ok := args["wireframe"].(bool); ok {
		s.store.SetWireframe(v)
		applied = append(applied, fmt.Sprintf("wireframe=%t", v))
	}
	if v, ok := args["colors"].(bool); ok {
		s.store.SetColorsVisible(v)
		applied = append(applied, fmt.Sprintf("colors=%t", v))
	}
	if v, ok := args["clip_plane"].(string); ok && v != "" {
		switch v {
		case "off":
			s.store.SetClipPlane(state.PlaneNone, 0, false)
		case string(state.PlaneXY), string(state.PlaneYZ), string(state.PlaneXZ):
			s.store.SetClipPlane(state.PlaneAxis(v), 0, false)
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown clip plane %q", v)), nil
		}
		applied = append(applied, "clip_plane="+v)
	}
	if v, ok := args["fit_all"].(bool); ok && v {
		s.views.FitToExtents()
		applied = append(applied, "fit_all")
	}

	if len(applied) == 0 {
		return mcp.NewToolResultText("No display settings changed."), nil
	}
	return mcp.NewToolResultText("Applied: " + strings.Join(applied, ", ")), nil
}

func (s *Server) handleSetView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("view")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	zoom := 1.0
	if z, ok := request.GetArguments()["zoom"].(float64); ok && z > 0 {
		zoom = z
	}

	if err := s.views.SetView(name, float32(zoom)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("View set to %s at zoom %.1f.", name, zoom)), nil
}

func (s *Server) handleMeasureSelection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := s.store.Info()
	selected := s.store.SelectedFaces()

	m, ok := measure.Measure(selected, info.LengthScale, info.LengthUnit)
	if !ok {
		return mcp.NewToolResultText("No measurement available for the current selection. Select one cylindrical face or two planar/cylindrical faces."), nil
	}
	return mcp.NewToolResultText(m.String()), nil
}

func parseIDList(raw string) ([]int, error) {
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
