package transport

import (
	"encoding/json"
	"fmt"

	"github.com/agentcad/agentcad/pkg/cad"
)

// Wire message type tags.
const (
	TypeChat              = "chat"
	TypeSystem            = "system"
	TypeDrawing           = "drawing"
	TypeCadUpdate         = "cad_update"
	TypeCadCommand        = "cad_command"
	TypeScreenshotRequest = "screenshot_request"
)

// cad_command action tags.
const (
	ActionSelectFaces    = "select_faces"
	ActionClearSelection = "clear_selection"
	ActionCreateFeature  = "create_feature"
	ActionDeleteFeature  = "delete_feature"
	ActionSetDisplay     = "set_display"
	ActionSetView        = "set_view"
)

// ChatMessage is a conversational message in either direction.
type ChatMessage struct {
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage carries server status text.
type SystemMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// DrawPoint is one point of a 2D annotation stroke.
type DrawPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawingMessage carries 2D annotation strokes drawn over the viewport.
type DrawingMessage struct {
	Type   string      `json:"type"`
	Points []DrawPoint `json:"points"`
	Action string      `json:"action"`
}

// CadUpdateMessage replaces the whole model, equivalent to a fresh load.
type CadUpdateMessage struct {
	Type     string             `json:"type"`
	Mesh     *cad.MeshData      `json:"mesh"`
	Faces    []cad.FaceMetadata `json:"faces"`
	Info     cad.ModelInfo      `json:"info"`
	Filename string             `json:"filename"`
}

// CadCommandMessage mutates interaction state. Only the fields relevant
// to the action are set; pointer fields distinguish "absent" from a
// false boolean.
type CadCommandMessage struct {
	Type       string  `json:"type"`
	Action     string  `json:"action"`
	FaceIDs    []int   `json:"face_ids,omitempty"`
	Name       string  `json:"name,omitempty"`
	XRay       *bool   `json:"xray,omitempty"`
	Wireframe  *bool   `json:"wireframe,omitempty"`
	Colors     *bool   `json:"colors,omitempty"`
	ClipPlane  string  `json:"clip_plane,omitempty"`
	ClipOffset float64 `json:"clip_offset,omitempty"`
	ClipFlip   bool    `json:"clip_flip,omitempty"`
	GridPlane  string  `json:"grid_plane,omitempty"`
	FitAll     bool    `json:"fit_all,omitempty"`
	View       string  `json:"view,omitempty"`
	Zoom       float64 `json:"zoom,omitempty"`
}

// decodeMessage validates a raw frame against the known message variants
// and returns the typed message, or an error for unknown or malformed
// payloads. Partial objects never escape this boundary.
func decodeMessage(data []byte) (any, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	switch tag.Type {
	case TypeChat:
		var msg ChatMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("malformed chat message: %w", err)
		}
		return msg, nil
	case TypeSystem:
		var msg SystemMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("malformed system message: %w", err)
		}
		return msg, nil
	case TypeDrawing:
		var msg DrawingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("malformed drawing message: %w", err)
		}
		return msg, nil
	case TypeCadUpdate:
		var msg CadUpdateMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("malformed cad_update message: %w", err)
		}
		return msg, nil
	case TypeCadCommand:
		var msg CadCommandMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("malformed cad_command message: %w", err)
		}
		return msg, nil
	case TypeScreenshotRequest:
		return screenshotRequest{}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", tag.Type)
	}
}

type screenshotRequest struct{}
