// Package state owns the authoritative in-memory model of a loaded CAD
// model: mesh and face metadata, the current selection, feature groups,
// hover and display flags. All mutations funnel through the Store so the
// selection/feature invariants are enforced in one place, and every
// completed mutation notifies subscribed listeners.
package state

import (
	"sync"

	"github.com/agentcad/agentcad/pkg/cad"
)

// EventKind identifies which part of the store changed.
type EventKind int

const (
	// EventModelLoaded fires after a full model replace.
	EventModelLoaded EventKind = iota
	// EventSelectionChanged fires after the selection set changed.
	EventSelectionChanged
	// EventFeaturesChanged fires after a feature was created, deleted or
	// imported.
	EventFeaturesChanged
	// EventDisplayChanged fires after a display flag changed.
	EventDisplayChanged
	// EventHoverChanged fires after the hover face changed.
	EventHoverChanged
)

// Event is delivered to listeners after a mutation completes.
type Event struct {
	Kind EventKind
}

// PlaneAxis names one of the principal planes, or is empty for "off".
type PlaneAxis string

// Principal planes for clip and grid placement.
const (
	PlaneNone PlaneAxis = ""
	PlaneXY   PlaneAxis = "XY"
	PlaneYZ   PlaneAxis = "YZ"
	PlaneXZ   PlaneAxis = "XZ"
)

// Display holds the independent view toggles. The zero value is not the
// default; see DefaultDisplay.
type Display struct {
	XRay          bool
	Wireframe     bool
	ColorsVisible bool
	ClipPlane     PlaneAxis
	ClipOffset    float64
	ClipFlip      bool
	GridPlane     PlaneAxis
}

// DefaultDisplay returns the display flags used before the user changes
// anything.
func DefaultDisplay() Display {
	return Display{
		Wireframe:     true,
		ColorsVisible: true,
	}
}

// NoHover marks the hover state as empty.
const NoHover = -1

// Store is the single owner of all model interaction state. It is safe
// for use from the transport goroutine and UI callers concurrently;
// listeners are invoked after the mutation lock is released and must not
// call mutation methods from inside the callback.
type Store struct {
	mu sync.Mutex

	mesh     *cad.MeshData
	faces    []cad.FaceMetadata
	faceByID map[int]int // face id -> index into faces
	info     cad.ModelInfo
	filename string
	loadSeq  uint64

	selection map[int]struct{}
	hover     int

	features      []*cad.Feature
	faceToFeature map[int]string

	display Display

	listeners []func(Event)
}

// NewStore creates an empty store with default display flags.
func NewStore() *Store {
	return &Store{
		faceByID:      make(map[int]int),
		selection:     make(map[int]struct{}),
		hover:         NoHover,
		faceToFeature: make(map[int]string),
		display:       DefaultDisplay(),
	}
}

// Subscribe registers a listener that is called after every completed
// mutation. Listeners run on the mutating goroutine.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// notify calls listeners outside the lock so a slow listener cannot block
// other readers. Must be called without the lock held.
func (s *Store) notify(kind EventKind) {
	s.mu.Lock()
	listeners := make([]func(Event), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(Event{Kind: kind})
	}
}

// Load replaces the model wholesale. Selection, hover, features and the
// clip plane are reset; other display flags persist. Features are derived
// from hierarchical step names embedded in the face metadata.
func (s *Store) Load(mesh *cad.MeshData, faces []cad.FaceMetadata, info cad.ModelInfo, filename string) {
	s.mu.Lock()
	s.mesh = mesh
	s.faces = faces
	s.faceByID = make(map[int]int, len(faces))
	for i, f := range faces {
		s.faceByID[f.ID] = i
	}
	s.info = info
	s.filename = filename
	s.loadSeq++

	s.selection = make(map[int]struct{})
	s.hover = NoHover
	s.features = nil
	s.faceToFeature = make(map[int]string)
	s.display.ClipPlane = PlaneNone
	s.display.ClipOffset = 0
	s.display.ClipFlip = false

	s.importFromNamesLocked()
	s.mu.Unlock()

	s.notify(EventModelLoaded)
}

// Clear drops the loaded model and all derived state.
func (s *Store) Clear() {
	s.mu.Lock()
	s.mesh = nil
	s.faces = nil
	s.faceByID = make(map[int]int)
	s.info = cad.ModelInfo{}
	s.filename = ""
	s.loadSeq++
	s.selection = make(map[int]struct{})
	s.hover = NoHover
	s.features = nil
	s.faceToFeature = make(map[int]string)
	s.display.ClipPlane = PlaneNone
	s.display.ClipOffset = 0
	s.display.ClipFlip = false
	s.mu.Unlock()

	s.notify(EventModelLoaded)
}

// HasModel reports whether a model is currently loaded.
func (s *Store) HasModel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mesh != nil
}

// Mesh returns the loaded mesh. The mesh is owned by the store and must
// be treated as read-only.
func (s *Store) Mesh() *cad.MeshData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mesh
}

// Info returns the loaded model info.
func (s *Store) Info() cad.ModelInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// Filename returns the name of the loaded source file.
func (s *Store) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filename
}

// LoadSeq returns the identity of the current load. Handlers of
// asynchronous results compare it against the value captured when the
// request started and discard stale results.
func (s *Store) LoadSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSeq
}

// Face returns the metadata for a face id.
func (s *Store) Face(id int) (cad.FaceMetadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.faceByID[id]
	if !ok {
		return cad.FaceMetadata{}, false
	}
	return s.faces[idx], true
}

// Faces returns a copy of all face metadata.
func (s *Store) Faces() []cad.FaceMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]cad.FaceMetadata, len(s.faces))
	copy(out, s.faces)
	return out
}

// SetHover sets the transient hover face. Pass NoHover when the pointer
// leaves the model.
func (s *Store) SetHover(id int) {
	s.mu.Lock()
	if id != NoHover {
		if _, ok := s.faceByID[id]; !ok {
			s.mu.Unlock()
			return
		}
	}
	if s.hover == id {
		s.mu.Unlock()
		return
	}
	s.hover = id
	s.mu.Unlock()

	s.notify(EventHoverChanged)
}

// Hover returns the hovered face id, or NoHover.
func (s *Store) Hover() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hover
}

// Display returns the current display flags.
func (s *Store) Display() Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

// SetXRay toggles x-ray transparency.
func (s *Store) SetXRay(on bool) {
	s.mu.Lock()
	s.display.XRay = on
	s.mu.Unlock()
	s.notify(EventDisplayChanged)
}

// SetWireframe toggles topology edge visibility.
func (s *Store) SetWireframe(on bool) {
	s.mu.Lock()
	s.display.Wireframe = on
	s.mu.Unlock()
	s.notify(EventDisplayChanged)
}

// SetColorsVisible toggles feature color display.
func (s *Store) SetColorsVisible(on bool) {
	s.mu.Lock()
	s.display.ColorsVisible = on
	s.mu.Unlock()
	s.notify(EventDisplayChanged)
}

// SetClipPlane configures the clip plane. PlaneNone disables clipping.
func (s *Store) SetClipPlane(plane PlaneAxis, offset float64, flip bool) {
	s.mu.Lock()
	s.display.ClipPlane = plane
	s.display.ClipOffset = offset
	s.display.ClipFlip = flip
	s.mu.Unlock()
	s.notify(EventDisplayChanged)
}

// SetGridPlane configures the ground grid plane. PlaneNone hides it.
func (s *Store) SetGridPlane(plane PlaneAxis) {
	s.mu.Lock()
	s.display.GridPlane = plane
	s.mu.Unlock()
	s.notify(EventDisplayChanged)
}
