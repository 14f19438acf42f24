package state

import (
	"sort"

	"github.com/agentcad/agentcad/pkg/cad"
)

// SelectFace applies the click-selection rules for a single face. Under
// additive selection the face's membership is toggled. Otherwise the
// selection is replaced by the face, except that clicking the currently
// sole-selected face clears the selection. Unknown ids are rejected
// before any state changes.
func (s *Store) SelectFace(id int, additive bool) {
	s.mu.Lock()
	if _, ok := s.faceByID[id]; !ok {
		s.mu.Unlock()
		return
	}

	if additive {
		if _, selected := s.selection[id]; selected {
			delete(s.selection, id)
		} else {
			s.selection[id] = struct{}{}
		}
	} else {
		_, selected := s.selection[id]
		if selected && len(s.selection) == 1 {
			// Click on the only selected face deselects it.
			s.selection = make(map[int]struct{})
		} else {
			s.selection = map[int]struct{}{id: {}}
		}
	}
	s.mu.Unlock()

	s.notify(EventSelectionChanged)
}

// SelectFaces replaces the selection wholesale. This is the agent path:
// unknown ids are skipped rather than failing the whole command.
func (s *Store) SelectFaces(ids []int) {
	s.mu.Lock()
	next := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.faceByID[id]; ok {
			next[id] = struct{}{}
		}
	}
	s.selection = next
	s.mu.Unlock()

	s.notify(EventSelectionChanged)
}

// ClearSelection empties the selection unconditionally.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	if len(s.selection) == 0 {
		s.mu.Unlock()
		return
	}
	s.selection = make(map[int]struct{})
	s.mu.Unlock()

	s.notify(EventSelectionChanged)
}

// IsSelected reports whether the face is in the selection.
func (s *Store) IsSelected(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selection[id]
	return ok
}

// Selection returns the selected face ids in ascending order.
func (s *Store) Selection() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionLocked()
}

func (s *Store) selectionLocked() []int {
	ids := make([]int, 0, len(s.selection))
	for id := range s.selection {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SelectionSet returns a copy of the selection as a set.
func (s *Store) SelectionSet() map[int]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]struct{}, len(s.selection))
	for id := range s.selection {
		out[id] = struct{}{}
	}
	return out
}

// SelectedFaces returns the metadata of the selected faces in ascending
// id order.
func (s *Store) SelectedFaces() []cad.FaceMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	faces := make([]cad.FaceMetadata, 0, len(s.selection))
	for _, id := range s.selectionLocked() {
		faces = append(faces, s.faces[s.faceByID[id]])
	}
	return faces
}
