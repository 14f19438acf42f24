package state

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/agentcad/agentcad/pkg/cad"
)

// ValidationError reports a rejected mutation. It carries a user-facing
// message and is returned, never panicked, so both the UI and the agent
// can present it without special handling.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// featureNamePattern: lowercase letter, then lowercase letters, digits or
// underscores.
var featureNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// featurePalette is the fixed 10-entry color cycle assigned to features
// in creation order.
var featurePalette = [10][3]float32{
	{0.122, 0.467, 0.706}, // blue
	{1.000, 0.498, 0.055}, // orange
	{0.173, 0.627, 0.173}, // green
	{0.839, 0.153, 0.157}, // red
	{0.580, 0.404, 0.741}, // purple
	{0.549, 0.337, 0.294}, // brown
	{0.890, 0.467, 0.761}, // pink
	{0.498, 0.498, 0.498}, // gray
	{0.737, 0.741, 0.133}, // olive
	{0.090, 0.745, 0.812}, // cyan
}

// PaletteColor returns the palette entry for the given creation index.
func PaletteColor(index int) [3]float32 {
	return featurePalette[index%len(featurePalette)]
}

// CreateFeature groups the current selection into a named feature. The
// name must match the feature name pattern, the selection must be
// non-empty, the name must be unused, and no selected face may already
// belong to another feature. On success the selection is cleared and
// sub-names are generated per surface type. The store is never mutated
// on failure.
func (s *Store) CreateFeature(name string) (*cad.Feature, error) {
	s.mu.Lock()

	if !featureNamePattern.MatchString(name) {
		s.mu.Unlock()
		return nil, validationf("invalid feature name %q: must start with a lowercase letter and contain only lowercase letters, digits and underscores", name)
	}
	if len(s.selection) == 0 {
		s.mu.Unlock()
		return nil, validationf("no faces selected")
	}
	if s.featureByNameLocked(name) != nil {
		s.mu.Unlock()
		return nil, validationf("feature %q already exists", name)
	}
	for _, id := range s.selectionLocked() {
		if owner, owned := s.faceToFeature[id]; owned {
			s.mu.Unlock()
			return nil, validationf("face %d already belongs to feature %q", id, owner)
		}
	}

	ids := s.selectionLocked()
	feature := &cad.Feature{
		Name:    name,
		Color:   PaletteColor(len(s.features)),
		Members: s.buildMembersLocked(ids),
	}

	s.features = append(s.features, feature)
	for _, id := range ids {
		s.faceToFeature[id] = name
	}
	s.selection = make(map[int]struct{})
	s.mu.Unlock()

	s.notify(EventFeaturesChanged)
	s.notify(EventSelectionChanged)
	return feature, nil
}

// buildMembersLocked generates the member list for the given ascending
// face ids. A single face gets no sub-name. Otherwise members are named
// by surface type: the bare type string when the type occurs once, or
// type_1, type_2, ... by ascending face id when it occurs more often.
func (s *Store) buildMembersLocked(ids []int) []cad.FeatureMember {
	if len(ids) == 1 {
		return []cad.FeatureMember{{FaceID: ids[0]}}
	}

	typeCount := make(map[cad.SurfaceType]int)
	for _, id := range ids {
		typeCount[s.faces[s.faceByID[id]].SurfaceType]++
	}

	members := make([]cad.FeatureMember, 0, len(ids))
	typeSeen := make(map[cad.SurfaceType]int)
	for _, id := range ids {
		surfType := s.faces[s.faceByID[id]].SurfaceType
		member := cad.FeatureMember{FaceID: id}
		if typeCount[surfType] == 1 {
			member.SubName = string(surfType)
		} else {
			typeSeen[surfType]++
			member.SubName = fmt.Sprintf("%s_%d", surfType, typeSeen[surfType])
		}
		members = append(members, member)
	}
	return members
}

// DeleteFeature removes a feature and purges its faces from the reverse
// index. Unknown names are a no-op.
func (s *Store) DeleteFeature(name string) {
	s.mu.Lock()
	idx := -1
	for i, f := range s.features {
		if f.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	for _, member := range s.features[idx].Members {
		delete(s.faceToFeature, member.FaceID)
	}
	s.features = append(s.features[:idx], s.features[idx+1:]...)
	s.mu.Unlock()

	s.notify(EventFeaturesChanged)
}

// importFromNamesLocked derives features from hierarchical step names at
// load time. A name is split on the first "." into a top-level group and
// an optional remainder; faces sharing a group become one feature, with
// palette colors assigned in first-seen order.
func (s *Store) importFromNamesLocked() {
	for _, face := range s.faces {
		if face.StepName == "" {
			continue
		}
		group, rest, _ := strings.Cut(face.StepName, ".")
		feature := s.featureByNameLocked(group)
		if feature == nil {
			feature = &cad.Feature{
				Name:  group,
				Color: PaletteColor(len(s.features)),
			}
			s.features = append(s.features, feature)
		}
		feature.Members = append(feature.Members, cad.FeatureMember{
			FaceID:  face.ID,
			SubName: rest,
		})
		s.faceToFeature[face.ID] = group
	}
}

func (s *Store) featureByNameLocked(name string) *cad.Feature {
	for _, f := range s.features {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Feature returns a copy of the named feature.
func (s *Store) Feature(name string) (cad.Feature, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.featureByNameLocked(name)
	if f == nil {
		return cad.Feature{}, false
	}
	return copyFeature(f), true
}

// Features returns copies of all features in creation order.
func (s *Store) Features() []cad.Feature {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]cad.Feature, 0, len(s.features))
	for _, f := range s.features {
		out = append(out, copyFeature(f))
	}
	return out
}

// FeatureOf returns the name of the feature owning the face, if any.
func (s *Store) FeatureOf(faceID int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.faceToFeature[faceID]
	return name, ok
}

// FaceColors returns a map from face id to its feature's display color.
func (s *Store) FaceColors() map[int][3]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	colors := make(map[int][3]float32)
	for _, f := range s.features {
		for _, member := range f.Members {
			colors[member.FaceID] = f.Color
		}
	}
	return colors
}

// FeatureExport snapshots the feature map in the form the STEP export
// endpoint expects.
func (s *Store) FeatureExport() cad.ExportRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	req := cad.ExportRequest{Features: make(map[string][]cad.FeatureMember, len(s.features))}
	for _, f := range s.features {
		members := make([]cad.FeatureMember, len(f.Members))
		copy(members, f.Members)
		sort.Slice(members, func(i, j int) bool { return members[i].FaceID < members[j].FaceID })
		req.Features[f.Name] = members
	}
	return req
}

func copyFeature(f *cad.Feature) cad.Feature {
	out := *f
	out.Members = make([]cad.FeatureMember, len(f.Members))
	copy(out.Members, f.Members)
	return out
}
