// Package measure computes geometric measurements between selected faces
// from their B-rep metadata. All functions are pure: they read metadata
// and produce a result, or report that no measurement applies.
package measure

import (
	"fmt"
	"math"

	"github.com/agentcad/agentcad/pkg/cad"
)

// dotThreshold detects parallel directions via |cos θ| > threshold.
const dotThreshold = 0.999

// perpThreshold detects a cylinder axis lying in a plane, i.e.
// perpendicular to the plane normal.
const perpThreshold = 0.01

// Kind labels what a measurement value represents.
type Kind int

// Measurement kinds.
const (
	KindRadius Kind = iota
	KindDiameter
	KindDistance
	KindAngle
	KindCenterDistance
	KindAxisAngle
)

// Measurement is one computed result. Lengths are already scaled to the
// model's length unit; angles are in degrees.
type Measurement struct {
	Kind  Kind
	Value float64
	Unit  string
}

// String formats the measurement for display. Lengths use 3 decimal
// places, angles 2; the precision is fixed so output is stable.
func (m Measurement) String() string {
	switch m.Kind {
	case KindRadius:
		return fmt.Sprintf("Radius: %.3f %s", m.Value, m.Unit)
	case KindDiameter:
		return fmt.Sprintf("Diameter: %.3f %s", m.Value, m.Unit)
	case KindDistance:
		return fmt.Sprintf("Distance: %.3f %s", m.Value, m.Unit)
	case KindCenterDistance:
		return fmt.Sprintf("Center distance: %.3f %s", m.Value, m.Unit)
	case KindAngle:
		return fmt.Sprintf("Angle: %.2f°", m.Value)
	case KindAxisAngle:
		return fmt.Sprintf("Axis angle: %.2f°", m.Value)
	default:
		return ""
	}
}

// Measure evaluates the selected faces. It returns false for zero or more
// than two faces, for unsupported type combinations, and when required
// attributes are missing. Results are symmetric in face order.
func Measure(faces []cad.FaceMetadata, scale float64, unit string) (Measurement, bool) {
	switch len(faces) {
	case 1:
		return measureSingle(faces[0], scale, unit)
	case 2:
		return measurePair(faces[0], faces[1], scale, unit)
	default:
		return Measurement{}, false
	}
}

func measureSingle(face cad.FaceMetadata, scale float64, unit string) (Measurement, bool) {
	if face.SurfaceType != cad.SurfaceCylindrical || face.Radius == nil || face.ArcAngle == nil {
		return Measurement{}, false
	}
	if *face.ArcAngle >= 180 {
		return Measurement{Kind: KindDiameter, Value: 2 * *face.Radius * scale, Unit: unit}, true
	}
	return Measurement{Kind: KindRadius, Value: *face.Radius * scale, Unit: unit}, true
}

func measurePair(a, b cad.FaceMetadata, scale float64, unit string) (Measurement, bool) {
	switch {
	case a.SurfaceType == cad.SurfacePlanar && b.SurfaceType == cad.SurfacePlanar:
		return measurePlanes(a, b, scale, unit)
	case a.SurfaceType == cad.SurfaceCylindrical && b.SurfaceType == cad.SurfaceCylindrical:
		return measureCylinders(a, b, scale, unit)
	case a.SurfaceType == cad.SurfaceCylindrical && b.SurfaceType == cad.SurfacePlanar:
		return measureCylinderPlane(a, b, scale, unit)
	case a.SurfaceType == cad.SurfacePlanar && b.SurfaceType == cad.SurfaceCylindrical:
		return measureCylinderPlane(b, a, scale, unit)
	default:
		return Measurement{}, false
	}
}

func measurePlanes(a, b cad.FaceMetadata, scale float64, unit string) (Measurement, bool) {
	n1 := a.Normal.Normalize()
	n2 := b.Normal.Normalize()
	d := math.Abs(n1.Dot(n2))

	if d > dotThreshold {
		dist := math.Abs(n1.Dot(b.Centroid.Sub(a.Centroid))) * scale
		return Measurement{Kind: KindDistance, Value: dist, Unit: unit}, true
	}
	angle := degrees(math.Acos(math.Min(1, d)))
	return Measurement{Kind: KindAngle, Value: angle}, true
}

func measureCylinders(a, b cad.FaceMetadata, scale float64, unit string) (Measurement, bool) {
	if a.AxisDirection == nil || a.AxisPoint == nil || b.AxisDirection == nil || b.AxisPoint == nil {
		return Measurement{}, false
	}
	d1 := a.AxisDirection.Normalize()
	d2 := b.AxisDirection.Normalize()
	dot := math.Abs(d1.Dot(d2))

	if dot > dotThreshold {
		// Parallel axes: the center distance is the component of the
		// vector between axis points perpendicular to the shared axis.
		delta := b.AxisPoint.Sub(*a.AxisPoint)
		perp := delta.Sub(d1.Mul(delta.Dot(d1)))
		return Measurement{Kind: KindCenterDistance, Value: perp.Length() * scale, Unit: unit}, true
	}
	angle := degrees(math.Acos(math.Min(1, dot)))
	return Measurement{Kind: KindAxisAngle, Value: angle}, true
}

func measureCylinderPlane(cyl, plane cad.FaceMetadata, scale float64, unit string) (Measurement, bool) {
	if cyl.AxisDirection == nil || cyl.AxisPoint == nil {
		return Measurement{}, false
	}
	axis := cyl.AxisDirection.Normalize()
	normal := plane.Normal.Normalize()
	dot := math.Abs(axis.Dot(normal))

	if dot < perpThreshold {
		// Axis lies in the plane: measure axis-to-plane distance.
		dist := math.Abs(normal.Dot(cyl.AxisPoint.Sub(plane.Centroid))) * scale
		return Measurement{Kind: KindDistance, Value: dist, Unit: unit}, true
	}
	angle := degrees(math.Asin(math.Min(1, dot)))
	return Measurement{Kind: KindAngle, Value: angle}, true
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
