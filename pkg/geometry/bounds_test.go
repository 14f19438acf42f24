package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(-1, 5, 0))

	if bbox.Min != NewVector3(-1, 2, 0) {
		t.Errorf("Min wrong: got %v", bbox.Min)
	}
	if bbox.Max != NewVector3(1, 5, 3) {
		t.Errorf("Max wrong: got %v", bbox.Max)
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	expected := NewVector3(5, 10, 15)
	if bbox.Center() != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, bbox.Center())
	}
}

func TestBoundingBoxMaxDimension(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(2, 7, 3))

	if math.Abs(bbox.MaxDimension()-7.0) > 1e-10 {
		t.Errorf("MaxDimension failed: expected 7, got %v", bbox.MaxDimension())
	}
}

func TestBoundingBoxIsEmpty(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.IsEmpty() {
		t.Error("new bounding box should be empty")
	}

	bbox.Extend(NewVector3(1, 1, 1))
	if bbox.IsEmpty() {
		t.Error("extended bounding box should not be empty")
	}
}
