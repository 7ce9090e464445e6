package xpbd

import "github.com/go-gl/mathgl/mgl32"

// Line is a direction with no fixed origin.
type Line struct {
	Dir mgl32.Vec3
}

// IntoRay anchors a Line at p.
func (l Line) IntoRay(p mgl32.Vec3) Ray {
	return Ray{Origin: p, Line: l}
}

// Ray is an origin and a direction.
type Ray struct {
	Origin mgl32.Vec3
	Line   Line
}

// NewRay builds a Ray from an origin and direction.
func NewRay(origin, dir mgl32.Vec3) Ray {
	return Ray{Origin: origin, Line: Line{Dir: dir}}
}

// AsLine discards the ray's origin.
func (r Ray) AsLine() Line { return r.Line }

// Segment is a bounded line between two points, used for link picking.
type Segment struct {
	Start, End mgl32.Vec3
}

// ToLine returns the segment's (normalized) direction as a Line.
func (s Segment) ToLine() Line {
	return Line{Dir: s.Direction()}
}

// Direction returns the segment's unit direction vector.
func (s Segment) Direction() mgl32.Vec3 {
	d := s.DirectionUnnormalized()
	return d.Mul(1 / d.Len())
}

// DirectionUnnormalized returns End - Start.
func (s Segment) DirectionUnnormalized() mgl32.Vec3 {
	return s.End.Sub(s.Start)
}

// LengthSquared returns the squared length of the segment.
func (s Segment) LengthSquared() float32 {
	d := s.End.Sub(s.Start)
	return d.Dot(d)
}

const rayIntersectEpsilon = 1e-5

// IntersectRaySegment finds where ray passes within threshold of segment,
// using Ronald Goldman's "Intersection of Two Lines in Three-Space" (from
// Graphics Gems), adapted to a bounded segment on one side. It returns
// the ray parameter t1 at closest approach, or false if the lines never
// come within threshold of each other.
func IntersectRaySegment(ray Ray, segment Segment, threshold float32) (t1 float32, ok bool) {
	d1 := ray.Line.Dir
	d2 := segment.DirectionUnnormalized()
	w := segment.Start.Sub(ray.Origin)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	b := d1.Dot(d2)
	c := w.Dot(d1)
	f := w.Dot(d2)

	denom := a*e - b*b

	var t2 float32
	if abs32(denom) < rayIntersectEpsilon {
		t2 = clamp01(f / e)
		t1 = max32((c+b*t2)/a, 0)
	} else {
		rawT1 := (e*c - b*f) / denom
		rawT2 := (b*c - a*f) / denom
		t2Clamped := clamp01(rawT2)

		if rawT2 != t2Clamped {
			t1 = max32((c+b*t2Clamped)/a, 0)
		} else {
			t1 = max32(rawT1, 0)
		}
		t2 = t2Clamped
	}

	onRay := ray.Origin.Add(d1.Mul(t1))
	onSegment := segment.Start.Add(d2.Mul(t2))

	distSq := onRay.Sub(onSegment).Dot(onRay.Sub(onSegment))
	if distSq <= threshold*threshold {
		return t1, true
	}
	return 0, false
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
