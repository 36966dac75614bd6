// Package geometry provides the pure spatial primitives the constraint
// checker, scorer and optimizer are built on. All operations work on
// axis-aligned rectangles in room coordinates (origin top-left, y down) and
// are total over well-formed rectangles: no function here mutates its input
// or keeps state.
package geometry

import (
	"math"

	"github.com/pocket-planner/backend/internal/models"
)

// Point is a 2D point in room coordinates.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// RectFromBBox converts an integer bounding box to a Rect.
func RectFromBBox(b models.BBox) Rect {
	return Rect{X: float64(b.X()), Y: float64(b.Y()), W: float64(b.Width()), H: float64(b.Height())}
}

// RectFromObject converts a room object's bounding box to a Rect.
func RectFromObject(o models.RoomObject) Rect {
	return RectFromBBox(o.BBox)
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.X }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MinY returns the top edge.
func (r Rect) MinY() float64 { return r.Y }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Area returns the rectangle area.
func (r Rect) Area() float64 { return r.W * r.H }

// Center returns the center point.
func (r Rect) Center() Point { return Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// ToPolygon returns the rectangle's corners in order: top-left, top-right,
// bottom-right, bottom-left.
func (r Rect) ToPolygon() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
}

// Contains reports whether the point lies inside or on the boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X <= r.MaxX() && p.Y >= r.MinY() && p.Y <= r.MaxY()
}

// Overlaps reports whether two rectangles intersect. Touching edges count as
// intersecting, matching polygon-intersection semantics.
func Overlaps(a, b Rect) bool {
	return a.MinX() <= b.MaxX() && b.MinX() <= a.MaxX() &&
		a.MinY() <= b.MaxY() && b.MinY() <= a.MaxY()
}

// OverlapArea returns the area of the geometric intersection of two
// rectangles, 0 when they are disjoint or merely touching.
func OverlapArea(a, b Rect) float64 {
	w := math.Min(a.MaxX(), b.MaxX()) - math.Max(a.MinX(), b.MinX())
	h := math.Min(a.MaxY(), b.MaxY()) - math.Max(a.MinY(), b.MinY())
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Clearance returns the minimum Euclidean distance between the boundaries of
// two rectangles, 0 when they overlap or touch.
func Clearance(a, b Rect) float64 {
	dx := math.Max(0, math.Max(b.MinX()-a.MaxX(), a.MinX()-b.MaxX()))
	dy := math.Max(0, math.Max(b.MinY()-a.MaxY(), a.MinY()-b.MaxY()))
	return math.Hypot(dx, dy)
}

// Buffer returns the Minkowski expansion of the rectangle by distance in all
// directions. Used to model required clearance zones such as door swings.
func Buffer(r Rect, distance float64) Rect {
	return Rect{
		X: r.X - distance,
		Y: r.Y - distance,
		W: r.W + 2*distance,
		H: r.H + 2*distance,
	}
}

// InBounds reports whether the object's rectangle lies fully within the
// [0,width] x [0,height] room rectangle.
func InBounds(o models.RoomObject, roomWidth, roomHeight int) bool {
	r := RectFromObject(o)
	return r.MinX() >= 0 && r.MinY() >= 0 &&
		r.MaxX() <= float64(roomWidth) && r.MaxY() <= float64(roomHeight)
}

// Collision is one overlapping object pair, reported in (i<j) input order.
type Collision struct {
	AID  string
	BID  string
	Area float64
}

// PairwiseCollisions returns every pair of objects with positive overlap
// area, ordered by the input indices so that identical input yields an
// identical list.
func PairwiseCollisions(objects []models.RoomObject) []Collision {
	var collisions []Collision
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			area := OverlapArea(RectFromObject(objects[i]), RectFromObject(objects[j]))
			if area > 0 {
				collisions = append(collisions, Collision{
					AID:  objects[i].ID,
					BID:  objects[j].ID,
					Area: area,
				})
			}
		}
	}
	return collisions
}

// PathBlocked builds a walking corridor of the given width along the segment
// from start to end and tests it against every obstacle. Doors are skipped: a
// door opening is not a blocker of the path through it. Obstacles are tested
// in input order and the first blocker is returned, so results are
// deterministic.
func PathBlocked(start, end Point, obstacles []models.RoomObject, corridorWidth float64) (bool, string) {
	radius := corridorWidth / 2
	for _, obj := range obstacles {
		if obj.IsDoor() {
			continue
		}
		if SegmentRectDistance(start, end, RectFromObject(obj)) <= radius {
			return true, obj.ID
		}
	}
	return false, ""
}

// Density returns the percentage of the room area covered by the summed
// object areas. Overlapping objects double-count: this is raw occupancy, not
// covered area.
func Density(roomWidth, roomHeight int, objects []models.RoomObject) float64 {
	roomArea := float64(roomWidth) * float64(roomHeight)
	if roomArea == 0 {
		return 0
	}
	var furnitureArea float64
	for _, o := range objects {
		furnitureArea += RectFromObject(o).Area()
	}
	return furnitureArea / roomArea * 100
}

// SegmentRectDistance returns the minimum distance between the segment
// (a, b) and the rectangle, 0 when they intersect.
func SegmentRectDistance(a, b Point, r Rect) float64 {
	if r.Contains(a) || r.Contains(b) {
		return 0
	}
	corners := r.ToPolygon()
	min := math.Inf(1)
	for i := 0; i < 4; i++ {
		d := segmentSegmentDistance(a, b, corners[i], corners[(i+1)%4])
		if d < min {
			min = d
		}
	}
	return min
}

// pointSegmentDistance returns the distance from p to the segment (a, b).
func pointSegmentDistance(p, a, b Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	apx, apy := p.X-a.X, p.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return math.Hypot(apx, apy)
	}
	t := (apx*abx + apy*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(p.X-(a.X+t*abx), p.Y-(a.Y+t*aby))
}

// segmentSegmentDistance returns the minimum distance between two segments,
// 0 when they cross.
func segmentSegmentDistance(a1, a2, b1, b2 Point) float64 {
	if segmentsIntersect(a1, a2, b1, b2) {
		return 0
	}
	return math.Min(
		math.Min(pointSegmentDistance(a1, b1, b2), pointSegmentDistance(a2, b1, b2)),
		math.Min(pointSegmentDistance(b1, a1, a2), pointSegmentDistance(b2, a1, a2)),
	)
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func onSegment(p, a, b Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// segmentsIntersect reports whether the closed segments (a1,a2) and (b1,b2)
// share a point, including collinear overlap and endpoint touches.
func segmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(a1, b1, b2) {
		return true
	}
	if d2 == 0 && onSegment(a2, b1, b2) {
		return true
	}
	if d3 == 0 && onSegment(b1, a1, a2) {
		return true
	}
	if d4 == 0 && onSegment(b2, a1, a2) {
		return true
	}
	return false
}
