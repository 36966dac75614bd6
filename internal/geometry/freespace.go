package geometry

import (
	"sort"

	"github.com/pocket-planner/backend/internal/models"
)

// Region is a set of disjoint rectangles covering part of the room floor.
type Region []Rect

// Area returns the total area of the region. Rectangles are disjoint, so a
// plain sum is exact.
func (g Region) Area() float64 {
	var total float64
	for _, r := range g {
		total += r.Area()
	}
	return total
}

// FreeSpace returns the room rectangle minus the union of all object
// rectangles, decomposed into the uncovered cells of a compressed coordinate
// grid. Object portions outside the room are clipped away first. Cells are
// emitted top-to-bottom, left-to-right, so identical input yields an
// identical region.
func FreeSpace(roomWidth, roomHeight int, objects []models.RoomObject) Region {
	w, h := float64(roomWidth), float64(roomHeight)
	if w <= 0 || h <= 0 {
		return nil
	}

	// Clip objects to the room; drop the ones entirely outside.
	clipped := make([]Rect, 0, len(objects))
	for _, o := range objects {
		r := RectFromObject(o)
		c := Rect{
			X: clamp(r.MinX(), 0, w),
			Y: clamp(r.MinY(), 0, h),
		}
		c.W = clamp(r.MaxX(), 0, w) - c.X
		c.H = clamp(r.MaxY(), 0, h) - c.Y
		if c.W > 0 && c.H > 0 {
			clipped = append(clipped, c)
		}
	}

	xs := []float64{0, w}
	ys := []float64{0, h}
	for _, r := range clipped {
		xs = append(xs, r.MinX(), r.MaxX())
		ys = append(ys, r.MinY(), r.MaxY())
	}
	xs = sortedUnique(xs)
	ys = sortedUnique(ys)

	var free Region
	for yi := 0; yi < len(ys)-1; yi++ {
		for xi := 0; xi < len(xs)-1; xi++ {
			cell := Rect{X: xs[xi], Y: ys[yi], W: xs[xi+1] - xs[xi], H: ys[yi+1] - ys[yi]}
			if cell.W <= 0 || cell.H <= 0 {
				continue
			}
			cx, cy := cell.X+cell.W/2, cell.Y+cell.H/2
			covered := false
			for _, r := range clipped {
				// Strict interior test: grid lines fall on object edges, so
				// the cell center decides coverage for the whole cell.
				if cx > r.MinX() && cx < r.MaxX() && cy > r.MinY() && cy < r.MaxY() {
					covered = true
					break
				}
			}
			if !covered {
				free = append(free, cell)
			}
		}
	}
	return free
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sortedUnique(vs []float64) []float64 {
	sort.Float64s(vs)
	out := vs[:0]
	for i, v := range vs {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
