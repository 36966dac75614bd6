package geometry

import (
	"math"
	"testing"

	"github.com/pocket-planner/backend/internal/models"
)

func obj(id, label string, t models.ObjectType, x, y, w, h int) models.RoomObject {
	return models.RoomObject{ID: id, Label: label, Type: t, BBox: models.BBox{x, y, w, h}}
}

func movable(id string, x, y, w, h int) models.RoomObject {
	return obj(id, id, models.ObjectTypeMovable, x, y, w, h)
}

func TestToPolygon(t *testing.T) {
	poly := Rect{X: 10, Y: 10, W: 100, H: 50}.ToPolygon()
	want := [4]Point{{10, 10}, {110, 10}, {110, 60}, {10, 60}}
	if poly != want {
		t.Errorf("unexpected polygon: %v", poly)
	}
}

func TestOverlapScenario(t *testing.T) {
	// A=[0,0,100,100], B=[50,50,100,100] overlap by 50x50.
	a := Rect{0, 0, 100, 100}
	b := Rect{50, 50, 100, 100}

	if !Overlaps(a, b) {
		t.Error("expected overlap")
	}
	if area := OverlapArea(a, b); area != 2500 {
		t.Errorf("expected overlap area 2500, got %v", area)
	}
	if c := Clearance(a, b); c != 0 {
		t.Errorf("expected clearance 0, got %v", c)
	}
}

func TestClearSeparationScenario(t *testing.T) {
	// A=[0,0,100,100], B=[150,0,50,50] are 50 apart.
	a := Rect{0, 0, 100, 100}
	b := Rect{150, 0, 50, 50}

	if Overlaps(a, b) {
		t.Error("expected no overlap")
	}
	if area := OverlapArea(a, b); area != 0 {
		t.Errorf("expected overlap area 0, got %v", area)
	}
	if c := Clearance(a, b); c != 50.0 {
		t.Errorf("expected clearance 50.0, got %v", c)
	}
}

func TestTouchingEdgesCountAsIntersecting(t *testing.T) {
	a := Rect{0, 0, 100, 100}
	b := Rect{100, 0, 50, 50}

	if !Overlaps(a, b) {
		t.Error("touching edges should count as intersecting")
	}
	if area := OverlapArea(a, b); area != 0 {
		t.Errorf("touching rectangles have zero overlap area, got %v", area)
	}
	if c := Clearance(a, b); c != 0 {
		t.Errorf("touching rectangles have zero clearance, got %v", c)
	}
}

func TestDiagonalClearance(t *testing.T) {
	a := Rect{0, 0, 100, 100}
	b := Rect{130, 140, 50, 50}
	// Diagonal gap: dx=30, dy=40 -> 50.
	if c := Clearance(a, b); math.Abs(c-50) > 1e-9 {
		t.Errorf("expected diagonal clearance 50, got %v", c)
	}
}

func TestSymmetry(t *testing.T) {
	pairs := []struct{ a, b Rect }{
		{Rect{0, 0, 100, 100}, Rect{50, 50, 100, 100}},
		{Rect{0, 0, 100, 100}, Rect{150, 0, 50, 50}},
		{Rect{10, 10, 5, 5}, Rect{200, 300, 40, 20}},
	}
	for _, p := range pairs {
		if Overlaps(p.a, p.b) != Overlaps(p.b, p.a) {
			t.Errorf("Overlaps not symmetric for %v %v", p.a, p.b)
		}
		if OverlapArea(p.a, p.b) != OverlapArea(p.b, p.a) {
			t.Errorf("OverlapArea not symmetric for %v %v", p.a, p.b)
		}
		if Clearance(p.a, p.b) != Clearance(p.b, p.a) {
			t.Errorf("Clearance not symmetric for %v %v", p.a, p.b)
		}
	}
}

func TestOverlapClearanceConsistency(t *testing.T) {
	rects := []Rect{
		{0, 0, 100, 100},
		{50, 50, 100, 100},
		{150, 0, 50, 50},
		{300, 300, 10, 10},
		{90, 90, 30, 30},
	}
	for i, a := range rects {
		for j, b := range rects {
			if i == j {
				continue
			}
			if OverlapArea(a, b) > 0 && Clearance(a, b) != 0 {
				t.Errorf("overlapping rects %d,%d must have zero clearance", i, j)
			}
			if Clearance(a, b) == 0 && !Overlaps(a, b) {
				t.Errorf("zero-clearance rects %d,%d must intersect", i, j)
			}
		}
	}
}

func TestBuffer(t *testing.T) {
	b := Buffer(Rect{50, 50, 100, 100}, 10)
	want := Rect{40, 40, 120, 120}
	if b != want {
		t.Errorf("expected %v, got %v", want, b)
	}
}

func TestInBounds(t *testing.T) {
	// Room 300x400, object [280,0,50,50] pokes out.
	if InBounds(movable("a", 280, 0, 50, 50), 300, 400) {
		t.Error("object extending past the right wall should be out of bounds")
	}
	if !InBounds(movable("b", 0, 0, 300, 400), 300, 400) {
		t.Error("object exactly filling the room is in bounds")
	}
	if InBounds(movable("c", -1, 0, 10, 10), 300, 400) {
		t.Error("negative x is out of bounds")
	}
}

func TestPairwiseCollisionsOrder(t *testing.T) {
	objects := []models.RoomObject{
		movable("a", 0, 0, 100, 100),
		movable("b", 50, 50, 100, 100),
		movable("c", 90, 90, 100, 100),
		movable("d", 500, 500, 10, 10),
	}

	got := PairwiseCollisions(objects)
	if len(got) != 3 {
		t.Fatalf("expected 3 collisions, got %d: %v", len(got), got)
	}
	wantPairs := [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}
	for i, w := range wantPairs {
		if got[i].AID != w[0] || got[i].BID != w[1] {
			t.Errorf("collision %d: expected %v, got (%s,%s)", i, w, got[i].AID, got[i].BID)
		}
	}
	if got[0].Area != 2500 {
		t.Errorf("expected a/b overlap area 2500, got %v", got[0].Area)
	}
}

func TestPathBlocked(t *testing.T) {
	desk := movable("desk_1", 80, 80, 60, 60)
	far := movable("chair_1", 400, 400, 40, 40)

	blocked, blocker := PathBlocked(Point{0, 100}, Point{300, 100}, []models.RoomObject{far, desk}, 45)
	if !blocked {
		t.Fatal("expected path through the desk to be blocked")
	}
	if blocker != "desk_1" {
		t.Errorf("expected blocker desk_1, got %s", blocker)
	}

	blocked, _ = PathBlocked(Point{0, 300}, Point{300, 300}, []models.RoomObject{desk, far}, 45)
	if blocked {
		t.Error("expected clear path well below the desk")
	}
}

func TestPathBlockedFirstMatchInInputOrder(t *testing.T) {
	first := movable("first", 100, 80, 40, 40)
	second := movable("second", 200, 80, 40, 40)

	_, blocker := PathBlocked(Point{0, 100}, Point{300, 100}, []models.RoomObject{second, first}, 45)
	if blocker != "second" {
		t.Errorf("expected first obstacle in input order to be reported, got %s", blocker)
	}
}

func TestPathBlockedExcludesDoors(t *testing.T) {
	door := obj("door_1", "door", models.ObjectTypeStructural, 140, 80, 20, 40)
	window := obj("window_1", "window", models.ObjectTypeStructural, 140, 180, 20, 40)

	blocked, _ := PathBlocked(Point{0, 100}, Point{300, 100}, []models.RoomObject{door}, 45)
	if blocked {
		t.Error("a door opening must never block the path through it")
	}

	blocked, blocker := PathBlocked(Point{0, 200}, Point{300, 200}, []models.RoomObject{window}, 45)
	if !blocked || blocker != "window_1" {
		t.Errorf("a window is a regular obstacle, got blocked=%v blocker=%s", blocked, blocker)
	}
}

func TestPathCorridorWidthMatters(t *testing.T) {
	// Obstacle sits 30 units below the path line: clear at width 45
	// (radius 22.5), blocked at width 80 (radius 40).
	box := movable("box", 100, 130, 50, 50)

	if blocked, _ := PathBlocked(Point{0, 100}, Point{300, 100}, []models.RoomObject{box}, 45); blocked {
		t.Error("narrow corridor should clear the obstacle")
	}
	if blocked, _ := PathBlocked(Point{0, 100}, Point{300, 100}, []models.RoomObject{box}, 80); !blocked {
		t.Error("wide corridor should hit the obstacle")
	}
}

func TestFreeSpace(t *testing.T) {
	objects := []models.RoomObject{movable("a", 0, 0, 100, 100)}
	free := FreeSpace(300, 400, objects)

	want := 300.0*400.0 - 100.0*100.0
	if got := free.Area(); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected free area %v, got %v", want, got)
	}
}

func TestFreeSpaceOverlappingObjects(t *testing.T) {
	// Two objects overlapping by 50x50: union covers 17500, not 20000.
	objects := []models.RoomObject{
		movable("a", 0, 0, 100, 100),
		movable("b", 50, 50, 100, 100),
	}
	free := FreeSpace(300, 400, objects)

	want := 300.0*400.0 - 17500.0
	if got := free.Area(); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected free area %v, got %v", want, got)
	}
}

func TestFreeSpaceClipsOutOfBounds(t *testing.T) {
	// Only the in-room 20x50 sliver counts against free space.
	objects := []models.RoomObject{movable("a", 280, 0, 50, 50)}
	free := FreeSpace(300, 400, objects)

	want := 300.0*400.0 - 20.0*50.0
	if got := free.Area(); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected free area %v, got %v", want, got)
	}
}

func TestDensity(t *testing.T) {
	objects := []models.RoomObject{
		movable("a", 0, 0, 100, 100),
		movable("b", 50, 50, 100, 100),
	}
	// Density double-counts overlap: 20000 / 120000 * 100.
	want := 20000.0 / 120000.0 * 100
	if got := Density(300, 400, objects); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected density %v, got %v", want, got)
	}
	if got := Density(0, 0, objects); got != 0 {
		t.Errorf("zero-area room has density 0, got %v", got)
	}
}

func TestSegmentRectDistance(t *testing.T) {
	r := Rect{100, 100, 50, 50}

	if d := SegmentRectDistance(Point{0, 125}, Point{300, 125}, r); d != 0 {
		t.Errorf("segment through rect should have distance 0, got %v", d)
	}
	if d := SegmentRectDistance(Point{110, 110}, Point{120, 120}, r); d != 0 {
		t.Errorf("segment inside rect should have distance 0, got %v", d)
	}
	if d := SegmentRectDistance(Point{0, 200}, Point{300, 200}, r); math.Abs(d-50) > 1e-9 {
		t.Errorf("expected distance 50, got %v", d)
	}
}
