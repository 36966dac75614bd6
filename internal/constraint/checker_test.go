package constraint

import (
	"reflect"
	"testing"

	"github.com/pocket-planner/backend/internal/models"
)

func obj(id, label string, t models.ObjectType, x, y, w, h int) models.RoomObject {
	return models.RoomObject{ID: id, Label: label, Type: t, BBox: models.BBox{x, y, w, h}}
}

func newTestChecker() *Checker {
	return NewChecker(models.DefaultTuningRules())
}

func violationsFor(violations []models.ConstraintViolation, name string) []models.ConstraintViolation {
	var out []models.ConstraintViolation
	for _, v := range violations {
		if v.ConstraintName == name {
			out = append(out, v)
		}
	}
	return out
}

func TestBoundsViolation(t *testing.T) {
	// Room 300x400, object [280,0,50,50].
	objects := []models.RoomObject{obj("desk_1", "desk", models.ObjectTypeMovable, 280, 0, 50, 50)}

	vs := violationsFor(newTestChecker().Check(objects, 300, 400), "bounds")
	if len(vs) != 1 {
		t.Fatalf("expected 1 bounds violation, got %d", len(vs))
	}
	if vs[0].Severity != models.SeverityError {
		t.Errorf("bounds violations are errors, got %s", vs[0].Severity)
	}
	if !reflect.DeepEqual(vs[0].ObjectsInvolved, []string{"desk_1"}) {
		t.Errorf("unexpected objects involved: %v", vs[0].ObjectsInvolved)
	}
}

func TestOverlapViolation(t *testing.T) {
	objects := []models.RoomObject{
		obj("bed_1", "bed", models.ObjectTypeMovable, 0, 0, 100, 100),
		obj("desk_1", "desk", models.ObjectTypeMovable, 50, 50, 100, 100),
	}

	vs := violationsFor(newTestChecker().Check(objects, 500, 500), "overlap")
	if len(vs) != 1 {
		t.Fatalf("expected 1 overlap violation, got %d", len(vs))
	}
	if !reflect.DeepEqual(vs[0].ObjectsInvolved, []string{"bed_1", "desk_1"}) {
		t.Errorf("expected pair in input order, got %v", vs[0].ObjectsInvolved)
	}
}

func TestStructuralPairsMayOverlap(t *testing.T) {
	objects := []models.RoomObject{
		obj("door_1", "door", models.ObjectTypeStructural, 0, 0, 20, 80),
		obj("wall_1", "wall", models.ObjectTypeStructural, 0, 0, 10, 200),
	}

	if vs := violationsFor(newTestChecker().Check(objects, 500, 500), "overlap"); len(vs) != 0 {
		t.Errorf("adjacent structural fixtures are not an overlap violation: %v", vs)
	}
}

func TestClearanceWarning(t *testing.T) {
	objects := []models.RoomObject{
		obj("desk_1", "desk", models.ObjectTypeMovable, 0, 200, 80, 50),
		obj("chair_1", "chair", models.ObjectTypeMovable, 100, 200, 40, 40),
	}

	vs := violationsFor(newTestChecker().Check(objects, 500, 500), "clearance")
	if len(vs) != 1 {
		t.Fatalf("expected 1 clearance warning, got %d", len(vs))
	}
	if vs[0].Severity != models.SeverityWarning {
		t.Errorf("clearance violations are warnings, got %s", vs[0].Severity)
	}
}

func TestClearanceSkipsOverlappingPairs(t *testing.T) {
	objects := []models.RoomObject{
		obj("bed_1", "bed", models.ObjectTypeMovable, 0, 0, 100, 100),
		obj("desk_1", "desk", models.ObjectTypeMovable, 50, 50, 100, 100),
	}

	if vs := violationsFor(newTestChecker().Check(objects, 500, 500), "clearance"); len(vs) != 0 {
		t.Errorf("overlapping pairs report overlap, not clearance: %v", vs)
	}
}

func TestDoorClearanceViolation(t *testing.T) {
	objects := []models.RoomObject{
		obj("door_1", "door", models.ObjectTypeStructural, 0, 150, 20, 80),
		obj("bed_1", "bed", models.ObjectTypeMovable, 40, 150, 120, 180),
		obj("chair_1", "chair", models.ObjectTypeMovable, 400, 400, 40, 40),
	}

	vs := violationsFor(newTestChecker().Check(objects, 500, 500), "door_clearance")
	if len(vs) != 1 {
		t.Fatalf("expected 1 door clearance violation, got %d", len(vs))
	}
	if !reflect.DeepEqual(vs[0].ObjectsInvolved, []string{"door_1", "bed_1"}) {
		t.Errorf("unexpected objects involved: %v", vs[0].ObjectsInvolved)
	}
}

func TestPathBlockingViolation(t *testing.T) {
	// The wardrobe sits between the door and the bed.
	objects := []models.RoomObject{
		obj("door_1", "door", models.ObjectTypeStructural, 0, 230, 20, 40),
		obj("wardrobe_1", "wardrobe", models.ObjectTypeMovable, 150, 200, 80, 100),
		obj("bed_1", "bed", models.ObjectTypeMovable, 350, 210, 120, 80),
	}

	vs := violationsFor(newTestChecker().Check(objects, 500, 500), "path_blocking")
	if len(vs) == 0 {
		t.Fatal("expected a path blocking violation")
	}
	found := false
	for _, v := range vs {
		for _, id := range v.ObjectsInvolved {
			if id == "wardrobe_1" {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("expected wardrobe_1 to be named as blocker: %v", vs)
	}
}

func TestDeterministicViolationList(t *testing.T) {
	objects := []models.RoomObject{
		obj("door_1", "door", models.ObjectTypeStructural, 0, 150, 20, 80),
		obj("bed_1", "bed", models.ObjectTypeMovable, 40, 150, 120, 180),
		obj("desk_1", "desk", models.ObjectTypeMovable, 100, 200, 80, 50),
		obj("chair_1", "chair", models.ObjectTypeMovable, 480, 0, 50, 50),
	}
	c := newTestChecker()

	first := c.Check(objects, 500, 500)
	second := c.Check(objects, 500, 500)
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs on identical input must yield identical violation lists")
	}
}

func TestRuleOrder(t *testing.T) {
	// One bounds breach and one overlap: bounds violations come first.
	objects := []models.RoomObject{
		obj("bed_1", "bed", models.ObjectTypeMovable, 0, 0, 100, 100),
		obj("desk_1", "desk", models.ObjectTypeMovable, 50, 50, 100, 100),
		obj("chair_1", "chair", models.ObjectTypeMovable, 480, 0, 50, 50),
	}

	vs := newTestChecker().Check(objects, 500, 500)
	if len(vs) < 2 {
		t.Fatalf("expected at least 2 violations, got %d", len(vs))
	}
	if vs[0].ConstraintName != "bounds" {
		t.Errorf("expected bounds first, got %s", vs[0].ConstraintName)
	}
	if vs[1].ConstraintName != "overlap" {
		t.Errorf("expected overlap second, got %s", vs[1].ConstraintName)
	}
}

func TestCleanLayoutHasNoViolations(t *testing.T) {
	objects := []models.RoomObject{
		obj("door_1", "door", models.ObjectTypeStructural, 0, 400, 20, 80),
		obj("bed_1", "bed", models.ObjectTypeMovable, 350, 20, 120, 180),
		obj("desk_1", "desk", models.ObjectTypeMovable, 20, 20, 80, 50),
	}

	if vs := newTestChecker().Check(objects, 500, 600); len(vs) != 0 {
		t.Errorf("expected clean layout, got %v", vs)
	}
}
