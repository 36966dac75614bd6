package vision

import (
	"reflect"
	"testing"

	"github.com/pocket-planner/backend/internal/models"
)

func TestConvertBox(t *testing.T) {
	// [ymin, xmin, ymax, xmax] on 0-1000 -> [x, y, w, h] in pixels.
	got := ConvertBox([]int{100, 200, 300, 600}, 1000, 500)
	want := models.BBox{200, 50, 400, 100}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestConvertBoxClampsAndEnforcesMinimumSize(t *testing.T) {
	got := ConvertBox([]int{-50, 1200, -10, 1300}, 800, 600)
	if got.X() < 0 || got.Y() < 0 {
		t.Errorf("coordinates must clamp to the scale: %v", got)
	}
	if got.Width() < 1 || got.Height() < 1 {
		t.Errorf("converted boxes keep a minimum 1px size: %v", got)
	}
}

func TestParseDetection(t *testing.T) {
	raw := []byte(`{
		"room_dimensions": {"width_estimate": 300, "height_estimate": 400},
		"wall_bounds": [0, 0, 1000, 1000],
		"objects": [
			{"id": "door_1", "label": "door", "box_2d": [300, 0, 460, 40], "type": "movable"},
			{"id": "bed_1", "label": "bed", "box_2d": [400, 200, 760, 440], "type": "movable"},
			{"id": "couch_1", "label": "couch", "box_2d": [100, 500, 200, 900], "type": "movable"}
		]
	}`)

	det, err := ParseDetection(raw, 500, 500)
	if err != nil {
		t.Fatal(err)
	}

	if det.RoomDimensions.WidthEstimate != 300 || det.RoomDimensions.HeightEstimate != 400 {
		t.Errorf("unexpected room dimensions: %+v", det.RoomDimensions)
	}
	if det.WallBounds == nil {
		t.Fatal("expected wall bounds")
	}
	if len(det.Objects) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(det.Objects))
	}

	door := det.Objects[0]
	if door.Type != models.ObjectTypeStructural {
		t.Error("door label must override the detector's movable claim")
	}
	if det.Objects[1].Type != models.ObjectTypeMovable {
		t.Error("bed should stay movable")
	}
	if det.Objects[2].Label != "sofa" {
		t.Errorf("couch should normalize to sofa, got %s", det.Objects[2].Label)
	}
}

func TestParseDetectionStripsMarkdownFences(t *testing.T) {
	raw := []byte("```json\n{\"room_dimensions\": {\"width_estimate\": 10, \"height_estimate\": 10}, \"objects\": []}\n```")
	if _, err := ParseDetection(raw, 100, 100); err != nil {
		t.Fatalf("fenced JSON should parse: %v", err)
	}
}

func TestParseDetectionDefaults(t *testing.T) {
	raw := []byte(`{"objects": [{"label": "", "box_2d": [0, 0, 100, 100]}]}`)
	det, err := ParseDetection(raw, 640, 480)
	if err != nil {
		t.Fatal(err)
	}
	if det.RoomDimensions.WidthEstimate != 640 || det.RoomDimensions.HeightEstimate != 480 {
		t.Errorf("missing room dimensions fall back to image size: %+v", det.RoomDimensions)
	}
	if det.Objects[0].ID != "obj_0" {
		t.Errorf("missing id gets a positional fallback, got %s", det.Objects[0].ID)
	}
	if det.Objects[0].Label != "unknown" {
		t.Errorf("empty label becomes unknown, got %s", det.Objects[0].Label)
	}
}

func TestParseDetectionRejectsBadInput(t *testing.T) {
	if _, err := ParseDetection([]byte("not json"), 100, 100); err == nil {
		t.Error("expected an error for malformed JSON")
	}
	if _, err := ParseDetection([]byte("{}"), 0, 100); err == nil {
		t.Error("expected an error for non-positive image dimensions")
	}
}

func TestIsStructuralLabel(t *testing.T) {
	for _, label := range []string{"door", "Water Heater", "built-in", "built in", "builtin", "sliding_door"} {
		if !IsStructuralLabel(label) {
			t.Errorf("%q should be structural", label)
		}
	}
	for _, label := range []string{"bed", "desk", "sofa", "rug"} {
		if IsStructuralLabel(label) {
			t.Errorf("%q should not be structural", label)
		}
	}
}

func TestDeduplicateBedsKeepsLargest(t *testing.T) {
	objects := []models.RoomObject{
		{ID: "bed_1", Label: "bed", BBox: models.BBox{0, 0, 120, 180}, Type: models.ObjectTypeMovable},
		{ID: "bed_2", Label: "bed", BBox: models.BBox{200, 0, 80, 40}, Type: models.ObjectTypeMovable},
	}

	out := DeduplicateBeds(objects)
	if out[0].Label != "bed" {
		t.Error("the largest bed stays a bed")
	}
	if out[1].Label != "sofa" || out[1].ID != "sofa_2" {
		t.Errorf("the small elongated bed becomes a sofa, got %+v", out[1])
	}
}

func TestDeduplicateBedsKeepsPlausibleSecondBed(t *testing.T) {
	// Two similar-sized, bed-shaped items: plausibly a shared room.
	objects := []models.RoomObject{
		{ID: "bed_1", Label: "bed", BBox: models.BBox{0, 0, 120, 180}, Type: models.ObjectTypeMovable},
		{ID: "bed_2", Label: "bed", BBox: models.BBox{300, 0, 110, 170}, Type: models.ObjectTypeMovable},
	}

	out := DeduplicateBeds(objects)
	if out[1].Label != "bed" {
		t.Errorf("a similar second bed should survive, got %+v", out[1])
	}
}

func TestDeduplicateBedsMoreThanTwo(t *testing.T) {
	objects := []models.RoomObject{
		{ID: "bed_1", Label: "bed", BBox: models.BBox{0, 0, 120, 180}},
		{ID: "bed_2", Label: "bed", BBox: models.BBox{300, 0, 110, 170}},
		{ID: "bed_3", Label: "bed", BBox: models.BBox{600, 0, 115, 175}},
	}

	out := DeduplicateBeds(objects)
	bedCount := 0
	for _, o := range out {
		if o.Label == "bed" {
			bedCount++
		}
	}
	if bedCount != 1 {
		t.Errorf("with more than two claimed beds only the primary survives, got %d", bedCount)
	}
}

func TestDeduplicateBedsPureFunction(t *testing.T) {
	objects := []models.RoomObject{
		{ID: "bed_1", Label: "bed", BBox: models.BBox{0, 0, 120, 180}},
		{ID: "bed_2", Label: "bed", BBox: models.BBox{200, 0, 80, 40}},
	}
	before := models.CloneLayout(objects)

	DeduplicateBeds(objects)
	if !reflect.DeepEqual(objects, before) {
		t.Error("dedup must not modify its input")
	}
}
