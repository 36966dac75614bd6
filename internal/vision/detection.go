// Package vision handles the data side of the vision collaborator contract:
// parsing a detector's JSON payload into room objects and normalizing its
// labels and boxes. The detector call itself (and anything that looks at
// pixels) lives outside this backend; everything here is a pure function
// over bytes and object lists.
package vision

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pocket-planner/backend/internal/models"
)

// structuralLabels are always classified structural regardless of what the
// detector claims: they are building elements that can never be rearranged.
var structuralLabels = map[string]struct{}{
	"door": {}, "window": {}, "wall": {}, "shower": {}, "bathtub": {}, "bath": {},
	"toilet": {}, "sink": {}, "stovetop": {}, "stove": {}, "oven": {},
	"refrigerator": {}, "fridge": {}, "built_in": {}, "builtin": {}, "radiator": {},
	"fireplace": {}, "stairs": {}, "staircase": {}, "column": {}, "pillar": {},
	"beam": {}, "hvac": {}, "vent": {}, "ac_unit": {}, "washer": {}, "dryer": {},
	"dishwasher": {}, "water_heater": {}, "boiler": {}, "furnace": {},
}

// sofaAliases are detector labels normalized to "sofa".
var sofaAliases = map[string]struct{}{
	"couch": {}, "loveseat": {}, "settee": {}, "divan": {},
}

// detectionPayload is the raw detector JSON. Boxes come as
// [ymin, xmin, ymax, xmax] normalized to a 0-1000 scale.
type detectionPayload struct {
	RoomDimensions struct {
		WidthEstimate  int `json:"width_estimate"`
		HeightEstimate int `json:"height_estimate"`
	} `json:"room_dimensions"`
	WallBounds []int `json:"wall_bounds"`
	Objects    []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
		Box2D []int  `json:"box_2d"`
		Type  string `json:"type"`
	} `json:"objects"`
}

// Detection is a parsed and normalized detector result.
type Detection struct {
	RoomDimensions models.RoomDimensions
	Objects        []models.RoomObject
	WallBounds     *models.BBox
}

// ParseDetection parses raw detector output into room objects scaled to the
// source image size. Markdown code fences around the JSON are tolerated,
// labels are normalized, structural labels override the detector's type
// claim, and duplicate bed labels are deduplicated.
func ParseDetection(raw []byte, imageWidth, imageHeight int) (*Detection, error) {
	if imageWidth <= 0 || imageHeight <= 0 {
		return nil, fmt.Errorf("image dimensions must be positive, got %dx%d", imageWidth, imageHeight)
	}

	cleaned := stripFences(string(raw))

	var payload detectionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parsing detection JSON: %w", err)
	}

	det := &Detection{
		RoomDimensions: models.RoomDimensions{
			WidthEstimate:  payload.RoomDimensions.WidthEstimate,
			HeightEstimate: payload.RoomDimensions.HeightEstimate,
		},
	}
	if det.RoomDimensions.WidthEstimate <= 0 {
		det.RoomDimensions.WidthEstimate = imageWidth
	}
	if det.RoomDimensions.HeightEstimate <= 0 {
		det.RoomDimensions.HeightEstimate = imageHeight
	}

	if len(payload.WallBounds) == 4 {
		b := ConvertBox(payload.WallBounds, imageWidth, imageHeight)
		det.WallBounds = &b
	}

	for i, raw := range payload.Objects {
		label := strings.ToLower(raw.Label)
		if label == "" {
			label = "unknown"
		}
		if _, ok := sofaAliases[label]; ok {
			label = "sofa"
		}

		objType := models.ObjectTypeMovable
		if IsStructuralLabel(label) || raw.Type == string(models.ObjectTypeStructural) {
			objType = models.ObjectTypeStructural
		}

		id := raw.ID
		if id == "" {
			id = fmt.Sprintf("obj_%d", i)
		}

		box := []int{0, 0, 100, 100}
		if len(raw.Box2D) == 4 {
			box = raw.Box2D
		}

		det.Objects = append(det.Objects, models.RoomObject{
			ID:    id,
			Label: label,
			BBox:  ConvertBox(box, imageWidth, imageHeight),
			Type:  objType,
		})
	}

	det.Objects = DeduplicateBeds(det.Objects)
	return det, nil
}

// ConvertBox converts a normalized [ymin, xmin, ymax, xmax] box on the
// 0-1000 scale to an [x, y, width, height] box in image pixels. Coordinates
// are clamped to the scale and the result keeps a minimum 1-pixel size.
func ConvertBox(box2d []int, imageWidth, imageHeight int) models.BBox {
	ymin := clampScale(box2d[0])
	xmin := clampScale(box2d[1])
	ymax := clampScale(box2d[2])
	xmax := clampScale(box2d[3])

	x := xmin * imageWidth / 1000
	y := ymin * imageHeight / 1000
	w := (xmax - xmin) * imageWidth / 1000
	h := (ymax - ymin) * imageHeight / 1000

	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return models.BBox{x, y, w, h}
}

// IsStructuralLabel reports whether the label names a fixed building
// element. Matching is forgiving: spaces and dashes count as underscores,
// and substring containment either way counts as a match.
func IsStructuralLabel(label string) bool {
	normalized := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(label))
	if _, ok := structuralLabels[normalized]; ok {
		return true
	}
	for s := range structuralLabels {
		if strings.Contains(normalized, s) || strings.Contains(s, normalized) {
			return true
		}
	}
	return false
}

func clampScale(v int) int {
	if v < 0 {
		return 0
	}
	if v > 1000 {
		return 1000
	}
	return v
}

// stripFences removes a surrounding markdown code fence from detector
// output, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
