package models

// ObjectType classifies a room object.
type ObjectType string

const (
	// ObjectTypeMovable marks furniture that can be repositioned (bed, desk, chair).
	ObjectTypeMovable ObjectType = "movable"
	// ObjectTypeStructural marks fixed building elements (door, window, wall).
	ObjectTypeStructural ObjectType = "structural"
)

// BBox is an axis-aligned rectangle given as [x, y, width, height] with the
// origin at the top-left corner of the room.
type BBox [4]int

// X returns the x coordinate of the top-left corner.
func (b BBox) X() int { return b[0] }

// Y returns the y coordinate of the top-left corner.
func (b BBox) Y() int { return b[1] }

// Width returns the box width.
func (b BBox) Width() int { return b[2] }

// Height returns the box height.
func (b BBox) Height() int { return b[3] }

// Center returns the center point of the box.
func (b BBox) Center() (int, int) {
	return b[0] + b[2]/2, b[1] + b[3]/2
}

// RoomObject is a single object in the room, either furniture or a structural
// element. This is the contract between the vision collaborator, the engine
// and the render collaborator.
type RoomObject struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	BBox        BBox       `json:"bbox"`
	Type        ObjectType `json:"type"`
	Orientation int        `json:"orientation"` // degrees: 0, 90, 180, 270
	IsLocked    bool       `json:"is_locked"`
}

// IsStructural reports whether the object is a fixed building element.
func (o RoomObject) IsStructural() bool {
	return o.Type == ObjectTypeStructural
}

// IsDoor reports whether the object is a structural door. Doors are excluded
// from path-obstacle testing: a door opening never blocks the path through it.
func (o RoomObject) IsDoor() bool {
	return o.Type == ObjectTypeStructural && o.Label == "door"
}

// RoomDimensions is the estimated size of the room in layout units, with the
// containing rectangle anchored at (0,0).
type RoomDimensions struct {
	WidthEstimate  int `json:"width_estimate"`
	HeightEstimate int `json:"height_estimate"`
}

// Severity of a constraint violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ConstraintViolation is a single named rule failure referencing the objects
// involved. Violation lists are ordered deterministically: rule order first,
// then the pair/object order defined by the geometry kernel.
type ConstraintViolation struct {
	ConstraintName  string   `json:"constraint_name"`
	Description     string   `json:"description"`
	Severity        Severity `json:"severity"`
	ObjectsInvolved []string `json:"objects_involved"`
}

// LayoutScore is the composite 0-100 quality metric for a layout.
type LayoutScore struct {
	TotalScore       float64 `json:"total_score"`
	WalkabilityScore float64 `json:"walkability_score"`
	ConstraintScore  float64 `json:"constraint_score"`
	PreferenceScore  float64 `json:"preference_score"`
	Explanation      string  `json:"explanation"`
}

// CloneLayout returns a copy of the object list. Objects are value types, so a
// slice copy is a deep copy; the engine never mutates its input in place.
func CloneLayout(objects []RoomObject) []RoomObject {
	out := make([]RoomObject, len(objects))
	copy(out, objects)
	return out
}
