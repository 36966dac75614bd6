// Package constraint applies the hard spatial rule set to a layout and turns
// geometry into a deterministic list of violations. Rules are data: the
// checker walks an ordered rule slice, so adding a rule never touches the
// callers or the optimizer's search loop.
package constraint

import (
	"fmt"

	"github.com/pocket-planner/backend/internal/geometry"
	"github.com/pocket-planner/backend/internal/models"
)

// Rule is a named, severity-tagged constraint predicate over a whole layout.
type Rule struct {
	Name     string
	Severity models.Severity
	Check    func(objects []models.RoomObject, roomWidth, roomHeight int, tuning models.TuningRules) []models.ConstraintViolation
}

// Checker evaluates the ordered rule set against layouts.
type Checker struct {
	tuning models.TuningRules
	rules  []Rule
}

// NewChecker builds a checker with the standard rule order: bounds, overlap,
// clearance, door clearance, path blocking.
func NewChecker(tuning models.TuningRules) *Checker {
	return &Checker{
		tuning: tuning,
		rules: []Rule{
			{Name: "bounds", Severity: models.SeverityError, Check: checkBounds},
			{Name: "overlap", Severity: models.SeverityError, Check: checkOverlap},
			{Name: "clearance", Severity: models.SeverityWarning, Check: checkClearance},
			{Name: "door_clearance", Severity: models.SeverityError, Check: checkDoorClearance},
			{Name: "path_blocking", Severity: models.SeverityError, Check: checkPathBlocking},
		},
	}
}

// Tuning returns the tuning the checker was built with.
func (c *Checker) Tuning() models.TuningRules { return c.tuning }

// Check runs every rule in order and returns the combined violation list.
// Two runs on identical input produce an identical list; this ordering is
// part of the contract.
func (c *Checker) Check(objects []models.RoomObject, roomWidth, roomHeight int) []models.ConstraintViolation {
	violations := make([]models.ConstraintViolation, 0)
	for _, rule := range c.rules {
		violations = append(violations, rule.Check(objects, roomWidth, roomHeight, c.tuning)...)
	}
	return violations
}

func checkBounds(objects []models.RoomObject, roomWidth, roomHeight int, _ models.TuningRules) []models.ConstraintViolation {
	var out []models.ConstraintViolation
	for _, o := range objects {
		if !geometry.InBounds(o, roomWidth, roomHeight) {
			out = append(out, models.ConstraintViolation{
				ConstraintName:  "bounds",
				Description:     fmt.Sprintf("%s (%s) extends outside the %dx%d room", o.ID, o.Label, roomWidth, roomHeight),
				Severity:        models.SeverityError,
				ObjectsInvolved: []string{o.ID},
			})
		}
	}
	return out
}

func checkOverlap(objects []models.RoomObject, _, _ int, _ models.TuningRules) []models.ConstraintViolation {
	byID := objectsByID(objects)
	var out []models.ConstraintViolation
	for _, col := range geometry.PairwiseCollisions(objects) {
		a, b := byID[col.AID], byID[col.BID]
		// Adjacent structural fixtures are legitimate; skip those pairs.
		if a.IsStructural() && b.IsStructural() {
			continue
		}
		out = append(out, models.ConstraintViolation{
			ConstraintName:  "overlap",
			Description:     fmt.Sprintf("%s overlaps %s by %.0f square units", col.AID, col.BID, col.Area),
			Severity:        models.SeverityError,
			ObjectsInvolved: []string{col.AID, col.BID},
		})
	}
	return out
}

func checkClearance(objects []models.RoomObject, _, _ int, tuning models.TuningRules) []models.ConstraintViolation {
	var out []models.ConstraintViolation
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			a, b := objects[i], objects[j]
			if a.IsStructural() || b.IsStructural() {
				continue
			}
			ra, rb := geometry.RectFromObject(a), geometry.RectFromObject(b)
			if geometry.OverlapArea(ra, rb) > 0 {
				continue // already an overlap violation
			}
			if c := geometry.Clearance(ra, rb); c < tuning.MinClearance {
				out = append(out, models.ConstraintViolation{
					ConstraintName:  "clearance",
					Description:     fmt.Sprintf("only %.0f units between %s and %s (minimum %.0f)", c, a.ID, b.ID, tuning.MinClearance),
					Severity:        models.SeverityWarning,
					ObjectsInvolved: []string{a.ID, b.ID},
				})
			}
		}
	}
	return out
}

func checkDoorClearance(objects []models.RoomObject, _, _ int, tuning models.TuningRules) []models.ConstraintViolation {
	var out []models.ConstraintViolation
	for _, door := range objects {
		if !door.IsDoor() {
			continue
		}
		swing := geometry.Buffer(geometry.RectFromObject(door), tuning.DoorSwingRadius)
		for _, o := range objects {
			if o.IsStructural() {
				continue
			}
			if geometry.OverlapArea(swing, geometry.RectFromObject(o)) > 0 {
				out = append(out, models.ConstraintViolation{
					ConstraintName:  "door_clearance",
					Description:     fmt.Sprintf("%s (%s) blocks the swing zone of %s", o.ID, o.Label, door.ID),
					Severity:        models.SeverityError,
					ObjectsInvolved: []string{door.ID, o.ID},
				})
			}
		}
	}
	return out
}

// checkPathBlocking walks the critical paths: every door center to the room
// center, then to each movable object's center, in input order.
func checkPathBlocking(objects []models.RoomObject, roomWidth, roomHeight int, tuning models.TuningRules) []models.ConstraintViolation {
	var out []models.ConstraintViolation
	roomCenter := geometry.Point{X: float64(roomWidth) / 2, Y: float64(roomHeight) / 2}

	for _, door := range objects {
		if !door.IsDoor() {
			continue
		}
		start := geometry.RectFromObject(door).Center()

		for _, p := range criticalPaths(start, roomCenter, objects) {
			// The path target itself is not its own obstacle.
			obstacles := excludeObject(objects, p.targetID)
			blocked, blocker := geometry.PathBlocked(start, p.end, obstacles, tuning.CorridorWidth)
			if !blocked {
				continue
			}
			involved := []string{door.ID, blocker}
			if p.targetID != "" {
				involved = []string{door.ID, p.targetID, blocker}
			}
			out = append(out, models.ConstraintViolation{
				ConstraintName:  "path_blocking",
				Description:     fmt.Sprintf("%s blocks the walking path from %s to %s", blocker, door.ID, p.name),
				Severity:        models.SeverityError,
				ObjectsInvolved: involved,
			})
		}
	}
	return out
}

type criticalPath struct {
	name     string
	end      geometry.Point
	targetID string
}

func criticalPaths(from, roomCenter geometry.Point, objects []models.RoomObject) []criticalPath {
	paths := []criticalPath{{name: "the room center", end: roomCenter}}
	for _, o := range objects {
		if o.IsStructural() {
			continue
		}
		paths = append(paths, criticalPath{
			name:     o.ID,
			end:      geometry.RectFromObject(o).Center(),
			targetID: o.ID,
		})
	}
	return paths
}

func excludeObject(objects []models.RoomObject, id string) []models.RoomObject {
	if id == "" {
		return objects
	}
	out := make([]models.RoomObject, 0, len(objects))
	for _, o := range objects {
		if o.ID != id {
			out = append(out, o)
		}
	}
	return out
}

func objectsByID(objects []models.RoomObject) map[string]models.RoomObject {
	m := make(map[string]models.RoomObject, len(objects))
	for _, o := range objects {
		m[o.ID] = o
	}
	return m
}
