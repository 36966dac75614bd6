// Package scoring turns a layout and its violations into the composite 0-100
// quality score. Scoring is a pure function of (layout, room dimensions): it
// never mutates its inputs, so concurrent calls need no coordination.
package scoring

import (
	"fmt"
	"math"

	"github.com/pocket-planner/backend/internal/geometry"
	"github.com/pocket-planner/backend/internal/models"
)

// Scorer computes layout scores from a constraint checker and tuning rules.
type Scorer struct {
	tuning models.TuningRules
}

// NewScorer creates a scorer with the given tuning.
func NewScorer(tuning models.TuningRules) *Scorer {
	return &Scorer{tuning: tuning}
}

// Score computes the three subscores and the weighted total for a layout. The
// violation list must come from the constraint checker run on the same
// layout; passing it in keeps the checker the single source of rule truth.
func (s *Scorer) Score(objects []models.RoomObject, roomWidth, roomHeight int, violations []models.ConstraintViolation) models.LayoutScore {
	constraintScore := s.constraintScore(violations)
	walkability := s.walkabilityScore(objects, roomWidth, roomHeight)
	preference := s.preferenceScore(objects, roomWidth, roomHeight)

	total := clampScore(s.tuning.ConstraintWeight*constraintScore +
		s.tuning.WalkabilityWeight*walkability +
		s.tuning.PreferenceWeight*preference)

	errs, warns := countBySeverity(violations)
	explanation := fmt.Sprintf(
		"constraints %.0f/100 (%d errors, %d warnings), walkability %.0f/100, preferences %.0f/100",
		constraintScore, errs, warns, walkability, preference)

	return models.LayoutScore{
		TotalScore:       total,
		ConstraintScore:  constraintScore,
		WalkabilityScore: walkability,
		PreferenceScore:  preference,
		Explanation:      explanation,
	}
}

// constraintScore deducts a fixed penalty per violation, weighted by
// severity. More or worse violations never increase the score.
func (s *Scorer) constraintScore(violations []models.ConstraintViolation) float64 {
	score := 100.0
	for _, v := range violations {
		if v.Severity == models.SeverityError {
			score -= s.tuning.ErrorPenalty
		} else {
			score -= s.tuning.WarningPenalty
		}
	}
	return clampScore(score)
}

// walkabilityScore blends the fraction of unblocked critical paths with the
// free-floor share of the room. Rooms without doors are judged on free floor
// alone.
func (s *Scorer) walkabilityScore(objects []models.RoomObject, roomWidth, roomHeight int) float64 {
	roomArea := float64(roomWidth) * float64(roomHeight)
	if roomArea <= 0 {
		return 0
	}

	freeShare := geometry.FreeSpace(roomWidth, roomHeight, objects).Area() / roomArea
	// Free floor above 60% of the room counts as fully open.
	openness := math.Min(freeShare/0.6, 1.0)

	type target struct {
		end geometry.Point
		id  string
	}

	total, unblocked := 0, 0
	roomCenter := geometry.Point{X: float64(roomWidth) / 2, Y: float64(roomHeight) / 2}
	for _, door := range objects {
		if !door.IsDoor() {
			continue
		}
		start := geometry.RectFromObject(door).Center()
		targets := []target{{end: roomCenter}}
		for _, o := range objects {
			if !o.IsStructural() {
				targets = append(targets, target{end: geometry.RectFromObject(o).Center(), id: o.ID})
			}
		}
		for _, tg := range targets {
			// A path's own destination object is not its obstacle.
			obstacles := objects
			if tg.id != "" {
				obstacles = make([]models.RoomObject, 0, len(objects))
				for _, o := range objects {
					if o.ID != tg.id {
						obstacles = append(obstacles, o)
					}
				}
			}
			total++
			if blocked, _ := geometry.PathBlocked(start, tg.end, obstacles, s.tuning.CorridorWidth); !blocked {
				unblocked++
			}
		}
	}

	if total == 0 {
		return clampScore(openness * 100)
	}
	pathShare := float64(unblocked) / float64(total)
	return clampScore((0.7*pathShare + 0.3*openness) * 100)
}

// preferenceScore starts from a neutral baseline and adds the bonus of every
// satisfied preference rule. It is independent of the constraint and
// walkability subscores and extends without touching them.
func (s *Scorer) preferenceScore(objects []models.RoomObject, roomWidth, roomHeight int) float64 {
	score := 50.0
	for _, rule := range s.tuning.Preferences {
		if s.preferenceSatisfied(rule, objects, roomWidth, roomHeight) {
			score += rule.Bonus
		}
	}
	return clampScore(score)
}

func (s *Scorer) preferenceSatisfied(rule models.PreferenceRule, objects []models.RoomObject, roomWidth, roomHeight int) bool {
	for _, o := range objects {
		if o.Label != rule.Label || o.IsStructural() {
			continue
		}
		switch rule.Kind {
		case "against_wall":
			if distanceToNearestWall(geometry.RectFromObject(o), roomWidth, roomHeight) <= rule.Distance {
				return true
			}
		case "near_label":
			for _, target := range objects {
				if target.Label != rule.NearLabel {
					continue
				}
				if geometry.Clearance(geometry.RectFromObject(o), geometry.RectFromObject(target)) <= rule.Distance {
					return true
				}
			}
		}
	}
	return false
}

func distanceToNearestWall(r geometry.Rect, roomWidth, roomHeight int) float64 {
	left := r.MinX()
	top := r.MinY()
	right := float64(roomWidth) - r.MaxX()
	bottom := float64(roomHeight) - r.MaxY()
	return math.Min(math.Min(left, right), math.Min(top, bottom))
}

func countBySeverity(violations []models.ConstraintViolation) (errs, warns int) {
	for _, v := range violations {
		if v.Severity == models.SeverityError {
			errs++
		} else {
			warns++
		}
	}
	return errs, warns
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
