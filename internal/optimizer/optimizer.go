// Package optimizer searches for better placements of unlocked movable
// objects under a bounded move budget. The search is a deterministic local
// descent: pick the worst unresolved violation, try a bounded candidate set
// of translations and swaps for its objects, commit the best strict
// improvement, repeat. Each run is self-contained; there is no cross-request
// state.
package optimizer

import (
	"fmt"
	"math"
	"strings"

	"github.com/pocket-planner/backend/internal/constraint"
	"github.com/pocket-planner/backend/internal/geometry"
	"github.com/pocket-planner/backend/internal/models"
	"github.com/pocket-planner/backend/internal/scoring"
)

// Termination reasons for an optimization run.
const (
	TerminationConverged       = "converged"
	TerminationLocalOptimum    = "local_optimum"
	TerminationBudgetExhausted = "budget_exhausted"
)

// Result is the outcome of one optimization run. Layout is always usable: it
// is the best-scoring layout seen across all iterations, the input included,
// so FinalScore never regresses below InitialScore.
type Result struct {
	Layout       []models.RoomObject
	InitialScore models.LayoutScore
	FinalScore   models.LayoutScore
	Iterations   int
	Termination  string
	Explanation  string
}

// Progress reports the state after one committed move. Used by streaming
// boundaries; the engine itself stays synchronous.
type Progress struct {
	Iteration int     `json:"iteration"`
	Score     float64 `json:"score"`
	Move      string  `json:"move"`
}

// ProgressFunc receives per-iteration progress. May be nil.
type ProgressFunc func(Progress)

// Optimizer runs bounded local search over layouts.
type Optimizer struct {
	tuning  models.TuningRules
	checker *constraint.Checker
	scorer  *scoring.Scorer
}

// New creates an optimizer sharing the given tuning with its checker and
// scorer.
func New(tuning models.TuningRules) *Optimizer {
	return &Optimizer{
		tuning:  tuning,
		checker: constraint.NewChecker(tuning),
		scorer:  scoring.NewScorer(tuning),
	}
}

// candidate is one proposed layout mutation.
type candidate struct {
	layout       []models.RoomObject
	description  string
	displacement float64
}

// Optimize runs the search. lockedIDs marks movable objects the user pinned;
// structural objects are immovable regardless. The input slice is never
// mutated.
func (o *Optimizer) Optimize(objects []models.RoomObject, roomWidth, roomHeight int, lockedIDs []string, maxIterations int, progress ProgressFunc) (*Result, error) {
	if err := validateInput(objects, roomWidth, roomHeight, maxIterations); err != nil {
		return nil, err
	}

	locked := make(map[string]bool, len(lockedIDs))
	for _, id := range lockedIDs {
		locked[id] = true
	}

	working := models.CloneLayout(objects)
	for i := range working {
		if locked[working[i].ID] {
			working[i].IsLocked = true
		}
	}

	initialViolations := o.checker.Check(working, roomWidth, roomHeight)
	initialScore := o.scorer.Score(working, roomWidth, roomHeight, initialViolations)

	best := models.CloneLayout(working)
	bestScore := initialScore

	var moves []string
	iterations := 0
	termination := TerminationBudgetExhausted

	for {
		violations := o.checker.Check(working, roomWidth, roomHeight)
		if len(violations) == 0 {
			termination = TerminationConverged
			break
		}
		if iterations >= maxIterations {
			termination = TerminationBudgetExhausted
			break
		}

		target := selectViolation(violations)
		candidates := o.generateCandidates(working, target, roomWidth, roomHeight, locked)
		chosen, improved := o.pickBest(candidates, roomWidth, roomHeight, o.scoreOf(working, roomWidth, roomHeight))
		if !improved {
			termination = TerminationLocalOptimum
			break
		}

		working = chosen.layout
		iterations++
		moves = append(moves, chosen.description)

		score := o.scoreOf(working, roomWidth, roomHeight)
		if score.TotalScore > bestScore.TotalScore {
			best = models.CloneLayout(working)
			bestScore = score
		}
		if progress != nil {
			progress(Progress{Iteration: iterations, Score: score.TotalScore, Move: chosen.description})
		}
	}

	return &Result{
		Layout:       best,
		InitialScore: initialScore,
		FinalScore:   bestScore,
		Iterations:   iterations,
		Termination:  termination,
		Explanation:  buildExplanation(initialScore, bestScore, moves, termination),
	}, nil
}

func validateInput(objects []models.RoomObject, roomWidth, roomHeight, maxIterations int) error {
	if roomWidth <= 0 || roomHeight <= 0 {
		return fmt.Errorf("room dimensions must be positive, got %dx%d", roomWidth, roomHeight)
	}
	if maxIterations < 0 {
		return fmt.Errorf("max iterations must not be negative, got %d", maxIterations)
	}
	seen := make(map[string]bool, len(objects))
	for _, obj := range objects {
		if obj.ID == "" {
			return fmt.Errorf("object with empty id")
		}
		if seen[obj.ID] {
			return fmt.Errorf("duplicate object id %q", obj.ID)
		}
		seen[obj.ID] = true
		if obj.BBox.Width() <= 0 || obj.BBox.Height() <= 0 {
			return fmt.Errorf("object %q has degenerate bbox %v", obj.ID, obj.BBox)
		}
	}
	return nil
}

// selectViolation picks the highest-severity violation, breaking ties by the
// number of objects involved, then by list position.
func selectViolation(violations []models.ConstraintViolation) models.ConstraintViolation {
	best := violations[0]
	for _, v := range violations[1:] {
		if severityRank(v.Severity) > severityRank(best.Severity) {
			best = v
			continue
		}
		if severityRank(v.Severity) == severityRank(best.Severity) &&
			len(v.ObjectsInvolved) > len(best.ObjectsInvolved) {
			best = v
		}
	}
	return best
}

func severityRank(s models.Severity) int {
	if s == models.SeverityError {
		return 1
	}
	return 0
}

// movableIn reports whether the object may be relocated this run.
func movableIn(o models.RoomObject, locked map[string]bool) bool {
	return !o.IsStructural() && !o.IsLocked && !locked[o.ID]
}

// generateCandidates proposes bounded translations and swaps for every
// relocatable object named in the violation.
func (o *Optimizer) generateCandidates(layout []models.RoomObject, v models.ConstraintViolation, roomWidth, roomHeight int, locked map[string]bool) []candidate {
	var out []candidate
	for idx, obj := range layout {
		if !involvedIn(v, obj.ID) || !movableIn(obj, locked) {
			continue
		}
		out = append(out, o.translations(layout, idx, roomWidth, roomHeight)...)
		out = append(out, o.swaps(layout, idx, locked)...)
	}
	return out
}

func involvedIn(v models.ConstraintViolation, id string) bool {
	for _, involved := range v.ObjectsInvolved {
		if involved == id {
			return true
		}
	}
	return false
}

// translations shifts the object along both axes by the step ladder, plus one
// clamp-into-bounds candidate when the object pokes outside the room.
func (o *Optimizer) translations(layout []models.RoomObject, idx int, roomWidth, roomHeight int) []candidate {
	obj := layout[idx]
	var out []candidate

	for _, mult := range o.tuning.StepMultipliers {
		step := int(o.tuning.StepBase) * mult
		for _, d := range [][2]int{{step, 0}, {-step, 0}, {0, step}, {0, -step}} {
			out = append(out, moveCandidate(layout, idx, obj.BBox.X()+d[0], obj.BBox.Y()+d[1]))
		}
	}

	if !geometry.InBounds(obj, roomWidth, roomHeight) {
		x := clampInt(obj.BBox.X(), 0, roomWidth-obj.BBox.Width())
		y := clampInt(obj.BBox.Y(), 0, roomHeight-obj.BBox.Height())
		if x != obj.BBox.X() || y != obj.BBox.Y() {
			out = append(out, moveCandidate(layout, idx, x, y))
		}
	}
	return out
}

func moveCandidate(layout []models.RoomObject, idx, x, y int) candidate {
	obj := layout[idx]
	next := models.CloneLayout(layout)
	next[idx].BBox = models.BBox{x, y, obj.BBox.Width(), obj.BBox.Height()}
	dx, dy := float64(x-obj.BBox.X()), float64(y-obj.BBox.Y())
	return candidate{
		layout:       next,
		description:  fmt.Sprintf("moved %s (%s) to (%d, %d)", obj.ID, obj.Label, x, y),
		displacement: math.Hypot(dx, dy),
	}
}

// swaps exchanges top-left positions with every other relocatable object.
func (o *Optimizer) swaps(layout []models.RoomObject, idx int, locked map[string]bool) []candidate {
	obj := layout[idx]
	var out []candidate
	for j, other := range layout {
		if j == idx || !movableIn(other, locked) {
			continue
		}
		next := models.CloneLayout(layout)
		next[idx].BBox = models.BBox{other.BBox.X(), other.BBox.Y(), obj.BBox.Width(), obj.BBox.Height()}
		next[j].BBox = models.BBox{obj.BBox.X(), obj.BBox.Y(), other.BBox.Width(), other.BBox.Height()}
		dx := float64(other.BBox.X() - obj.BBox.X())
		dy := float64(other.BBox.Y() - obj.BBox.Y())
		out = append(out, candidate{
			layout:       next,
			description:  fmt.Sprintf("swapped positions of %s and %s", obj.ID, other.ID),
			displacement: 2 * math.Hypot(dx, dy),
		})
	}
	return out
}

// pickBest rescores every candidate and returns the strict improvement with
// the best total, ties broken by fewest remaining violations, then smallest
// displacement. Candidate order is deterministic, so the whole search is.
func (o *Optimizer) pickBest(candidates []candidate, roomWidth, roomHeight int, current models.LayoutScore) (candidate, bool) {
	var (
		best           candidate
		bestScore      float64
		bestViolations int
		found          bool
	)
	for _, c := range candidates {
		violations := o.checker.Check(c.layout, roomWidth, roomHeight)
		score := o.scorer.Score(c.layout, roomWidth, roomHeight, violations)
		if score.TotalScore <= current.TotalScore {
			continue
		}
		better := !found ||
			score.TotalScore > bestScore ||
			(score.TotalScore == bestScore && len(violations) < bestViolations) ||
			(score.TotalScore == bestScore && len(violations) == bestViolations && c.displacement < best.displacement)
		if better {
			best = c
			bestScore = score.TotalScore
			bestViolations = len(violations)
			found = true
		}
	}
	return best, found
}

func (o *Optimizer) scoreOf(layout []models.RoomObject, roomWidth, roomHeight int) models.LayoutScore {
	return o.scorer.Score(layout, roomWidth, roomHeight, o.checker.Check(layout, roomWidth, roomHeight))
}

func buildExplanation(initial, final models.LayoutScore, moves []string, termination string) string {
	var b strings.Builder
	switch termination {
	case TerminationConverged:
		b.WriteString("All constraints satisfied.")
	case TerminationLocalOptimum:
		b.WriteString("No further improving move found.")
	default:
		b.WriteString("Iteration budget exhausted.")
	}
	if len(moves) == 0 {
		b.WriteString(" Layout unchanged.")
	} else {
		fmt.Fprintf(&b, " Score %.1f -> %.1f: ", initial.TotalScore, final.TotalScore)
		b.WriteString(strings.Join(moves, "; "))
		b.WriteString(".")
	}
	return b.String()
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
