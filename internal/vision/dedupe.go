package vision

import (
	"sort"
	"strings"

	"github.com/pocket-planner/backend/internal/models"
)

// Detectors confuse sofas with beds in floor plans. When several objects are
// labeled "bed", the largest stays a bed and the rest are reclassified as
// sofas when they are much smaller (area below 60% of the primary), very
// elongated (aspect below 0.4), or when more than two beds were claimed.
const (
	bedAreaRatioThreshold = 0.6
	bedAspectThreshold    = 0.4
)

// DeduplicateBeds reclassifies implausible duplicate beds as sofas. It is a
// pure function: the input list is never modified, and a new list in the
// original order is returned.
func DeduplicateBeds(objects []models.RoomObject) []models.RoomObject {
	var beds []models.RoomObject
	for _, o := range objects {
		if o.Label == "bed" {
			beds = append(beds, o)
		}
	}
	if len(beds) <= 1 {
		return models.CloneLayout(objects)
	}

	sorted := make([]models.RoomObject, len(beds))
	copy(sorted, beds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return boxArea(sorted[i].BBox) > boxArea(sorted[j].BBox)
	})
	primary := sorted[0]
	primaryArea := boxArea(primary.BBox)

	out := make([]models.RoomObject, 0, len(objects))
	for _, o := range objects {
		if o.Label != "bed" || o.ID == primary.ID {
			out = append(out, o)
			continue
		}
		if !shouldReclassify(o, primaryArea, len(beds)) {
			out = append(out, o)
			continue
		}
		o.Label = "sofa"
		o.ID = strings.Replace(o.ID, "bed", "sofa", 1)
		out = append(out, o)
	}
	return out
}

func shouldReclassify(o models.RoomObject, primaryArea float64, bedCount int) bool {
	if bedCount > 2 {
		return true
	}
	if primaryArea > 0 && boxArea(o.BBox)/primaryArea < bedAreaRatioThreshold {
		return true
	}
	return boxAspect(o.BBox) < bedAspectThreshold
}

func boxArea(b models.BBox) float64 {
	return float64(b.Width()) * float64(b.Height())
}

// boxAspect returns short side over long side, 1 for squares.
func boxAspect(b models.BBox) float64 {
	w, h := float64(b.Width()), float64(b.Height())
	long := w
	if h > long {
		long = h
	}
	if long == 0 {
		return 1
	}
	short := w
	if h < short {
		short = h
	}
	return short / long
}
