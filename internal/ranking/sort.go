package ranking

import (
	"sort"
	"strings"

	"github.com/dharmasatrya/smarttrip/internal/models"
)

// SortOptions returns a sorted copy of options. Unknown keys fall back to
// rank ascending, which is the optimizer's own order.
func SortOptions(options []models.TripOption, sortBy, sortOrder string) []models.TripOption {
	sorted := make([]models.TripOption, len(options))
	copy(sorted, options)
	if len(sorted) == 0 {
		return sorted
	}

	ascending := strings.ToLower(sortOrder) != "desc"

	var less func(a, b models.TripOption) bool
	switch strings.ToLower(sortBy) {
	case "cost":
		less = func(a, b models.TripOption) bool { return a.TotalCost < b.TotalCost }
	case "time":
		less = func(a, b models.TripOption) bool { return a.TotalTravelHours < b.TotalTravelHours }
	case "stops":
		less = func(a, b models.TripOption) bool { return a.NumberOfStops < b.NumberOfStops }
	case "score":
		less = func(a, b models.TripOption) bool { return a.Scores.Overall < b.Scores.Overall }
	case "rank":
		less = func(a, b models.TripOption) bool { return a.Rank < b.Rank }
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Rank < sorted[j].Rank
		})
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return less(sorted[i], sorted[j])
		}
		return less(sorted[j], sorted[i])
	})
	return sorted
}
