package allocation

import (
	"fmt"
	"math"
	"time"

	"github.com/dharmasatrya/smarttrip/internal/models"
	"github.com/dharmasatrya/smarttrip/internal/tripdates"
)

type Status string

const (
	StatusOK            Status = "ok"
	StatusSkipped       Status = "skipped"
	StatusOverAllocated Status = "over_allocated"
)

type Result struct {
	Status    Status `json:"status"`
	Allocated int    `json:"allocated_days"`
	Total     int    `json:"total_days"`
}

// MaxDaysPerCity bounds a single city's allocation to one year.
const MaxDaysPerCity = 366

// TotalTripDays is zero for one-way trips or while either date is unknown.
func TotalTripDays(departure, ret time.Time, roundTrip bool) int {
	if !roundTrip || departure.IsZero() || ret.IsZero() {
		return 0
	}
	return tripdates.DaysBetween(departure, ret)
}

func AllocatedDays(daysPerCity map[string]int) int {
	total := 0
	for _, d := range daysPerCity {
		total = AddDays(total, d)
	}
	return total
}

// AddDays adds b to a, saturating at the int limits instead of wrapping.
func AddDays(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

// Validate compares the allocation against the trip span. A zero span skips
// the check rather than passing it; the caller decides whether that blocks.
func Validate(departure, ret time.Time, roundTrip bool, daysPerCity map[string]int) (Result, error) {
	res := Result{
		Allocated: AllocatedDays(daysPerCity),
		Total:     TotalTripDays(departure, ret, roundTrip),
	}
	if res.Total == 0 {
		res.Status = StatusSkipped
		return res, nil
	}
	if res.Allocated > res.Total {
		res.Status = StatusOverAllocated
		return res, fmt.Errorf("%w: %d days allocated for a %d-day trip",
			models.ErrDaysOverAllocated, res.Allocated, res.Total)
	}
	res.Status = StatusOK
	return res, nil
}
