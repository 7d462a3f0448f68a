package aggregator

import (
	"github.com/dharmasatrya/smarttrip/internal/models"
)

// Combine merges an outbound leg with an optional return leg. Only the return
// leg's flights count toward the grand total: lodging, meals and local
// transport are attributed to the outbound city-day allocation.
func Combine(outbound models.TripResultLeg, ret *models.TripResultLeg) models.CombinedTripResult {
	result := models.CombinedTripResult{
		Outbound:   outbound,
		GrandTotal: outbound.Costs.Total,
	}
	if ret != nil {
		r := *ret
		result.Return = &r
		result.GrandTotal += r.Costs.Flights
	}
	return result
}

// Selection is the running total over the options picked for each leg.
type Selection struct {
	Outbound *models.TripOption `json:"outbound,omitempty"`
	Return   *models.TripOption `json:"return,omitempty"`
	Total    float64            `json:"total"`
}

// CombineSelection sums the chosen options' total costs. Either side may be
// nil while the user has not picked it yet.
func CombineSelection(outbound, ret *models.TripOption) Selection {
	var s Selection
	if outbound != nil {
		o := *outbound
		s.Outbound = &o
		s.Total += o.TotalCost
	}
	if ret != nil {
		r := *ret
		s.Return = &r
		s.Total += r.TotalCost
	}
	return s
}
