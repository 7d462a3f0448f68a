package planner

import (
	"github.com/dharmasatrya/smarttrip/internal/allocation"
	"github.com/dharmasatrya/smarttrip/internal/catalog"
	"github.com/dharmasatrya/smarttrip/internal/constraints"
	"github.com/dharmasatrya/smarttrip/internal/tripdates"
)

// Reconcile returns a consistent copy of d. It is meant to run after every
// edit of the form:
//   - stops equal to the origin or destination are removed, as are blank,
//     unknown and repeated stops;
//   - day allocations for cities no longer visited are dropped;
//   - a return origin or destination that is no longer valid is cleared,
//     never replaced by a guess.
func Reconcile(d Draft, r *constraints.Resolver) Draft {
	out := d.Clone()
	cat := r.Catalog()

	out.Origin = catalog.Normalize(out.Origin)
	out.Destination = catalog.Normalize(out.Destination)
	out.ReturnOrigin = catalog.Normalize(out.ReturnOrigin)
	out.ReturnDestination = catalog.Normalize(out.ReturnDestination)

	stops := make([]string, 0, len(out.Stops))
	seen := make(map[string]bool, len(out.Stops))
	for _, s := range out.Stops {
		s = catalog.Normalize(s)
		if s == "" || s == out.Origin || s == out.Destination || seen[s] || !cat.Known(s) {
			continue
		}
		seen[s] = true
		stops = append(stops, s)
	}
	out.Stops = stops

	if out.DaysPerCity != nil {
		visited := make(map[string]bool, len(stops)+1)
		visited[out.Destination] = true
		for _, s := range stops {
			visited[s] = true
		}
		days := make(map[string]DayCount, len(out.DaysPerCity))
		for city, n := range out.DaysPerCity {
			city = catalog.Normalize(city)
			if city == "" || !visited[city] {
				continue
			}
			days[city] = DayCount(allocation.AddDays(int(days[city]), int(n)))
		}
		out.DaysPerCity = days
	}

	if out.ReturnOrigin != "" &&
		!constraints.Contains(r.ValidReturnOrigins(out.Destination, out.Stops), out.ReturnOrigin) {
		out.ReturnOrigin = ""
	}
	if out.ReturnDestination != "" &&
		!constraints.Contains(r.ValidReturnDestinations(out.Origin, out.Destination, out.Stops), out.ReturnDestination) {
		out.ReturnDestination = ""
	}

	return out
}

// Choices is what the form may offer next, given the current draft.
type Choices struct {
	Origins            []string `json:"origins"`
	Destinations       []string `json:"destinations"`
	IntermediateStops  []string `json:"intermediate_stops"`
	ReturnOrigins      []string `json:"return_origins"`
	ReturnDestinations []string `json:"return_destinations"`
	MinDate            string   `json:"min_date"`
	MaxDate            string   `json:"max_date,omitempty"`
	MinReturnDate      string   `json:"min_return_date"`
}

func ChoicesFor(d Draft, r *constraints.Resolver) Choices {
	r = r.ForOrigin(d.Origin)
	departure, _ := tripdates.Parse(d.DepartureDate)
	return Choices{
		Origins:            r.ValidOrigins(d.Destination),
		Destinations:       r.ValidDestinations(d.Origin),
		IntermediateStops:  r.ValidIntermediateStops(d.Origin, d.Destination),
		ReturnOrigins:      r.ValidReturnOrigins(d.Destination, d.Stops),
		ReturnDestinations: r.ValidReturnDestinations(d.Origin, d.Destination, d.Stops),
		MinDate:            tripdates.Format(r.MinSelectableDate()),
		MaxDate:            tripdates.Format(r.MaxSelectableDate()),
		MinReturnDate:      tripdates.Format(r.MinReturnDate(departure)),
	}
}
