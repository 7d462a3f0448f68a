// Package constraints derives which cities and dates a trip form may offer
// given the choices already made.
package constraints

import (
	"time"

	"github.com/dharmasatrya/smarttrip/internal/catalog"
	"github.com/dharmasatrya/smarttrip/internal/models"
	"github.com/dharmasatrya/smarttrip/internal/tripdates"
)

// DateWindow is the optimizer's bookable range. A zero bound is unknown.
type DateWindow struct {
	Min time.Time
	Max time.Time
}

// WindowFromAvailable converts the optimizer's /available-dates answer.
func WindowFromAvailable(a models.AvailableDates) (DateWindow, error) {
	var w DateWindow
	var err error
	if a.Min != "" {
		if w.Min, err = tripdates.Parse(a.Min); err != nil {
			return DateWindow{}, err
		}
	}
	if a.Max != "" {
		if w.Max, err = tripdates.Parse(a.Max); err != nil {
			return DateWindow{}, err
		}
	}
	return w, nil
}

type Resolver struct {
	catalog *catalog.Catalog
	window  DateWindow
	now     func() time.Time
	loc     *time.Location
}

func NewResolver(c *catalog.Catalog, window DateWindow) *Resolver {
	return &Resolver{
		catalog: c,
		window:  window,
		now:     time.Now,
		loc:     time.UTC,
	}
}

// WithClock returns a copy of the resolver that reads the current time from now.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	cp := *r
	cp.now = now
	return &cp
}

// ForOrigin returns a copy of the resolver whose "today" is the calendar date
// at origin. Unknown origins keep UTC.
func (r *Resolver) ForOrigin(origin string) *Resolver {
	cp := *r
	cp.loc = r.catalog.Location(origin)
	return &cp
}

func (r *Resolver) Catalog() *catalog.Catalog {
	return r.catalog
}

func (r *Resolver) Window() DateWindow {
	return r.window
}

func (r *Resolver) ValidDestinations(origin string) []string {
	return r.catalog.Except(origin)
}

func (r *Resolver) ValidOrigins(destination string) []string {
	return r.catalog.Except(destination)
}

func (r *Resolver) ValidIntermediateStops(origin, destination string) []string {
	return r.catalog.Except(origin, destination)
}

// ValidReturnOrigins lists where a return leg may depart: the final
// destination or any stop actually visited. Blank and unknown codes are left out.
func (r *Resolver) ValidReturnOrigins(destination string, stops []string) []string {
	candidates := make(map[string]bool, len(stops)+1)
	candidates[catalog.Normalize(destination)] = true
	for _, s := range stops {
		candidates[catalog.Normalize(s)] = true
	}
	out := make([]string, 0, len(candidates))
	for _, code := range r.catalog.Codes() {
		if candidates[code] {
			out = append(out, code)
		}
	}
	return out
}

// ValidReturnDestinations excludes the destination and every visited stop.
// The original origin stays allowed.
func (r *Resolver) ValidReturnDestinations(origin, destination string, stops []string) []string {
	excluded := append([]string{destination}, stops...)
	return r.catalog.Except(excluded...)
}

// MinSelectableDate is the window's lower bound, or today when unknown.
func (r *Resolver) MinSelectableDate() time.Time {
	if !r.window.Min.IsZero() {
		return r.window.Min
	}
	return tripdates.Today(r.now(), r.loc)
}

// MaxSelectableDate is the window's upper bound; zero when unknown.
func (r *Resolver) MaxSelectableDate() time.Time {
	return r.window.Max
}

func (r *Resolver) MinReturnDate(departure time.Time) time.Time {
	if departure.IsZero() {
		return r.MinSelectableDate()
	}
	return tripdates.Max(tripdates.Date(departure), r.MinSelectableDate())
}

// InWindow reports whether d lies within the known bounds.
func (r *Resolver) InWindow(d time.Time) bool {
	if !r.window.Min.IsZero() && d.Before(r.window.Min) {
		return false
	}
	if !r.window.Max.IsZero() && d.After(r.window.Max) {
		return false
	}
	return true
}

// Contains reports whether code appears in set.
func Contains(set []string, code string) bool {
	code = catalog.Normalize(code)
	for _, s := range set {
		if s == code {
			return true
		}
	}
	return false
}
