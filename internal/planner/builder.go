package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dharmasatrya/smarttrip/internal/allocation"
	"github.com/dharmasatrya/smarttrip/internal/catalog"
	"github.com/dharmasatrya/smarttrip/internal/constraints"
	"github.com/dharmasatrya/smarttrip/internal/models"
	"github.com/dharmasatrya/smarttrip/internal/tripdates"
)

var validate = validator.New()

// BuildRequests turns a draft into the outbound request and, for round trips,
// an independent one-way return request. Every failure is a
// models.ValidationError.
func BuildRequests(d Draft, r *constraints.Resolver) (models.TripRequest, *models.TripRequest, error) {
	cat := r.Catalog()
	origin := catalog.Normalize(d.Origin)
	destination := catalog.Normalize(d.Destination)

	if origin == "" {
		return models.TripRequest{}, nil, models.ErrMissingOrigin
	}
	if destination == "" {
		return models.TripRequest{}, nil, models.ErrMissingDestination
	}
	if origin == destination {
		return models.TripRequest{}, nil, models.ErrSameOriginDestination
	}
	for _, code := range []string{origin, destination} {
		if !cat.Known(code) {
			return models.TripRequest{}, nil, fmt.Errorf("%w: %s", models.ErrUnknownCity, code)
		}
	}

	departure, err := parseRequiredDate(d.DepartureDate, models.ErrMissingDepartureDate, r)
	if err != nil {
		return models.TripRequest{}, nil, err
	}

	if d.Adults < 1 || d.Children < 0 {
		return models.TripRequest{}, nil, models.ErrInvalidTravelers
	}

	stops, err := checkStops(d.Stops, origin, destination, cat)
	if err != nil {
		return models.TripRequest{}, nil, err
	}

	days, err := checkDays(d.Days(), destination, stops)
	if err != nil {
		return models.TripRequest{}, nil, err
	}

	var returnDate time.Time
	var returnOrigin, returnDestination string
	if d.RoundTrip {
		returnDate, err = parseRequiredDate(d.ReturnDate, models.ErrMissingReturnDate, r)
		if err != nil {
			return models.TripRequest{}, nil, err
		}
		if returnDate.Before(departure) {
			return models.TripRequest{}, nil, models.ErrReturnBeforeDeparture
		}

		returnOrigin = catalog.Normalize(d.ReturnOrigin)
		returnDestination = catalog.Normalize(d.ReturnDestination)
		if returnOrigin == "" {
			return models.TripRequest{}, nil, models.ErrMissingReturnOrigin
		}
		if returnDestination == "" {
			return models.TripRequest{}, nil, models.ErrMissingReturnDestination
		}
		if !constraints.Contains(r.ValidReturnOrigins(destination, stops), returnOrigin) {
			return models.TripRequest{}, nil, fmt.Errorf("%w: %s", models.ErrInvalidReturnOrigin, returnOrigin)
		}
		if !constraints.Contains(r.ValidReturnDestinations(origin, destination, stops), returnDestination) {
			return models.TripRequest{}, nil, fmt.Errorf("%w: %s", models.ErrInvalidReturnDestination, returnDestination)
		}
	}

	if _, err := allocation.Validate(departure, returnDate, d.RoundTrip, days); err != nil {
		return models.TripRequest{}, nil, err
	}

	outbound := models.TripRequest{
		RoundTrip:             false,
		Origin:                origin,
		Destination:           destination,
		Stops:                 stops,
		DepartureDate:         tripdates.Format(departure),
		Adults:                d.Adults,
		Children:              d.Children,
		DaysPerCity:           days,
		IncludeMeals:          d.IncludeMeals,
		IncludeLodging:        d.IncludeLodging,
		IncludeLocalTransport: d.IncludeLocalTransport,
	}
	if err := checkStruct(outbound); err != nil {
		return models.TripRequest{}, nil, err
	}

	if !d.RoundTrip {
		return outbound, nil, nil
	}

	// Ancillary costs of the return leg are left out on purpose: the combined
	// grand total only adds the return flights.
	ret := &models.TripRequest{
		RoundTrip:     false,
		Origin:        returnOrigin,
		Destination:   returnDestination,
		Stops:         []string{},
		DepartureDate: tripdates.Format(returnDate),
		Adults:        d.Adults,
		Children:      d.Children,
		DaysPerCity:   map[string]int{},
	}
	if err := checkStruct(*ret); err != nil {
		return models.TripRequest{}, nil, err
	}

	return outbound, ret, nil
}

func parseRequiredDate(s string, missing models.ValidationError, r *constraints.Resolver) (time.Time, error) {
	if s == "" {
		return time.Time{}, missing
	}
	t, err := tripdates.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", models.ErrInvalidDate, s)
	}
	if !r.InWindow(t) {
		return time.Time{}, fmt.Errorf("%w: %s", models.ErrDateOutOfRange, tripdates.Format(t))
	}
	return t, nil
}

func checkStops(raw []string, origin, destination string, cat *catalog.Catalog) ([]string, error) {
	stops := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, s := range raw {
		s = catalog.Normalize(s)
		switch {
		case s == "":
			return nil, fmt.Errorf("%w: blank stop", models.ErrInvalidStops)
		case s == origin || s == destination:
			return nil, fmt.Errorf("%w: %s is the origin or destination", models.ErrInvalidStops, s)
		case seen[s]:
			return nil, fmt.Errorf("%w: %s repeated", models.ErrInvalidStops, s)
		case !cat.Known(s):
			return nil, fmt.Errorf("%w: %s", models.ErrUnknownCity, s)
		}
		seen[s] = true
		stops = append(stops, s)
	}
	return stops, nil
}

func checkDays(days map[string]int, destination string, stops []string) (map[string]int, error) {
	allowed := make(map[string]bool, len(stops)+1)
	allowed[destination] = true
	for _, s := range stops {
		allowed[s] = true
	}
	for city, n := range days {
		if !allowed[city] {
			return nil, fmt.Errorf("%w: %s is not visited", models.ErrInvalidDayAllocation, city)
		}
		if n < 0 || n > allocation.MaxDaysPerCity {
			return nil, fmt.Errorf("%w: %s has %d days", models.ErrInvalidDayAllocation, city, n)
		}
	}
	return days, nil
}

func checkStruct(req models.TripRequest) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: %s failed %s", models.ErrInvalidRequest, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}
	return nil
}
