package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dharmasatrya/smarttrip/internal/allocation"
	"github.com/dharmasatrya/smarttrip/internal/catalog"
)

// Draft is the trip form as the browser holds it: fields may be blank or
// inconsistent until Reconcile and BuildRequests have run.
type Draft struct {
	RoundTrip             bool                `json:"round_trip"`
	Origin                string              `json:"origin"`
	Destination           string              `json:"destination"`
	Stops                 []string            `json:"intermediate_stops"`
	DepartureDate         string              `json:"departure_date"`
	ReturnDate            string              `json:"return_date"`
	ReturnOrigin          string              `json:"return_origin"`
	ReturnDestination     string              `json:"return_destination"`
	Adults                int                 `json:"adults"`
	Children              int                 `json:"children"`
	DaysPerCity           map[string]DayCount `json:"days_per_city"`
	IncludeMeals          bool                `json:"include_meals"`
	IncludeLodging        bool                `json:"include_lodging"`
	IncludeLocalTransport bool                `json:"include_local_transport"`
}

// Clone returns a deep copy.
func (d Draft) Clone() Draft {
	cp := d
	if d.Stops != nil {
		cp.Stops = append([]string(nil), d.Stops...)
	}
	if d.DaysPerCity != nil {
		cp.DaysPerCity = make(map[string]DayCount, len(d.DaysPerCity))
		for k, v := range d.DaysPerCity {
			cp.DaysPerCity[k] = v
		}
	}
	return cp
}

// Days flattens the per-city allocation under normalized codes; blank
// entries count as zero.
func (d Draft) Days() map[string]int {
	out := make(map[string]int, len(d.DaysPerCity))
	for k, v := range d.DaysPerCity {
		code := catalog.Normalize(k)
		out[code] = allocation.AddDays(out[code], int(v))
	}
	return out
}

// DayCount is a per-city allocation as typed into a number field. It decodes
// from numbers, numeric strings, "" and null.
type DayCount int

func (c *DayCount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*c = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("day count %q is not a whole number", raw)
	}
	*c = DayCount(n)
	return nil
}
