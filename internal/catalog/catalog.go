package catalog

import (
	"strings"
	"time"

	"github.com/dharmasatrya/smarttrip/internal/models"
)

var defaultCities = []models.City{
	// Brazil
	{Code: "GYN", Name: "Goiânia", Country: "BR", Timezone: "America/Sao_Paulo"},
	{Code: "GRU", Name: "São Paulo", Country: "BR", Timezone: "America/Sao_Paulo"},
	{Code: "BSB", Name: "Brasília", Country: "BR", Timezone: "America/Sao_Paulo"},

	// United States
	{Code: "ATL", Name: "Atlanta", Country: "US", Timezone: "America/New_York"},
	{Code: "ORD", Name: "Chicago", Country: "US", Timezone: "America/Chicago"},
	{Code: "MSY", Name: "New Orleans", Country: "US", Timezone: "America/Chicago"},
	{Code: "JFK", Name: "New York", Country: "US", Timezone: "America/New_York"},
}

// Catalog is the ordered, immutable set of cities the optimizer knows.
type Catalog struct {
	cities    []models.City
	locations []*time.Location
	index     map[string]int
}

func New(cities []models.City) *Catalog {
	c := &Catalog{
		cities:    make([]models.City, 0, len(cities)),
		locations: make([]*time.Location, 0, len(cities)),
		index:     make(map[string]int, len(cities)),
	}
	for _, city := range cities {
		city.Code = Normalize(city.Code)
		if city.Code == "" {
			continue
		}
		if _, dup := c.index[city.Code]; dup {
			continue
		}
		c.index[city.Code] = len(c.cities)
		c.cities = append(c.cities, city)
		c.locations = append(c.locations, loadLocation(city.Timezone))
	}
	return c
}

// loadLocation falls back to UTC when the zone is blank or the host has no
// tzdata for it.
func loadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Default() *Catalog {
	return New(defaultCities)
}

// Normalize upper-cases and trims a city code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c *Catalog) Known(code string) bool {
	_, ok := c.index[Normalize(code)]
	return ok
}

func (c *Catalog) Lookup(code string) (models.City, bool) {
	i, ok := c.index[Normalize(code)]
	if !ok {
		return models.City{}, false
	}
	return c.cities[i], true
}

// Location is the local time zone of the city, or UTC for unknown codes.
func (c *Catalog) Location(code string) *time.Location {
	i, ok := c.index[Normalize(code)]
	if !ok {
		return time.UTC
	}
	return c.locations[i]
}

func (c *Catalog) Cities() []models.City {
	out := make([]models.City, len(c.cities))
	copy(out, c.cities)
	return out
}

// Codes returns every code in catalogue order.
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.cities))
	for i, city := range c.cities {
		out[i] = city.Code
	}
	return out
}

// Except returns the catalogue codes not present in excluded, in catalogue order.
func (c *Catalog) Except(excluded ...string) []string {
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		skip[Normalize(e)] = true
	}
	out := make([]string, 0, len(c.cities))
	for _, city := range c.cities {
		if !skip[city.Code] {
			out = append(out, city.Code)
		}
	}
	return out
}
