package constraints

import (
	"reflect"
	"testing"
	"time"

	"github.com/dharmasatrya/smarttrip/internal/catalog"
	"github.com/dharmasatrya/smarttrip/internal/models"
	"github.com/dharmasatrya/smarttrip/internal/tripdates"
)

func newResolver(t *testing.T, min, max string) *Resolver {
	t.Helper()
	w, err := WindowFromAvailable(models.AvailableDates{Min: min, Max: max})
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	return NewResolver(catalog.Default(), w)
}

func TestCityChoices(t *testing.T) {
	r := newResolver(t, "", "")

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"destinations", r.ValidDestinations("GYN"), []string{"GRU", "BSB", "ATL", "ORD", "MSY", "JFK"}},
		{"origins", r.ValidOrigins("ATL"), []string{"GYN", "GRU", "BSB", "ORD", "MSY", "JFK"}},
		{"stops", r.ValidIntermediateStops("GYN", "ATL"), []string{"GRU", "BSB", "ORD", "MSY", "JFK"}},
		{"return origins", r.ValidReturnOrigins("ATL", []string{"JFK", "GRU"}), []string{"GRU", "ATL", "JFK"}},
		{"return origins skip blank and unknown", r.ValidReturnOrigins("ATL", []string{"", "XXX"}), []string{"ATL"}},
		{"return destinations", r.ValidReturnDestinations("GYN", "ATL", []string{"GRU", "JFK"}), []string{"GYN", "BSB", "ORD", "MSY"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Fatalf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestReturnOriginsNeverIncludeUnvisitedCities(t *testing.T) {
	r := newResolver(t, "", "")
	stops := []string{"GRU"}
	for _, code := range r.ValidReturnOrigins("ATL", stops) {
		if code != "ATL" && code != "GRU" {
			t.Fatalf("unexpected return origin %s", code)
		}
	}
	for _, code := range r.ValidReturnDestinations("GYN", "ATL", stops) {
		if code == "ATL" || code == "GRU" {
			t.Fatalf("return destination %s was visited", code)
		}
	}
}

func TestDateBounds(t *testing.T) {
	r := newResolver(t, "2026-03-01", "2026-06-30")

	if got := tripdates.Format(r.MinSelectableDate()); got != "2026-03-01" {
		t.Fatalf("min = %s", got)
	}
	if got := tripdates.Format(r.MaxSelectableDate()); got != "2026-06-30" {
		t.Fatalf("max = %s", got)
	}

	dep, _ := tripdates.Parse("2026-03-10")
	if got := tripdates.Format(r.MinReturnDate(dep)); got != "2026-03-10" {
		t.Fatalf("min return = %s, want 2026-03-10", got)
	}
	early, _ := tripdates.Parse("2026-02-01")
	if got := tripdates.Format(r.MinReturnDate(early)); got != "2026-03-01" {
		t.Fatalf("min return floor = %s, want 2026-03-01", got)
	}

	late, _ := tripdates.Parse("2026-07-01")
	if r.InWindow(late) || r.InWindow(early) || !r.InWindow(dep) {
		t.Fatal("InWindow mismatch")
	}
}

func TestUnknownWindowFallsBackToToday(t *testing.T) {
	now := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)
	r := NewResolver(catalog.Default(), DateWindow{}).WithClock(func() time.Time { return now })

	if got := tripdates.Format(r.MinSelectableDate()); got != "2026-05-04" {
		t.Fatalf("min = %s, want today", got)
	}
	if !r.MaxSelectableDate().IsZero() {
		t.Fatal("max should be unknown")
	}
	if got := tripdates.Format(r.MinReturnDate(time.Time{})); got != "2026-05-04" {
		t.Fatalf("min return without departure = %s", got)
	}
	far, _ := tripdates.Parse("2030-01-01")
	if !r.InWindow(far) {
		t.Fatal("unknown window should accept any date")
	}
}

func TestWindowFromAvailableRejectsGarbage(t *testing.T) {
	if _, err := WindowFromAvailable(models.AvailableDates{Min: "soon"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestForOriginUsesLocalToday(t *testing.T) {
	if _, err := time.LoadLocation("America/Sao_Paulo"); err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 01:30 UTC on the 8th is still the evening of the 7th in Goiânia.
	now := time.Date(2026, 3, 8, 1, 30, 0, 0, time.UTC)
	r := NewResolver(catalog.Default(), DateWindow{}).WithClock(func() time.Time { return now })

	if got := tripdates.Format(r.MinSelectableDate()); got != "2026-03-08" {
		t.Fatalf("UTC min = %s", got)
	}
	if got := tripdates.Format(r.ForOrigin("GYN").MinSelectableDate()); got != "2026-03-07" {
		t.Fatalf("GYN min = %s, want 2026-03-07", got)
	}
}
