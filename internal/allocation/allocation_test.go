package allocation

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dharmasatrya/smarttrip/internal/models"
	"github.com/dharmasatrya/smarttrip/internal/tripdates"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := tripdates.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestTotalTripDays(t *testing.T) {
	dep := mustDate(t, "2026-03-07")
	ret := mustDate(t, "2026-03-20")

	if got := TotalTripDays(dep, ret, true); got != 13 {
		t.Fatalf("round trip = %d, want 13", got)
	}
	if got := TotalTripDays(dep, ret, false); got != 0 {
		t.Fatalf("one way = %d, want 0", got)
	}
	if got := TotalTripDays(dep, time.Time{}, true); got != 0 {
		t.Fatalf("missing return = %d, want 0", got)
	}
}

func TestValidate(t *testing.T) {
	days := map[string]int{"GRU": 3, "ATL": 2}
	dep := mustDate(t, "2026-03-01")

	tests := []struct {
		name       string
		ret        string
		roundTrip  bool
		wantStatus Status
		wantErr    bool
	}{
		{"four day trip", "2026-03-05", true, StatusOverAllocated, true},
		{"five day trip", "2026-03-06", true, StatusOK, false},
		{"longer trip", "2026-03-20", true, StatusOK, false},
		{"one way skips", "2026-03-02", false, StatusSkipped, false},
		{"same day skips", "2026-03-01", true, StatusSkipped, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Validate(dep, mustDate(t, tt.ret), tt.roundTrip, days)
			if res.Status != tt.wantStatus {
				t.Fatalf("status = %s, want %s", res.Status, tt.wantStatus)
			}
			if res.Allocated != 5 {
				t.Fatalf("allocated = %d, want 5", res.Allocated)
			}
			if tt.wantErr {
				if !errors.Is(err, models.ErrDaysOverAllocated) {
					t.Fatalf("err = %v, want ErrDaysOverAllocated", err)
				}
				var ve models.ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("err %v is not a ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAllocatedDaysEmpty(t *testing.T) {
	if got := AllocatedDays(nil); got != 0 {
		t.Fatalf("AllocatedDays(nil) = %d, want 0", got)
	}
}

func TestAddDaysSaturates(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{2, 3, 5},
		{math.MaxInt, 1, math.MaxInt},
		{math.MaxInt, math.MaxInt, math.MaxInt},
		{math.MinInt, -1, math.MinInt},
		{-4, 1, -3},
	}
	for _, tt := range tests {
		if got := AddDays(tt.a, tt.b); got != tt.want {
			t.Errorf("AddDays(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestValidateHugeAllocationDoesNotWrap(t *testing.T) {
	days := map[string]int{"GRU": math.MaxInt, "ATL": math.MaxInt}
	res, err := Validate(mustDate(t, "2026-03-07"), mustDate(t, "2026-03-10"), true, days)
	if !errors.Is(err, models.ErrDaysOverAllocated) {
		t.Fatalf("err = %v, want ErrDaysOverAllocated", err)
	}
	if res.Allocated != math.MaxInt || res.Status != StatusOverAllocated {
		t.Fatalf("result = %+v", res)
	}
}
