package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dharmasatrya/smarttrip/internal/catalog"
	"github.com/dharmasatrya/smarttrip/internal/models"
	"github.com/dharmasatrya/smarttrip/internal/planner"
	"github.com/dharmasatrya/smarttrip/internal/session"
)

type call struct {
	endpoint string
	req      models.TripRequest
}

type fakeClient struct {
	mu       sync.Mutex
	calls    []call
	inFlight int
	maxInFl  int

	datesErr error
	legs     []*models.TripResultLeg
	multis   []*models.MultiOptionResult
	errs     []error

	// onCall runs inside every optimize call, before it returns.
	onCall func(n int)
}

func (f *fakeClient) AvailableDates(context.Context) (*models.AvailableDates, error) {
	if f.datesErr != nil {
		return nil, f.datesErr
	}
	return &models.AvailableDates{Min: "2026-01-01", Max: "2026-12-31"}, nil
}

func (f *fakeClient) enter(endpoint string, req models.TripRequest) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{endpoint, req})
	n := len(f.calls) - 1
	f.inFlight++
	if f.inFlight > f.maxInFl {
		f.maxInFl = f.inFlight
	}
	hook := f.onCall
	var err error
	if n < len(f.errs) {
		err = f.errs[n]
	}
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	time.Sleep(time.Millisecond)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	return n, err
}

func (f *fakeClient) Optimize(_ context.Context, req models.TripRequest) (*models.TripResultLeg, error) {
	n, err := f.enter("optimize", req)
	if err != nil {
		return nil, err
	}
	return f.legs[n], nil
}

func (f *fakeClient) OptimizeMultiple(_ context.Context, req models.TripRequest) (*models.MultiOptionResult, error) {
	n, err := f.enter("optimize-multiple", req)
	if err != nil {
		return nil, err
	}
	return f.multis[n], nil
}

func leg(total, flights float64) *models.TripResultLeg {
	return &models.TripResultLeg{Costs: models.Costs{Total: total, Flights: flights, Lodging: total - flights}}
}

func options(recommended int) *models.MultiOptionResult {
	return &models.MultiOptionResult{
		Options: []models.TripOption{
			{ID: 1, Rank: 1, TotalCost: 3000},
			{ID: 2, Rank: 2, TotalCost: 2500},
		},
		RecommendedID: recommended,
	}
}

func draft() planner.Draft {
	return planner.Draft{
		RoundTrip:         true,
		Origin:            "GYN",
		Destination:       "ATL",
		Stops:             []string{"GRU", "JFK"},
		DepartureDate:     "2026-03-07",
		ReturnDate:        "2026-03-20",
		ReturnOrigin:      "ATL",
		ReturnDestination: "GYN",
		Adults:            1,
		DaysPerCity:       map[string]planner.DayCount{"GRU": 3, "JFK": 2, "ATL": 8},
		IncludeLodging:    true,
	}
}

func setup(f *fakeClient) (*Service, *session.Session) {
	svc := NewService(f, catalog.Default(), nil)
	return svc, session.NewStore(time.Hour).Create()
}

func TestRunSingleRoundTrip(t *testing.T) {
	f := &fakeClient{legs: []*models.TripResultLeg{leg(4200, 2000), leg(1900, 1800)}}
	svc, sess := setup(f)

	if err := svc.Run(context.Background(), sess, draft(), session.ModeSingle); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(f.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(f.calls))
	}
	if f.calls[0].req.Origin != "GYN" || f.calls[1].req.Origin != "ATL" || f.calls[1].req.Destination != "GYN" {
		t.Fatalf("call order = %+v", f.calls)
	}
	if f.maxInFl != 1 {
		t.Fatalf("calls overlapped: max in flight = %d", f.maxInFl)
	}

	v := sess.View(session.ViewOptions{})
	if v.Single == nil || v.Single.Result.GrandTotal != 6000 {
		t.Fatalf("view = %+v", v.Single)
	}
}

func TestRunOneWayMakesOneCall(t *testing.T) {
	f := &fakeClient{legs: []*models.TripResultLeg{leg(4200, 2000)}}
	svc, sess := setup(f)

	d := draft()
	d.RoundTrip = false
	if err := svc.Run(context.Background(), sess, d, session.ModeSingle); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(f.calls))
	}
	if v := sess.View(session.ViewOptions{}); v.Single.Result.Return != nil || v.Single.Result.GrandTotal != 4200 {
		t.Fatalf("view = %+v", v.Single)
	}
}

func TestRunOutboundFailureSkipsReturn(t *testing.T) {
	upstream := &models.UpstreamError{Endpoint: "optimize", StatusCode: 500, Message: "Solver indisponível"}
	f := &fakeClient{errs: []error{upstream}}
	svc, sess := setup(f)

	err := svc.Run(context.Background(), sess, draft(), session.ModeSingle)
	var got *models.UpstreamError
	if !errors.As(err, &got) || got.Message != "Solver indisponível" {
		t.Fatalf("err = %v", err)
	}
	if len(f.calls) != 1 {
		t.Fatalf("calls = %d, return leg should not be requested", len(f.calls))
	}

	v := sess.View(session.ViewOptions{})
	if v.Single != nil || v.InFlight || v.Error == "" {
		t.Fatalf("view = %+v", v)
	}
}

func TestRunReturnFailureCommitsNothing(t *testing.T) {
	f := &fakeClient{
		legs: []*models.TripResultLeg{leg(4200, 2000), nil},
		errs: []error{nil, &models.UpstreamError{Endpoint: "optimize", StatusCode: 404, Message: "Sem voos"}},
	}
	svc, sess := setup(f)

	if err := svc.Run(context.Background(), sess, draft(), session.ModeSingle); err == nil {
		t.Fatal("expected error")
	}
	if v := sess.View(session.ViewOptions{}); v.Single != nil {
		t.Fatal("outbound leg must not be shown on its own")
	}
}

func TestRunValidationLeavesSessionUntouched(t *testing.T) {
	f := &fakeClient{}
	svc, sess := setup(f)

	d := draft()
	d.DaysPerCity["ATL"] = 20

	err := svc.Run(context.Background(), sess, d, session.ModeSingle)
	if !errors.Is(err, models.ErrDaysOverAllocated) {
		t.Fatalf("err = %v", err)
	}
	if len(f.calls) != 0 {
		t.Fatalf("optimizer called %d times", len(f.calls))
	}
	if v := sess.View(session.ViewOptions{}); v.InFlight || v.Error != "" {
		t.Fatalf("view = %+v", v)
	}
}

func TestRunWithoutDateWindow(t *testing.T) {
	f := &fakeClient{
		datesErr: errors.New("connection refused"),
		legs:     []*models.TripResultLeg{leg(4200, 2000), leg(1800, 1800)},
	}
	svc, sess := setup(f)

	if err := svc.Run(context.Background(), sess, draft(), session.ModeSingle); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunMultiple(t *testing.T) {
	f := &fakeClient{multis: []*models.MultiOptionResult{options(2), options(1)}}
	svc, sess := setup(f)

	if err := svc.Run(context.Background(), sess, draft(), session.ModeMultiple); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.calls) != 2 || f.calls[0].endpoint != "optimize-multiple" || f.calls[1].endpoint != "optimize-multiple" {
		t.Fatalf("calls = %+v", f.calls)
	}

	v := sess.View(session.ViewOptions{})
	if v.Multiple == nil || v.Multiple.Outbound.RecommendedID != 2 || v.Multiple.Return == nil {
		t.Fatalf("view = %+v", v.Multiple)
	}
}

func TestRunMultipleDanglingRecommendation(t *testing.T) {
	f := &fakeClient{multis: []*models.MultiOptionResult{options(7)}}
	svc, sess := setup(f)

	err := svc.Run(context.Background(), sess, draft(), session.ModeMultiple)
	if !errors.Is(err, models.ErrRecommendationNotFound) {
		t.Fatalf("err = %v", err)
	}
	if len(f.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(f.calls))
	}
	if v := sess.View(session.ViewOptions{}); v.Multiple != nil {
		t.Fatal("inconsistent option set must not be committed")
	}
}

func TestRunSupersededSearchIsDiscarded(t *testing.T) {
	f := &fakeClient{legs: []*models.TripResultLeg{leg(4200, 2000), leg(1800, 1800)}}
	svc, sess := setup(f)

	var newer session.Token
	f.onCall = func(n int) {
		if n == 0 {
			newer = sess.Begin(session.ModeSingle)
		}
	}

	err := svc.Run(context.Background(), sess, draft(), session.ModeSingle)
	if !errors.Is(err, session.ErrStaleSearch) {
		t.Fatalf("err = %v, want ErrStaleSearch", err)
	}
	if len(f.calls) != 1 {
		t.Fatalf("superseded search kept calling the optimizer: %d calls", len(f.calls))
	}
	if !sess.Current(newer) {
		t.Fatal("newer search lost ownership of the session")
	}
	if v := sess.View(session.ViewOptions{}); v.Single != nil || !v.InFlight {
		t.Fatalf("stale result leaked: %+v", v)
	}
}

func TestOutcome(t *testing.T) {
	tests := map[string]error{
		"ok":              nil,
		"stale":           session.ErrStaleSearch,
		"integrity_error": models.ErrRecommendationNotFound,
		"upstream_error":  &models.UpstreamError{Endpoint: "optimize"},
		"error":           errors.New("other"),
	}
	for want, err := range tests {
		if got := outcome(err); got != want {
			t.Errorf("outcome(%v) = %s, want %s", err, got, want)
		}
	}
}
