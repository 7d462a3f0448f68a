package search

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dharmasatrya/smarttrip/internal/catalog"
	"github.com/dharmasatrya/smarttrip/internal/constraints"
	"github.com/dharmasatrya/smarttrip/internal/metrics"
	"github.com/dharmasatrya/smarttrip/internal/models"
	"github.com/dharmasatrya/smarttrip/internal/optimizer"
	"github.com/dharmasatrya/smarttrip/internal/planner"
	"github.com/dharmasatrya/smarttrip/internal/ranking"
	"github.com/dharmasatrya/smarttrip/internal/session"
)

// Service runs a trip search: validate the form, call the optimizer for the
// outbound leg and then, for round trips, the return leg, and commit both to
// the session. The two calls never overlap.
type Service struct {
	client  optimizer.Client
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewService(client optimizer.Client, cat *catalog.Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:  client,
		catalog: cat,
		logger:  logger,
	}
}

// Resolver builds a constraint resolver over the optimizer's current date
// window. When the window cannot be fetched the resolver works without one.
func (s *Service) Resolver(ctx context.Context) *constraints.Resolver {
	var window constraints.DateWindow

	dates, err := s.client.AvailableDates(ctx)
	if err != nil {
		s.logger.Warn("available dates unavailable, date window unknown", "error", err)
		return constraints.NewResolver(s.catalog, window)
	}

	window, err = constraints.WindowFromAvailable(*dates)
	if err != nil {
		s.logger.Warn("available dates unparseable, date window unknown", "error", err)
		return constraints.NewResolver(s.catalog, constraints.DateWindow{})
	}
	return constraints.NewResolver(s.catalog, window)
}

// Run validates draft and executes the search against sess. Validation
// failures leave the session untouched. Once the search has begun, any
// failure clears the session's results and nothing partial is committed.
func (s *Service) Run(ctx context.Context, sess *session.Session, draft planner.Draft, mode session.Mode) error {
	resolver := s.Resolver(ctx)
	d := planner.Reconcile(draft, resolver)

	outbound, ret, err := planner.BuildRequests(d, resolver)
	if err != nil {
		metrics.Searches.WithLabelValues(string(mode), "invalid").Inc()
		return err
	}

	token := sess.Begin(mode)
	log := s.logger.With("session", sess.ID(), "mode", mode, "generation", token, "round_trip", ret != nil)
	log.Info("search started", "origin", outbound.Origin, "destination", outbound.Destination)

	switch mode {
	case session.ModeMultiple:
		err = s.runMultiple(ctx, sess, token, outbound, ret)
	default:
		err = s.runSingle(ctx, sess, token, outbound, ret)
	}

	metrics.Searches.WithLabelValues(string(mode), outcome(err)).Inc()
	if err != nil {
		log.Warn("search failed", "error", err)
		return err
	}
	log.Info("search committed")
	return nil
}

func (s *Service) runSingle(ctx context.Context, sess *session.Session, token session.Token, outReq models.TripRequest, retReq *models.TripRequest) error {
	outbound, err := s.client.Optimize(ctx, outReq)
	if err != nil {
		return s.fail(sess, token, err)
	}

	var ret *models.TripResultLeg
	if retReq != nil {
		if !sess.Current(token) {
			return s.stale()
		}
		ret, err = s.client.Optimize(ctx, *retReq)
		if err != nil {
			return s.fail(sess, token, err)
		}
	}

	if err := sess.CommitSingle(token, *outbound, ret); err != nil {
		return s.stale()
	}
	return nil
}

func (s *Service) runMultiple(ctx context.Context, sess *session.Session, token session.Token, outReq models.TripRequest, retReq *models.TripRequest) error {
	outbound, err := s.client.OptimizeMultiple(ctx, outReq)
	if err != nil {
		return s.fail(sess, token, err)
	}
	if _, err := ranking.PickRecommended(*outbound); err != nil {
		return s.fail(sess, token, err)
	}

	var ret *models.MultiOptionResult
	if retReq != nil {
		if !sess.Current(token) {
			return s.stale()
		}
		ret, err = s.client.OptimizeMultiple(ctx, *retReq)
		if err != nil {
			return s.fail(sess, token, err)
		}
		if _, err := ranking.PickRecommended(*ret); err != nil {
			return s.fail(sess, token, err)
		}
	}

	if err := sess.CommitMultiple(token, *outbound, ret); err != nil {
		return s.stale()
	}
	return nil
}

// fail records err on the session unless a newer search owns it. The caller
// still learns why its own search failed.
func (s *Service) fail(sess *session.Session, token session.Token, err error) error {
	if ferr := sess.Fail(token, err); errors.Is(ferr, session.ErrStaleSearch) {
		metrics.StaleResultsDiscarded.Inc()
	}
	return err
}

func (s *Service) stale() error {
	metrics.StaleResultsDiscarded.Inc()
	return session.ErrStaleSearch
}

func outcome(err error) string {
	var upstream *models.UpstreamError
	var integrity models.DataIntegrityError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, session.ErrStaleSearch):
		return "stale"
	case errors.As(err, &integrity):
		return "integrity_error"
	case errors.As(err, &upstream):
		return "upstream_error"
	default:
		return "error"
	}
}
