package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/smarttrip/internal/allocation"
	"github.com/dharmasatrya/smarttrip/internal/catalog"
	"github.com/dharmasatrya/smarttrip/internal/models"
	"github.com/dharmasatrya/smarttrip/internal/optimizer"
	"github.com/dharmasatrya/smarttrip/internal/planner"
	"github.com/dharmasatrya/smarttrip/internal/search"
	"github.com/dharmasatrya/smarttrip/internal/session"
	"github.com/dharmasatrya/smarttrip/internal/tripdates"
)

type TripHandler struct {
	service  *search.Service
	sessions *session.Store
	catalog  *catalog.Catalog
	client   optimizer.Client
}

func NewTripHandler(svc *search.Service, sessions *session.Store, cat *catalog.Catalog, client optimizer.Client) *TripHandler {
	return &TripHandler{
		service:  svc,
		sessions: sessions,
		catalog:  cat,
		client:   client,
	}
}

func (h *TripHandler) Register(g *echo.Group) {
	g.GET("/cities", h.Cities)
	g.GET("/available-dates", h.AvailableDates)
	g.POST("/drafts/reconcile", h.Reconcile)
	g.POST("/sessions", h.CreateSession)
	g.DELETE("/sessions/:id", h.DeleteSession)
	g.POST("/sessions/:id/search", h.Search)
	g.GET("/sessions/:id/result", h.Result)
	g.DELETE("/sessions/:id/result", h.ClearResult)
	g.PUT("/sessions/:id/selection", h.Select)
}

func (h *TripHandler) Cities(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]models.City{
		"cities": h.catalog.Cities(),
	})
}

func (h *TripHandler) AvailableDates(c echo.Context) error {
	dates, err := h.client.AvailableDates(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dates)
}

type ReconcileResponse struct {
	Draft           planner.Draft     `json:"draft"`
	Choices         planner.Choices   `json:"choices"`
	Allocation      allocation.Result `json:"allocation"`
	AllocationError string            `json:"allocation_error,omitempty"`
}

// Reconcile returns the consistent form state after an edit, plus what the
// form may offer next and the current day-allocation status.
func (h *TripHandler) Reconcile(c echo.Context) error {
	var draft planner.Draft
	if err := c.Bind(&draft); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	resolver := h.service.Resolver(c.Request().Context())
	reconciled := planner.Reconcile(draft, resolver)

	departure, _ := tripdates.Parse(reconciled.DepartureDate)
	ret, _ := tripdates.Parse(reconciled.ReturnDate)
	alloc, err := allocation.Validate(departure, ret, reconciled.RoundTrip, reconciled.Days())

	resp := ReconcileResponse{
		Draft:      reconciled,
		Choices:    planner.ChoicesFor(reconciled, resolver),
		Allocation: alloc,
	}
	if err != nil {
		resp.AllocationError = err.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *TripHandler) CreateSession(c echo.Context) error {
	s := h.sessions.Create()
	return c.JSON(http.StatusCreated, map[string]string{
		"session_id": s.ID(),
	})
}

func (h *TripHandler) DeleteSession(c echo.Context) error {
	h.sessions.Delete(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// Search validates the submitted form and runs the optimizer calls. The
// response carries the session's view once the search has committed.
func (h *TripHandler) Search(c echo.Context) error {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	mode, err := session.ParseMode(c.QueryParam("mode"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
	}

	var draft planner.Draft
	if err := c.Bind(&draft); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	if err := h.service.Run(c.Request().Context(), sess, draft, mode); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, sess.View(viewOptions(c)))
}

func (h *TripHandler) Result(c echo.Context) error {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sess.View(viewOptions(c)))
}

func (h *TripHandler) ClearResult(c echo.Context) error {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	sess.Clear()
	return c.NoContent(http.StatusNoContent)
}

type SelectionRequest struct {
	OutboundOptionID *int `json:"outbound_option_id"`
	ReturnOptionID   *int `json:"return_option_id"`
}

func (h *TripHandler) Select(c echo.Context) error {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	var req SelectionRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	if err := sess.Select(req.OutboundOptionID, req.ReturnOptionID); err != nil {
		switch {
		case errors.Is(err, session.ErrNoOptions):
			return writeError(c, http.StatusConflict, "no_options", err.Error())
		case errors.Is(err, models.ErrOptionNotFound):
			return writeError(c, http.StatusNotFound, "option_not_found", err.Error())
		}
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, sess.View(viewOptions(c)))
}

func viewOptions(c echo.Context) session.ViewOptions {
	return session.ViewOptions{
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
