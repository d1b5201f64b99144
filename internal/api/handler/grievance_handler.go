package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
)

// GrievanceHandler handles HTTP requests for grievance operations.
type GrievanceHandler struct {
	service ports.GrievanceService
	clock   ports.Clock
}

func NewGrievanceHandler(service ports.GrievanceService, clock ports.Clock) *GrievanceHandler {
	return &GrievanceHandler{service: service, clock: clock}
}

// Create handles POST /v1/grievances.
//
// @Summary      Raise a new grievance
// @Tags         grievances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createGrievanceRequest  true  "Grievance details"
// @Success      201   {object}  grievanceResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/grievances [post]
func (h *GrievanceHandler) Create(c echo.Context) error {
	var req createGrievanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	phone, _ := c.Get("phone").(string)

	g, err := h.service.Create(c.Request().Context(), ports.CreateGrievanceInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Address:      req.Address,
		Pincode:      req.Pincode,
		CitizenID:    actor.ID,
		CitizenName:  actor.Name,
		CitizenPhone: phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toGrievanceResponse(g, h.clock.Now()))
}

// Get handles GET /v1/grievances/:id.
//
// @Summary      Get a grievance by id
// @Tags         grievances
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Grievance id (e.g. GRV-7A8B9C2D)"
// @Success      200  {object}  grievanceResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/grievances/{id} [get]
func (h *GrievanceHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	g, err := h.service.Get(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGrievanceResponse(g, h.clock.Now()))
}

// ListMine handles GET /v1/grievances/mine — the citizen's own grievances.
//
// @Summary      List the caller's grievances
// @Tags         grievances
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   grievanceResponse
// @Router       /v1/grievances/mine [get]
func (h *GrievanceHandler) ListMine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListForCitizen(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGrievanceResponses(items, h.clock.Now()))
}

// ListAssigned handles GET /v1/grievances/assigned — cases assigned to the
// acting official.
//
// @Summary      List grievances assigned to the caller
// @Tags         grievances
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   grievanceResponse
// @Router       /v1/grievances/assigned [get]
func (h *GrievanceHandler) ListAssigned(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListForOfficial(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGrievanceResponses(items, h.clock.Now()))
}

// List handles GET /v1/grievances — the filtered, paginated listing for
// officials and admins.
//
// @Summary      List grievances
// @Tags         grievances
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        category   query     string  false  "Filter by category"
// @Param        escalated  query     bool    false  "Filter by escalation flag"
// @Param        search     query     string  false  "Partial match on id or title"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  listGrievancesResponse
// @Router       /v1/grievances [get]
func (h *GrievanceHandler) List(c echo.Context) error {
	input := ports.ListGrievancesInput{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}
	if v := c.QueryParam("escalated"); v != "" {
		escalated, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "escalated must be a boolean")
		}
		input.Escalated = &escalated
	}
	input.Page, _ = strconv.Atoi(c.QueryParam("page"))
	input.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listGrievancesResponse{
		Items:      toGrievanceResponses(result.Items, h.clock.Now()),
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Acknowledge handles POST /v1/grievances/:id/acknowledge.
//
// @Summary      Acknowledge a grievance and self-assign it
// @Tags         grievances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true   "Grievance id"
// @Param        body  body      actionRequest  false  "Optional remarks"
// @Success      200   {object}  grievanceResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/grievances/{id}/acknowledge [post]
func (h *GrievanceHandler) Acknowledge(c echo.Context) error {
	return h.action(c, h.service.Acknowledge)
}

// Start handles POST /v1/grievances/:id/start.
//
// @Summary      Start working a grievance
// @Tags         grievances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true   "Grievance id"
// @Param        body  body      actionRequest  false  "Optional remarks"
// @Success      200   {object}  grievanceResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/grievances/{id}/start [post]
func (h *GrievanceHandler) Start(c echo.Context) error {
	return h.action(c, h.service.Start)
}

// Resolve handles POST /v1/grievances/:id/resolve.
//
// @Summary      Resolve a grievance
// @Tags         grievances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true   "Grievance id"
// @Param        body  body      actionRequest  false  "Optional remarks"
// @Success      200   {object}  grievanceResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/grievances/{id}/resolve [post]
func (h *GrievanceHandler) Resolve(c echo.Context) error {
	return h.action(c, h.service.Resolve)
}

// Reject handles POST /v1/grievances/:id/reject — administrative override,
// valid from any non-terminal state.
//
// @Summary      Reject a grievance
// @Tags         grievances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true   "Grievance id"
// @Param        body  body      actionRequest  false  "Optional remarks"
// @Success      200   {object}  grievanceResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/grievances/{id}/reject [post]
func (h *GrievanceHandler) Reject(c echo.Context) error {
	return h.action(c, h.service.Reject)
}

// Reassign handles POST /v1/grievances/:id/reassign. The status is left
// untouched.
//
// @Summary      Reassign a grievance to another official
// @Tags         grievances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Grievance id"
// @Param        body  body      reassignRequest  true  "Target official"
// @Success      200   {object}  grievanceResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/grievances/{id}/reassign [post]
func (h *GrievanceHandler) Reassign(c echo.Context) error {
	var req reassignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	g, err := h.service.Reassign(c.Request().Context(), c.Param("id"), ports.ReassignInput{
		OfficialID: req.OfficialID,
		Remarks:    req.Remarks,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGrievanceResponse(g, h.clock.Now()))
}

// action factors the shared shape of the four manual transition endpoints.
func (h *GrievanceHandler) action(c echo.Context, do func(ctx context.Context, id string, actor ports.Actor, remarks string) (*domain.Grievance, error)) error {
	var req actionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	g, err := do(c.Request().Context(), c.Param("id"), actor, req.Remarks)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGrievanceResponse(g, h.clock.Now()))
}
