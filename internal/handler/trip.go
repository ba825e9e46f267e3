package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/trip-planner/internal/middleware"
	"github.com/iliyamo/trip-planner/internal/model"
	"github.com/iliyamo/trip-planner/internal/repository"
	"github.com/iliyamo/trip-planner/internal/validate"
)

// TripHandler serves the trip/itinerary/activity CRUD surface.  Every
// route runs behind JWTAuth, so the owner id is always present in context.
type TripHandler struct {
	Trips repository.TripStore
	Log   zerolog.Logger
}

func NewTripHandler(trips repository.TripStore, log zerolog.Logger) *TripHandler {
	return &TripHandler{Trips: trips, Log: log}
}

type createTripReq struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

type patchTripReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

type itineraryItemReq struct {
	Title       string    `json:"title" validate:"required,min=1"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime" validate:"required"`
}

type patchItineraryItemReq struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

type activityReq struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartTime   string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime     string `json:"endTime" validate:"omitempty,datetime=15:04"`
}

type patchActivityReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartTime   string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime     string `json:"endTime" validate:"omitempty,datetime=15:04"`
}

func ownerID(c echo.Context) string {
	id, _ := c.Get(middleware.CtxUserID).(string)
	return id
}

// MyTrips lists the caller's trips ordered by start date.
func (h *TripHandler) MyTrips(c echo.Context) error {
	trips, err := h.Trips.ListByOwner(c.Request().Context(), ownerID(c))
	if err != nil {
		h.Log.Error().Err(err).Msg("list trips failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}
	return c.JSON(http.StatusOK, trips)
}

func (h *TripHandler) Create(c echo.Context) error {
	var req createTripReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  validate.Describe(err),
		})
	}
	if req.EndDate < req.StartDate {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "endDate must not precede startDate"})
	}

	t, err := h.Trips.Create(c.Request().Context(), ownerID(c), model.Trip{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		h.Log.Error().Err(err).Msg("create trip failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TripHandler) Details(c echo.Context) error {
	t, err := h.Trips.Get(c.Request().Context(), ownerID(c), c.Param("tripId"))
	if err != nil {
		return h.tripErr(c, err, "get trip failed")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TripHandler) Patch(c echo.Context) error {
	var req patchTripReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  validate.Describe(err),
		})
	}

	t, err := h.Trips.Update(c.Request().Context(), ownerID(c), c.Param("tripId"), model.Trip{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalidDateRange) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "endDate must not precede startDate"})
		}
		return h.tripErr(c, err, "update trip failed")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TripHandler) Delete(c echo.Context) error {
	if err := h.Trips.Delete(c.Request().Context(), ownerID(c), c.Param("tripId")); err != nil {
		return h.tripErr(c, err, "delete trip failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TripHandler) AddItineraryItem(c echo.Context) error {
	var req itineraryItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  validate.Describe(err),
		})
	}

	item, err := h.Trips.AddItineraryItem(c.Request().Context(), ownerID(c), c.Param("tripId"), model.ItineraryItem{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		return h.tripErr(c, err, "add itinerary item failed")
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *TripHandler) AddActivity(c echo.Context) error {
	var req activityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  validate.Describe(err),
		})
	}

	a, err := h.Trips.AddActivity(c.Request().Context(), ownerID(c), c.Param("tripId"), c.Param("itemId"), model.Activity{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		return h.tripErr(c, err, "add activity failed")
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *TripHandler) PatchItineraryItem(c echo.Context) error {
	var req patchItineraryItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	item, err := h.Trips.UpdateItineraryItem(c.Request().Context(), ownerID(c), c.Param("tripId"), c.Param("itemId"), model.ItineraryItem{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		return h.tripErr(c, err, "update itinerary item failed")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *TripHandler) DeleteItineraryItem(c echo.Context) error {
	if err := h.Trips.DeleteItineraryItem(c.Request().Context(), ownerID(c), c.Param("tripId"), c.Param("itemId")); err != nil {
		return h.tripErr(c, err, "delete itinerary item failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TripHandler) PatchActivity(c echo.Context) error {
	var req patchActivityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  validate.Describe(err),
		})
	}

	a, err := h.Trips.UpdateActivity(c.Request().Context(), ownerID(c), c.Param("tripId"), c.Param("itemId"), c.Param("activityId"), model.Activity{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		return h.tripErr(c, err, "update activity failed")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *TripHandler) DeleteActivity(c echo.Context) error {
	if err := h.Trips.DeleteActivity(c.Request().Context(), ownerID(c), c.Param("tripId"), c.Param("itemId"), c.Param("activityId")); err != nil {
		return h.tripErr(c, err, "delete activity failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Itinerary returns every itinerary item across the caller's trips.
func (h *TripHandler) Itinerary(c echo.Context) error {
	trips, err := h.Trips.ListByOwner(c.Request().Context(), ownerID(c))
	if err != nil {
		h.Log.Error().Err(err).Msg("list trips failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}
	items := make([]model.ItineraryItem, 0)
	for _, t := range trips {
		items = append(items, t.Itinerary...)
	}
	return c.JSON(http.StatusOK, items)
}

// Activities returns every activity across the caller's trips.
func (h *TripHandler) Activities(c echo.Context) error {
	trips, err := h.Trips.ListByOwner(c.Request().Context(), ownerID(c))
	if err != nil {
		h.Log.Error().Err(err).Msg("list trips failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}
	acts := make([]model.Activity, 0)
	for _, t := range trips {
		for _, it := range t.Itinerary {
			acts = append(acts, it.Activities...)
		}
	}
	return c.JSON(http.StatusOK, acts)
}

func (h *TripHandler) Dashboard(c echo.Context) error {
	d, err := h.Trips.Dashboard(c.Request().Context(), ownerID(c))
	if err != nil {
		h.Log.Error().Err(err).Msg("dashboard failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}
	return c.JSON(http.StatusOK, d)
}

func (h *TripHandler) tripErr(c echo.Context, err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Trip not found"})
	}
	h.Log.Error().Err(err).Msg(msg)
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
}
