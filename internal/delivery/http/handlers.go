package http

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/flightcarbon/backend/internal/domain"
	"github.com/flightcarbon/backend/internal/engine"
	"github.com/flightcarbon/backend/internal/service"
	"github.com/flightcarbon/backend/pkg/utils"
)

const (
	defaultRoutePoints = 50
	maxRoutePoints     = 1000
	defaultHistoryHrs  = 24
	maxHistoryHrs      = 720 // 30 days
)

// Handler contains all HTTP handlers
type Handler struct {
	flightSvc *service.FlightService
}

// NewHandler creates a new handler
func NewHandler(flightSvc *service.FlightService) *Handler {
	return &Handler{flightSvc: flightSvc}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status, code := "ok", fiber.StatusOK
	if err := h.flightSvc.Health(c.UserContext()); err != nil {
		slog.Warn("health check failed", "error", err)
		status, code = "degraded", fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"service": "flightcarbon-backend",
		"version": "1.0.0",
	})
}

// GetFlights returns a synthetic fleet with emissions attached
func (h *Handler) GetFlights(c *fiber.Ctx) error {
	count := c.QueryInt("count", h.flightSvc.DefaultCount())

	var seed *int64
	if raw := c.Query("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "seed must be an integer")
		}
		seed = &v
	}

	resp, err := h.flightSvc.GetFlights(c.UserContext(), count, seed)
	if err != nil {
		return mapError(err, "Failed to generate flights")
	}

	return c.JSON(resp)
}

// GetEmissions returns the timeframe snapshot, or a single bucket when
// timeframe is given
func (h *Handler) GetEmissions(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if key := c.Query("timeframe"); key != "" {
		value, err := h.flightSvc.GetEmissionsValue(ctx, key)
		if err != nil {
			return mapError(err, "Failed to compute emissions")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    value,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.flightSvc.GetEmissions(ctx),
	})
}

// GetEmissionsHistory returns stored snapshots within a time range
func (h *Handler) GetEmissionsHistory(c *fiber.Ctx) error {
	hours := utils.ClampInt(c.QueryInt("hours", defaultHistoryHrs), 1, maxHistoryHrs)

	records, err := h.flightSvc.GetEmissionsHistory(c.UserContext(), hours)
	if err != nil {
		return mapError(err, "Failed to fetch emissions history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"hours":   hours,
		"data":    records,
	})
}

// ResolveAirport maps a free-text label to coordinates
func (h *Handler) ResolveAirport(c *fiber.Ctx) error {
	label := c.Query("label")

	coords, ok := h.flightSvc.Resolve(label)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "airport not found",
		})
	}

	return c.JSON(domain.ResolveResponse{
		Label:       label,
		Coordinates: coords,
		Success:     true,
	})
}

// GetRoute returns the rendering path between two airports
func (h *Handler) GetRoute(c *fiber.Ctx) error {
	origin := c.Query("origin")
	destination := c.Query("destination")
	points := c.QueryInt("points", defaultRoutePoints)
	if points > maxRoutePoints {
		points = maxRoutePoints
	}

	path, err := h.flightSvc.Route(origin, destination, points)
	if err != nil {
		return mapError(err, "Failed to interpolate route")
	}

	return c.JSON(domain.RouteResponse{
		Origin:      origin,
		Destination: destination,
		Points:      path,
		Success:     true,
	})
}

// EstimateRoute estimates emissions between two airports
func (h *Handler) EstimateRoute(c *fiber.Ctx) error {
	result, err := h.flightSvc.EstimateRoute(
		c.Query("origin"),
		c.Query("destination"),
		c.Query("aircraft", domain.UnknownAircraft),
		c.QueryFloat("loadFactor", engine.FleetLoadFactor),
	)
	if err != nil {
		return mapError(err, "Failed to estimate route")
	}

	return c.JSON(domain.EstimateResponse{Data: result, Success: true})
}

// Estimate computes emissions for a flight described in the request body
func (h *Handler) Estimate(c *fiber.Ctx) error {
	var req domain.FlightRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.flightSvc.Estimate(req)
	if err != nil {
		return mapError(err, "Failed to estimate emissions")
	}

	return c.JSON(domain.EstimateResponse{Data: result, Success: true})
}

// GetAircraft lists the aircraft catalog
func (h *Handler) GetAircraft(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.flightSvc.Aircraft(),
	})
}

// mapError turns typed domain errors into 400s; anything else is logged and
// reported as a 500 with the given message
func mapError(err error, message string) error {
	var (
		paramErr     *domain.InvalidParameterError
		loadErr      *domain.DegenerateLoadError
		timeframeErr *domain.UnknownTimeframeError
		inputErr     *domain.InvalidInputError
	)
	switch {
	case errors.As(err, &paramErr),
		errors.As(err, &loadErr),
		errors.As(err, &timeframeErr),
		errors.As(err, &inputErr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	slog.Error(message, "error", err)
	return fiber.NewError(fiber.StatusInternalServerError, message)
}

// ErrorHandler renders every error as a JSON envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
