package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flightcarbon/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, flightSvc *service.FlightService) {
	handler := NewHandler(flightSvc)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Fleet and emissions
		api.Get("/flights", handler.GetFlights)
		api.Get("/emissions", handler.GetEmissions)
		api.Get("/emissions/history", handler.GetEmissionsHistory)

		// Geography
		api.Get("/airports/resolve", handler.ResolveAirport)
		api.Get("/routes", handler.GetRoute)
		api.Get("/routes/estimate", handler.EstimateRoute)

		// Calculator
		api.Get("/aircraft", handler.GetAircraft)
		api.Post("/estimate", handler.Estimate)
	}
}
