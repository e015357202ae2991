package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/handler"
	"github.com/iliyamo/hotel-room-booking/internal/middleware"
	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.
// Customers create and pay for bookings, view their history and
// cancel their own reservations.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	)
	g.POST("/bookings", h.Create)
	g.GET("/my-bookings", h.List)
	g.GET("/bookings/:id", h.Get)
	g.GET("/bookings/ref/:reference", h.GetByReference)
	g.POST("/bookings/:id/pay", h.Pay)
	g.DELETE("/bookings/:id", h.Cancel)
	g.GET("/bookings/:id/refund-preview", h.RefundPreview)
}
