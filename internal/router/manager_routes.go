package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/handler"
	"github.com/iliyamo/hotel-room-booking/internal/middleware"
	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// RegisterManager registers MANAGER-scoped endpoints under /v1.
// Managers administer hotels and rooms and oversee the bookings made
// against them.
func RegisterManager(e *echo.Echo, m *handler.ManagerHandler, mb *handler.ManagerBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1/manager",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleManager),
	)

	// ---- Hotels and rooms ----
	g.POST("/hotels", m.CreateHotel)
	g.GET("/hotels", m.ListHotels)
	g.POST("/hotels/:hotel_id/rooms", m.CreateRoom)
	g.GET("/hotels/:hotel_id/rooms", m.ListRooms)
	g.PATCH("/rooms/:room_id/active", m.SetRoomActive)

	// ---- Bookings ----
	g.GET("/hotels/:hotel_id/bookings", mb.ListHotelBookings)
	g.GET("/hotels/:hotel_id/rooms/:room_id/bookings", mb.ListRoomBookings)
	g.POST("/hotels/:hotel_id/bookings/:booking_id/complete", mb.CompleteBooking)
	g.DELETE("/hotels/:hotel_id/bookings/:booking_id", mb.CancelBooking)
}
