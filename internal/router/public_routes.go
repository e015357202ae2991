package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints.
// Guests can list hotels and rooms, check availability for a date
// range and get a price quote without an account.  cache is the
// response cache middleware; pass nil to skip caching.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	g := e.Group("/v1", mws...)
	g.GET("/hotels", p.ListHotels)
	g.GET("/hotels/:hotel_id/rooms", p.ListHotelRooms)
	g.GET("/rooms/:room_id/availability", p.CheckAvailability)
	g.GET("/rooms/:room_id/quote", p.QuoteStay)
}
