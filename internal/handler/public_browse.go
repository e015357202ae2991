package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/iliyamo/hotel-room-booking/internal/service"
)

// PublicHandler serves the unauthenticated browse and quote endpoints.
// These sit behind the response cache middleware.
type PublicHandler struct {
	Hotels       *repository.HotelRepo
	Rooms        *repository.RoomRepo
	Availability *service.AvailabilityService
	Bookings     *service.BookingService
}

func NewPublicHandler(hotels *repository.HotelRepo, rooms *repository.RoomRepo,
	availability *service.AvailabilityService, bookings *service.BookingService) *PublicHandler {
	return &PublicHandler{Hotels: hotels, Rooms: rooms, Availability: availability, Bookings: bookings}
}

// ListHotels returns all hotels with their public fields only.
func (h *PublicHandler) ListHotels(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotels, err := h.Hotels.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list hotels failed"})
	}
	type hotelPart struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
		City string `json:"city"`
	}
	out := make([]hotelPart, 0, len(hotels))
	for _, ht := range hotels {
		out = append(out, hotelPart{ID: ht.ID, Name: ht.Name, City: ht.City})
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": out})
}

// ListHotelRooms returns a hotel's active rooms.
func (h *PublicHandler) ListHotelRooms(c echo.Context) error {
	hotelID, ok := pathID(c, "hotel_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Hotels.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	rooms, err := h.Rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	visible := make([]roomResp, 0, len(rooms))
	for _, rm := range rooms {
		if rm.IsActive {
			visible = append(visible, toRoomResp(rm))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": visible})
}

// parseStayQuery reads check_in/check_out query parameters.
func parseStayQuery(c echo.Context) (time.Time, time.Time, bool) {
	in, err1 := parseDate(c.QueryParam("check_in"))
	out, err2 := parseDate(c.QueryParam("check_out"))
	if err1 != nil || err2 != nil {
		return time.Time{}, time.Time{}, false
	}
	return in, out, true
}

// CheckAvailability reports whether a room is free for a date range.
func (h *PublicHandler) CheckAvailability(c echo.Context) error {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	in, out, ok := parseStayQuery(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in and check_out must be YYYY-MM-DD"})
	}
	if !in.Before(out) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	available, err := h.Availability.IsAvailable(ctx, roomID, in, out)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":   roomID,
		"check_in":  in.Format(dateLayout),
		"check_out": out.Format(dateLayout),
		"available": available,
	})
}

// QuoteStay returns an itemized price for a prospective stay.
func (h *PublicHandler) QuoteStay(c echo.Context) error {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	in, out, ok := parseStayQuery(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in and check_out must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q, err := h.Bookings.QuoteStay(ctx, roomID, in, out)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":     roomID,
		"nights":      q.Nights,
		"room_charge": q.RoomCharge.StringFixed(2),
		"service_fee": q.ServiceFee.StringFixed(2),
		"tax":         q.Tax.StringFixed(2),
		"total":       q.Total.StringFixed(2),
	})
}
