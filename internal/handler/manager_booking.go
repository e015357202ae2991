package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/iliyamo/hotel-room-booking/internal/service"
)

// ManagerBookingHandler serves the booking views and overrides that
// hotel managers use.
type ManagerBookingHandler struct {
	Hotels   *repository.HotelRepo
	Bookings *service.BookingService
}

func NewManagerBookingHandler(hotels *repository.HotelRepo, bookings *service.BookingService) *ManagerBookingHandler {
	return &ManagerBookingHandler{Hotels: hotels, Bookings: bookings}
}

// ownsHotel verifies the manager owns the hotel.
func (h *ManagerBookingHandler) ownsHotel(ctx context.Context, hotelID, uid uint64) (int, string) {
	if _, err := h.Hotels.GetByIDAndOwner(ctx, hotelID, uid); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return http.StatusNotFound, "hotel not found"
		}
		return http.StatusInternalServerError, "query failed"
	}
	return 0, ""
}

// ListHotelBookings returns a hotel's bookings, optionally filtered by
// status via the ?status= query parameter.
func (h *ManagerBookingHandler) ListHotelBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "hotel_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	status := model.BookingStatus(strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))))
	switch status {
	case "", model.BookingPending, model.BookingConfirmed, model.BookingCancelled, model.BookingCompleted:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if code, msg := h.ownsHotel(ctx, hotelID, uid); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}
	list, err := h.Bookings.ListForHotel(ctx, hotelID, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	out := make([]bookingResp, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// ListRoomBookings returns one room's active (PENDING or CONFIRMED)
// bookings so a manager can see what occupies it.
func (h *ManagerBookingHandler) ListRoomBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "hotel_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if code, msg := h.ownsHotel(ctx, hotelID, uid); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}
	list, err := h.Bookings.ListActiveForRoom(ctx, roomID, hotelID)
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]bookingResp, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

type completeBookingReq struct {
	Force bool `json:"force"`
}

// CompleteBooking closes out a CONFIRMED stay.  Without force the
// check-out date must have passed.
func (h *ManagerBookingHandler) CompleteBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "hotel_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	bookingID, ok := pathID(c, "booking_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req completeBookingReq
	_ = c.Bind(&req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if code, msg := h.ownsHotel(ctx, hotelID, uid); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}
	b, err := h.Bookings.GetForHotel(ctx, bookingID, hotelID)
	if err != nil {
		return serviceError(c, err)
	}
	b, err = h.Bookings.Complete(ctx, b.ID, req.Force)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// CancelBooking cancels a booking in the manager's hotel.  The refund
// policy applies exactly as it does for customer cancellations.
func (h *ManagerBookingHandler) CancelBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "hotel_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	bookingID, ok := pathID(c, "booking_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if code, msg := h.ownsHotel(ctx, hotelID, uid); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}
	b, err := h.Bookings.GetForHotel(ctx, bookingID, hotelID)
	if err != nil {
		return serviceError(c, err)
	}
	b, refund, err := h.Bookings.Cancel(ctx, b.ID, uid, true)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking": toBookingResp(b),
		"refund":  refund.StringFixed(2),
	})
}
