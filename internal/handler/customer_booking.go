package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/service"
)

// CustomerHandler serves the booking endpoints available to customers.
type CustomerHandler struct {
	Bookings *service.BookingService
	Payments *service.PaymentService
}

func NewCustomerHandler(bookings *service.BookingService, payments *service.PaymentService) *CustomerHandler {
	return &CustomerHandler{Bookings: bookings, Payments: payments}
}

type createBookingReq struct {
	RoomID   uint64 `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type payBookingReq struct {
	Method string `json:"method"` // CREDIT_CARD | PAYPAL | WALLET
}

type bookingResp struct {
	ID         uint64 `json:"id"`
	Reference  string `json:"reference"`
	HotelID    uint64 `json:"hotel_id"`
	RoomID     uint64 `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Nights     int    `json:"nights"`
	TotalPrice string `json:"total_price"`
	Status     string `json:"status"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:         b.ID,
		Reference:  b.Reference,
		HotelID:    b.HotelID,
		RoomID:     b.RoomID,
		CheckIn:    b.CheckIn.Format(dateLayout),
		CheckOut:   b.CheckOut.Format(dateLayout),
		Nights:     b.Nights(),
		TotalPrice: b.TotalPrice.StringFixed(2),
		Status:     string(b.Status),
	}
}

// Create places a new booking for the calling customer.
func (h *CustomerHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id, check_in and check_out are required"})
	}
	in, err1 := parseDate(req.CheckIn)
	out, err2 := parseDate(req.CheckOut)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in and check_out must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Bookings.Create(ctx, uid, req.RoomID, in, out)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// Get returns one of the customer's bookings with its payment, if any.
func (h *CustomerHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetForUser(ctx, id, uid)
	if err != nil {
		return serviceError(c, err)
	}
	resp := echo.Map{"booking": toBookingResp(b)}
	if p, err := h.Payments.PaymentFor(ctx, b.Reference); err == nil && p != nil {
		resp["payment"] = echo.Map{
			"id":             p.ID,
			"amount":         p.Amount.StringFixed(2),
			"method":         p.Method,
			"status":         p.Status,
			"transaction_id": p.TransactionID,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByReference returns one of the customer's bookings addressed by
// the reference string from their confirmation.
func (h *CustomerHandler) GetByReference(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ref := strings.TrimSpace(c.Param("reference"))
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking reference"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByReferenceForUser(ctx, ref, uid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// List returns all of the customer's bookings, newest first.
func (h *CustomerHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	out := make([]bookingResp, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Pay charges the booking's total and confirms it.  A declined charge
// cancels the booking and returns 402.
func (h *CustomerHandler) Pay(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req payBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	method := model.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.Method)))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	b, p, err := h.Bookings.Pay(ctx, id, uid, method)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking": toBookingResp(b),
		"payment": echo.Map{
			"id":             p.ID,
			"amount":         p.Amount.StringFixed(2),
			"method":         p.Method,
			"status":         p.Status,
			"transaction_id": p.TransactionID,
		},
	})
}

// Cancel cancels one of the customer's bookings and reports the refund.
func (h *CustomerHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, refund, err := h.Bookings.Cancel(ctx, id, uid, false)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking": toBookingResp(b),
		"refund":  refund.StringFixed(2),
	})
}

// RefundPreview reports what cancelling now would refund, without
// changing anything.
func (h *CustomerHandler) RefundPreview(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetForUser(ctx, id, uid)
	if err != nil {
		return serviceError(c, err)
	}
	amount, err := h.Payments.GetRefundAmount(ctx, b, time.Now().UTC())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id": b.ID,
		"reference":  b.Reference,
		"refund":     amount.StringFixed(2),
	})
}
