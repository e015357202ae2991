package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
)

// ManagerHandler bundles the repositories managers use to administer
// their hotels and rooms.
type ManagerHandler struct {
	Hotels *repository.HotelRepo
	Rooms  *repository.RoomRepo
}

func NewManagerHandler(hotels *repository.HotelRepo, rooms *repository.RoomRepo) *ManagerHandler {
	if hotels == nil || rooms == nil {
		panic("nil repository passed to NewManagerHandler")
	}
	return &ManagerHandler{Hotels: hotels, Rooms: rooms}
}

type createHotelReq struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

type createRoomReq struct {
	RoomNumber   string `json:"room_number"`
	RoomType     string `json:"room_type"`
	NightlyRate  string `json:"nightly_rate"`
	MaxOccupancy int    `json:"max_occupancy"`
}

type hotelResp struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

type roomResp struct {
	ID           uint64 `json:"id"`
	HotelID      uint64 `json:"hotel_id"`
	RoomNumber   string `json:"room_number"`
	RoomType     string `json:"room_type"`
	NightlyRate  string `json:"nightly_rate"`
	MaxOccupancy int    `json:"max_occupancy"`
	IsAvailable  bool   `json:"is_available"`
	IsActive     bool   `json:"is_active"`
}

func toHotelResp(h *model.Hotel) hotelResp {
	return hotelResp{ID: h.ID, Name: h.Name, City: h.City, Address: h.Address}
}

func toRoomResp(r *model.Room) roomResp {
	return roomResp{
		ID:           r.ID,
		HotelID:      r.HotelID,
		RoomNumber:   r.RoomNumber,
		RoomType:     r.RoomType,
		NightlyRate:  r.NightlyRate.StringFixed(2),
		MaxOccupancy: r.MaxOccupancy,
		IsAvailable:  r.IsAvailable,
		IsActive:     r.IsActive,
	}
}

// CreateHotel registers a new hotel owned by the calling manager.
func (h *ManagerHandler) CreateHotel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createHotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" || req.City == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, city and address are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotel := &model.Hotel{OwnerID: uid, Name: req.Name, City: req.City, Address: req.Address}
	if err := h.Hotels.Create(ctx, hotel); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hotel failed"})
	}
	return c.JSON(http.StatusCreated, toHotelResp(hotel))
}

// ListHotels returns the calling manager's hotels.
func (h *ManagerHandler) ListHotels(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotels, err := h.Hotels.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list hotels failed"})
	}
	out := make([]hotelResp, 0, len(hotels))
	for _, ht := range hotels {
		out = append(out, toHotelResp(ht))
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": out})
}

// CreateRoom adds a room to one of the manager's hotels.
func (h *ManagerHandler) CreateRoom(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "hotel_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	req.RoomType = strings.ToUpper(strings.TrimSpace(req.RoomType))
	if req.RoomNumber == "" || req.RoomType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number and room_type are required"})
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(req.NightlyRate))
	if err != nil || rate.IsNegative() || rate.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nightly_rate must be a positive decimal"})
	}
	if req.MaxOccupancy <= 0 {
		req.MaxOccupancy = 2
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Ownership check before touching rooms.
	if _, err := h.Hotels.GetByIDAndOwner(ctx, hotelID, uid); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	room := &model.Room{
		HotelID:      hotelID,
		RoomNumber:   req.RoomNumber,
		RoomType:     req.RoomType,
		NightlyRate:  rate.Round(2),
		MaxOccupancy: req.MaxOccupancy,
	}
	if err := h.Rooms.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicateRoom) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists in this hotel"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, toRoomResp(room))
}

// ListRooms returns all rooms of one of the manager's hotels.
func (h *ManagerHandler) ListRooms(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "hotel_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Hotels.GetByIDAndOwner(ctx, hotelID, uid); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	rooms, err := h.Rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	out := make([]roomResp, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, toRoomResp(rm))
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": out})
}

type setRoomActiveReq struct {
	Active bool `json:"active"`
}

// SetRoomActive enables or disables a room administratively.  Disabled
// rooms stop appearing as bookable; existing bookings are untouched.
func (h *ManagerHandler) SetRoomActive(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req setRoomActiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.SetActive(ctx, roomID, uid, req.Active); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"room_id": roomID, "active": req.Active})
}
