package queue

// BookingConfirmedEvent is published after a booking transitions to
// CONFIRMED.  Amounts are serialized as fixed-point decimal strings.
type BookingConfirmedEvent struct {
	Reference string `json:"reference"`
	UserID    uint64 `json:"user_id"`
	HotelID   uint64 `json:"hotel_id"`
	RoomID    uint64 `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Total     string `json:"total"`
}

// BookingCancelledEvent is published after a booking is cancelled.
// Refund carries the amount actually refunded, "0.00" when none.
type BookingCancelledEvent struct {
	Reference string `json:"reference"`
	UserID    uint64 `json:"user_id"`
	HotelID   uint64 `json:"hotel_id"`
	RoomID    uint64 `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Refund    string `json:"refund"`
}
