package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// RoomRepo provides methods to create and retrieve rooms.  It embeds a
// database handle to perform queries and commands.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// DB exposes the underlying handle so callers can open transactions
// that span multiple repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// Create inserts a new room.  The room must have HotelID, RoomNumber,
// RoomType and NightlyRate set.  The DB enforces uniqueness of
// (hotel_id, room_number); a violation is mapped to ErrDuplicateRoom.
// After insert the record is read back so defaults (availability flags,
// timestamps) are populated.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const qInsert = `INSERT INTO rooms (hotel_id, room_number, room_type, nightly_rate, max_occupancy)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		room.HotelID, room.RoomNumber, room.RoomType, room.NightlyRate, room.MaxOccupancy)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateRoom
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)

	const qSelect = `SELECT id, hotel_id, room_number, room_type, nightly_rate, max_occupancy,
	                        is_available, is_active, created_at, updated_at
	                 FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, room.ID).
		Scan(&room.ID, &room.HotelID, &room.RoomNumber, &room.RoomType, &room.NightlyRate,
			&room.MaxOccupancy, &room.IsAvailable, &room.IsActive, &room.CreatedAt, &room.UpdatedAt)
}

// GetByID fetches a room by id.  Returns ErrRoomNotFound when no row
// exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT id, hotel_id, room_number, room_type, nightly_rate, max_occupancy,
	                  is_available, is_active, created_at, updated_at
	           FROM rooms WHERE id = ?`
	var room model.Room
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&room.ID, &room.HotelID, &room.RoomNumber, &room.RoomType, &room.NightlyRate,
			&room.MaxOccupancy, &room.IsAvailable, &room.IsActive, &room.CreatedAt, &room.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// ListByHotel returns all rooms of a hotel ordered by room number.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]*model.Room, error) {
	const q = `SELECT id, hotel_id, room_number, room_type, nightly_rate, max_occupancy,
	                  is_available, is_active, created_at, updated_at
	           FROM rooms WHERE hotel_id = ? ORDER BY room_number`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Room
	for rows.Next() {
		room := new(model.Room)
		if err := rows.Scan(&room.ID, &room.HotelID, &room.RoomNumber, &room.RoomType, &room.NightlyRate,
			&room.MaxOccupancy, &room.IsAvailable, &room.IsActive, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetAvailable updates the fast-reject availability flag.  The flag is
// a listing hint only; booking creation re-validates against actual
// overlapping bookings inside its own transaction.
func (r *RoomRepo) SetAvailable(ctx context.Context, roomID uint64, available bool) error {
	const q = `UPDATE rooms SET is_available = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, available, roomID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op
		// update; confirm existence before reporting not-found.
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE id = ?`, roomID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoomNotFound
			}
			return err
		}
	}
	return nil
}

// SetActive enables or disables a room administratively, verifying that
// the acting user owns the parent hotel.  Returns ErrRoomNotFound when
// the room does not exist and ErrForbidden when the hotel belongs to a
// different owner.
func (r *RoomRepo) SetActive(ctx context.Context, roomID, ownerID uint64, active bool) error {
	const checkQ = `SELECT h.owner_id FROM rooms rm JOIN hotels h ON h.id = rm.hotel_id WHERE rm.id = ?`
	var actualOwnerID uint64
	if err := r.db.QueryRowContext(ctx, checkQ, roomID).Scan(&actualOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	if actualOwnerID != ownerID {
		return ErrForbidden
	}
	const q = `UPDATE rooms SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, active, roomID)
	return err
}
