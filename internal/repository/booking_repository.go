package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  All date columns
// are DATE values interpreted at UTC midnight; the stay covers the
// half-open range [check_in, check_out).
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for callers that need to open
// transactions spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = `id, reference, user_id, hotel_id, room_id, check_in, check_out,
                     total_price, status, created_at, updated_at`

const dateLayout = "2006-01-02"

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	if err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.HotelID, &b.RoomID,
		&b.CheckIn, &b.CheckOut, &b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateActive inserts a new PENDING/CONFIRMED booking atomically with
// respect to other CreateActive calls for the same room.  The whole
// operation runs in one transaction:
//
//  1. lock the room row with SELECT ... FOR UPDATE, which serializes
//     concurrent creates targeting the same room;
//  2. re-validate that no active booking overlaps the requested
//     half-open range (the caller's earlier availability read may be
//     stale by now — this closes the check-then-act race);
//  3. insert the booking and clear the room's fast-reject flag.
//
// On an overlap it returns ErrRoomUnavailable and leaves no partial
// state behind.  On success the booking's ID and timestamps are
// populated.
func (r *BookingRepo) CreateActive(ctx context.Context, b *model.Booking) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the room row.  Any concurrent CreateActive for the same room
	// blocks here until this transaction commits or rolls back.
	var isActive bool
	if err = tx.QueryRowContext(ctx,
		`SELECT is_active FROM rooms WHERE id = ? FOR UPDATE`, b.RoomID).Scan(&isActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	if !isActive {
		return ErrRoomUnavailable
	}

	// Overlap re-check against active bookings, using the standard
	// half-open test: existing.check_in < new.check_out AND
	// new.check_in < existing.check_out.
	var conflicts int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE room_id = ? AND status IN ('PENDING','CONFIRMED')
		   AND check_in < ? AND ? < check_out`,
		b.RoomID, b.CheckOut.Format(dateLayout), b.CheckIn.Format(dateLayout)).Scan(&conflicts); err != nil {
		return err
	}
	if conflicts > 0 {
		return ErrRoomUnavailable
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (reference, user_id, hotel_id, room_id, check_in, check_out, total_price, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Reference, b.UserID, b.HotelID, b.RoomID,
		b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout), b.TotalPrice, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	// Clear the fast-reject flag in the same transaction so create()
	// is all-or-nothing.
	if _, err = tx.ExecContext(ctx,
		`UPDATE rooms SET is_available = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, b.RoomID); err != nil {
		return err
	}

	// Read back DB-assigned timestamps.
	var created *model.Booking
	created, err = scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = ?`, b.ID))
	if err != nil {
		return err
	}
	b.CreatedAt = created.CreatedAt
	b.UpdatedAt = created.UpdatedAt

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns a booking by its numeric id, or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByReference returns a booking by its external reference string, or
// ErrBookingNotFound.
func (r *BookingRepo) GetByReference(ctx context.Context, ref string) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE reference = ?`, ref))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// FindActiveByRoom returns the room's bookings with status in
// {PENDING, CONFIRMED}, ordered by check-in date.
func (r *BookingRepo) FindActiveByRoom(ctx context.Context, roomID uint64) ([]*model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings
	           WHERE room_id = ? AND status IN ('PENDING','CONFIRMED')
	           ORDER BY check_in`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HasActiveOverlap reports whether any active booking for the room
// overlaps the half-open range [checkIn, checkOut).  This is the
// read-only availability query; CreateActive repeats it under the room
// lock before inserting.
func (r *BookingRepo) HasActiveOverlap(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE room_id = ? AND status IN ('PENDING','CONFIRMED')
		   AND check_in < ? AND ? < check_out`,
		roomID, checkOut.Format(dateLayout), checkIn.Format(dateLayout)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateStatusFrom transitions a booking to the target status only when
// its current status is one of the allowed source states.  It returns
// false when the booking was not in any of those states (or does not
// exist), which callers treat as a state-machine conflict.  The
// conditional UPDATE makes the transition atomic: two concurrent
// cancels of the same booking cannot both succeed.
func (r *BookingRepo) UpdateStatusFrom(ctx context.Context, id uint64, from []model.BookingStatus, to model.BookingStatus) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	q := `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status IN (`
	args := []interface{}{to, id}
	for i, s := range from {
		if i > 0 {
			q += ","
		}
		q += "?"
		args = append(args, s)
	}
	q += ")"
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListByUser returns all bookings created by the given user, newest
// first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByHotel returns bookings for a hotel, optionally filtered by
// status (empty string means all), newest first.
func (r *BookingRepo) ListByHotel(ctx context.Context, hotelID uint64, status model.BookingStatus) ([]*model.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE hotel_id = ?`
	args := []interface{}{hotelID}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
