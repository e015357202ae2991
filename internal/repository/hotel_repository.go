// This file defines repository methods for hotels.  A Hotel is a venue
// that can contain multiple rooms and belongs to a single manager.
// Only minimal fields (ID, Name, City) are exposed in public API
// responses.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// HotelRepo encapsulates all database queries related to hotels.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo constructs a HotelRepo with the provided DB handle.
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

// Create inserts a new hotel.  On success the ID field is populated and
// a follow-up SELECT fills the DB-assigned timestamp fields so callers
// receive a fully populated record.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	const qInsert = `INSERT INTO hotels (owner_id, name, city, address) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, h.OwnerID, h.Name, h.City, h.Address)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)

	const qSelect = `SELECT owner_id, name, city, address, created_at, updated_at FROM hotels WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, h.ID).
		Scan(&h.OwnerID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt)
}

// GetByID fetches a hotel by its ID regardless of owner.  It returns
// ErrHotelNotFound if no row is found.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	const q = `SELECT id, owner_id, name, city, address, created_at, updated_at FROM hotels WHERE id = ?`
	var h model.Hotel
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

// GetByIDAndOwner fetches a hotel by id but only if it belongs to the
// specified owner.  If the hotel doesn't exist or is owned by someone
// else, ErrHotelNotFound is returned.
func (r *HotelRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Hotel, error) {
	const q = `SELECT id, owner_id, name, city, address, created_at, updated_at
	           FROM hotels WHERE id = ? AND owner_id = ?`
	var h model.Hotel
	if err := r.db.QueryRowContext(ctx, q, id, ownerID).
		Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

// ListByOwner returns all hotels for a specific owner ordered by id.
func (r *HotelRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Hotel, error) {
	const q = `SELECT id, owner_id, name, city, address, created_at, updated_at
	           FROM hotels WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Hotel
	for rows.Next() {
		h := new(model.Hotel)
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns all hotels regardless of owner.  It backs the public
// browsing endpoint, so only ID, Name and City are selected to avoid
// exposing owner information.
func (r *HotelRepo) ListAll(ctx context.Context) ([]*model.Hotel, error) {
	const q = `SELECT id, name, city FROM hotels ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Hotel
	for rows.Next() {
		h := &model.Hotel{}
		if err := rows.Scan(&h.ID, &h.Name, &h.City); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
