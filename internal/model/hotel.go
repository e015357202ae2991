package model

import "time"

// Hotel represents a property managed by a MANAGER user.  Each hotel
// belongs to exactly one manager and may contain multiple rooms.  The
// ID field is the primary key and is auto-incremented by the DB.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – users.id of the managing user.
//  Name      – human-friendly hotel name.
//  City      – city the hotel is located in, used by public browsing.
//  Address   – street address.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Hotel struct {
	ID        uint64    // hotels.id
	OwnerID   uint64    // hotels.owner_id
	Name      string    // hotels.name
	City      string    // hotels.city
	Address   string    // hotels.address
	CreatedAt time.Time // hotels.created_at
	UpdatedAt time.Time // hotels.updated_at
}
