package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomType represents a category of hotel room and its nightly price
type RoomType struct {
	ID        int64               `json:"id" db:"id"`
	Name      string              `json:"name" db:"name"`
	Price     decimal.NullDecimal `json:"price" db:"price"`
	IsDeleted bool                `json:"is_deleted" db:"is_deleted"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" db:"updated_at"`
}

// Room represents a physical hotel room
type Room struct {
	ID           int64     `json:"id" db:"id"`
	RoomTypeID   int64     `json:"room_type_id" db:"room_type_id"`
	Name         string    `json:"name" db:"name"`
	IsDeleted    bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	RoomTypeName *string   `json:"room_type_name,omitempty"` // joined from room_types
}

// Reservation represents a hotel stay for a client over one or more rooms
type Reservation struct {
	ID            int64           `json:"id" db:"id"`
	ClientID      *int64          `json:"client_id,omitempty" db:"client_id"`
	EntryDate     time.Time       `json:"entry_date" db:"entry_date"`
	DepartureDate time.Time       `json:"departure_date" db:"departure_date"`
	IsDeleted     bool            `json:"is_deleted" db:"is_deleted"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	ClientName    string          `json:"client_name,omitempty"` // joined from clients
	Rooms         []SoldRoom      `json:"rooms,omitempty"`
	Invoices      []SimpleInvoice `json:"invoices,omitempty"` // bar tickets charged to the stay
}

// IsOccupiedAt reports whether the stay covers t.
func (r *Reservation) IsOccupiedAt(t time.Time) bool {
	return !r.EntryDate.After(t) && t.Before(r.DepartureDate)
}

// Nights is the number of nights between entry and departure, at least one.
func (r *Reservation) Nights() int {
	n := int(r.DepartureDate.Sub(r.EntryDate).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

// SoldRoom is a room booked within a reservation with the price agreed for it.
type SoldRoom struct {
	ID            int64               `json:"id" db:"id"`
	ReservationID int64               `json:"reservation_id" db:"reservation_id"`
	RoomID        int64               `json:"room_id" db:"room_id"`
	Price         decimal.NullDecimal `json:"price" db:"price"`
	GuestIDs      []int64             `json:"guest_ids,omitempty"`
	RoomName      string              `json:"room_name,omitempty"` // joined from rooms
}

// ReservationFilters defines the available filters for listing reservations.
type ReservationFilters struct {
	ClientID *int64     `form:"client_id"`
	DateFrom *time.Time `form:"date_from"`
	DateTo   *time.Time `form:"date_to"`
}
