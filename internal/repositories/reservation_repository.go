package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"alegria_backend/internal/models"
)

// ReservationRepository defines the interface for reservation database operations.
type ReservationRepository interface {
	CreateReservation(executor SQLExecutor, reservation *models.Reservation) (int64, error)
	GetReservationByID(executor SQLExecutor, id int64) (*models.Reservation, error)
	CountReservations(filters models.ReservationFilters) (int, error)
	GetReservations(filters models.ReservationFilters, offset, limit int) ([]models.Reservation, error)
	GetOccupiedReservations(at time.Time) ([]models.Reservation, error)
	UpdateReservation(executor SQLExecutor, reservation *models.Reservation) error
	DeleteReservation(executor SQLExecutor, id int64) error

	AddSoldRoom(executor SQLExecutor, soldRoom *models.SoldRoom) (int64, error)
	DeleteSoldRooms(executor SQLExecutor, reservationID int64) error
	LockRooms(executor SQLExecutor, roomIDs []int64) error
	CheckRoomAvailability(executor SQLExecutor, roomID int64, entry, departure time.Time, excludeReservationID *int64) (bool, error)
}

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new instance of ReservationRepository.
func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `res.id, res.client_id, res.entry_date, res.departure_date, res.is_deleted,
	res.created_at, res.updated_at, COALESCE(c.name || ' ' || c.first_surname, '')`

const reservationFrom = ` FROM reservations res LEFT JOIN clients c ON c.id = res.client_id`

func scanReservation(s scanner) (*models.Reservation, error) {
	res := &models.Reservation{}
	var clientID sql.NullInt64
	err := s.Scan(&res.ID, &clientID, &res.EntryDate, &res.DepartureDate, &res.IsDeleted,
		&res.CreatedAt, &res.UpdatedAt, &res.ClientName)
	if err != nil {
		return nil, err
	}
	if clientID.Valid {
		res.ClientID = &clientID.Int64
	}
	return res, nil
}

func (r *reservationRepository) CreateReservation(executor SQLExecutor, reservation *models.Reservation) (int64, error) {
	query := `INSERT INTO reservations (client_id, entry_date, departure_date, is_deleted, created_at, updated_at)
	          VALUES ($1, $2, $3, FALSE, $4, $5)
	          RETURNING id`

	now := time.Now()
	reservation.CreatedAt, reservation.UpdatedAt = now, now
	err := executor.QueryRow(query, reservation.ClientID, reservation.EntryDate, reservation.DepartureDate, now, now).
		Scan(&reservation.ID)
	if err != nil {
		return 0, mapWriteError(err, "creating reservation")
	}
	return reservation.ID, nil
}

// GetReservationByID loads the reservation with its sold rooms and their guests.
func (r *reservationRepository) GetReservationByID(executor SQLExecutor, id int64) (*models.Reservation, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT ` + reservationColumns + reservationFrom + ` WHERE res.id = $1 AND res.is_deleted = FALSE`

	reservation, err := scanReservation(executor.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting reservation by ID %d: %v", ErrDatabaseError, id, err)
	}

	rooms, err := r.getSoldRooms(executor, id)
	if err != nil {
		return nil, err
	}
	reservation.Rooms = rooms
	return reservation, nil
}

func (r *reservationRepository) getSoldRooms(executor SQLExecutor, reservationID int64) ([]models.SoldRoom, error) {
	query := `SELECT sr.id, sr.reservation_id, sr.room_id, sr.price, COALESCE(rm.name, '')
	          FROM sold_rooms sr
	          LEFT JOIN rooms rm ON rm.id = sr.room_id
	          WHERE sr.reservation_id = $1
	          ORDER BY sr.id ASC`

	rows, err := executor.Query(query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sold rooms for reservation %d: %v", ErrDatabaseError, reservationID, err)
	}
	defer rows.Close()

	soldRooms := []models.SoldRoom{}
	index := map[int64]int{}
	for rows.Next() {
		var sr models.SoldRoom
		if err := rows.Scan(&sr.ID, &sr.ReservationID, &sr.RoomID, &sr.Price, &sr.RoomName); err != nil {
			return nil, fmt.Errorf("%w: scanning sold room: %v", ErrDatabaseError, err)
		}
		index[sr.ID] = len(soldRooms)
		soldRooms = append(soldRooms, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sold room rows: %v", ErrDatabaseError, err)
	}
	if len(soldRooms) == 0 {
		return soldRooms, nil
	}

	guestRows, err := executor.Query(`SELECT g.sold_room_id, g.client_id
	          FROM sold_room_guests g
	          JOIN sold_rooms sr ON sr.id = g.sold_room_id
	          WHERE sr.reservation_id = $1
	          ORDER BY g.sold_room_id ASC, g.client_id ASC`, reservationID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying guests for reservation %d: %v", ErrDatabaseError, reservationID, err)
	}
	defer guestRows.Close()

	for guestRows.Next() {
		var soldRoomID, clientID int64
		if err := guestRows.Scan(&soldRoomID, &clientID); err != nil {
			return nil, fmt.Errorf("%w: scanning guest: %v", ErrDatabaseError, err)
		}
		if i, ok := index[soldRoomID]; ok {
			soldRooms[i].GuestIDs = append(soldRooms[i].GuestIDs, clientID)
		}
	}
	if err := guestRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating guest rows: %v", ErrDatabaseError, err)
	}
	return soldRooms, nil
}

func reservationConditions(filters models.ReservationFilters) (string, []interface{}) {
	conditions := []string{"res.is_deleted = FALSE"}
	var args []interface{}
	if filters.ClientID != nil {
		args = append(args, *filters.ClientID)
		conditions = append(conditions, fmt.Sprintf("res.client_id = $%d", len(args)))
	}
	if filters.DateFrom != nil {
		args = append(args, *filters.DateFrom)
		conditions = append(conditions, fmt.Sprintf("res.departure_date >= $%d", len(args)))
	}
	if filters.DateTo != nil {
		args = append(args, *filters.DateTo)
		conditions = append(conditions, fmt.Sprintf("res.entry_date <= $%d", len(args)))
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *reservationRepository) CountReservations(filters models.ReservationFilters) (int, error) {
	where, args := reservationConditions(filters)
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM reservations res`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: counting reservations: %v", ErrDatabaseError, err)
	}
	return total, nil
}

// GetReservations returns one window of reservations without their rooms, newest entry first.
func (r *reservationRepository) GetReservations(filters models.ReservationFilters, offset, limit int) ([]models.Reservation, error) {
	where, args := reservationConditions(filters)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + reservationColumns + reservationFrom)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY res.entry_date DESC, res.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	return r.queryReservations(queryBuilder.String(), args...)
}

// GetOccupiedReservations lists the stays running at the given instant.
func (r *reservationRepository) GetOccupiedReservations(at time.Time) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
	          WHERE res.is_deleted = FALSE AND res.entry_date <= $1 AND res.departure_date > $1
	          ORDER BY res.entry_date ASC, res.id ASC`
	return r.queryReservations(query, at)
}

func (r *reservationRepository) queryReservations(query string, args ...interface{}) ([]models.Reservation, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying reservations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	reservations := []models.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning reservation: %v", ErrDatabaseError, err)
		}
		reservations = append(reservations, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating reservation rows: %v", ErrDatabaseError, err)
	}
	return reservations, nil
}

func (r *reservationRepository) UpdateReservation(executor SQLExecutor, reservation *models.Reservation) error {
	query := `UPDATE reservations SET client_id = $1, entry_date = $2, departure_date = $3, updated_at = $4
	          WHERE id = $5 AND is_deleted = FALSE`

	reservation.UpdatedAt = time.Now()
	result, err := executor.Exec(query, reservation.ClientID, reservation.EntryDate, reservation.DepartureDate,
		reservation.UpdatedAt, reservation.ID)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating reservation ID %d", reservation.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating reservation ID %d", reservation.ID))
}

func (r *reservationRepository) DeleteReservation(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`UPDATE reservations SET is_deleted = TRUE, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, time.Now(), id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting reservation ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting reservation ID %d", id))
}

// AddSoldRoom books a room inside a reservation together with its guests.
func (r *reservationRepository) AddSoldRoom(executor SQLExecutor, soldRoom *models.SoldRoom) (int64, error) {
	query := `INSERT INTO sold_rooms (reservation_id, room_id, price) VALUES ($1, $2, $3) RETURNING id`
	if err := executor.QueryRow(query, soldRoom.ReservationID, soldRoom.RoomID, soldRoom.Price).Scan(&soldRoom.ID); err != nil {
		return 0, mapWriteError(err, "adding sold room")
	}
	for _, guestID := range soldRoom.GuestIDs {
		if _, err := executor.Exec(`INSERT INTO sold_room_guests (sold_room_id, client_id) VALUES ($1, $2)`, soldRoom.ID, guestID); err != nil {
			return 0, mapWriteError(err, fmt.Sprintf("adding guest %d to sold room %d", guestID, soldRoom.ID))
		}
	}
	return soldRoom.ID, nil
}

// DeleteSoldRooms removes every room of a reservation before it is rebooked.
func (r *reservationRepository) DeleteSoldRooms(executor SQLExecutor, reservationID int64) error {
	_, err := executor.Exec(`DELETE FROM sold_room_guests
	          WHERE sold_room_id IN (SELECT id FROM sold_rooms WHERE reservation_id = $1)`, reservationID)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting guests of reservation %d", reservationID))
	}
	if _, err := executor.Exec(`DELETE FROM sold_rooms WHERE reservation_id = $1`, reservationID); err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting sold rooms of reservation %d", reservationID))
	}
	return nil
}

// LockRooms takes row locks on the rooms, in id order, until the transaction ends.
// Bookings of the same room therefore run their availability check one after another.
func (r *reservationRepository) LockRooms(executor SQLExecutor, roomIDs []int64) error {
	if len(roomIDs) == 0 {
		return nil
	}
	ids := append([]int64(nil), roomIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows, err := executor.Query(`SELECT id FROM rooms WHERE id = ANY($1) ORDER BY id FOR UPDATE`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: locking rooms: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: locking rooms: %v", ErrDatabaseError, err)
	}
	return nil
}

// CheckRoomAvailability reports whether no live reservation holds the room over [entry, departure).
func (r *reservationRepository) CheckRoomAvailability(executor SQLExecutor, roomID int64, entry, departure time.Time, excludeReservationID *int64) (bool, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT COUNT(*) FROM sold_rooms sr
	          JOIN reservations res ON res.id = sr.reservation_id
	          WHERE sr.room_id = $1
	          AND res.is_deleted = FALSE
	          AND res.entry_date < $3 AND res.departure_date > $2`
	args := []interface{}{roomID, entry, departure}
	if excludeReservationID != nil {
		query += " AND res.id != $4"
		args = append(args, *excludeReservationID)
	}

	var count int
	if err := executor.QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: checking room availability: %v", ErrDatabaseError, err)
	}
	return count == 0, nil
}
