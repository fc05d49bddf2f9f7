package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"alegria_backend/internal/models"
)

// RoomRepository defines the interface for room database operations.
type RoomRepository interface {
	CreateRoom(executor SQLExecutor, room *models.Room) (int64, error)
	GetRoomByID(id int64) (*models.Room, error)
	CountRooms() (int, error)
	GetRooms(offset, limit int) ([]models.Room, error)
	UpdateRoom(executor SQLExecutor, room *models.Room) error
	DeleteRoom(executor SQLExecutor, id int64) error
}

type roomRepository struct {
	db *sql.DB
}

// NewRoomRepository creates a new instance of RoomRepository.
func NewRoomRepository(db *sql.DB) RoomRepository {
	return &roomRepository{db: db}
}

func scanRoom(s scanner) (*models.Room, error) {
	room := &models.Room{}
	var roomTypeName sql.NullString
	if err := s.Scan(&room.ID, &room.RoomTypeID, &room.Name, &room.IsDeleted, &room.CreatedAt, &room.UpdatedAt, &roomTypeName); err != nil {
		return nil, err
	}
	if roomTypeName.Valid {
		room.RoomTypeName = &roomTypeName.String
	}
	return room, nil
}

func (r *roomRepository) CreateRoom(executor SQLExecutor, room *models.Room) (int64, error) {
	query := `INSERT INTO rooms (room_type_id, name, is_deleted, created_at, updated_at)
	          VALUES ($1, $2, FALSE, $3, $4)
	          RETURNING id`

	now := time.Now()
	room.CreatedAt, room.UpdatedAt = now, now
	if err := executor.QueryRow(query, room.RoomTypeID, room.Name, now, now).Scan(&room.ID); err != nil {
		return 0, mapWriteError(err, "creating room")
	}
	return room.ID, nil
}

func (r *roomRepository) GetRoomByID(id int64) (*models.Room, error) {
	query := `SELECT r.id, r.room_type_id, r.name, r.is_deleted, r.created_at, r.updated_at, rt.name
	          FROM rooms r
	          LEFT JOIN room_types rt ON rt.id = r.room_type_id
	          WHERE r.id = $1 AND r.is_deleted = FALSE`

	room, err := scanRoom(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting room by ID %d: %v", ErrDatabaseError, id, err)
	}
	return room, nil
}

func (r *roomRepository) CountRooms() (int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM rooms WHERE is_deleted = FALSE`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: counting rooms: %v", ErrDatabaseError, err)
	}
	return total, nil
}

func (r *roomRepository) GetRooms(offset, limit int) ([]models.Room, error) {
	query := `SELECT r.id, r.room_type_id, r.name, r.is_deleted, r.created_at, r.updated_at, rt.name
	          FROM rooms r
	          LEFT JOIN room_types rt ON rt.id = r.room_type_id
	          WHERE r.is_deleted = FALSE
	          ORDER BY r.name ASC, r.id ASC
	          LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: querying rooms: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning room: %v", ErrDatabaseError, err)
		}
		rooms = append(rooms, *room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating room rows: %v", ErrDatabaseError, err)
	}
	return rooms, nil
}

func (r *roomRepository) UpdateRoom(executor SQLExecutor, room *models.Room) error {
	query := `UPDATE rooms SET room_type_id = $1, name = $2, updated_at = $3
	          WHERE id = $4 AND is_deleted = FALSE`

	room.UpdatedAt = time.Now()
	result, err := executor.Exec(query, room.RoomTypeID, room.Name, room.UpdatedAt, room.ID)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating room ID %d", room.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating room ID %d", room.ID))
}

func (r *roomRepository) DeleteRoom(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`UPDATE rooms SET is_deleted = TRUE, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, time.Now(), id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting room ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting room ID %d", id))
}
