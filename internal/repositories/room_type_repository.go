package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"alegria_backend/internal/models"
)

// RoomTypeRepository defines the interface for room type database operations.
type RoomTypeRepository interface {
	CreateRoomType(executor SQLExecutor, roomType *models.RoomType) (int64, error)
	GetRoomTypeByID(id int64) (*models.RoomType, error)
	CountRoomTypes() (int, error)
	GetRoomTypes(offset, limit int) ([]models.RoomType, error)
	UpdateRoomType(executor SQLExecutor, roomType *models.RoomType) error
	DeleteRoomType(executor SQLExecutor, id int64) error
}

type roomTypeRepository struct {
	db *sql.DB
}

// NewRoomTypeRepository creates a new instance of RoomTypeRepository.
func NewRoomTypeRepository(db *sql.DB) RoomTypeRepository {
	return &roomTypeRepository{db: db}
}

func (r *roomTypeRepository) CreateRoomType(executor SQLExecutor, roomType *models.RoomType) (int64, error) {
	query := `INSERT INTO room_types (name, price, is_deleted, created_at, updated_at)
	          VALUES ($1, $2, FALSE, $3, $4)
	          RETURNING id`

	now := time.Now()
	roomType.CreatedAt, roomType.UpdatedAt = now, now
	if err := executor.QueryRow(query, roomType.Name, roomType.Price, now, now).Scan(&roomType.ID); err != nil {
		return 0, mapWriteError(err, "creating room type")
	}
	return roomType.ID, nil
}

func (r *roomTypeRepository) GetRoomTypeByID(id int64) (*models.RoomType, error) {
	query := `SELECT id, name, price, is_deleted, created_at, updated_at
	          FROM room_types WHERE id = $1 AND is_deleted = FALSE`

	rt := &models.RoomType{}
	err := r.db.QueryRow(query, id).Scan(&rt.ID, &rt.Name, &rt.Price, &rt.IsDeleted, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting room type by ID %d: %v", ErrDatabaseError, id, err)
	}
	return rt, nil
}

func (r *roomTypeRepository) CountRoomTypes() (int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM room_types WHERE is_deleted = FALSE`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: counting room types: %v", ErrDatabaseError, err)
	}
	return total, nil
}

func (r *roomTypeRepository) GetRoomTypes(offset, limit int) ([]models.RoomType, error) {
	query := `SELECT id, name, price, is_deleted, created_at, updated_at
	          FROM room_types
	          WHERE is_deleted = FALSE
	          ORDER BY id ASC
	          LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: querying room types: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	roomTypes := []models.RoomType{}
	for rows.Next() {
		var rt models.RoomType
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.Price, &rt.IsDeleted, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning room type: %v", ErrDatabaseError, err)
		}
		roomTypes = append(roomTypes, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating room type rows: %v", ErrDatabaseError, err)
	}
	return roomTypes, nil
}

func (r *roomTypeRepository) UpdateRoomType(executor SQLExecutor, roomType *models.RoomType) error {
	query := `UPDATE room_types SET name = $1, price = $2, updated_at = $3
	          WHERE id = $4 AND is_deleted = FALSE`

	roomType.UpdatedAt = time.Now()
	result, err := executor.Exec(query, roomType.Name, roomType.Price, roomType.UpdatedAt, roomType.ID)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating room type ID %d", roomType.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating room type ID %d", roomType.ID))
}

func (r *roomTypeRepository) DeleteRoomType(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`UPDATE room_types SET is_deleted = TRUE, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, time.Now(), id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting room type ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting room type ID %d", id))
}
