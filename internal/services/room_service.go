package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"alegria_backend/internal/models"
	"alegria_backend/internal/repositories"
)

var (
	ErrRoomTypeNotFound = errors.New("room type not found")
	ErrRoomNotFound     = errors.New("room not found")
)

type RoomTypeRequest struct {
	Name  string           `json:"name" binding:"required"`
	Price *decimal.Decimal `json:"price"`
}

type RoomRequest struct {
	RoomTypeID int64  `json:"room_type_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

// RoomService manages the hotel's room types and rooms.
type RoomService interface {
	CreateRoomType(req RoomTypeRequest) (*models.RoomType, error)
	GetRoomTypeByID(id int64) (*models.RoomType, error)
	GetRoomTypes(req PageRequest) (*Page[models.RoomType], error)
	UpdateRoomType(id int64, req RoomTypeRequest) (*models.RoomType, error)
	DeleteRoomType(id int64) error

	CreateRoom(req RoomRequest) (*models.Room, error)
	GetRoomByID(id int64) (*models.Room, error)
	GetRooms(req PageRequest) (*Page[models.Room], error)
	UpdateRoom(id int64, req RoomRequest) (*models.Room, error)
	DeleteRoom(id int64) error
}

type roomService struct {
	roomTypeRepo repositories.RoomTypeRepository
	roomRepo     repositories.RoomRepository
	db           repositories.SQLExecutor
}

func NewRoomService(roomTypeRepo repositories.RoomTypeRepository, roomRepo repositories.RoomRepository, db repositories.SQLExecutor) RoomService {
	return &roomService{roomTypeRepo: roomTypeRepo, roomRepo: roomRepo, db: db}
}

func (s *roomService) validateRoomType(req RoomTypeRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", fmt.Errorf("%w: room type name cannot be empty", ErrValidation)
	}
	if err := nonNegative("price", req.Price); err != nil {
		return "", err
	}
	return name, nil
}

func (s *roomService) CreateRoomType(req RoomTypeRequest) (*models.RoomType, error) {
	name, err := s.validateRoomType(req)
	if err != nil {
		return nil, err
	}
	roomType := &models.RoomType{Name: name, Price: nullDecimal(req.Price)}
	if _, err := s.roomTypeRepo.CreateRoomType(s.db, roomType); err != nil {
		return nil, fmt.Errorf("failed to create room type: %w", err)
	}
	return roomType, nil
}

func (s *roomService) GetRoomTypeByID(id int64) (*models.RoomType, error) {
	roomType, err := s.roomTypeRepo.GetRoomTypeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, fmt.Errorf("failed to get room type by ID: %w", err)
	}
	return roomType, nil
}

func (s *roomService) GetRoomTypes(req PageRequest) (*Page[models.RoomType], error) {
	return paginate(req, s.roomTypeRepo.CountRoomTypes, s.roomTypeRepo.GetRoomTypes)
}

func (s *roomService) UpdateRoomType(id int64, req RoomTypeRequest) (*models.RoomType, error) {
	name, err := s.validateRoomType(req)
	if err != nil {
		return nil, err
	}
	roomType, err := s.GetRoomTypeByID(id)
	if err != nil {
		return nil, err
	}
	roomType.Name = name
	roomType.Price = nullDecimal(req.Price)

	if err := s.roomTypeRepo.UpdateRoomType(s.db, roomType); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, fmt.Errorf("failed to update room type: %w", err)
	}
	return roomType, nil
}

func (s *roomService) DeleteRoomType(id int64) error {
	if err := s.roomTypeRepo.DeleteRoomType(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRoomTypeNotFound
		}
		return fmt.Errorf("failed to delete room type: %w", err)
	}
	return nil
}

func (s *roomService) CreateRoom(req RoomRequest) (*models.Room, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name cannot be empty", ErrValidation)
	}
	if _, err := s.GetRoomTypeByID(req.RoomTypeID); err != nil {
		return nil, err
	}

	room := &models.Room{RoomTypeID: req.RoomTypeID, Name: name}
	id, err := s.roomRepo.CreateRoom(s.db, room)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return s.GetRoomByID(id)
}

func (s *roomService) GetRoomByID(id int64) (*models.Room, error) {
	room, err := s.roomRepo.GetRoomByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room by ID: %w", err)
	}
	return room, nil
}

func (s *roomService) GetRooms(req PageRequest) (*Page[models.Room], error) {
	return paginate(req, s.roomRepo.CountRooms, s.roomRepo.GetRooms)
}

func (s *roomService) UpdateRoom(id int64, req RoomRequest) (*models.Room, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name cannot be empty", ErrValidation)
	}
	room, err := s.GetRoomByID(id)
	if err != nil {
		return nil, err
	}
	if req.RoomTypeID != room.RoomTypeID {
		if _, err := s.GetRoomTypeByID(req.RoomTypeID); err != nil {
			return nil, err
		}
	}
	room.Name = name
	room.RoomTypeID = req.RoomTypeID

	if err := s.roomRepo.UpdateRoom(s.db, room); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return s.GetRoomByID(id)
}

func (s *roomService) DeleteRoom(id int64) error {
	if err := s.roomRepo.DeleteRoom(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}
