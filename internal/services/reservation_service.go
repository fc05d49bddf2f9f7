package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"alegria_backend/internal/models"
	"alegria_backend/internal/repositories"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidStay         = errors.New("departure date must be after entry date")
	ErrNoRooms             = errors.New("a reservation needs at least one room")
	ErrRoomNotAvailable    = errors.New("room is already booked for the requested dates")
)

type SoldRoomRequest struct {
	RoomID int64 `json:"room_id" binding:"required"`
	// Price defaults to the room type price when omitted.
	Price    *decimal.Decimal `json:"price"`
	GuestIDs []int64          `json:"guest_ids"`
}

type ReservationRequest struct {
	ClientID      *int64            `json:"client_id"`
	EntryDate     time.Time         `json:"entry_date" binding:"required"`
	DepartureDate time.Time         `json:"departure_date" binding:"required"`
	Rooms         []SoldRoomRequest `json:"rooms" binding:"required,dive"`
}

type ReservationService interface {
	CreateReservation(req ReservationRequest) (*models.Reservation, error)
	GetReservationByID(id int64) (*models.Reservation, error)
	GetReservations(filters models.ReservationFilters, req PageRequest) (*Page[models.Reservation], error)
	GetOccupiedReservations() ([]models.Reservation, error)
	UpdateReservation(id int64, req ReservationRequest) (*models.Reservation, error)
	DeleteReservation(id int64) error
}

type reservationService struct {
	reservationRepo repositories.ReservationRepository
	roomRepo        repositories.RoomRepository
	roomTypeRepo    repositories.RoomTypeRepository
	clientRepo      repositories.ClientRepository
	invoiceRepo     repositories.SimpleInvoiceRepository
	txManager       repositories.TxManager
	db              repositories.SQLExecutor
	now             func() time.Time
}

func NewReservationService(
	reservationRepo repositories.ReservationRepository,
	roomRepo repositories.RoomRepository,
	roomTypeRepo repositories.RoomTypeRepository,
	clientRepo repositories.ClientRepository,
	invoiceRepo repositories.SimpleInvoiceRepository,
	txManager repositories.TxManager,
	db repositories.SQLExecutor,
) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		roomRepo:        roomRepo,
		roomTypeRepo:    roomTypeRepo,
		clientRepo:      clientRepo,
		invoiceRepo:     invoiceRepo,
		txManager:       txManager,
		db:              db,
		now:             time.Now,
	}
}

func (s *reservationService) checkClient(id int64) error {
	if _, err := s.clientRepo.GetClientByID(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: client %d", ErrClientNotFound, id)
		}
		return fmt.Errorf("failed to get client: %w", err)
	}
	return nil
}

// validate checks the request and resolves the rooms to book, with their prices.
func (s *reservationService) validate(req ReservationRequest) ([]models.SoldRoom, error) {
	if !req.DepartureDate.After(req.EntryDate) {
		return nil, ErrInvalidStay
	}
	if len(req.Rooms) == 0 {
		return nil, ErrNoRooms
	}
	if req.ClientID != nil {
		if err := s.checkClient(*req.ClientID); err != nil {
			return nil, err
		}
	}

	seen := map[int64]bool{}
	soldRooms := make([]models.SoldRoom, 0, len(req.Rooms))
	for _, r := range req.Rooms {
		if seen[r.RoomID] {
			return nil, fmt.Errorf("%w: room %d is listed twice", ErrValidation, r.RoomID)
		}
		seen[r.RoomID] = true

		room, err := s.roomRepo.GetRoomByID(r.RoomID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: room %d", ErrRoomNotFound, r.RoomID)
			}
			return nil, fmt.Errorf("failed to get room: %w", err)
		}
		if err := nonNegative("room price", r.Price); err != nil {
			return nil, err
		}

		price := nullDecimal(r.Price)
		if r.Price == nil {
			roomType, err := s.roomTypeRepo.GetRoomTypeByID(room.RoomTypeID)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("failed to get room type: %w", err)
			}
			if roomType != nil {
				price = roomType.Price
			}
		}
		for _, guestID := range r.GuestIDs {
			if err := s.checkClient(guestID); err != nil {
				return nil, err
			}
		}
		soldRooms = append(soldRooms, models.SoldRoom{
			RoomID:   room.ID,
			Price:    price,
			GuestIDs: r.GuestIDs,
			RoomName: room.Name,
		})
	}
	return soldRooms, nil
}

// bookRooms locks the rooms, checks availability and inserts them inside the open transaction.
func (s *reservationService) bookRooms(tx repositories.SQLExecutor, reservation *models.Reservation, soldRooms []models.SoldRoom, exclude *int64) error {
	roomIDs := make([]int64, 0, len(soldRooms))
	for _, sr := range soldRooms {
		roomIDs = append(roomIDs, sr.RoomID)
	}
	if err := s.reservationRepo.LockRooms(tx, roomIDs); err != nil {
		return fmt.Errorf("failed to lock rooms: %w", err)
	}

	for i := range soldRooms {
		available, err := s.reservationRepo.CheckRoomAvailability(tx, soldRooms[i].RoomID, reservation.EntryDate, reservation.DepartureDate, exclude)
		if err != nil {
			return fmt.Errorf("failed to check room availability: %w", err)
		}
		if !available {
			return fmt.Errorf("%w: %s", ErrRoomNotAvailable, soldRooms[i].RoomName)
		}
		soldRooms[i].ReservationID = reservation.ID
		if _, err := s.reservationRepo.AddSoldRoom(tx, &soldRooms[i]); err != nil {
			if errors.Is(err, repositories.ErrForeignKey) {
				return fmt.Errorf("%w: %v", ErrValidation, err)
			}
			return fmt.Errorf("failed to add room to reservation: %w", err)
		}
	}
	reservation.Rooms = soldRooms
	return nil
}

func (s *reservationService) CreateReservation(req ReservationRequest) (*models.Reservation, error) {
	soldRooms, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		ClientID:      req.ClientID,
		EntryDate:     req.EntryDate,
		DepartureDate: req.DepartureDate,
	}
	err = s.txManager.WithinTx(func(tx repositories.SQLExecutor) error {
		if _, err := s.reservationRepo.CreateReservation(tx, reservation); err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return s.bookRooms(tx, reservation, soldRooms, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.GetReservationByID(reservation.ID)
}

// GetReservationByID returns the stay with its rooms and the bar invoices charged to it.
func (s *reservationService) GetReservationByID(id int64) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetReservationByID(nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation by ID: %w", err)
	}
	invoices, err := s.invoiceRepo.GetInvoicesByReservation(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation invoices: %w", err)
	}
	reservation.Invoices = invoices
	return reservation, nil
}

func (s *reservationService) GetReservations(filters models.ReservationFilters, req PageRequest) (*Page[models.Reservation], error) {
	count := func() (int, error) { return s.reservationRepo.CountReservations(filters) }
	fetch := func(offset, limit int) ([]models.Reservation, error) {
		return s.reservationRepo.GetReservations(filters, offset, limit)
	}
	return paginate(req, count, fetch)
}

// GetOccupiedReservations lists the stays in progress, the ones a bar ticket can be charged to.
func (s *reservationService) GetOccupiedReservations() ([]models.Reservation, error) {
	reservations, err := s.reservationRepo.GetOccupiedReservations(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get occupied reservations: %w", err)
	}
	return reservations, nil
}

func (s *reservationService) UpdateReservation(id int64, req ReservationRequest) (*models.Reservation, error) {
	if _, err := s.reservationRepo.GetReservationByID(nil, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation for update: %w", err)
	}
	soldRooms, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		ID:            id,
		ClientID:      req.ClientID,
		EntryDate:     req.EntryDate,
		DepartureDate: req.DepartureDate,
	}
	err = s.txManager.WithinTx(func(tx repositories.SQLExecutor) error {
		if err := s.reservationRepo.UpdateReservation(tx, reservation); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("failed to update reservation: %w", err)
		}
		if err := s.reservationRepo.DeleteSoldRooms(tx, id); err != nil {
			return fmt.Errorf("failed to clear reservation rooms: %w", err)
		}
		return s.bookRooms(tx, reservation, soldRooms, &id)
	})
	if err != nil {
		return nil, err
	}
	return s.GetReservationByID(id)
}

func (s *reservationService) DeleteReservation(id int64) error {
	if err := s.reservationRepo.DeleteReservation(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	return nil
}
