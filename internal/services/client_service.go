package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"alegria_backend/internal/models"
	"alegria_backend/internal/repositories"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound         = errors.New("client not found")
	ErrIdentityDocumentExists = errors.New("a client with this identity document already exists")
	ErrClientValidation       = errors.New("client data validation error")
	ErrDateFormat             = errors.New("invalid date format, please use YYYY-MM-DD")
)

const dateLayout = "2006-01-02"

// --- Client DTOs ---
type ClientRequest struct {
	IdentityDocumentType           models.IdentityDocumentType `json:"identity_document_type" binding:"required"`
	IdentityDocument               string                      `json:"identity_document" binding:"required"`
	IdentityDocumentExpeditionDate *string                     `json:"identity_document_expedition_date"` // Format YYYY-MM-DD
	IdentityDocumentExpirationDate *string                     `json:"identity_document_expiration_date"` // Format YYYY-MM-DD
	Name                           string                      `json:"name" binding:"required"`
	FirstSurname                   string                      `json:"first_surname"`
	SecondSurname                  string                      `json:"second_surname"`
	Gender                         models.Gender               `json:"gender" binding:"required"`
	Birthdate                      *string                     `json:"birthdate"` // Format YYYY-MM-DD
	Address                        string                      `json:"address"`
	PostalCode                     string                      `json:"postal_code"`
	City                           string                      `json:"city"`
	Province                       string                      `json:"province"`
	Country                        string                      `json:"country"`
	Nationality                    string                      `json:"nationality"`
	PhoneNumber                    string                      `json:"phone_number"`
	MobilePhone                    string                      `json:"mobile_phone"`
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(req ClientRequest) (*models.Client, error)
	GetClientByID(clientID int64) (*models.Client, error)
	GetClients(searchTerm *string, req PageRequest) (*Page[models.Client], error)
	UpdateClient(clientID int64, req ClientRequest) (*models.Client, error)
	DeleteClient(clientID int64) error
}

type clientService struct {
	clientRepo repositories.ClientRepository
	db         repositories.SQLExecutor
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, db repositories.SQLExecutor) ClientService {
	return &clientService{
		clientRepo: repo,
		db:         db,
	}
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, ErrDateFormat
	}
	return &t, nil
}

// buildClient validates the request and fills client with it.
func (s *clientService) buildClient(req ClientRequest, client *models.Client) error {
	if _, err := models.IdentityDocumentTypeFromID(req.IdentityDocumentType.ID()); err != nil {
		return fmt.Errorf("%w: identity document type is required", ErrClientValidation)
	}
	if _, err := models.GenderFromID(req.Gender.ID()); err != nil {
		return fmt.Errorf("%w: gender is required", ErrClientValidation)
	}
	document := strings.ToUpper(strings.TrimSpace(req.IdentityDocument))
	if document == "" {
		return fmt.Errorf("%w: identity document cannot be empty", ErrClientValidation)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrClientValidation)
	}

	expedition, err := parseOptionalDate(req.IdentityDocumentExpeditionDate)
	if err != nil {
		return err
	}
	expiration, err := parseOptionalDate(req.IdentityDocumentExpirationDate)
	if err != nil {
		return err
	}
	if expedition != nil && expiration != nil && expiration.Before(*expedition) {
		return fmt.Errorf("%w: identity document expiration cannot precede its expedition", ErrClientValidation)
	}
	birthdate, err := parseOptionalDate(req.Birthdate)
	if err != nil {
		return err
	}
	if birthdate != nil && birthdate.After(time.Now()) {
		return fmt.Errorf("%w: birthdate cannot be in the future", ErrClientValidation)
	}

	existing, err := s.clientRepo.GetClientByIdentityDocument(req.IdentityDocumentType, document)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check identity document uniqueness: %w", err)
	}
	if existing != nil && existing.ID != client.ID {
		return ErrIdentityDocumentExists
	}

	client.IdentityDocumentType = req.IdentityDocumentType
	client.IdentityDocument = document
	client.IdentityDocumentExpeditionDate = expedition
	client.IdentityDocumentExpirationDate = expiration
	client.Name = name
	client.FirstSurname = strings.TrimSpace(req.FirstSurname)
	client.SecondSurname = strings.TrimSpace(req.SecondSurname)
	client.Gender = req.Gender
	client.Birthdate = birthdate
	client.Address = strings.TrimSpace(req.Address)
	client.PostalCode = strings.TrimSpace(req.PostalCode)
	client.City = strings.TrimSpace(req.City)
	client.Province = strings.TrimSpace(req.Province)
	client.Country = strings.TrimSpace(req.Country)
	client.Nationality = strings.TrimSpace(req.Nationality)
	client.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	client.MobilePhone = strings.TrimSpace(req.MobilePhone)
	return nil
}

func (s *clientService) CreateClient(req ClientRequest) (*models.Client, error) {
	client := &models.Client{}
	if err := s.buildClient(req, client); err != nil {
		return nil, err
	}
	if _, err := s.clientRepo.CreateClient(s.db, client); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrIdentityDocumentExists
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClientByID(clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

// GetClients pages through the guests; searchTerm matches name, surnames or document.
func (s *clientService) GetClients(searchTerm *string, req PageRequest) (*Page[models.Client], error) {
	count := func() (int, error) { return s.clientRepo.CountClients(searchTerm) }
	fetch := func(offset, limit int) ([]models.Client, error) {
		return s.clientRepo.GetClients(searchTerm, offset, limit)
	}
	return paginate(req, count, fetch)
}

func (s *clientService) UpdateClient(clientID int64, req ClientRequest) (*models.Client, error) {
	client, err := s.GetClientByID(clientID)
	if err != nil {
		return nil, err
	}
	if err := s.buildClient(req, client); err != nil {
		return nil, err
	}
	if err := s.clientRepo.UpdateClient(s.db, client); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrIdentityDocumentExists
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

func (s *clientService) DeleteClient(clientID int64) error {
	if err := s.clientRepo.DeleteClient(s.db, clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}
