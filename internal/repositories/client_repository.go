package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"alegria_backend/internal/models"
)

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	CreateClient(executor SQLExecutor, client *models.Client) (int64, error)
	GetClientByID(id int64) (*models.Client, error)
	GetClientByIdentityDocument(docType models.IdentityDocumentType, document string) (*models.Client, error)
	CountClients(searchTerm *string) (int, error)
	GetClients(searchTerm *string, offset, limit int) ([]models.Client, error)
	UpdateClient(executor SQLExecutor, client *models.Client) error
	DeleteClient(executor SQLExecutor, id int64) error
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, identity_document_type_id, identity_document, identity_document_expedition_date,
	identity_document_expiration_date, name, first_surname, second_surname, gender_id, birthdate,
	address, postal_code, city, province, country, nationality, phone_number, mobile_phone,
	is_deleted, created_at, updated_at`

func nullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func scanClient(s scanner) (*models.Client, error) {
	c := &models.Client{}
	var expedition, expiration, birthdate sql.NullTime
	err := s.Scan(
		&c.ID, &c.IdentityDocumentType, &c.IdentityDocument, &expedition,
		&expiration, &c.Name, &c.FirstSurname, &c.SecondSurname, &c.Gender, &birthdate,
		&c.Address, &c.PostalCode, &c.City, &c.Province, &c.Country, &c.Nationality, &c.PhoneNumber, &c.MobilePhone,
		&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.IdentityDocumentExpeditionDate = timePtr(expedition)
	c.IdentityDocumentExpirationDate = timePtr(expiration)
	c.Birthdate = timePtr(birthdate)
	return c, nil
}

// CreateClient inserts a new client into the database.
func (r *clientRepository) CreateClient(executor SQLExecutor, client *models.Client) (int64, error) {
	query := `INSERT INTO clients (identity_document_type_id, identity_document, identity_document_expedition_date,
	            identity_document_expiration_date, name, first_surname, second_surname, gender_id, birthdate,
	            address, postal_code, city, province, country, nationality, phone_number, mobile_phone,
	            is_deleted, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, FALSE, $18, $19)
	          RETURNING id`

	now := time.Now()
	client.CreatedAt, client.UpdatedAt = now, now

	err := executor.QueryRow(query,
		client.IdentityDocumentType, client.IdentityDocument, nullTime(client.IdentityDocumentExpeditionDate),
		nullTime(client.IdentityDocumentExpirationDate), client.Name, client.FirstSurname, client.SecondSurname,
		client.Gender, nullTime(client.Birthdate),
		client.Address, client.PostalCode, client.City, client.Province, client.Country, client.Nationality,
		client.PhoneNumber, client.MobilePhone, client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)
	if err != nil {
		return 0, mapWriteError(err, "creating client")
	}
	return client.ID, nil
}

// GetClientByID retrieves a client by their ID.
func (r *clientRepository) GetClientByID(id int64) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND is_deleted = FALSE`
	client, err := scanClient(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// GetClientByIdentityDocument looks a guest up by the document shown at check-in.
func (r *clientRepository) GetClientByIdentityDocument(docType models.IdentityDocumentType, document string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients
	          WHERE identity_document_type_id = $1 AND UPPER(identity_document) = UPPER($2) AND is_deleted = FALSE`
	client, err := scanClient(r.db.QueryRow(query, docType, document))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by identity document %s: %v", ErrDatabaseError, document, err)
	}
	return client, nil
}

func clientConditions(searchTerm *string) (string, []interface{}) {
	conditions := []string{"is_deleted = FALSE"}
	var args []interface{}
	if searchTerm != nil && strings.TrimSpace(*searchTerm) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*searchTerm))+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(name) LIKE $%d OR LOWER(first_surname) LIKE $%d OR LOWER(second_surname) LIKE $%d OR LOWER(identity_document) LIKE $%d)",
			n, n, n, n))
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *clientRepository) CountClients(searchTerm *string) (int, error) {
	where, args := clientConditions(searchTerm)
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM clients`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: counting clients: %v", ErrDatabaseError, err)
	}
	return total, nil
}

// GetClients retrieves one window of clients, optionally filtered by a search term.
func (r *clientRepository) GetClients(searchTerm *string, offset, limit int) ([]models.Client, error) {
	where, args := clientConditions(searchTerm)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + clientColumns + ` FROM clients`)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY first_surname ASC, name ASC, id ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, *client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// UpdateClient updates an existing client in the database.
func (r *clientRepository) UpdateClient(executor SQLExecutor, client *models.Client) error {
	query := `UPDATE clients SET
	            identity_document_type_id = $1, identity_document = $2, identity_document_expedition_date = $3,
	            identity_document_expiration_date = $4, name = $5, first_surname = $6, second_surname = $7,
	            gender_id = $8, birthdate = $9, address = $10, postal_code = $11, city = $12, province = $13,
	            country = $14, nationality = $15, phone_number = $16, mobile_phone = $17, updated_at = $18
	          WHERE id = $19 AND is_deleted = FALSE`

	client.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		client.IdentityDocumentType, client.IdentityDocument, nullTime(client.IdentityDocumentExpeditionDate),
		nullTime(client.IdentityDocumentExpirationDate), client.Name, client.FirstSurname, client.SecondSurname,
		client.Gender, nullTime(client.Birthdate), client.Address, client.PostalCode, client.City, client.Province,
		client.Country, client.Nationality, client.PhoneNumber, client.MobilePhone, client.UpdatedAt, client.ID,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating client ID %d", client.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating client ID %d", client.ID))
}

// DeleteClient soft-deletes a client so past reservations keep their guest.
func (r *clientRepository) DeleteClient(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`UPDATE clients SET is_deleted = TRUE, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`, time.Now(), id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting client ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting client ID %d", id))
}
