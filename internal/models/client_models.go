package models

import "time"

// Client is a hotel guest as registered at check-in.
type Client struct {
	ID                             int64                `json:"id" db:"id"`
	IdentityDocumentType           IdentityDocumentType `json:"identity_document_type" db:"identity_document_type_id"`
	IdentityDocument               string               `json:"identity_document" db:"identity_document"`
	IdentityDocumentExpeditionDate *time.Time           `json:"identity_document_expedition_date,omitempty" db:"identity_document_expedition_date"`
	IdentityDocumentExpirationDate *time.Time           `json:"identity_document_expiration_date,omitempty" db:"identity_document_expiration_date"`
	Name                           string               `json:"name" db:"name"`
	FirstSurname                   string               `json:"first_surname" db:"first_surname"`
	SecondSurname                  string               `json:"second_surname" db:"second_surname"`
	Gender                         Gender               `json:"gender" db:"gender_id"`
	Birthdate                      *time.Time           `json:"birthdate,omitempty" db:"birthdate"`
	Address                        string               `json:"address" db:"address"`
	PostalCode                     string               `json:"postal_code" db:"postal_code"`
	City                           string               `json:"city" db:"city"`
	Province                       string               `json:"province" db:"province"`
	Country                        string               `json:"country" db:"country"`
	Nationality                    string               `json:"nationality" db:"nationality"`
	PhoneNumber                    string               `json:"phone_number" db:"phone_number"`
	MobilePhone                    string               `json:"mobile_phone" db:"mobile_phone"`
	IsDeleted                      bool                 `json:"is_deleted" db:"is_deleted"`
	CreatedAt                      time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt                      time.Time            `json:"updated_at" db:"updated_at"`
}

// FullName joins name and surnames the way they are printed on documents.
func (c *Client) FullName() string {
	name := c.Name
	for _, part := range []string{c.FirstSurname, c.SecondSurname} {
		if part != "" {
			name += " " + part
		}
	}
	return name
}
