package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alegria_backend/internal/models"
)

func strPtr(s string) *string { return &s }

func validClientRequest() ClientRequest {
	return ClientRequest{
		IdentityDocumentType:           models.IdentityDocumentDNI,
		IdentityDocument:               " 12345678z ",
		IdentityDocumentExpeditionDate: strPtr("2020-01-15"),
		IdentityDocumentExpirationDate: strPtr("2030-01-15"),
		Name:                           "Carmen",
		FirstSurname:                   "Ruiz",
		SecondSurname:                  "Soler",
		Gender:                         models.GenderFemale,
		Birthdate:                      strPtr("1985-04-02"),
		City:                           "Valencia",
	}
}

func TestCreateClient(t *testing.T) {
	svc := NewClientService(newMemClientRepo(), nil)

	client, err := svc.CreateClient(validClientRequest())
	require.NoError(t, err)
	assert.Equal(t, "12345678Z", client.IdentityDocument)
	assert.Equal(t, "Carmen Ruiz Soler", client.FullName())
	require.NotNil(t, client.Birthdate)
	assert.Equal(t, 1985, client.Birthdate.Year())

	_, err = svc.CreateClient(validClientRequest())
	assert.ErrorIs(t, err, ErrIdentityDocumentExists)

	other := validClientRequest()
	other.IdentityDocumentType = models.IdentityDocumentPassport
	_, err = svc.CreateClient(other)
	assert.NoError(t, err, "the same number under another document type is another document")
}

func TestCreateClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ClientRequest)
		wantErr error
	}{
		{"missing document type", func(r *ClientRequest) { r.IdentityDocumentType = 0 }, ErrClientValidation},
		{"missing gender", func(r *ClientRequest) { r.Gender = 0 }, ErrClientValidation},
		{"blank document", func(r *ClientRequest) { r.IdentityDocument = "  " }, ErrClientValidation},
		{"blank name", func(r *ClientRequest) { r.Name = "" }, ErrClientValidation},
		{"bad date", func(r *ClientRequest) { r.Birthdate = strPtr("02/04/1985") }, ErrDateFormat},
		{"expires before issue", func(r *ClientRequest) { r.IdentityDocumentExpirationDate = strPtr("2019-01-01") }, ErrClientValidation},
		{"born in the future", func(r *ClientRequest) { r.Birthdate = strPtr("2999-01-01") }, ErrClientValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewClientService(newMemClientRepo(), nil)
			req := validClientRequest()
			tt.mutate(&req)
			_, err := svc.CreateClient(req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateClient_KeepsOwnDocument(t *testing.T) {
	svc := NewClientService(newMemClientRepo(), nil)
	client, err := svc.CreateClient(validClientRequest())
	require.NoError(t, err)

	req := validClientRequest()
	req.City = "Alicante"
	updated, err := svc.UpdateClient(client.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Alicante", updated.City)

	_, err = svc.UpdateClient(404, req)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestGetClients_Search(t *testing.T) {
	svc := NewClientService(newMemClientRepo(), nil)
	_, err := svc.CreateClient(validClientRequest())
	require.NoError(t, err)
	other := validClientRequest()
	other.IdentityDocument = "X1234567L"
	other.Name = "Pau"
	other.FirstSurname = "Vidal"
	other.SecondSurname = ""
	_, err = svc.CreateClient(other)
	require.NoError(t, err)

	page, err := svc.GetClients(strPtr("vidal"), DefaultPageRequest())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Pau", page.Items[0].Name)

	page, err = svc.GetClients(nil, DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalItems)
}

func TestDeleteClient(t *testing.T) {
	svc := NewClientService(newMemClientRepo(), nil)
	client, err := svc.CreateClient(validClientRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClient(client.ID))
	assert.ErrorIs(t, svc.DeleteClient(client.ID), ErrClientNotFound)

	_, err = svc.CreateClient(validClientRequest())
	assert.NoError(t, err, "a deleted client's document can be registered again")
}
