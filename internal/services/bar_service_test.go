package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alegria_backend/internal/models"
)

type barFixture struct {
	svc          *barService
	tickets      *memTicketRepo
	products     *memProductRepo
	invoices     *memInvoiceRepo
	reservations *memReservationRepo
	tx           *fakeTxManager
	beer         int64
	coffee       int64
}

func newBarFixture(t *testing.T) *barFixture {
	t.Helper()
	f := &barFixture{
		tickets:      newMemTicketRepo(),
		products:     newMemProductRepo(),
		invoices:     newMemInvoiceRepo(),
		reservations: newMemReservationRepo(),
		tx:           &fakeTxManager{},
	}
	f.beer, _ = f.products.CreateProduct(nil, &models.Product{
		CategoryID:   1,
		Name:         "Beer",
		InsidePrice:  decimal.NewNullDecimal(decimal.RequireFromString("2.50")),
		OutsidePrice: decimal.NewNullDecimal(decimal.RequireFromString("3.00")),
	})
	f.coffee, _ = f.products.CreateProduct(nil, &models.Product{
		CategoryID:  1,
		Name:        "Coffee",
		InsidePrice: decimal.NewNullDecimal(decimal.RequireFromString("1.20")),
	})
	svc := NewBarService(f.tickets, f.products, f.invoices, f.reservations, f.tx,
		NewDocumentRenderer(BusinessInfo{Name: "Alegria"}))
	f.svc = svc.(*barService)
	f.svc.now = func() time.Time { return time.Date(2024, 7, 10, 22, 0, 0, 0, time.UTC) }
	return f
}

func (f *barFixture) add(t *testing.T, table int, location models.TableLocation, product int64) *models.TemporalTicket {
	t.Helper()
	ticket, err := f.svc.AddProductToTable(AddProductToTableRequest{TableID: table, Location: location, ProductID: product})
	require.NoError(t, err)
	return ticket
}

func TestAddProductToTable_OpensTicketAndAddsLines(t *testing.T) {
	f := newBarFixture(t)

	ticket := f.add(t, 3, models.TableLocationBar, f.beer)
	assert.Equal(t, 3, ticket.TableID)
	assert.Equal(t, models.TicketStatusPending, ticket.Status)
	require.Len(t, ticket.Products, 1)
	assert.Equal(t, "Beer", ticket.Products[0].Name)
	assert.Equal(t, 1, ticket.Products[0].Quantity)
	assert.True(t, decimal.RequireFromString("2.50").Equal(ticket.Products[0].Price))

	again := f.add(t, 3, models.TableLocationBar, f.coffee)
	assert.Equal(t, ticket.ID, again.ID)
	assert.Len(t, again.Products, 2)

	other := f.add(t, 3, models.TableLocationRestaurant, f.coffee)
	assert.NotEqual(t, ticket.ID, other.ID, "same table number in another location is another ticket")
}

func TestAddProductToTable_GardenUsesOutsidePrice(t *testing.T) {
	f := newBarFixture(t)

	ticket := f.add(t, 0, models.TableLocationGarden, f.beer)
	assert.True(t, decimal.RequireFromString("3.00").Equal(ticket.Products[0].Price))

	// Coffee has no outside price and is charged as zero.
	ticket = f.add(t, 0, models.TableLocationGarden, f.coffee)
	assert.True(t, ticket.Products[1].Price.IsZero())
}

func TestAddProductToTable_Validation(t *testing.T) {
	f := newBarFixture(t)

	_, err := f.svc.AddProductToTable(AddProductToTableRequest{TableID: models.TablesPerLocation, ProductID: f.beer})
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = f.svc.AddProductToTable(AddProductToTableRequest{TableID: -1, ProductID: f.beer})
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = f.svc.AddProductToTable(AddProductToTableRequest{TableID: 1, ProductID: 999})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, f.tickets.tickets, "no ticket is opened for a missing product")
}

func TestPrintTicket_LocksAndCreatesInvoice(t *testing.T) {
	f := newBarFixture(t)
	ticket := f.add(t, 5, models.TableLocationBar, f.beer)
	qty := 3
	_, err := f.svc.UpdateTemporalProduct(ticket.Products[0].ID, UpdateTemporalProductRequest{Quantity: &qty})
	require.NoError(t, err)

	doc, err := f.svc.PrintTicket(ticket.ID, PrintTicketRequest{})
	require.NoError(t, err)

	assert.True(t, doc.Ticket.IsLocked())
	require.NotNil(t, doc.Ticket.SimpleInvoiceID)
	assert.Equal(t, doc.Invoice.ID, *doc.Ticket.SimpleInvoiceID)
	assert.Len(t, doc.Invoice.Products, 3, "one sold product per unit")
	assert.True(t, decimal.RequireFromString("7.50").Equal(doc.Invoice.Total))
	assert.False(t, doc.Invoice.Paid)
	assert.Contains(t, doc.Document, "Receipt no.")
	assert.Contains(t, doc.Document, "TOTAL: 7.50")

	// Printing again reuses the invoice.
	again, err := f.svc.PrintTicket(ticket.ID, PrintTicketRequest{TicketType: models.TicketTypeInvoice})
	require.NoError(t, err)
	assert.Equal(t, doc.Invoice.ID, again.Invoice.ID)
	assert.Len(t, f.invoices.invoices, 1)
}

func TestPrintTicket_RejectsUnknownType(t *testing.T) {
	f := newBarFixture(t)
	ticket := f.add(t, 5, models.TableLocationBar, f.beer)

	_, err := f.svc.PrintTicket(ticket.ID, PrintTicketRequest{TicketType: "fax"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLockedTicketRefusesEdits(t *testing.T) {
	f := newBarFixture(t)
	ticket := f.add(t, 2, models.TableLocationBar, f.beer)
	_, err := f.svc.PrintTicket(ticket.ID, PrintTicketRequest{})
	require.NoError(t, err)

	_, err = f.svc.AddProductToTable(AddProductToTableRequest{TableID: 2, Location: models.TableLocationBar, ProductID: f.coffee})
	assert.ErrorIs(t, err, ErrTicketLocked)

	qty := 2
	_, err = f.svc.UpdateTemporalProduct(ticket.Products[0].ID, UpdateTemporalProductRequest{Quantity: &qty})
	assert.ErrorIs(t, err, ErrTicketLocked)

	_, err = f.svc.DeleteTemporalProduct(ticket.Products[0].ID)
	assert.ErrorIs(t, err, ErrTicketLocked)
}

func TestUnlockTicket_DropsUnpaidInvoice(t *testing.T) {
	f := newBarFixture(t)
	ticket := f.add(t, 2, models.TableLocationBar, f.beer)
	_, err := f.svc.PrintTicket(ticket.ID, PrintTicketRequest{})
	require.NoError(t, err)
	require.Len(t, f.invoices.invoices, 1)

	unlocked, err := f.svc.UnlockTicket(ticket.ID)
	require.NoError(t, err)

	assert.False(t, unlocked.IsLocked())
	assert.Nil(t, unlocked.SimpleInvoiceID)
	assert.Empty(t, f.invoices.invoices)

	f.add(t, 2, models.TableLocationBar, f.coffee)
}

func TestUpdateTemporalProduct_Validation(t *testing.T) {
	f := newBarFixture(t)
	ticket := f.add(t, 1, models.TableLocationBar, f.beer)

	zero := 0
	_, err := f.svc.UpdateTemporalProduct(ticket.Products[0].ID, UpdateTemporalProductRequest{Quantity: &zero})
	assert.ErrorIs(t, err, ErrValidation)

	negative := decimal.NewFromInt(-1)
	_, err = f.svc.UpdateTemporalProduct(ticket.Products[0].ID, UpdateTemporalProductRequest{Price: &negative})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.UpdateTemporalProduct(999, UpdateTemporalProductRequest{})
	assert.ErrorIs(t, err, ErrTemporalProductNotFound)

	price := decimal.RequireFromString("1.75")
	updated, err := f.svc.UpdateTemporalProduct(ticket.Products[0].ID, UpdateTemporalProductRequest{Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Products[0].Price))
}

func TestDeleteTemporalProduct_LastLineClosesTicket(t *testing.T) {
	f := newBarFixture(t)
	f.add(t, 4, models.TableLocationBar, f.beer)
	ticket := f.add(t, 4, models.TableLocationBar, f.coffee)

	remaining, err := f.svc.DeleteTemporalProduct(ticket.Products[0].ID)
	require.NoError(t, err)
	require.NotNil(t, remaining)
	assert.Len(t, remaining.Products, 1)

	closed, err := f.svc.DeleteTemporalProduct(ticket.Products[1].ID)
	require.NoError(t, err)
	assert.Nil(t, closed)

	_, err = f.svc.GetTicketByID(ticket.ID)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestPayTicket_Cash(t *testing.T) {
	f := newBarFixture(t)
	ticket := f.add(t, 7, models.TableLocationRestaurant, f.beer)
	f.add(t, 7, models.TableLocationRestaurant, f.coffee)
	receipt := models.TicketTypeReceipt

	doc, err := f.svc.PayTicket(ticket.ID, PayTicketRequest{PaymentMethod: models.PaymentMethodCash, TicketType: &receipt})
	require.NoError(t, err)

	assert.True(t, doc.Invoice.Paid)
	require.NotNil(t, doc.Invoice.PaymentMethod)
	assert.Equal(t, models.PaymentMethodCash, *doc.Invoice.PaymentMethod)
	assert.Nil(t, doc.Invoice.ReservationID)
	assert.True(t, decimal.RequireFromString("3.70").Equal(doc.Invoice.Total))
	assert.Contains(t, doc.Document, "Payment: cash")

	_, err = f.svc.GetTicketByID(ticket.ID)
	assert.ErrorIs(t, err, ErrTicketNotFound, "paid tickets are closed")
}

func TestPayTicket_EmptyTicket(t *testing.T) {
	f := newBarFixture(t)
	id, err := f.tickets.CreateTicket(nil, &models.TemporalTicket{TableID: 1})
	require.NoError(t, err)

	_, err = f.svc.PayTicket(id, PayTicketRequest{PaymentMethod: models.PaymentMethodCard})
	assert.ErrorIs(t, err, ErrEmptyTicket)
}

func TestPayTicket_RoomCharge(t *testing.T) {
	f := newBarFixture(t)
	clientID := int64(1)
	occupied, _ := f.reservations.CreateReservation(nil, &models.Reservation{
		ClientID:      &clientID,
		EntryDate:     time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC),
		DepartureDate: time.Date(2024, 7, 12, 0, 0, 0, 0, time.UTC),
	})
	finished, _ := f.reservations.CreateReservation(nil, &models.Reservation{
		ClientID:      &clientID,
		EntryDate:     time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		DepartureDate: time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
	})
	ticket := f.add(t, 9, models.TableLocationGarden, f.beer)

	_, err := f.svc.PayTicket(ticket.ID, PayTicketRequest{PaymentMethod: models.PaymentMethodRoomCharge})
	assert.ErrorIs(t, err, ErrReservationRequired)

	missing := int64(99)
	_, err = f.svc.PayTicket(ticket.ID, PayTicketRequest{PaymentMethod: models.PaymentMethodRoomCharge, ReservationID: &missing})
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = f.svc.PayTicket(ticket.ID, PayTicketRequest{PaymentMethod: models.PaymentMethodRoomCharge, ReservationID: &finished})
	assert.ErrorIs(t, err, ErrReservationNotOccupied)
	_, err = f.svc.GetTicketByID(ticket.ID)
	require.NoError(t, err, "a refused payment leaves the ticket open")

	doc, err := f.svc.PayTicket(ticket.ID, PayTicketRequest{PaymentMethod: models.PaymentMethodRoomCharge, ReservationID: &occupied})
	require.NoError(t, err)
	assert.False(t, doc.Invoice.Paid)
	require.NotNil(t, doc.Invoice.ReservationID)
	assert.Equal(t, occupied, *doc.Invoice.ReservationID)
	assert.Empty(t, doc.Document)
}

func TestPayTicket_InvalidPaymentMethod(t *testing.T) {
	f := newBarFixture(t)
	ticket := f.add(t, 1, models.TableLocationBar, f.beer)

	_, err := f.svc.PayTicket(ticket.ID, PayTicketRequest{PaymentMethod: models.PaymentMethod(42)})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestDeleteTicket_DropsPrintedInvoice(t *testing.T) {
	f := newBarFixture(t)
	ticket := f.add(t, 8, models.TableLocationBar, f.beer)
	_, err := f.svc.PrintTicket(ticket.ID, PrintTicketRequest{})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTicket(ticket.ID))
	assert.Empty(t, f.tickets.tickets)
	assert.Empty(t, f.tickets.products)
	assert.Empty(t, f.invoices.invoices)

	assert.ErrorIs(t, f.svc.DeleteTicket(ticket.ID), ErrTicketNotFound)
}

func TestGetTickets_ListsOpenTabs(t *testing.T) {
	f := newBarFixture(t)
	f.add(t, 1, models.TableLocationBar, f.beer)
	f.add(t, 2, models.TableLocationGarden, f.coffee)

	tickets, err := f.svc.GetTickets()
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, models.TableLocationGarden, tickets[1].Location)
}
