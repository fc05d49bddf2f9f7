package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alegria_backend/internal/models"
)

var invoiceRowColumns = []string{"id", "payment_method_id", "reservation_id", "paid", "is_deleted", "created_at", "updated_at", "total"}

func TestSimpleInvoiceRepository_CreateInvoice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO simple_invoices`).
		WithArgs(nil, nil, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(15))
	mock.ExpectQuery(`INSERT INTO sold_products`).
		WithArgs(int64(15), int64(40), "Caña", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery(`INSERT INTO sold_products`).
		WithArgs(int64(15), int64(40), "Caña", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))

	price := decimal.RequireFromString("1.50")
	invoice := &models.SimpleInvoice{Products: []models.SoldProduct{
		{OriginalProductID: 40, Name: "Caña", Price: price},
		{OriginalProductID: 40, Name: "Caña", Price: price},
	}}
	id, err := NewSimpleInvoiceRepository(db).CreateInvoice(db, invoice)
	require.NoError(t, err)
	assert.Equal(t, int64(15), id)
	assert.Equal(t, int64(15), invoice.Products[1].SimpleInvoiceID)
	assert.Equal(t, int64(101), invoice.Products[1].ID)
	assert.True(t, decimal.RequireFromString("3.00").Equal(invoice.Total))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSimpleInvoiceRepository_GetInvoices(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM simple_invoices si\s+WHERE si.is_deleted = FALSE\s+ORDER BY si.id DESC\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(13, 0).
		WillReturnRows(sqlmock.NewRows(invoiceRowColumns).
			AddRow(16, 3, 4, false, false, now, now, "7.20").
			AddRow(15, nil, nil, false, false, now, now, "3.00"))

	invoices, err := NewSimpleInvoiceRepository(db).GetInvoices(0, 13)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	require.NotNil(t, invoices[0].PaymentMethod)
	assert.Equal(t, models.PaymentMethodRoomCharge, *invoices[0].PaymentMethod)
	require.NotNil(t, invoices[0].ReservationID)
	assert.Equal(t, int64(4), *invoices[0].ReservationID)
	assert.Nil(t, invoices[1].PaymentMethod)
	assert.True(t, decimal.RequireFromString("3.00").Equal(invoices[1].Total))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSimpleInvoiceRepository_DropUnpaidInvoice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM sold_products`).
		WithArgs(int64(15)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM simple_invoices WHERE id = \$1 AND paid = FALSE`).
		WithArgs(int64(15)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewSimpleInvoiceRepository(db).DropUnpaidInvoice(db, 15)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSimpleInvoiceRepository_GetSalesReport(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	mock.ExpectQuery(`GROUP BY day, si.payment_method_id`).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"day", "payment_method_id", "invoices", "items", "total", "paid", "outstanding"}).
			AddRow("2024-07-01", 1, 3, 9, "21.50", "21.50", "0").
			AddRow("2024-07-01", nil, 1, 2, "3.00", "0", "3.00"))

	items, err := NewSimpleInvoiceRepository(db).GetSalesReport(start, end)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2024-07-01", items[0].Date)
	require.NotNil(t, items[0].PaymentMethod)
	assert.Equal(t, models.PaymentMethodCash, *items[0].PaymentMethod)
	assert.Equal(t, 9, items[0].ItemsSold)
	assert.Nil(t, items[1].PaymentMethod)
	assert.True(t, decimal.RequireFromString("3").Equal(items[1].Outstanding))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_CheckRoomAvailability(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	entry := time.Date(2024, 8, 10, 14, 0, 0, 0, time.UTC)
	departure := entry.AddDate(0, 0, 3)
	exclude := int64(7)

	mock.ExpectQuery(`res.entry_date < \$3 AND res.departure_date > \$2 AND res.id != \$4`).
		WithArgs(int64(2), entry, departure, exclude).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	available, err := NewReservationRepository(db).CheckRoomAvailability(nil, 2, entry, departure, &exclude)
	require.NoError(t, err)
	assert.False(t, available)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_GetReservationByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	entry := time.Date(2024, 8, 10, 14, 0, 0, 0, time.UTC)
	departure := entry.AddDate(0, 0, 3)
	mock.ExpectQuery(`FROM reservations res LEFT JOIN clients c ON c.id = res.client_id WHERE res.id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "entry_date", "departure_date", "is_deleted", "created_at", "updated_at", "client_name"}).
			AddRow(7, 3, entry, departure, false, entry, entry, "Ana García"))
	mock.ExpectQuery(`FROM sold_rooms sr`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_id", "room_id", "price", "room_name"}).
			AddRow(30, 7, 2, "80.00", "101").
			AddRow(31, 7, 3, nil, "102"))
	mock.ExpectQuery(`FROM sold_room_guests g`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"sold_room_id", "client_id"}).
			AddRow(30, 3).
			AddRow(30, 5))

	res, err := NewReservationRepository(db).GetReservationByID(nil, 7)
	require.NoError(t, err)
	assert.Equal(t, "Ana García", res.ClientName)
	assert.Equal(t, 3, res.Nights())
	require.Len(t, res.Rooms, 2)
	assert.Equal(t, []int64{3, 5}, res.Rooms[0].GuestIDs)
	assert.Empty(t, res.Rooms[1].GuestIDs)
	assert.False(t, res.Rooms[1].Price.Valid)
	require.NoError(t, mock.ExpectationsWereMet())
}
