package services

import (
	"sort"
	"strings"
	"time"

	"alegria_backend/internal/models"
	"alegria_backend/internal/repositories"
)

// fakeTxManager runs the function without a real transaction.
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) WithinTx(fn func(tx repositories.SQLExecutor) error) error {
	m.calls++
	return fn(nil)
}

// --- catalogue ---

type memCategoryRepo struct {
	categories map[int64]*models.ProductCategory
	nextID     int64
}

func newMemCategoryRepo(names ...string) *memCategoryRepo {
	r := &memCategoryRepo{categories: map[int64]*models.ProductCategory{}}
	for _, n := range names {
		r.CreateProductCategory(nil, &models.ProductCategory{Name: n})
	}
	return r
}

func (r *memCategoryRepo) CreateProductCategory(_ repositories.SQLExecutor, c *models.ProductCategory) (int64, error) {
	r.nextID++
	c.ID = r.nextID
	copied := *c
	r.categories[c.ID] = &copied
	return c.ID, nil
}

func (r *memCategoryRepo) GetProductCategoryByID(id int64) (*models.ProductCategory, error) {
	c, ok := r.categories[id]
	if !ok || c.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memCategoryRepo) live() []models.ProductCategory {
	out := []models.ProductCategory{}
	for _, c := range r.categories {
		if !c.IsDeleted {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memCategoryRepo) CountProductCategories() (int, error) { return len(r.live()), nil }

func (r *memCategoryRepo) GetProductCategories(offset, limit int) ([]models.ProductCategory, error) {
	return window(r.live(), offset, limit), nil
}

func (r *memCategoryRepo) UpdateProductCategory(_ repositories.SQLExecutor, c *models.ProductCategory) error {
	if _, err := r.GetProductCategoryByID(c.ID); err != nil {
		return err
	}
	copied := *c
	r.categories[c.ID] = &copied
	return nil
}

func (r *memCategoryRepo) DeleteProductCategory(_ repositories.SQLExecutor, id int64) error {
	c, ok := r.categories[id]
	if !ok || c.IsDeleted {
		return repositories.ErrNotFound
	}
	c.IsDeleted = true
	return nil
}

type memProductRepo struct {
	products map[int64]*models.Product
	nextID   int64
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[int64]*models.Product{}}
}

func (r *memProductRepo) CreateProduct(_ repositories.SQLExecutor, p *models.Product) (int64, error) {
	r.nextID++
	p.ID = r.nextID
	copied := *p
	r.products[p.ID] = &copied
	return p.ID, nil
}

func (r *memProductRepo) GetProductByID(_ repositories.SQLExecutor, id int64) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok || p.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memProductRepo) filtered(categoryID *int64) []models.Product {
	out := []models.Product{}
	for _, p := range r.products {
		if p.IsDeleted || (categoryID != nil && p.CategoryID != *categoryID) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memProductRepo) CountProducts(categoryID *int64) (int, error) {
	return len(r.filtered(categoryID)), nil
}

func (r *memProductRepo) GetProducts(categoryID *int64, offset, limit int) ([]models.Product, error) {
	return window(r.filtered(categoryID), offset, limit), nil
}

func (r *memProductRepo) UpdateProduct(_ repositories.SQLExecutor, p *models.Product) error {
	if _, err := r.GetProductByID(nil, p.ID); err != nil {
		return err
	}
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *memProductRepo) DeleteProduct(_ repositories.SQLExecutor, id int64) error {
	p, ok := r.products[id]
	if !ok || p.IsDeleted {
		return repositories.ErrNotFound
	}
	p.IsDeleted = true
	return nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// --- bar ---

type memTicketRepo struct {
	tickets     map[int64]*models.TemporalTicket
	products    map[int64]*models.TemporalProduct
	nextTicket  int64
	nextProduct int64
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{
		tickets:  map[int64]*models.TemporalTicket{},
		products: map[int64]*models.TemporalProduct{},
	}
}

func (r *memTicketRepo) assemble(t *models.TemporalTicket) *models.TemporalTicket {
	copied := *t
	copied.Products = []models.TemporalProduct{}
	for _, p := range r.products {
		if p.TemporalTicketID == t.ID {
			copied.Products = append(copied.Products, *p)
		}
	}
	sort.Slice(copied.Products, func(i, j int) bool { return copied.Products[i].ID < copied.Products[j].ID })
	return &copied
}

func (r *memTicketRepo) GetTickets() ([]models.TemporalTicket, error) {
	out := []models.TemporalTicket{}
	for _, t := range r.tickets {
		out = append(out, *r.assemble(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTicketRepo) GetTicketByID(_ repositories.SQLExecutor, id int64) (*models.TemporalTicket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.assemble(t), nil
}

func (r *memTicketRepo) GetTicketByTable(_ repositories.SQLExecutor, tableID int, location models.TableLocation) (*models.TemporalTicket, error) {
	for _, t := range r.tickets {
		if t.TableID == tableID && t.Location == location {
			return r.assemble(t), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memTicketRepo) CreateTicket(_ repositories.SQLExecutor, t *models.TemporalTicket) (int64, error) {
	if _, err := r.GetTicketByTable(nil, t.TableID, t.Location); err == nil {
		return 0, repositories.ErrDuplicateKey
	}
	r.nextTicket++
	t.ID = r.nextTicket
	copied := *t
	r.tickets[t.ID] = &copied
	return t.ID, nil
}

func (r *memTicketRepo) UpdateTicketState(_ repositories.SQLExecutor, id int64, status models.TicketStatus, invoiceID *int64) error {
	t, ok := r.tickets[id]
	if !ok {
		return repositories.ErrNotFound
	}
	t.Status = status
	t.SimpleInvoiceID = invoiceID
	return nil
}

func (r *memTicketRepo) DeleteTicket(_ repositories.SQLExecutor, id int64) error {
	if _, ok := r.tickets[id]; !ok {
		return repositories.ErrNotFound
	}
	for pid, p := range r.products {
		if p.TemporalTicketID == id {
			delete(r.products, pid)
		}
	}
	delete(r.tickets, id)
	return nil
}

func (r *memTicketRepo) AddProduct(_ repositories.SQLExecutor, p *models.TemporalProduct) (int64, error) {
	if _, ok := r.tickets[p.TemporalTicketID]; !ok {
		return 0, repositories.ErrForeignKey
	}
	r.nextProduct++
	p.ID = r.nextProduct
	copied := *p
	r.products[p.ID] = &copied
	return p.ID, nil
}

func (r *memTicketRepo) GetProductByID(_ repositories.SQLExecutor, id int64) (*models.TemporalProduct, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memTicketRepo) UpdateProduct(_ repositories.SQLExecutor, p *models.TemporalProduct) error {
	if _, ok := r.products[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *memTicketRepo) DeleteProduct(_ repositories.SQLExecutor, id int64) error {
	if _, ok := r.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memTicketRepo) CountProducts(_ repositories.SQLExecutor, ticketID int64) (int, error) {
	n := 0
	for _, p := range r.products {
		if p.TemporalTicketID == ticketID {
			n++
		}
	}
	return n, nil
}

type memInvoiceRepo struct {
	invoices map[int64]*models.SimpleInvoice
	nextID   int64
	report   []models.SalesReportItem
	// reportStart and reportEnd record the last report period asked for.
	reportStart, reportEnd time.Time
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{invoices: map[int64]*models.SimpleInvoice{}}
}

func (r *memInvoiceRepo) CreateInvoice(_ repositories.SQLExecutor, inv *models.SimpleInvoice) (int64, error) {
	r.nextID++
	inv.ID = r.nextID
	inv.CreatedAt = time.Date(2024, 7, 1, 21, 30, 0, 0, time.UTC)
	for i := range inv.Products {
		inv.Products[i].SimpleInvoiceID = inv.ID
		inv.Products[i].ID = int64(i + 1)
	}
	inv.RecalculateTotal()
	copied := *inv
	copied.Products = append([]models.SoldProduct(nil), inv.Products...)
	r.invoices[inv.ID] = &copied
	return inv.ID, nil
}

func (r *memInvoiceRepo) GetInvoiceByID(_ repositories.SQLExecutor, id int64) (*models.SimpleInvoice, error) {
	inv, ok := r.invoices[id]
	if !ok || inv.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (r *memInvoiceRepo) live() []models.SimpleInvoice {
	out := []models.SimpleInvoice{}
	for _, inv := range r.invoices {
		if !inv.IsDeleted {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *memInvoiceRepo) CountInvoices() (int, error) { return len(r.live()), nil }

func (r *memInvoiceRepo) GetInvoices(offset, limit int) ([]models.SimpleInvoice, error) {
	return window(r.live(), offset, limit), nil
}

func (r *memInvoiceRepo) GetInvoicesByReservation(reservationID int64) ([]models.SimpleInvoice, error) {
	out := []models.SimpleInvoice{}
	for _, inv := range r.live() {
		if inv.ReservationID != nil && *inv.ReservationID == reservationID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) SetPayment(_ repositories.SQLExecutor, id int64, method models.PaymentMethod, paid bool, reservationID *int64) error {
	inv, ok := r.invoices[id]
	if !ok || inv.IsDeleted {
		return repositories.ErrNotFound
	}
	inv.PaymentMethod = &method
	inv.Paid = paid
	inv.ReservationID = reservationID
	return nil
}

func (r *memInvoiceRepo) MarkInvoicePaid(_ repositories.SQLExecutor, id int64) error {
	inv, ok := r.invoices[id]
	if !ok || inv.IsDeleted {
		return repositories.ErrNotFound
	}
	inv.Paid = true
	return nil
}

func (r *memInvoiceRepo) DeleteInvoice(_ repositories.SQLExecutor, id int64) error {
	inv, ok := r.invoices[id]
	if !ok || inv.IsDeleted {
		return repositories.ErrNotFound
	}
	inv.IsDeleted = true
	return nil
}

func (r *memInvoiceRepo) DropUnpaidInvoice(_ repositories.SQLExecutor, id int64) error {
	inv, ok := r.invoices[id]
	if !ok || inv.Paid {
		return repositories.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *memInvoiceRepo) GetSalesReport(start, end time.Time) ([]models.SalesReportItem, error) {
	r.reportStart, r.reportEnd = start, end
	return r.report, nil
}

// --- hotel ---

type memReservationRepo struct {
	reservations map[int64]*models.Reservation
	nextID       int64
	nextSoldRoom int64
	locked       [][]int64
	calls        []string
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{reservations: map[int64]*models.Reservation{}}
}

func (r *memReservationRepo) CreateReservation(_ repositories.SQLExecutor, res *models.Reservation) (int64, error) {
	r.nextID++
	res.ID = r.nextID
	copied := *res
	r.reservations[res.ID] = &copied
	return res.ID, nil
}

func (r *memReservationRepo) GetReservationByID(_ repositories.SQLExecutor, id int64) (*models.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok || res.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	copied := *res
	copied.Rooms = append([]models.SoldRoom(nil), res.Rooms...)
	return &copied, nil
}

func (r *memReservationRepo) filtered(filters models.ReservationFilters) []models.Reservation {
	out := []models.Reservation{}
	for _, res := range r.reservations {
		if res.IsDeleted || (filters.ClientID != nil && (res.ClientID == nil || *res.ClientID != *filters.ClientID)) {
			continue
		}
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memReservationRepo) CountReservations(filters models.ReservationFilters) (int, error) {
	return len(r.filtered(filters)), nil
}

func (r *memReservationRepo) GetReservations(filters models.ReservationFilters, offset, limit int) ([]models.Reservation, error) {
	return window(r.filtered(filters), offset, limit), nil
}

func (r *memReservationRepo) GetOccupiedReservations(at time.Time) ([]models.Reservation, error) {
	out := []models.Reservation{}
	for _, res := range r.filtered(models.ReservationFilters{}) {
		if res.IsOccupiedAt(at) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memReservationRepo) UpdateReservation(_ repositories.SQLExecutor, res *models.Reservation) error {
	existing, ok := r.reservations[res.ID]
	if !ok || existing.IsDeleted {
		return repositories.ErrNotFound
	}
	existing.ClientID = res.ClientID
	existing.EntryDate = res.EntryDate
	existing.DepartureDate = res.DepartureDate
	return nil
}

func (r *memReservationRepo) DeleteReservation(_ repositories.SQLExecutor, id int64) error {
	res, ok := r.reservations[id]
	if !ok || res.IsDeleted {
		return repositories.ErrNotFound
	}
	res.IsDeleted = true
	return nil
}

func (r *memReservationRepo) AddSoldRoom(_ repositories.SQLExecutor, sr *models.SoldRoom) (int64, error) {
	res, ok := r.reservations[sr.ReservationID]
	if !ok {
		return 0, repositories.ErrForeignKey
	}
	r.nextSoldRoom++
	sr.ID = r.nextSoldRoom
	res.Rooms = append(res.Rooms, *sr)
	return sr.ID, nil
}

func (r *memReservationRepo) DeleteSoldRooms(_ repositories.SQLExecutor, reservationID int64) error {
	if res, ok := r.reservations[reservationID]; ok {
		res.Rooms = nil
	}
	return nil
}

func (r *memReservationRepo) LockRooms(_ repositories.SQLExecutor, roomIDs []int64) error {
	r.locked = append(r.locked, append([]int64(nil), roomIDs...))
	r.calls = append(r.calls, "lock")
	return nil
}

func (r *memReservationRepo) CheckRoomAvailability(_ repositories.SQLExecutor, roomID int64, entry, departure time.Time, exclude *int64) (bool, error) {
	r.calls = append(r.calls, "check")
	for _, res := range r.reservations {
		if res.IsDeleted || (exclude != nil && res.ID == *exclude) {
			continue
		}
		if !(res.EntryDate.Before(departure) && res.DepartureDate.After(entry)) {
			continue
		}
		for _, sr := range res.Rooms {
			if sr.RoomID == roomID {
				return false, nil
			}
		}
	}
	return true, nil
}

type memRoomRepo struct {
	rooms map[int64]*models.Room
}

func (r *memRoomRepo) CreateRoom(_ repositories.SQLExecutor, room *models.Room) (int64, error) {
	room.ID = int64(len(r.rooms) + 1)
	copied := *room
	r.rooms[room.ID] = &copied
	return room.ID, nil
}

func (r *memRoomRepo) GetRoomByID(id int64) (*models.Room, error) {
	room, ok := r.rooms[id]
	if !ok || room.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	copied := *room
	return &copied, nil
}

func (r *memRoomRepo) CountRooms() (int, error) { return len(r.rooms), nil }

func (r *memRoomRepo) GetRooms(offset, limit int) ([]models.Room, error) {
	out := []models.Room{}
	for _, room := range r.rooms {
		out = append(out, *room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, offset, limit), nil
}

func (r *memRoomRepo) UpdateRoom(_ repositories.SQLExecutor, room *models.Room) error {
	copied := *room
	r.rooms[room.ID] = &copied
	return nil
}

func (r *memRoomRepo) DeleteRoom(_ repositories.SQLExecutor, id int64) error {
	delete(r.rooms, id)
	return nil
}

type memRoomTypeRepo struct {
	roomTypes map[int64]*models.RoomType
}

func (r *memRoomTypeRepo) CreateRoomType(_ repositories.SQLExecutor, rt *models.RoomType) (int64, error) {
	rt.ID = int64(len(r.roomTypes) + 1)
	copied := *rt
	r.roomTypes[rt.ID] = &copied
	return rt.ID, nil
}

func (r *memRoomTypeRepo) GetRoomTypeByID(id int64) (*models.RoomType, error) {
	rt, ok := r.roomTypes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *rt
	return &copied, nil
}

func (r *memRoomTypeRepo) CountRoomTypes() (int, error) { return len(r.roomTypes), nil }

func (r *memRoomTypeRepo) GetRoomTypes(offset, limit int) ([]models.RoomType, error) {
	out := []models.RoomType{}
	for _, rt := range r.roomTypes {
		out = append(out, *rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, offset, limit), nil
}

func (r *memRoomTypeRepo) UpdateRoomType(_ repositories.SQLExecutor, rt *models.RoomType) error {
	copied := *rt
	r.roomTypes[rt.ID] = &copied
	return nil
}

func (r *memRoomTypeRepo) DeleteRoomType(_ repositories.SQLExecutor, id int64) error {
	delete(r.roomTypes, id)
	return nil
}

type memClientRepo struct {
	clients map[int64]*models.Client
	nextID  int64
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: map[int64]*models.Client{}}
}

func (r *memClientRepo) CreateClient(_ repositories.SQLExecutor, c *models.Client) (int64, error) {
	r.nextID++
	c.ID = r.nextID
	copied := *c
	r.clients[c.ID] = &copied
	return c.ID, nil
}

func (r *memClientRepo) GetClientByID(id int64) (*models.Client, error) {
	c, ok := r.clients[id]
	if !ok || c.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memClientRepo) GetClientByIdentityDocument(docType models.IdentityDocumentType, document string) (*models.Client, error) {
	for _, c := range r.clients {
		if !c.IsDeleted && c.IdentityDocumentType == docType && strings.EqualFold(c.IdentityDocument, document) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memClientRepo) search(term *string) []models.Client {
	out := []models.Client{}
	for _, c := range r.clients {
		if c.IsDeleted {
			continue
		}
		if term != nil && !strings.Contains(strings.ToLower(c.FullName()+" "+c.IdentityDocument), strings.ToLower(*term)) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memClientRepo) CountClients(term *string) (int, error) { return len(r.search(term)), nil }

func (r *memClientRepo) GetClients(term *string, offset, limit int) ([]models.Client, error) {
	return window(r.search(term), offset, limit), nil
}

func (r *memClientRepo) UpdateClient(_ repositories.SQLExecutor, c *models.Client) error {
	if _, err := r.GetClientByID(c.ID); err != nil {
		return err
	}
	copied := *c
	r.clients[c.ID] = &copied
	return nil
}

func (r *memClientRepo) DeleteClient(_ repositories.SQLExecutor, id int64) error {
	c, ok := r.clients[id]
	if !ok || c.IsDeleted {
		return repositories.ErrNotFound
	}
	c.IsDeleted = true
	return nil
}

type memAuthRepo struct {
	users  map[string]*models.User
	hashes map[string]string
	nextID int64
}

func newMemAuthRepo() *memAuthRepo {
	return &memAuthRepo{users: map[string]*models.User{}, hashes: map[string]string{}}
}

func (r *memAuthRepo) CreateUser(_ repositories.SQLExecutor, u *models.User, hash string) (int64, error) {
	if _, ok := r.users[u.Username]; ok {
		return 0, repositories.ErrDuplicateKey
	}
	r.nextID++
	u.ID = r.nextID
	u.IsActive = true
	copied := *u
	r.users[u.Username] = &copied
	r.hashes[u.Username] = hash
	return u.ID, nil
}

func (r *memAuthRepo) FindUserByUsername(username string) (*models.User, string, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, "", repositories.ErrNotFound
	}
	copied := *u
	return &copied, r.hashes[username], nil
}

func (r *memAuthRepo) FindUserByID(id int64) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memAuthRepo) CountUsers(_ repositories.SQLExecutor) (int, error) { return len(r.users), nil }
