package services

import (
	"context"
	"sync"
	"time"

	"github.com/hostelhub/server/internal/apperr"
	"github.com/hostelhub/server/internal/models"
	"github.com/hostelhub/server/internal/payment"
)

// memHostelRepo is an in-memory HostelRepo whose ReserveRoom mirrors the
// storage-level compare-and-decrement contract: the check and the decrement
// happen under one lock, so concurrent reservations contend the way they do
// against the real conditional update.
type memHostelRepo struct {
	mu      sync.Mutex
	hostels map[string]*models.Hostel
}

func newMemHostelRepo(hostels ...*models.Hostel) *memHostelRepo {
	m := &memHostelRepo{hostels: make(map[string]*models.Hostel)}
	for _, h := range hostels {
		m.hostels[h.Code] = h
	}
	return m
}

func (m *memHostelRepo) CreateHostel(ctx context.Context, hostel *models.Hostel) (*models.Hostel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hostels[hostel.Code]; ok {
		return nil, apperr.New(apperr.Conflict, "hostel already exists")
	}
	m.hostels[hostel.Code] = hostel
	return hostel, nil
}

func (m *memHostelRepo) GetHostelByCode(ctx context.Context, code string) (*models.Hostel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hostels[code]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "hostel not found")
	}
	copied := *h
	copied.RoomTypes = append([]models.RoomType(nil), h.RoomTypes...)
	return &copied, nil
}

func (m *memHostelRepo) ListHostels(ctx context.Context, offset, limit int) ([]*models.Hostel, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Hostel
	for _, h := range m.hostels {
		out = append(out, h)
	}
	return out, len(out), nil
}

func (m *memHostelRepo) UpdateHostel(ctx context.Context, code string, fields map[string]interface{}) (*models.Hostel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hostels[code]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "hostel not found")
	}
	if name, ok := fields["name"].(string); ok {
		h.Name = name
	}
	if loc, ok := fields["location"].(string); ok {
		h.Location = loc
	}
	return h, nil
}

func (m *memHostelRepo) DeleteHostel(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hostels[code]; !ok {
		return apperr.New(apperr.NotFound, "hostel not found")
	}
	delete(m.hostels, code)
	return nil
}

func (m *memHostelRepo) ReserveRoom(ctx context.Context, code, roomType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hostels[code]
	if !ok {
		return apperr.New(apperr.NotFound, "hostel not found")
	}
	rt := h.RoomTypeByLabel(roomType)
	if rt == nil || rt.Available <= 0 {
		return apperr.New(apperr.Conflict, "no available rooms for this type")
	}
	rt.Available--
	return nil
}

func (m *memHostelRepo) ReleaseRoom(ctx context.Context, code, roomType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hostels[code]
	if !ok {
		return apperr.New(apperr.NotFound, "hostel not found")
	}
	rt := h.RoomTypeByLabel(roomType)
	if rt == nil {
		return apperr.New(apperr.NotFound, "room type not found")
	}
	rt.Available++
	return nil
}

func (m *memHostelRepo) available(code, roomType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.hostels[code]; ok {
		if rt := h.RoomTypeByLabel(roomType); rt != nil {
			return rt.Available
		}
	}
	return -1
}

// memBookingRepo mirrors the guarded-transition contract of the Mongo repo.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking

	failNextInsert bool
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (m *memBookingRepo) InsertBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextInsert {
		m.failNextInsert = false
		return nil, apperr.New(apperr.Internal, "failed to persist booking")
	}
	copied := *booking
	m.bookings[booking.ID] = &copied
	return booking, nil
}

func (m *memBookingRepo) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "booking not found")
	}
	copied := *b
	return &copied, nil
}

func (m *memBookingRepo) ListBookingsByUser(ctx context.Context, userID string, offset, limit int) ([]*models.Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

func (m *memBookingRepo) ListBookings(ctx context.Context, offset, limit int) ([]*models.Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Booking
	for _, b := range m.bookings {
		out = append(out, b)
	}
	return out, len(out), nil
}

func (m *memBookingRepo) TransitionStatus(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if b.Status == f {
			b.Status = to
			b.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (m *memBookingRepo) CountActiveByHostel(ctx context.Context, hostelCode string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, b := range m.bookings {
		if b.HostelCode == hostelCode && b.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

// fakeGateway verifies signatures against a fixed secret and never touches
// the network.
type fakeGateway struct {
	secret string
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount float64, currency, referenceID string) (*payment.Order, error) {
	return &payment.Order{
		OrderID:      "order_test",
		ReceiptToken: "rcpt_test",
		Amount:       amount,
		Currency:     currency,
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.VerifySignature(g.secret, orderID, paymentID, signature)
}

// recordNotifier captures events synchronously for assertions.
type recordNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordNotifier) Notify(eventType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func (r *recordNotifier) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == eventType {
			n++
		}
	}
	return n
}
