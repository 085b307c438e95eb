package handlers

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/store"
)

// memStore is an in-memory Store with the same matching rules as the Mongo
// one.
type memStore struct {
	mu         sync.Mutex
	treatments []models.Treatment
	bookings   []models.Booking
	users      map[string]*models.User
	doctors    []models.Doctor
	err        error
	pingErr    error
}

func newMemStore() *memStore {
	return &memStore{
		treatments: []models.Treatment{
			{ID: primitive.NewObjectID(), Name: "Checkup", Slots: []string{"09:00", "10:00", "11:00"}},
			{ID: primitive.NewObjectID(), Name: "Cleaning", Slots: []string{"10:00", "14:00"}},
		},
		users: map[string]*models.User{},
	}
}

func (m *memStore) Ping(ctx context.Context) error { return m.pingErr }

func (m *memStore) ListTreatments(ctx context.Context) ([]models.Treatment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Treatment, len(m.treatments))
	for i, t := range m.treatments {
		t.Slots = append([]string(nil), t.Slots...)
		out[i] = t
	}
	return out, m.err
}

func (m *memStore) ListTreatmentNames(ctx context.Context) ([]models.TreatmentName, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.TreatmentName, 0, len(m.treatments))
	for _, t := range m.treatments {
		out = append(out, models.TreatmentName{ID: t.ID, Name: t.Name})
	}
	return out, m.err
}

func (m *memStore) ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return m.filterBookings(func(b models.Booking) bool { return b.Date == date })
}

func (m *memStore) ListBookingsByPatient(ctx context.Context, patient string) ([]models.Booking, error) {
	return m.filterBookings(func(b models.Booking) bool { return b.Patient == patient })
}

func (m *memStore) filterBookings(match func(models.Booking) bool) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Booking, 0)
	for _, b := range m.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	return out, m.err
}

func (m *memStore) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, m.err
}

func (m *memStore) FindUser(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) UpsertUser(ctx context.Context, email string, fields bson.M) (*models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email]
	res := &models.UpdateResult{Acknowledged: true}
	if !ok {
		u = &models.User{ID: primitive.NewObjectID(), Email: email, Profile: map[string]interface{}{}}
		m.users[email] = u
		res.UpsertedCount = 1
		res.UpsertedID = u.ID
	} else {
		res.MatchedCount = 1
		res.ModifiedCount = 1
	}
	for k, v := range fields {
		switch k {
		case "email":
			u.Email = v.(string)
		case "role":
			u.Role, _ = v.(string)
		default:
			u.Profile[k] = v
		}
	}
	return res, nil
}

func (m *memStore) PromoteAdmin(ctx context.Context, email string) (*models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	res := &models.UpdateResult{Acknowledged: true}
	if u, ok := m.users[email]; ok {
		res.MatchedCount = 1
		if u.Role != models.RoleAdmin {
			u.Role = models.RoleAdmin
			res.ModifiedCount = 1
		}
	}
	return res, nil
}

func (m *memStore) FindBooking(ctx context.Context, treatment, date, patient string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, b := range m.bookings {
		if b.Treatment == treatment && b.Date == date && b.Patient == patient {
			cp := b
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) InsertBooking(ctx context.Context, booking *models.Booking) (*models.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	b := *booking
	b.ID = primitive.NewObjectID()
	m.bookings = append(m.bookings, b)
	return &models.InsertResult{Acknowledged: true, InsertedID: b.ID}, nil
}

func (m *memStore) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(make([]models.Doctor, 0, len(m.doctors)), m.doctors...), m.err
}

func (m *memStore) InsertDoctor(ctx context.Context, doctor *models.Doctor) (*models.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	d := *doctor
	d.ID = primitive.NewObjectID()
	m.doctors = append(m.doctors, d)
	return &models.InsertResult{Acknowledged: true, InsertedID: d.ID}, nil
}

func (m *memStore) DeleteDoctor(ctx context.Context, email string) (*models.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	res := &models.DeleteResult{Acknowledged: true}
	for i, d := range m.doctors {
		if d.Email == email {
			m.doctors = append(m.doctors[:i], m.doctors[i+1:]...)
			res.DeletedCount = 1
			break
		}
	}
	return res, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []models.Booking
}

func (n *recordingNotifier) BookingCreated(b models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, b)
}

// heldLocker refuses every key.
type heldLocker struct{}

func (heldLocker) Acquire(context.Context, string) (func(), bool, error) {
	return nil, false, nil
}

type brokenLocker struct{}

func (brokenLocker) Acquire(context.Context, string) (func(), bool, error) {
	return nil, false, errors.New("redis down")
}
