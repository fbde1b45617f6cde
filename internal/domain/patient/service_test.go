package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mocks --

type mockRepo struct {
	items map[int64]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[int64]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if _, ok := m.items[p.UHID]; ok {
		return ErrDuplicateUHID
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.items[p.UHID] = p
	return nil
}

func (m *mockRepo) GetByUHID(_ context.Context, uhid int64) (*Patient, error) {
	p, ok := m.items[uhid]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.items {
		out = append(out, p)
	}
	return out, len(out), nil
}

type mockSeeder struct {
	seeded map[int64]bool
	err    error
}

func (m *mockSeeder) CreateStores(_ context.Context, uhid int64, name, email string) error {
	if m.err != nil {
		return m.err
	}
	if m.seeded == nil {
		m.seeded = make(map[int64]bool)
	}
	m.seeded[uhid] = true
	return nil
}

func validPatient() *Patient {
	return &Patient{
		UHID:        1001,
		Name:        "Asha Rao",
		Email:       "asha@example.com",
		Contact:     "9876543210",
		Country:     "India",
		CountryCode: "+91",
	}
}

// -- Tests --

func TestRegister(t *testing.T) {
	repo := newMockRepo()
	seeder := &mockSeeder{}
	svc := NewService(repo, seeder, nil)

	p := validPatient()
	if err := svc.Register(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected an assigned id")
	}
	if !seeder.seeded[1001] {
		t.Error("expected attachment stores to be seeded")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(newMockRepo(), &mockSeeder{}, nil)

	cases := map[string]func(*Patient){
		"uhid":         func(p *Patient) { p.UHID = 0 },
		"name":         func(p *Patient) { p.Name = "" },
		"email":        func(p *Patient) { p.Email = "" },
		"contact":      func(p *Patient) { p.Contact = "" },
		"country":      func(p *Patient) { p.Country = "" },
		"country_code": func(p *Patient) { p.CountryCode = "" },
	}
	for field, blank := range cases {
		p := validPatient()
		blank(p)
		if err := svc.Register(context.Background(), p); !errors.Is(err, ErrValidation) {
			t.Errorf("missing %s: expected ErrValidation, got %v", field, err)
		}
	}
}

func TestRegister_DuplicateUHID(t *testing.T) {
	svc := NewService(newMockRepo(), &mockSeeder{}, nil)

	if err := svc.Register(context.Background(), validPatient()); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	err := svc.Register(context.Background(), validPatient())
	if !errors.Is(err, ErrDuplicateUHID) {
		t.Errorf("expected ErrDuplicateUHID, got %v", err)
	}
}

func TestRegister_SeederFailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(newMockRepo(), &mockSeeder{err: boom}, nil)

	if err := svc.Register(context.Background(), validPatient()); !errors.Is(err, boom) {
		t.Errorf("expected seeder error, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockSeeder{}, nil)
	svc.Register(context.Background(), validPatient())

	ok, err := svc.Exists(context.Background(), 1001)
	if err != nil || !ok {
		t.Errorf("expected true, got %v %v", ok, err)
	}
	ok, err = svc.Exists(context.Background(), 4040)
	if err != nil || ok {
		t.Errorf("expected false, got %v %v", ok, err)
	}
}

type failingRepo struct{ mockRepo }

func (f *failingRepo) GetByUHID(_ context.Context, _ int64) (*Patient, error) {
	return nil, ErrStorageUnavailable
}

func TestExists_StorageFailurePropagates(t *testing.T) {
	svc := NewService(&failingRepo{}, &mockSeeder{}, nil)

	_, err := svc.Exists(context.Background(), 1001)
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("storage failure must not read as unknown patient, got %v", err)
	}
}
