package patient

import (
	"context"
	"errors"
	"fmt"
)

// StoreSeeder creates the three empty attachment group stores a freshly
// registered patient owns. Satisfied by attachment.Repository.
type StoreSeeder interface {
	CreateStores(ctx context.Context, uhid int64, name, email string) error
}

// TxRunner executes fn atomically; a nil runner degrades to sequential
// writes, which registration tolerates (stores are seeded idempotently).
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	repo   Repository
	stores StoreSeeder
	tx     TxRunner
}

func NewService(repo Repository, stores StoreSeeder, tx TxRunner) *Service {
	return &Service{repo: repo, stores: stores, tx: tx}
}

// Register creates the patient and seeds one empty attachment store per
// group. A registered patient therefore always owns all three stores.
func (s *Service) Register(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}

	create := func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		return s.stores.CreateStores(ctx, p.UHID, p.Name, p.Email)
	}
	if s.tx != nil {
		return s.tx.RunInTx(ctx, create)
	}
	return create(ctx)
}

// Get resolves a patient by uhid.
func (s *Service) Get(ctx context.Context, uhid int64) (*Patient, error) {
	return s.repo.GetByUHID(ctx, uhid)
}

// Exists reports whether a patient is registered. Storage failures
// propagate; they are never read as "unknown patient".
func (s *Service) Exists(ctx context.Context, uhid int64) (bool, error) {
	_, err := s.repo.GetByUHID(ctx, uhid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns a page of registered patients.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func validate(p *Patient) error {
	switch {
	case p.UHID <= 0:
		return fmt.Errorf("%w: uhid is required", ErrValidation)
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case p.Email == "":
		return fmt.Errorf("%w: email is required", ErrValidation)
	case p.Contact == "":
		return fmt.Errorf("%w: contact is required", ErrValidation)
	case p.Country == "":
		return fmt.Errorf("%w: country is required", ErrValidation)
	case p.CountryCode == "":
		return fmt.Errorf("%w: country_code is required", ErrValidation)
	}
	return nil
}
