package attachment

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// maxAppendAttempts bounds how often Create re-allocates an identifier after
// losing the conditional insert to a concurrent append.
const maxAppendAttempts = 4

type Service struct {
	repo       Repository
	summaryCap int
	now        func() time.Time
}

func NewService(repo Repository, summaryCap int) *Service {
	if summaryCap <= 0 {
		summaryCap = DefaultSummaryCap
	}
	return &Service{repo: repo, summaryCap: summaryCap, now: time.Now}
}

// SummaryCap reports the configured recency cap of summary reads.
func (s *Service) SummaryCap() int { return s.summaryCap }

// Create builds and appends a new record to one category of a patient's
// store. Identifier uniqueness is enforced by the repository's conditional
// insert; a lost race re-draws against a fresh snapshot.
func (s *Service) Create(ctx context.Context, uhid int64, category Category, displayName, comment, fileRef string) (*Record, error) {
	if _, ok := GroupOf(category); !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		current, err := s.repo.ListCategory(ctx, uhid, category)
		if err != nil {
			return nil, err
		}
		existing := make(map[string]struct{}, len(current))
		for _, r := range current {
			existing[r.ID] = struct{}{}
		}

		rec, err := NewRecord(existing, fileRef, displayName, comment, s.now())
		if err != nil {
			return nil, err
		}

		err = s.repo.AppendRecord(ctx, uhid, category, rec)
		if err == nil {
			return &rec, nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			return nil, err
		}
	}
	return nil, ErrConflict
}

// Summary assembles the cross-category patient overview: for every category
// of every group, up to summaryCap records, newest first.
func (s *Service) Summary(ctx context.Context, uhid int64) (map[Category][]Record, error) {
	out := make(map[Category][]Record)
	for _, g := range Groups() {
		doc, err := s.repo.GetStore(ctx, uhid, g)
		if err != nil {
			return nil, err
		}
		for _, cat := range Categories(g) {
			out[cat] = Recent(doc.Categories[cat], s.summaryCap)
		}
	}
	return out, nil
}

// List returns every record of one category, newest first, uncapped.
func (s *Service) List(ctx context.Context, uhid int64, category Category) ([]Record, error) {
	records, err := s.repo.ListCategory(ctx, uhid, category)
	if err != nil {
		return nil, err
	}
	return Recent(records, len(records)), nil
}

// Get resolves a single record of one category by its identifier.
func (s *Service) Get(ctx context.Context, uhid int64, category Category, id string) (*Record, error) {
	records, err := s.repo.ListCategory(ctx, uhid, category)
	if err != nil {
		return nil, err
	}
	return Find(records, id)
}
