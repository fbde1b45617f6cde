package patient

import "context"

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByUHID(ctx context.Context, uhid int64) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}
