package journal

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Journal, int, error)
	Get(context context.Context, id string) (*Journal, error)
	GetBySlug(context context.Context, slug string) (*Journal, error)
	Create(context context.Context, j *Journal) error
	Update(context context.Context, j *Journal) error
	Delete(context context.Context, id string) error
	IncrementViewCount(context context.Context, id string) error
}
