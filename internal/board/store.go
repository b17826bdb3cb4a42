package board

import "context"

type Repository interface {
	// List returns members ordered by display order. When activeOnly is set,
	// deactivated members are excluded.
	List(context context.Context, activeOnly bool) ([]*Member, error)
	Get(context context.Context, id string) (*Member, error)
	Create(context context.Context, m *Member) error
	Update(context context.Context, m *Member) error
	// Deactivate soft-deletes a member; the row is kept for history.
	Deactivate(context context.Context, id string) error
	// MaxDisplayOrder returns the highest display order within one position
	// group, or zero when the group is empty.
	MaxDisplayOrder(context context.Context, position Position) (int, error)
}
