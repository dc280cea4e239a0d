package content

import "context"

type Repository interface {
	Create(ctx context.Context, it *Item) error
	// List returns a page of items newest first; category "" matches all.
	List(ctx context.Context, category string, limit, offset int) ([]Item, error)
	Count(ctx context.Context, category string) (int, error)
}
