package content

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) Create(ctx context.Context, it *Item) error {
	it.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO health_content (id, category, title, description, duration)
		VALUES ($1,$2,$3,$4,$5)`,
		it.ID, it.Category, it.Title, it.Description, it.Duration)
	return err
}

func (r *repoPG) List(ctx context.Context, category string, limit, offset int) ([]Item, error) {
	query := `SELECT id, category, title, description, duration, created_at, updated_at
		FROM health_content`
	args := []interface{}{}
	if category != "" {
		args = append(args, category)
		query += ` WHERE category = $1`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Category, &it.Title, &it.Description,
			&it.Duration, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repoPG) Count(ctx context.Context, category string) (int, error) {
	query := `SELECT COUNT(*) FROM health_content`
	args := []interface{}{}
	if category != "" {
		args = append(args, category)
		query += ` WHERE category = $1`
	}
	var n int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}
