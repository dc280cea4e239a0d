package doctor

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const doctorCols = `d.id, d.user_id, d.specialty, d.bio, d.availability,
	d.created_at, d.updated_at, u.id, u.name, u.email, u.phone`

const doctorFrom = ` FROM doctors d JOIN users u ON u.id = d.user_id`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var u UserSummary
	err := row.Scan(&d.ID, &d.UserID, &d.Specialty, &d.Bio, &d.Availability,
		&d.CreatedAt, &d.UpdatedAt, &u.ID, &u.Name, &u.Email, &u.Phone)
	if err != nil {
		return nil, err
	}
	d.User = &u
	return &d, nil
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	if d.Availability == nil {
		d.Availability = []Slot{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctors (id, user_id, specialty, bio, availability)
		VALUES ($1,$2,$3,$4,$5)`,
		d.ID, d.UserID, d.Specialty, d.Bio, d.Availability)
	return err
}

func (r *repoPG) List(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+doctorCols+doctorFrom+` ORDER BY u.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doctors := []Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, *d)
	}
	return doctors, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx,
		`SELECT `+doctorCols+doctorFrom+` WHERE d.id = $1`, id))
}

func (r *repoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx,
		`SELECT `+doctorCols+doctorFrom+` WHERE d.user_id = $1`, userID))
}

func (r *repoPG) GetByUserName(ctx context.Context, name string) (*Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx,
		`SELECT `+doctorCols+doctorFrom+` WHERE u.name = $1`, name))
}

func (r *repoPG) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&n)
	return n, err
}
