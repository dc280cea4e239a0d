package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const userCols = `id, name, email, phone, password_hash, role,
	is_phone_verified, is_email_verified, otp_code, otp_expiry,
	date_of_birth, gender, address, emergency_contact, medical_history,
	allergies, medications, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
		&u.IsPhoneVerified, &u.IsEmailVerified, &u.OTPCode, &u.OTPExpiry,
		&u.Profile.DateOfBirth, &u.Profile.Gender, &u.Profile.Address,
		&u.Profile.EmergencyContact, &u.Profile.MedicalHistory,
		&u.Profile.Allergies, &u.Profile.Medications, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	if u.Role == "" {
		u.Role = RolePatient
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, password_hash, role,
			is_phone_verified, is_email_verified, otp_code, otp_expiry)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role,
		u.IsPhoneVerified, u.IsEmailVerified, u.OTPCode, u.OTPExpiry)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *repoPG) GetByPhone(ctx context.Context, phone string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE phone = $1`, phone))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

// UpsertChallenge is a single INSERT ... ON CONFLICT so two concurrent
// requests for the same phone cannot create duplicate identities; the
// uniqueness constraint arbitrates and the loser still lands on the same row.
// The update arm refuses verified rows, which surfaces as no row returned.
// xmax = 0 distinguishes a fresh insert from an updated row.
func (r *repoPG) UpsertChallenge(ctx context.Context, ch ChallengeUpsert) (*User, bool, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, phone, email, password_hash, role, otp_code, otp_expiry)
		VALUES ($1, COALESCE(NULLIF($2,''), '`+PlaceholderName+`'), $3, $4, $5, 'patient', $6, $7)
		ON CONFLICT (phone) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, '`+PlaceholderName+`'), users.name),
			email = COALESCE(EXCLUDED.email, users.email),
			password_hash = COALESCE(EXCLUDED.password_hash, users.password_hash),
			otp_code = EXCLUDED.otp_code,
			otp_expiry = EXCLUDED.otp_expiry,
			updated_at = NOW()
		WHERE users.is_phone_verified = FALSE
		RETURNING `+userCols+`, (xmax = 0) AS created`,
		uuid.New(), ch.Name, ch.Phone, ch.Email, ch.PasswordHash, ch.OTPCode, ch.OTPExpiry)

	var u User
	var created bool
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
		&u.IsPhoneVerified, &u.IsEmailVerified, &u.OTPCode, &u.OTPExpiry,
		&u.Profile.DateOfBirth, &u.Profile.Gender, &u.Profile.Address,
		&u.Profile.EmergencyContact, &u.Profile.MedicalHistory,
		&u.Profile.Allergies, &u.Profile.Medications, &u.CreatedAt, &u.UpdatedAt,
		&created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, ErrPhoneTaken
	}
	if err != nil {
		return nil, false, err
	}
	return &u, created, nil
}

func (r *repoPG) ConsumeChallenge(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET is_phone_verified = TRUE, otp_code = NULL, otp_expiry = NULL, updated_at = NOW()
		WHERE id = $1`, id)
	return err
}

func (r *repoPG) Update(ctx context.Context, u *User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET name=$2, email=$3, phone=$4,
			is_phone_verified=$5, is_email_verified=$6,
			date_of_birth=$7, gender=$8, address=$9, emergency_contact=$10,
			medical_history=$11, allergies=$12, medications=$13, updated_at=NOW()
		WHERE id = $1`,
		u.ID, u.Name, u.Email, u.Phone,
		u.IsPhoneVerified, u.IsEmailVerified,
		u.Profile.DateOfBirth, u.Profile.Gender, u.Profile.Address,
		u.Profile.EmergencyContact, u.Profile.MedicalHistory,
		u.Profile.Allergies, u.Profile.Medications)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *repoPG) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
		email, excludeID).Scan(&taken)
	return taken, err
}

func (r *repoPG) PhoneTaken(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE phone = $1 AND id <> $2)`,
		phone, excludeID).Scan(&taken)
	return taken, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
