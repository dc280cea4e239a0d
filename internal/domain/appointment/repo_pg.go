package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `a.id, a.doctor_id, a.patient_id, a.scheduled_at, a.reason,
	a.status, a.created_at, a.updated_at,
	d.id, d.specialty, du.id, du.name, du.email,
	p.id, p.name, p.email`

const apptFrom = ` FROM appointments a
	JOIN doctors d ON d.id = a.doctor_id
	JOIN users du ON du.id = d.user_id
	JOIN users p ON p.id = a.patient_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var doc DoctorInfo
	var pat Party
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.ScheduledAt, &a.Reason,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
		&doc.ID, &doc.Specialty, &doc.User.ID, &doc.User.Name, &doc.User.Email,
		&pat.ID, &pat.Name, &pat.Email)
	if err != nil {
		return nil, err
	}
	a.Doctor = &doc
	a.Patient = &pat
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	if a.Status == "" {
		a.Status = StatusPending
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, doctor_id, patient_id, scheduled_at, reason, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.DoctorID, a.PatientID, a.ScheduledAt, a.Reason, a.Status)
	return err
}

func (r *repoPG) List(ctx context.Context, f Filter) ([]Appointment, error) {
	query := `SELECT ` + apptCols + apptFrom
	args := []interface{}{}
	where := ""
	if f.PatientID != nil {
		args = append(args, *f.PatientID)
		where = fmt.Sprintf(" WHERE a.patient_id = $%d", len(args))
	}
	if f.DoctorID != nil {
		args = append(args, *f.DoctorID)
		clause := "WHERE"
		if where != "" {
			clause = "AND"
		}
		where += fmt.Sprintf(" %s a.doctor_id = $%d", clause, len(args))
	}
	query += where + ` ORDER BY a.scheduled_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+apptFrom+` WHERE a.id = $1`, id))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return err
}
