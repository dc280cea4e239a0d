package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const invoiceCols = `i.id, i.patient_id, i.appointment_id, i.sleep_study_id,
	i.items, i.subtotal, i.tax, i.total, i.status, i.payment_method,
	i.payment_date, i.due_date, i.created_at, i.updated_at,
	p.id, p.name, p.email, p.phone`

const invoiceFrom = ` FROM invoices i JOIN users p ON p.id = i.patient_id`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var pat Party
	err := row.Scan(&inv.ID, &inv.PatientID, &inv.AppointmentID, &inv.SleepStudyID,
		&inv.Items, &inv.Subtotal, &inv.Tax, &inv.Total, &inv.Status, &inv.PaymentMethod,
		&inv.PaymentDate, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt,
		&pat.ID, &pat.Name, &pat.Email, &pat.Phone)
	if err != nil {
		return nil, err
	}
	inv.Patient = &pat
	return &inv, nil
}

func (r *repoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	if inv.Status == "" {
		inv.Status = StatusPending
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO invoices (id, patient_id, appointment_id, sleep_study_id,
			items, subtotal, tax, total, status, due_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		inv.ID, inv.PatientID, inv.AppointmentID, inv.SleepStudyID,
		inv.Items, inv.Subtotal, inv.Tax, inv.Total, inv.Status, inv.DueDate)
	return err
}

func (r *repoPG) List(ctx context.Context, patientID *uuid.UUID) ([]Invoice, error) {
	query := `SELECT ` + invoiceCols + invoiceFrom
	args := []interface{}{}
	if patientID != nil {
		args = append(args, *patientID)
		query += ` WHERE i.patient_id = $1`
	}
	query += ` ORDER BY i.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return scanInvoice(r.pool.QueryRow(ctx, `SELECT `+invoiceCols+invoiceFrom+` WHERE i.id = $1`, id))
}

func (r *repoPG) MarkPaid(ctx context.Context, id uuid.UUID, method string) (*Invoice, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices SET status = 'paid', payment_method = $2,
			payment_date = NOW(), updated_at = NOW()
		WHERE id = $1`, id, method)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}
