package sleepstudy

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const studyCols = `s.id, s.patient_id, s.doctor_id, s.scheduled_date, s.status,
	s.type, s.notes, s.results, s.created_at, s.updated_at,
	p.id, p.name, p.email, p.phone,
	d.id, d.specialty, du.id, du.name, du.email`

const studyFrom = ` FROM sleep_studies s
	JOIN users p ON p.id = s.patient_id
	JOIN doctors d ON d.id = s.doctor_id
	JOIN users du ON du.id = d.user_id`

func scanStudy(row pgx.Row) (*SleepStudy, error) {
	var s SleepStudy
	var pat Party
	var doc DoctorInfo
	err := row.Scan(&s.ID, &s.PatientID, &s.DoctorID, &s.ScheduledDate, &s.Status,
		&s.Type, &s.Notes, &s.Results, &s.CreatedAt, &s.UpdatedAt,
		&pat.ID, &pat.Name, &pat.Email, &pat.Phone,
		&doc.ID, &doc.Specialty, &doc.User.ID, &doc.User.Name, &doc.User.Email)
	if err != nil {
		return nil, err
	}
	s.Patient = &pat
	s.Doctor = &doc
	s.Documents = []Document{}
	return &s, nil
}

func (r *repoPG) Create(ctx context.Context, s *SleepStudy) error {
	s.ID = uuid.New()
	if s.Status == "" {
		s.Status = StatusRequested
	}
	if s.Type == "" {
		s.Type = TypeInLab
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sleep_studies (id, patient_id, doctor_id, scheduled_date, status, type, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.PatientID, s.DoctorID, s.ScheduledDate, s.Status, s.Type, s.Notes)
	return err
}

func (r *repoPG) List(ctx context.Context, f Filter) ([]SleepStudy, error) {
	query := `SELECT ` + studyCols + studyFrom
	args := []interface{}{}
	where := ""
	if f.PatientID != nil {
		args = append(args, *f.PatientID)
		where = fmt.Sprintf(" WHERE s.patient_id = $%d", len(args))
	}
	if f.DoctorID != nil {
		args = append(args, *f.DoctorID)
		clause := "WHERE"
		if where != "" {
			clause = "AND"
		}
		where += fmt.Sprintf(" %s s.doctor_id = $%d", clause, len(args))
	}
	query += where + ` ORDER BY s.scheduled_date ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	studies := []SleepStudy{}
	for rows.Next() {
		s, err := scanStudy(rows)
		if err != nil {
			return nil, err
		}
		studies = append(studies, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range studies {
		docs, err := r.documents(ctx, studies[i].ID)
		if err != nil {
			return nil, err
		}
		studies[i].Documents = docs
	}
	return studies, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*SleepStudy, error) {
	s, err := scanStudy(r.pool.QueryRow(ctx, `SELECT `+studyCols+studyFrom+` WHERE s.id = $1`, id))
	if err != nil {
		return nil, err
	}
	s.Documents, err = r.documents(ctx, s.ID)
	return s, err
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sleep_studies SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) AddDocument(ctx context.Context, d *Document) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sleep_study_documents (id, study_id, filename, original_name, path)
		VALUES ($1,$2,$3,$4,$5)`,
		d.ID, d.StudyID, d.Filename, d.OriginalName, d.Path)
	return err
}

func (r *repoPG) documents(ctx context.Context, studyID uuid.UUID) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, study_id, filename, original_name, path, uploaded_at
		FROM sleep_study_documents WHERE study_id = $1 ORDER BY uploaded_at`, studyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.StudyID, &d.Filename, &d.OriginalName, &d.Path, &d.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
