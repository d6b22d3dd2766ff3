package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// AdmissionDetail is an admission row joined with the applicant and
// program it belongs to, shaped for list and detail responses. The
// allocation package owns the write path; this repo only reads.
type AdmissionDetail struct {
	ID               uint64     // admissions.id
	ApplicantID      uint64     // admissions.applicant_id
	ApplicationNumber string    // applicants.application_number
	ApplicantName    string     // applicants first + last name
	ApplicantEmail   string     // applicants.email
	FeeStatus        string     // applicants.fee_status
	ProgramID        uint64     // admissions.program_id
	ProgramName      string     // programs.name
	QuotaID          uint64     // admissions.quota_id
	QuotaName        string     // quotas.quota_name
	ModeName         string     // admission_modes.name
	Status           string     // admissions.status
	AdmissionNumber  *string    // admissions.admission_number
	AllotmentNumber  *string    // admissions.allotment_number
	ConfirmationDate *time.Time // admissions.confirmation_date
	CreatedAt        time.Time  // admissions.created_at
}

// AdmissionRepo reads admissions for the API. It does not allocate or
// confirm; those paths go through the allocation coordinator so the
// locking stays in one place.
type AdmissionRepo struct {
	db *sql.DB
}

func NewAdmissionRepo(db *sql.DB) *AdmissionRepo { return &AdmissionRepo{db: db} }

const admissionSelect = `
SELECT a.id, a.applicant_id, ap.application_number,
       CONCAT(ap.first_name, ' ', ap.last_name), ap.email, ap.fee_status,
       a.program_id, p.name,
       a.quota_id, q.quota_name, m.name,
       a.status, a.admission_number, a.allotment_number,
       a.confirmation_date, a.created_at
FROM admissions a
JOIN applicants ap ON ap.id = a.applicant_id
JOIN programs p ON p.id = a.program_id
JOIN quotas q ON q.id = a.quota_id
JOIN admission_modes m ON m.id = q.admission_mode_id`

func scanAdmissionDetail(row interface{ Scan(...any) error }, d *AdmissionDetail) error {
	return row.Scan(
		&d.ID, &d.ApplicantID, &d.ApplicationNumber,
		&d.ApplicantName, &d.ApplicantEmail, &d.FeeStatus,
		&d.ProgramID, &d.ProgramName,
		&d.QuotaID, &d.QuotaName, &d.ModeName,
		&d.Status, &d.AdmissionNumber, &d.AllotmentNumber,
		&d.ConfirmationDate, &d.CreatedAt,
	)
}

// GetByID returns one admission with its joined detail.
func (r *AdmissionRepo) GetByID(ctx context.Context, id uint64) (*AdmissionDetail, error) {
	var d AdmissionDetail
	err := scanAdmissionDetail(r.db.QueryRowContext(ctx, admissionSelect+` WHERE a.id = ?`, id), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns all admissions, newest first.
func (r *AdmissionRepo) List(ctx context.Context) ([]AdmissionDetail, error) {
	return r.queryDetails(ctx, admissionSelect+` ORDER BY a.created_at DESC`)
}

// ListConfirmed returns confirmed admissions ordered by when they
// were confirmed.
func (r *AdmissionRepo) ListConfirmed(ctx context.Context) ([]AdmissionDetail, error) {
	return r.queryDetails(ctx,
		admissionSelect+` WHERE a.status = 'CONFIRMED' ORDER BY a.confirmation_date DESC`)
}

// ListPending returns admissions still waiting for confirmation.
func (r *AdmissionRepo) ListPending(ctx context.Context) ([]AdmissionDetail, error) {
	return r.queryDetails(ctx,
		admissionSelect+` WHERE a.status = 'ALLOCATED' ORDER BY a.created_at ASC`)
}

// ListByProgram returns admissions for one program, newest first.
func (r *AdmissionRepo) ListByProgram(ctx context.Context, programID uint64) ([]AdmissionDetail, error) {
	return r.queryDetails(ctx,
		admissionSelect+` WHERE a.program_id = ? ORDER BY a.created_at DESC`, programID)
}

func (r *AdmissionRepo) queryDetails(ctx context.Context, q string, args ...any) ([]AdmissionDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AdmissionDetail
	for rows.Next() {
		var d AdmissionDetail
		if err := scanAdmissionDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
