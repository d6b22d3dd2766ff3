package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/uniadmit/admission-intake/internal/model"
)

// ApplicantDetail is an applicant joined with lookup names for
// display lists.
type ApplicantDetail struct {
	model.Applicant
	ProgramName   string `json:"program_name"`
	AdmissionMode string `json:"admission_mode"`
	EntryType     string `json:"entry_type"`
}

// ApplicantRepo provides persistence for applicants. The fee and
// document status columns are plain record-keeping writes here; the
// allocation engine reads fee_status within its own transaction when
// gating confirmation.
type ApplicantRepo struct {
	db *sql.DB
}

// NewApplicantRepo constructs an ApplicantRepo with the given DB handle.
func NewApplicantRepo(db *sql.DB) *ApplicantRepo { return &ApplicantRepo{db: db} }

// Create inserts an applicant with a generated application number
// and populates ID and ApplicationNumber on the model.
func (r *ApplicantRepo) Create(ctx context.Context, a *model.Applicant) error {
	a.ApplicationNumber = "APP/" + uuid.NewString()
	const q = `INSERT INTO applicants
	           (application_number, first_name, last_name, email, phone_number,
	            category, date_of_birth, gender, qualifying_exam, qualifying_marks,
	            entry_type_id, admission_mode_id, program_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		a.ApplicationNumber, a.FirstName, a.LastName, a.Email, a.PhoneNumber,
		a.Category, a.DateOfBirth, a.Gender, a.QualifyingExam, a.QualifyingMarks,
		a.EntryTypeID, a.AdmissionModeID, a.ProgramID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

const applicantSelect = `SELECT a.id, a.application_number, a.first_name, a.last_name, a.email,
                                a.phone_number, a.category, a.date_of_birth, a.gender,
                                a.qualifying_exam, a.qualifying_marks,
                                a.entry_type_id, a.admission_mode_id, a.program_id,
                                a.fee_status, a.document_status, a.created_at,
                                p.name, am.name, et.name
                         FROM applicants a
                         JOIN programs p ON a.program_id = p.id
                         JOIN admission_modes am ON a.admission_mode_id = am.id
                         JOIN entry_types et ON a.entry_type_id = et.id`

func scanApplicantDetail(row interface{ Scan(...any) error }, d *ApplicantDetail) error {
	return row.Scan(
		&d.ID, &d.ApplicationNumber, &d.FirstName, &d.LastName, &d.Email,
		&d.PhoneNumber, &d.Category, &d.DateOfBirth, &d.Gender,
		&d.QualifyingExam, &d.QualifyingMarks,
		&d.EntryTypeID, &d.AdmissionModeID, &d.ProgramID,
		&d.FeeStatus, &d.DocumentStatus, &d.CreatedAt,
		&d.ProgramName, &d.AdmissionMode, &d.EntryType,
	)
}

func (r *ApplicantRepo) queryDetails(ctx context.Context, q string, args ...any) ([]ApplicantDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]ApplicantDetail, 0)
	for rows.Next() {
		var d ApplicantDetail
		if err := scanApplicantDetail(rows, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// List returns all applicants, newest first.
func (r *ApplicantRepo) List(ctx context.Context) ([]ApplicantDetail, error) {
	return r.queryDetails(ctx, applicantSelect+` ORDER BY a.created_at DESC`)
}

// ListByProgram returns all applicants who applied to one program.
func (r *ApplicantRepo) ListByProgram(ctx context.Context, programID uint64) ([]ApplicantDetail, error) {
	return r.queryDetails(ctx, applicantSelect+` WHERE a.program_id = ? ORDER BY a.created_at DESC`, programID)
}

// ListPendingFee returns applicants whose fee is still pending.
func (r *ApplicantRepo) ListPendingFee(ctx context.Context) ([]ApplicantDetail, error) {
	return r.queryDetails(ctx, applicantSelect+` WHERE a.fee_status = ? ORDER BY a.created_at DESC`,
		model.FeeStatusPending)
}

// ListPendingDocuments returns applicants whose documents are not yet
// verified.
func (r *ApplicantRepo) ListPendingDocuments(ctx context.Context) ([]ApplicantDetail, error) {
	return r.queryDetails(ctx, applicantSelect+` WHERE a.document_status <> ? ORDER BY a.created_at DESC`,
		model.DocStatusVerified)
}

// GetByID returns one applicant. Returns ErrNotFound when no such
// applicant exists.
func (r *ApplicantRepo) GetByID(ctx context.Context, id uint64) (*ApplicantDetail, error) {
	var d ApplicantDetail
	err := scanApplicantDetail(r.db.QueryRowContext(ctx, applicantSelect+` WHERE a.id = ?`, id), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// UpdateFeeStatus sets the fee status. The caller validates the
// value against the allowed set. Returns ErrNotFound when the
// applicant does not exist.
func (r *ApplicantRepo) UpdateFeeStatus(ctx context.Context, id uint64, status string) error {
	return r.updateStatus(ctx, `UPDATE applicants SET fee_status = ? WHERE id = ?`, id, status)
}

// UpdateDocumentStatus sets the document status. Returns ErrNotFound
// when the applicant does not exist.
func (r *ApplicantRepo) UpdateDocumentStatus(ctx context.Context, id uint64, status string) error {
	return r.updateStatus(ctx, `UPDATE applicants SET document_status = ? WHERE id = ?`, id, status)
}

// updateStatus performs a status write after confirming the
// applicant exists. RowsAffected cannot distinguish a missing row
// from an unchanged value, hence the explicit existence check.
func (r *ApplicantRepo) updateStatus(ctx context.Context, q string, id uint64, status string) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM applicants WHERE id = ?)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	_, err := r.db.ExecContext(ctx, q, status, id)
	return err
}
