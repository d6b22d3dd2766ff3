package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uniadmit/admission-intake/internal/model"
)

// DocumentDetail is a stored document with the owning applicant's
// application number for list views.
type DocumentDetail struct {
	model.Document
	ApplicationNumber string `json:"application_number"`
}

// DocumentRepo stores uploaded document records and their
// verification state.
type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo { return &DocumentRepo{db: db} }

// Create records an uploaded document in PENDING state and returns
// its id. Returns ErrNotFound when the applicant does not exist.
func (r *DocumentRepo) Create(ctx context.Context, applicantID uint64, docType, filePath string) (uint64, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM applicants WHERE id = ?)`, applicantID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO documents
	           (applicant_id, document_type, file_path, verification_status)
	           VALUES (?, ?, ?, 'PENDING')`,
		applicantID, docType, filePath)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const documentSelect = `
SELECT d.id, d.applicant_id, ap.application_number,
       d.document_type, d.file_path, d.upload_date,
       d.verification_status, d.verification_date, d.verified_by,
       d.rejection_reason, d.rejection_date, d.rejected_by
FROM documents d
JOIN applicants ap ON ap.id = d.applicant_id`

func scanDocumentDetail(row interface{ Scan(...any) error }, d *DocumentDetail) error {
	return row.Scan(&d.ID, &d.ApplicantID, &d.ApplicationNumber,
		&d.DocumentType, &d.FilePath, &d.UploadDate,
		&d.VerificationStatus, &d.VerificationDate, &d.VerifiedBy,
		&d.RejectionReason, &d.RejectionDate, &d.RejectedBy)
}

// GetByID returns one document.
func (r *DocumentRepo) GetByID(ctx context.Context, id uint64) (*DocumentDetail, error) {
	var d DocumentDetail
	err := scanDocumentDetail(r.db.QueryRowContext(ctx, documentSelect+` WHERE d.id = ?`, id), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByApplicant returns all documents uploaded for one applicant.
func (r *DocumentRepo) ListByApplicant(ctx context.Context, applicantID uint64) ([]DocumentDetail, error) {
	return r.queryDocuments(ctx,
		documentSelect+` WHERE d.applicant_id = ? ORDER BY d.upload_date DESC`, applicantID)
}

// ListPending returns documents awaiting verification, oldest first
// so officers work the backlog in order.
func (r *DocumentRepo) ListPending(ctx context.Context) ([]DocumentDetail, error) {
	return r.queryDocuments(ctx,
		documentSelect+` WHERE d.verification_status = 'PENDING' ORDER BY d.upload_date ASC`)
}

// Verify marks a document VERIFIED, recording who verified it. When
// every document of the applicant is verified the applicant's
// document_status flips to Verified as well.
func (r *DocumentRepo) Verify(ctx context.Context, id, verifierID uint64) error {
	return r.setStatus(ctx, id, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE documents
		           SET verification_status = 'VERIFIED', verification_date = NOW(), verified_by = ?
		           WHERE id = ?`, verifierID, id)
		return err
	})
}

// Reject marks a document REJECTED with a reason, recording who
// rejected it.
func (r *DocumentRepo) Reject(ctx context.Context, id, rejecterID uint64, reason string) error {
	return r.setStatus(ctx, id, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE documents
		           SET verification_status = 'REJECTED', rejection_reason = ?, rejection_date = NOW(), rejected_by = ?
		           WHERE id = ?`, reason, rejecterID, id)
		return err
	})
}

// setStatus runs the document update inside a transaction with the
// document row locked, then recomputes the applicant's aggregate
// document_status.
func (r *DocumentRepo) setStatus(ctx context.Context, id uint64, update func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var applicantID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT applicant_id FROM documents WHERE id = ? FOR UPDATE`, id).Scan(&applicantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := update(tx); err != nil {
		return err
	}

	var unverified uint64
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE applicant_id = ? AND verification_status <> 'VERIFIED'`,
		applicantID).Scan(&unverified)
	if err != nil {
		return err
	}
	applicantStatus := model.DocStatusSubmitted
	if unverified == 0 {
		applicantStatus = model.DocStatusVerified
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE applicants SET document_status = ? WHERE id = ?`, applicantStatus, applicantID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *DocumentRepo) queryDocuments(ctx context.Context, q string, args ...any) ([]DocumentDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]DocumentDetail, 0)
	for rows.Next() {
		var d DocumentDetail
		if err := scanDocumentDetail(rows, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
