package model

import "database/sql"

// Document verification states.
const (
	DocumentPending  = "PENDING"
	DocumentVerified = "VERIFIED"
	DocumentRejected = "REJECTED"
)

// Document is the bookkeeping record for a file an applicant
// submitted. Only the storage path is tracked here; file transport
// and storage are handled elsewhere.
type Document struct {
	ID                 uint64         // documents.id
	ApplicantID        uint64         // documents.applicant_id
	DocumentType       string         // documents.document_type
	FilePath           string         // documents.file_path
	UploadDate         string         // documents.upload_date
	VerificationStatus string         // documents.verification_status
	VerificationDate   sql.NullString // documents.verification_date (nullable)
	VerifiedBy         sql.NullInt64  // documents.verified_by (nullable)
	RejectionReason    sql.NullString // documents.rejection_reason (nullable)
	RejectionDate      sql.NullString // documents.rejection_date (nullable)
	RejectedBy         sql.NullInt64  // documents.rejected_by (nullable)
}
