package model

import "database/sql"

// Fee status values carried by applicants. Admission confirmation is
// gated on FeeStatusPaid.
const (
	FeeStatusPending = "Pending"
	FeeStatusPaid    = "Paid"
)

// Document status values tracked per applicant.
const (
	DocStatusPending   = "Pending"
	DocStatusSubmitted = "Submitted"
	DocStatusVerified  = "Verified"
)

// Applicant is a person who applied for admission. Each applicant
// receives a generated application number at registration and can
// hold at most one admission record.
//
// Fields:
//  ID                – primary key identifier.
//  ApplicationNumber – generated unique reference, e.g. "APP/<uuid>".
//  FirstName         – given name.
//  LastName          – family name.
//  Email             – contact email.
//  PhoneNumber       – 10-digit phone number, optional.
//  Category          – reservation category, optional.
//  DateOfBirth       – date of birth, optional.
//  Gender            – gender, optional.
//  QualifyingExam    – name of the qualifying examination.
//  QualifyingMarks   – marks obtained in the qualifying examination.
//  EntryTypeID       – entry channel the applicant applied under.
//  AdmissionModeID   – admission mode the applicant applied under.
//  ProgramID         – program the applicant applied to.
//  FeeStatus         – Pending or Paid.
//  DocumentStatus    – Pending, Submitted or Verified.
type Applicant struct {
	ID                uint64          // applicants.id
	ApplicationNumber string          // applicants.application_number
	FirstName         string          // applicants.first_name
	LastName          string          // applicants.last_name
	Email             string          // applicants.email
	PhoneNumber       sql.NullString  // applicants.phone_number
	Category          sql.NullString  // applicants.category
	DateOfBirth       sql.NullString  // applicants.date_of_birth
	Gender            sql.NullString  // applicants.gender
	QualifyingExam    sql.NullString  // applicants.qualifying_exam
	QualifyingMarks   sql.NullFloat64 // applicants.qualifying_marks
	EntryTypeID       uint64          // applicants.entry_type_id
	AdmissionModeID   uint64          // applicants.admission_mode_id
	ProgramID         uint64          // applicants.program_id
	FeeStatus         string          // applicants.fee_status
	DocumentStatus    string          // applicants.document_status
	CreatedAt         string          // applicants.created_at
}
