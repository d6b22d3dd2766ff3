// Package allocation implements the seat allocation and admission
// confirmation engine. It owns the two operations with real
// correctness hazards — consuming quota capacity and issuing
// sequential admission numbers — and keeps them behind a Store
// abstraction so the same coordinator logic runs against MySQL in
// production and against an in-memory store in tests.
package allocation

import (
	"context"
	"errors"
	"time"
)

// Admission lifecycle states as persisted in admissions.status.
const (
	StatusAllocated = "ALLOCATED"
	StatusConfirmed = "CONFIRMED"
)

// FeeStatusPaid is the applicant fee state required before an
// admission may be confirmed.
const FeeStatusPaid = "Paid"

// Sentinel errors returned by coordinators and stores. Handlers map
// these onto HTTP statuses: ErrValidation to 400, the two not-found
// errors to 404 and the business-rule conflicts to 409. Anything
// else is a storage failure and surfaces as 500.
var (
	ErrValidation         = errors.New("missing required fields")
	ErrQuotaNotFound      = errors.New("quota not found")
	ErrQuotaFull          = errors.New("quota full - no seats available")
	ErrDuplicateAdmission = errors.New("applicant already has an admission")
	ErrAdmissionNotFound  = errors.New("admission not found")
	ErrFeeNotPaid         = errors.New("fee not paid")
	ErrAlreadyConfirmed   = errors.New("admission already confirmed")
)

// Quota mirrors the quotas row the allocator locks. FilledSeats is
// read under the row lock so capacity decisions never act on stale
// counts.
type Quota struct {
	ID              uint64
	ProgramID       uint64
	AdmissionModeID uint64
	Name            string
	TotalSeats      uint32
	FilledSeats     uint32
}

// Admission is the engine's view of an admissions row.
type Admission struct {
	ID               uint64
	ApplicantID      uint64
	ProgramID        uint64
	QuotaID          uint64
	AllotmentNumber  *string
	Status           string
	AdmissionNumber  *string
	ConfirmationDate *time.Time
}

// ConfirmContext is the admission row joined with the collaborator
// state the confirmer needs: the applicant's fee status and the
// program context fields consumed by the numbering scheme.
type ConfirmContext struct {
	Admission
	FeeStatus   string
	Year        string
	CourseCode  string
	ProgramCode string
	ModeCode    string
}

// Tx is one storage transaction. Reads acquire exclusive row locks
// where documented so that the lock, not the caller, serializes
// concurrent decisions. Implementations must make Commit apply all
// writes atomically and Rollback discard them completely.
type Tx interface {
	// QuotaForUpdate loads a quota with its row exclusively locked
	// until commit or rollback. Returns ErrQuotaNotFound when no
	// such quota exists.
	QuotaForUpdate(ctx context.Context, quotaID uint64) (*Quota, error)

	// AdmissionExistsForApplicant reports whether any admission row
	// exists for the applicant.
	AdmissionExistsForApplicant(ctx context.Context, applicantID uint64) (bool, error)

	// InsertAdmission writes a new admission in the ALLOCATED state
	// and populates its generated ID. Returns ErrDuplicateAdmission
	// when the applicant already holds an admission; the unique key
	// on applicant_id backstops the exists check for allocations
	// racing on different quotas.
	InsertAdmission(ctx context.Context, a *Admission) error

	// IncrementFilledSeats adds one to the quota's filled_seats.
	IncrementFilledSeats(ctx context.Context, quotaID uint64) error

	// AdmissionForUpdate loads an admission joined with its program
	// context and applicant fee status, with the admission row
	// exclusively locked. Returns ErrAdmissionNotFound when no such
	// admission exists.
	AdmissionForUpdate(ctx context.Context, admissionID uint64) (*ConfirmContext, error)

	// CountConfirmed returns the number of confirmed admissions for
	// the program, taken inside this transaction's lock scope.
	CountConfirmed(ctx context.Context, programID uint64) (uint64, error)

	// MarkConfirmed sets the admission number, CONFIRMED status and
	// confirmation date. Returns ErrAlreadyConfirmed when the row is
	// already confirmed.
	MarkConfirmed(ctx context.Context, admissionID uint64, number string, at time.Time) error

	Commit() error
	Rollback() error
}

// Store opens transactions against the backing storage.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}
