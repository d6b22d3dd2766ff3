package allocation

import (
	"context"
	"time"
)

// Coordinator executes the two engine operations against a Store.
// Each operation runs inside one transaction; any failure before
// commit rolls the transaction back in full, so no partial
// insert-without-increment or increment-without-insert is ever
// observable.
type Coordinator struct {
	store Store
}

// NewCoordinator returns a Coordinator bound to the given store.
func NewCoordinator(store Store) *Coordinator {
	if store == nil {
		panic("nil store passed to NewCoordinator")
	}
	return &Coordinator{store: store}
}

// AllocateRequest carries the inputs for a seat allocation. The
// allotment number is an optional external counselling reference.
type AllocateRequest struct {
	ApplicantID     uint64
	ProgramID       uint64
	QuotaID         uint64
	AllotmentNumber *string
}

// Allocate reserves one seat of the target quota for the applicant
// and returns the new admission's ID. The quota row is exclusively
// locked for the whole transaction: the capacity check happens after
// the lock is held, never before, so N concurrent allocations against
// K remaining seats yield at most K successes and the rest fail with
// ErrQuotaFull. Ordering among the winners is whatever the lock
// grants; there is no fairness guarantee.
func (c *Coordinator) Allocate(ctx context.Context, req AllocateRequest) (uint64, error) {
	if req.ApplicantID == 0 || req.ProgramID == 0 || req.QuotaID == 0 {
		return 0, ErrValidation
	}
	tx, err := c.store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	quota, err := tx.QuotaForUpdate(ctx, req.QuotaID)
	if err != nil {
		return 0, err
	}
	if quota.FilledSeats >= quota.TotalSeats {
		return 0, ErrQuotaFull
	}
	exists, err := tx.AdmissionExistsForApplicant(ctx, req.ApplicantID)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrDuplicateAdmission
	}

	adm := &Admission{
		ApplicantID:     req.ApplicantID,
		ProgramID:       req.ProgramID,
		QuotaID:         req.QuotaID,
		AllotmentNumber: req.AllotmentNumber,
		Status:          StatusAllocated,
	}
	if err := tx.InsertAdmission(ctx, adm); err != nil {
		return 0, err
	}
	if err := tx.IncrementFilledSeats(ctx, req.QuotaID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return adm.ID, nil
}

// Confirm issues the permanent admission number for an allocated,
// fee-paid admission and returns it. The admission row is exclusively
// locked while the per-program confirmed count is taken and the
// number written, so two concurrent confirmations for the same
// program cannot compute the same sequence. Repeating a successful
// Confirm fails with ErrAlreadyConfirmed and leaves the stored number
// unchanged.
func (c *Coordinator) Confirm(ctx context.Context, admissionID uint64) (string, error) {
	if admissionID == 0 {
		return "", ErrValidation
	}
	tx, err := c.store.Begin(ctx)
	if err != nil {
		return "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cx, err := tx.AdmissionForUpdate(ctx, admissionID)
	if err != nil {
		return "", err
	}
	if cx.FeeStatus != FeeStatusPaid {
		return "", ErrFeeNotPaid
	}
	if cx.Status == StatusConfirmed || cx.AdmissionNumber != nil {
		return "", ErrAlreadyConfirmed
	}

	confirmed, err := tx.CountConfirmed(ctx, cx.ProgramID)
	if err != nil {
		return "", err
	}
	number := FormatAdmissionNumber(cx.Year, cx.CourseCode, cx.ProgramCode, cx.ModeCode, confirmed+1)

	if err := tx.MarkConfirmed(ctx, admissionID, number, time.Now().UTC()); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	committed = true
	return number, nil
}
