package model

// Quota is a capacity-bounded bucket of seats for one admission mode
// within one program. FilledSeats is mutated only by the allocation
// engine, exactly once per successful allocation, under an exclusive
// row lock; it is never decremented because no seat-release operation
// exists. Invariant: 0 <= FilledSeats <= TotalSeats.
//
// Fields:
//  ID              – primary key identifier.
//  ProgramID       – program the quota belongs to.
//  AdmissionModeID – admission channel the quota serves.
//  Name            – human readable quota label.
//  TotalSeats      – capacity of the quota.
//  FilledSeats     – seats consumed so far.
type Quota struct {
	ID              uint64 // quotas.id
	ProgramID       uint64 // quotas.program_id
	AdmissionModeID uint64 // quotas.admission_mode_id
	Name            string // quotas.quota_name
	TotalSeats      uint32 // quotas.total_seats
	FilledSeats     uint32 // quotas.filled_seats
	CreatedAt       string // quotas.created_at
}
