package repository

import (
	"context"
	"database/sql"
)

// Overview holds the headline counts shown on the management
// dashboard.
type Overview struct {
	TotalApplicants     uint64
	TotalAdmissions     uint64
	ConfirmedAdmissions uint64
	PendingAdmissions   uint64
	TotalSeats          uint64
	FilledSeats         uint64
	PendingFees         uint64
	PendingDocuments    uint64
}

// ProgramSummary aggregates seats and admissions per program.
type ProgramSummary struct {
	ProgramID   uint64 // programs.id
	ProgramName string // programs.name
	Intake      uint64 // programs.intake
	TotalSeats  uint64 // SUM(quotas.total_seats)
	FilledSeats uint64 // SUM(quotas.filled_seats)
	Confirmed   uint64 // confirmed admissions
}

// QuotaStatus is the per-quota seat position for one program.
type QuotaStatus struct {
	QuotaID        uint64 // quotas.id
	QuotaName      string // quotas.quota_name
	ModeName       string // admission_modes.name
	TotalSeats     uint64 // quotas.total_seats
	FilledSeats    uint64 // quotas.filled_seats
	AvailableSeats uint64 // total - filled
}

// DashboardRepo computes read-only aggregates for the dashboard
// endpoints.
type DashboardRepo struct {
	db *sql.DB
}

func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{db: db} }

// GetOverview returns the headline counters in one round trip per
// table.
func (r *DashboardRepo) GetOverview(ctx context.Context) (*Overview, error) {
	var o Overview
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(fee_status = 'Pending'), 0),
       COALESCE(SUM(document_status <> 'Verified'), 0)
FROM applicants`).Scan(&o.TotalApplicants, &o.PendingFees, &o.PendingDocuments)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(status = 'CONFIRMED'), 0),
       COALESCE(SUM(status = 'ALLOCATED'), 0)
FROM admissions`).Scan(&o.TotalAdmissions, &o.ConfirmedAdmissions, &o.PendingAdmissions)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(total_seats), 0), COALESCE(SUM(filled_seats), 0)
FROM quotas`).Scan(&o.TotalSeats, &o.FilledSeats)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListProgramSummaries returns the per-program seat and admission
// position, ordered by program name.
func (r *DashboardRepo) ListProgramSummaries(ctx context.Context) ([]ProgramSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT p.id, p.name, p.intake,
       COALESCE(SUM(q.total_seats), 0),
       COALESCE(SUM(q.filled_seats), 0),
       (SELECT COUNT(*) FROM admissions a WHERE a.program_id = p.id AND a.status = 'CONFIRMED')
FROM programs p
LEFT JOIN quotas q ON q.program_id = p.id
GROUP BY p.id, p.name, p.intake
ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProgramSummary
	for rows.Next() {
		var s ProgramSummary
		if err := rows.Scan(&s.ProgramID, &s.ProgramName, &s.Intake,
			&s.TotalSeats, &s.FilledSeats, &s.Confirmed); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListQuotaStatus returns the seat position of every quota under one
// program. Returns ErrNotFound when the program does not exist.
func (r *DashboardRepo) ListQuotaStatus(ctx context.Context, programID uint64) ([]QuotaStatus, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM programs WHERE id = ?)`, programID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT q.id, q.quota_name, m.name,
       q.total_seats, q.filled_seats, q.total_seats - q.filled_seats
FROM quotas q
JOIN admission_modes m ON m.id = q.admission_mode_id
WHERE q.program_id = ?
ORDER BY q.id`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QuotaStatus
	for rows.Next() {
		var s QuotaStatus
		if err := rows.Scan(&s.QuotaID, &s.QuotaName, &s.ModeName,
			&s.TotalSeats, &s.FilledSeats, &s.AvailableSeats); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
