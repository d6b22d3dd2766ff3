package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uniadmit/admission-intake/internal/model"
)

// ErrIntakeExceeded is returned when creating a quota would push the
// sum of the program's quota seats past its sanctioned intake.
var ErrIntakeExceeded = errors.New("quota exceeds remaining program intake")

// QuotaDetail is a quota joined with its admission-mode name.
type QuotaDetail struct {
	model.Quota
	ModeName       string `json:"mode_name"`
	AvailableSeats uint32 `json:"available_seats"`
}

// QuotaRepo provides persistence for quotas. Only the quota's
// definition is managed here; filled_seats is owned by the
// allocation engine.
type QuotaRepo struct {
	db *sql.DB
}

// NewQuotaRepo constructs a QuotaRepo with the given DB handle.
func NewQuotaRepo(db *sql.DB) *QuotaRepo { return &QuotaRepo{db: db} }

// Create inserts a quota after verifying, inside one transaction with
// the program row locked, that the program's quotas would not exceed
// its intake. On ErrIntakeExceeded the returned count is how many
// seats remain assignable. Returns ErrNotFound when the program does
// not exist.
func (r *QuotaRepo) Create(ctx context.Context, q *model.Quota) (uint32, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the program row so two concurrent quota creations cannot
	// both pass the intake check.
	var intake uint32
	err = tx.QueryRowContext(ctx, `SELECT intake FROM programs WHERE id = ? FOR UPDATE`, q.ProgramID).Scan(&intake)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	var assigned uint32
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_seats), 0) FROM quotas WHERE program_id = ?`, q.ProgramID).Scan(&assigned)
	if err != nil {
		return 0, err
	}

	available := uint32(0)
	if intake > assigned {
		available = intake - assigned
	}
	if q.TotalSeats > available {
		return available, ErrIntakeExceeded
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO quotas (program_id, admission_mode_id, quota_name, total_seats) VALUES (?, ?, ?, ?)`,
		q.ProgramID, q.AdmissionModeID, q.Name, q.TotalSeats)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	q.ID = uint64(id)

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return available - q.TotalSeats, nil
}

const quotaSelect = `SELECT q.id, q.program_id, q.admission_mode_id, q.quota_name,
                            q.total_seats, q.filled_seats, q.created_at, am.name
                     FROM quotas q
                     JOIN admission_modes am ON q.admission_mode_id = am.id`

// ListByProgram returns all quotas of one program with mode names
// and derived availability.
func (r *QuotaRepo) ListByProgram(ctx context.Context, programID uint64) ([]QuotaDetail, error) {
	rows, err := r.db.QueryContext(ctx, quotaSelect+` WHERE q.program_id = ? ORDER BY am.name`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]QuotaDetail, 0)
	for rows.Next() {
		var d QuotaDetail
		if err := rows.Scan(&d.ID, &d.ProgramID, &d.AdmissionModeID, &d.Name,
			&d.TotalSeats, &d.FilledSeats, &d.CreatedAt, &d.ModeName); err != nil {
			return nil, err
		}
		d.AvailableSeats = d.TotalSeats - d.FilledSeats
		items = append(items, d)
	}
	return items, rows.Err()
}

// GetByID returns one quota with its mode name. Returns ErrNotFound
// when no such quota exists.
func (r *QuotaRepo) GetByID(ctx context.Context, id uint64) (*QuotaDetail, error) {
	var d QuotaDetail
	err := r.db.QueryRowContext(ctx, quotaSelect+` WHERE q.id = ?`, id).Scan(
		&d.ID, &d.ProgramID, &d.AdmissionModeID, &d.Name,
		&d.TotalSeats, &d.FilledSeats, &d.CreatedAt, &d.ModeName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d.AvailableSeats = d.TotalSeats - d.FilledSeats
	return &d, nil
}
