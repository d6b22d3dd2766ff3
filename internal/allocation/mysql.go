package allocation

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// MySQLStore is the production Store backed by MySQL. Row-level
// exclusive locks (SELECT ... FOR UPDATE) provide the serialization
// points: the quotas row for allocation decisions on that quota, the
// admissions row plus its program join for confirmation sequencing.
// Operations touching different quotas or programs proceed fully in
// parallel.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore returns a MySQLStore bound to the given database.
func NewMySQLStore(db *sql.DB) *MySQLStore { return &MySQLStore{db: db} }

// Begin opens a transaction at the connection's default isolation
// level. Read committed or stronger is sufficient because every
// decision is taken under a row lock held until commit.
func (s *MySQLStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &mysqlTx{tx: tx}, nil
}

type mysqlTx struct {
	tx *sql.Tx
}

func (t *mysqlTx) QuotaForUpdate(ctx context.Context, quotaID uint64) (*Quota, error) {
	const q = `SELECT id, program_id, admission_mode_id, quota_name, total_seats, filled_seats
	           FROM quotas WHERE id = ? FOR UPDATE`
	var qt Quota
	err := t.tx.QueryRowContext(ctx, q, quotaID).Scan(
		&qt.ID, &qt.ProgramID, &qt.AdmissionModeID, &qt.Name, &qt.TotalSeats, &qt.FilledSeats,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuotaNotFound
		}
		return nil, err
	}
	return &qt, nil
}

func (t *mysqlTx) AdmissionExistsForApplicant(ctx context.Context, applicantID uint64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM admissions WHERE applicant_id = ?)`
	var exists bool
	if err := t.tx.QueryRowContext(ctx, q, applicantID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (t *mysqlTx) InsertAdmission(ctx context.Context, a *Admission) error {
	const q = `INSERT INTO admissions (applicant_id, program_id, quota_id, allotment_number, status)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q, a.ApplicantID, a.ProgramID, a.QuotaID, a.AllotmentNumber, a.Status)
	if err != nil {
		// MySQL error 1062: duplicate entry on the applicant_id
		// unique key. Two allocations for the same applicant that
		// raced on different quota locks land here.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateAdmission
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

func (t *mysqlTx) IncrementFilledSeats(ctx context.Context, quotaID uint64) error {
	const q = `UPDATE quotas SET filled_seats = filled_seats + 1 WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, quotaID)
	return err
}

func (t *mysqlTx) AdmissionForUpdate(ctx context.Context, admissionID uint64) (*ConfirmContext, error) {
	const q = `SELECT a.id, a.applicant_id, a.program_id, a.quota_id, a.allotment_number,
	                  a.status, a.admission_number, a.confirmation_date,
	                  ap.fee_status, ay.year, ct.code, p.code, am.code
	           FROM admissions a
	           JOIN applicants ap ON a.applicant_id = ap.id
	           JOIN programs p ON a.program_id = p.id
	           JOIN quotas q ON a.quota_id = q.id
	           JOIN admission_modes am ON q.admission_mode_id = am.id
	           JOIN academic_years ay ON p.academic_year_id = ay.id
	           JOIN course_types ct ON p.course_type_id = ct.id
	           WHERE a.id = ? FOR UPDATE`
	var cx ConfirmContext
	var allotment, number sql.NullString
	var confirmedAt sql.NullTime
	err := t.tx.QueryRowContext(ctx, q, admissionID).Scan(
		&cx.ID, &cx.ApplicantID, &cx.ProgramID, &cx.QuotaID, &allotment,
		&cx.Status, &number, &confirmedAt,
		&cx.FeeStatus, &cx.Year, &cx.CourseCode, &cx.ProgramCode, &cx.ModeCode,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdmissionNotFound
		}
		return nil, err
	}
	if allotment.Valid {
		v := allotment.String
		cx.AllotmentNumber = &v
	}
	if number.Valid {
		v := number.String
		cx.AdmissionNumber = &v
	}
	if confirmedAt.Valid {
		v := confirmedAt.Time
		cx.ConfirmationDate = &v
	}
	return &cx, nil
}

func (t *mysqlTx) CountConfirmed(ctx context.Context, programID uint64) (uint64, error) {
	const q = `SELECT COUNT(*) FROM admissions WHERE status = ? AND program_id = ?`
	var n uint64
	if err := t.tx.QueryRowContext(ctx, q, StatusConfirmed, programID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (t *mysqlTx) MarkConfirmed(ctx context.Context, admissionID uint64, number string, at time.Time) error {
	// The status guard makes confirmed rows immutable at the store
	// level, independent of the coordinator's own check.
	const q = `UPDATE admissions SET admission_number = ?, status = ?, confirmation_date = ?
	           WHERE id = ? AND status <> ?`
	res, err := t.tx.ExecContext(ctx, q, number, StatusConfirmed, at, admissionID, StatusConfirmed)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyConfirmed
	}
	return nil
}

func (t *mysqlTx) Commit() error   { return t.tx.Commit() }
func (t *mysqlTx) Rollback() error { return t.tx.Rollback() }
