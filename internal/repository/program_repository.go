package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uniadmit/admission-intake/internal/model"
)

// ProgramDetail is a program joined with the names of its lookups
// for display. It is returned by List and GetByID.
type ProgramDetail struct {
	model.Program
	DepartmentName string `json:"department_name"`
	Year           string `json:"year"`
	CourseType     string `json:"course_type"`
	EntryType      string `json:"entry_type"`
}

// ProgramRepo provides persistence for programs.
type ProgramRepo struct {
	db *sql.DB
}

// NewProgramRepo constructs a ProgramRepo with the given DB handle.
func NewProgramRepo(db *sql.DB) *ProgramRepo { return &ProgramRepo{db: db} }

// Create inserts a program and sets its generated ID. Intake
// validation (> 0) happens in the handler before this is called.
func (r *ProgramRepo) Create(ctx context.Context, p *model.Program) error {
	const q = `INSERT INTO programs
	           (department_id, academic_year_id, course_type_id, entry_type_id, name, code, intake, duration, branch_name)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		p.DepartmentID, p.AcademicYearID, p.CourseTypeID, p.EntryTypeID,
		p.Name, p.Code, p.Intake, p.Duration, p.BranchName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

const programSelect = `SELECT p.id, p.department_id, p.academic_year_id, p.course_type_id, p.entry_type_id,
                              p.name, p.code, p.intake, p.duration, p.branch_name, p.created_at,
                              d.name, ay.year, ct.name, et.name
                       FROM programs p
                       JOIN departments d ON p.department_id = d.id
                       JOIN academic_years ay ON p.academic_year_id = ay.id
                       JOIN course_types ct ON p.course_type_id = ct.id
                       JOIN entry_types et ON p.entry_type_id = et.id`

func scanProgramDetail(row interface{ Scan(...any) error }, d *ProgramDetail) error {
	return row.Scan(
		&d.ID, &d.DepartmentID, &d.AcademicYearID, &d.CourseTypeID, &d.EntryTypeID,
		&d.Name, &d.Code, &d.Intake, &d.Duration, &d.BranchName, &d.CreatedAt,
		&d.DepartmentName, &d.Year, &d.CourseType, &d.EntryType,
	)
}

// List returns all programs with lookup names resolved.
func (r *ProgramRepo) List(ctx context.Context) ([]ProgramDetail, error) {
	rows, err := r.db.QueryContext(ctx, programSelect+` ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]ProgramDetail, 0)
	for rows.Next() {
		var d ProgramDetail
		if err := scanProgramDetail(rows, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// GetByID returns one program with lookup names resolved. Returns
// ErrNotFound when no such program exists.
func (r *ProgramRepo) GetByID(ctx context.Context, id uint64) (*ProgramDetail, error) {
	var d ProgramDetail
	err := scanProgramDetail(r.db.QueryRowContext(ctx, programSelect+` WHERE p.id = ?`, id), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
