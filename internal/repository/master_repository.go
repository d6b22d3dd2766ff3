package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uniadmit/admission-intake/internal/model"
)

// MasterRepo provides CRUD access to the master-data hierarchy
// (institutions, campuses, departments) and the lookup tables
// (academic years, course types, entry types, admission modes).
// These records are created by administrators during setup and read
// everywhere else.
type MasterRepo struct {
	db *sql.DB
}

// NewMasterRepo constructs a MasterRepo with the given DB handle.
func NewMasterRepo(db *sql.DB) *MasterRepo { return &MasterRepo{db: db} }

// CreateInstitution inserts an institution and sets its generated ID.
func (r *MasterRepo) CreateInstitution(ctx context.Context, in *model.Institution) error {
	const q = `INSERT INTO institutions (name, code, address, city, state) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, in.Name, in.Code, in.Address, in.City, in.State)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	in.ID = uint64(id)
	return nil
}

// ListInstitutions returns all institutions.
func (r *MasterRepo) ListInstitutions(ctx context.Context) ([]model.Institution, error) {
	const q = `SELECT id, name, code, address, city, state, created_at FROM institutions ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Institution, 0)
	for rows.Next() {
		var in model.Institution
		if err := rows.Scan(&in.ID, &in.Name, &in.Code, &in.Address, &in.City, &in.State, &in.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, in)
	}
	return items, rows.Err()
}

// CreateCampus inserts a campus under an institution.
func (r *MasterRepo) CreateCampus(ctx context.Context, c *model.Campus) error {
	const q = `INSERT INTO campuses (institution_id, name, code, address, city) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.InstitutionID, c.Name, c.Code, c.Address, c.City)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// ListCampuses returns all campuses of one institution.
func (r *MasterRepo) ListCampuses(ctx context.Context, institutionID uint64) ([]model.Campus, error) {
	const q = `SELECT id, institution_id, name, code, address, city, created_at
	           FROM campuses WHERE institution_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, institutionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Campus, 0)
	for rows.Next() {
		var c model.Campus
		if err := rows.Scan(&c.ID, &c.InstitutionID, &c.Name, &c.Code, &c.Address, &c.City, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// CreateDepartment inserts a department under a campus.
func (r *MasterRepo) CreateDepartment(ctx context.Context, d *model.Department) error {
	const q = `INSERT INTO departments (campus_id, name, code) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, d.CampusID, d.Name, d.Code)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// ListDepartments returns all departments of one campus.
func (r *MasterRepo) ListDepartments(ctx context.Context, campusID uint64) ([]model.Department, error) {
	const q = `SELECT id, campus_id, name, code, created_at FROM departments WHERE campus_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, campusID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Department, 0)
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.CampusID, &d.Name, &d.Code, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// CreateAcademicYear inserts an academic year.
func (r *MasterRepo) CreateAcademicYear(ctx context.Context, y *model.AcademicYear) error {
	const q = `INSERT INTO academic_years (year, start_date, end_date) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, y.Year, y.StartDate, y.EndDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	y.ID = uint64(id)
	return nil
}

// ListAcademicYears returns academic years, newest first.
func (r *MasterRepo) ListAcademicYears(ctx context.Context) ([]model.AcademicYear, error) {
	const q = `SELECT id, year, start_date, end_date FROM academic_years ORDER BY year DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.AcademicYear, 0)
	for rows.Next() {
		var y model.AcademicYear
		if err := rows.Scan(&y.ID, &y.Year, &y.StartDate, &y.EndDate); err != nil {
			return nil, err
		}
		items = append(items, y)
	}
	return items, rows.Err()
}

// ListCourseTypes returns the seeded course types.
func (r *MasterRepo) ListCourseTypes(ctx context.Context) ([]model.CourseType, error) {
	const q = `SELECT id, name, code FROM course_types ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.CourseType, 0)
	for rows.Next() {
		var ct model.CourseType
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Code); err != nil {
			return nil, err
		}
		items = append(items, ct)
	}
	return items, rows.Err()
}

// ListEntryTypes returns the seeded entry types.
func (r *MasterRepo) ListEntryTypes(ctx context.Context) ([]model.EntryType, error) {
	const q = `SELECT id, name, code FROM entry_types ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.EntryType, 0)
	for rows.Next() {
		var et model.EntryType
		if err := rows.Scan(&et.ID, &et.Name, &et.Code); err != nil {
			return nil, err
		}
		items = append(items, et)
	}
	return items, rows.Err()
}

// ListAdmissionModes returns the seeded admission modes.
func (r *MasterRepo) ListAdmissionModes(ctx context.Context) ([]model.AdmissionMode, error) {
	const q = `SELECT id, name, code FROM admission_modes ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.AdmissionMode, 0)
	for rows.Next() {
		var am model.AdmissionMode
		if err := rows.Scan(&am.ID, &am.Name, &am.Code); err != nil {
			return nil, err
		}
		items = append(items, am)
	}
	return items, rows.Err()
}

// GetAdmissionMode returns one admission mode by ID. Used when
// validating quota creation input.
func (r *MasterRepo) GetAdmissionMode(ctx context.Context, id uint64) (*model.AdmissionMode, error) {
	const q = `SELECT id, name, code FROM admission_modes WHERE id = ?`
	var am model.AdmissionMode
	err := r.db.QueryRowContext(ctx, q, id).Scan(&am.ID, &am.Name, &am.Code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &am, nil
}
