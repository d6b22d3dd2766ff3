package model

import "database/sql"

// Program is a course offering admitting applicants in one academic
// year. Its Intake is the hard upper bound on seats across all of
// the program's quotas; quota creation enforces that the sum of
// quota seats never exceeds it.
//
// Fields:
//  ID             – primary key identifier.
//  DepartmentID   – owning department.
//  AcademicYearID – intake cycle the program admits for.
//  CourseTypeID   – degree level (UG/PG).
//  EntryTypeID    – regular or lateral entry.
//  Name           – human readable program name.
//  Code           – short code embedded in admission numbers.
//  Intake         – sanctioned total seats across all quotas.
//  Duration       – course duration in years.
//  BranchName     – optional branch / specialization label.
type Program struct {
	ID             uint64         // programs.id
	DepartmentID   uint64         // programs.department_id
	AcademicYearID uint64         // programs.academic_year_id
	CourseTypeID   uint64         // programs.course_type_id
	EntryTypeID    uint64         // programs.entry_type_id
	Name           string         // programs.name
	Code           string         // programs.code
	Intake         uint32         // programs.intake
	Duration       sql.NullInt32  // programs.duration
	BranchName     sql.NullString // programs.branch_name
	CreatedAt      string         // programs.created_at
}
