package model

// catalog.go holds the small lookup tables consumed by programs and
// quotas. Course types and entry types are seeded at install time;
// academic years are created by administrators each cycle. The codes
// of academic years, course types and admission modes are embedded
// into admission numbers at confirmation time.

// AcademicYear identifies an intake cycle, e.g. "2026".
type AcademicYear struct {
	ID        uint64 // academic_years.id
	Year      string // academic_years.year
	StartDate string // academic_years.start_date
	EndDate   string // academic_years.end_date
}

// CourseType distinguishes degree levels, e.g. UG, PG.
type CourseType struct {
	ID   uint64 // course_types.id
	Name string // course_types.name
	Code string // course_types.code
}

// EntryType distinguishes regular from lateral entry.
type EntryType struct {
	ID   uint64 // entry_types.id
	Name string // entry_types.name
	Code string // entry_types.code
}

// AdmissionMode identifies the channel through which a seat is
// allotted, e.g. KCET, COMEDK, MANAGEMENT.
type AdmissionMode struct {
	ID   uint64 // admission_modes.id
	Name string // admission_modes.name
	Code string // admission_modes.code
}
