package model

import "database/sql"

// Institution is the top of the master-data hierarchy. Campuses hang
// off an institution, departments off a campus.
type Institution struct {
	ID        uint64         // institutions.id
	Name      string         // institutions.name
	Code      string         // institutions.code
	Address   sql.NullString // institutions.address
	City      sql.NullString // institutions.city
	State     sql.NullString // institutions.state
	CreatedAt string         // institutions.created_at
}

// Campus is a physical site of an institution.
type Campus struct {
	ID            uint64         // campuses.id
	InstitutionID uint64         // campuses.institution_id
	Name          string         // campuses.name
	Code          string         // campuses.code
	Address       sql.NullString // campuses.address
	City          sql.NullString // campuses.city
	CreatedAt     string         // campuses.created_at
}

// Department is an academic unit within a campus.
type Department struct {
	ID        uint64 // departments.id
	CampusID  uint64 // departments.campus_id
	Name      string // departments.name
	Code      string // departments.code
	CreatedAt string // departments.created_at
}
