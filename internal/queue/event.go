// Package queue defines message payloads exchanged over the message broker.
package queue

// AdmissionConfirmedEvent is published when an admission is confirmed
// and its admission number issued. It carries enough information for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type AdmissionConfirmedEvent struct {
	AdmissionID       uint64 `json:"admission_id"`
	AdmissionNumber   string `json:"admission_number"`
	ApplicantID       uint64 `json:"applicant_id"`
	ApplicationNumber string `json:"application_number"`
	ApplicantName     string `json:"applicant_name"`
	ApplicantEmail    string `json:"applicant_email"`
	ProgramID         uint64 `json:"program_id"`
	ProgramName       string `json:"program_name"`
	QuotaID           uint64 `json:"quota_id"`
	QuotaName         string `json:"quota_name"`
	AdmissionMode     string `json:"admission_mode"`
	ConfirmedAt       string `json:"confirmed_at"`
	ConfirmedBy       uint64 `json:"confirmed_by"`
}
