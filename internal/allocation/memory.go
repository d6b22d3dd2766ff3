package allocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and local
// experiments. A single mutex held from Begin until Commit or
// Rollback serializes transactions completely, which satisfies the
// same invariants the MySQL row locks provide. Writes are staged and
// applied only on Commit, so a rolled-back transaction leaves no
// trace.
type MemoryStore struct {
	mu          sync.Mutex
	quotas      map[uint64]*Quota
	admissions  map[uint64]*Admission
	byApplicant map[uint64]uint64
	programs    map[uint64]programContext
	modes       map[uint64]string
	fees        map[uint64]string
	nextID      uint64
}

type programContext struct {
	year        string
	courseCode  string
	programCode string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quotas:      make(map[uint64]*Quota),
		admissions:  make(map[uint64]*Admission),
		byApplicant: make(map[uint64]uint64),
		programs:    make(map[uint64]programContext),
		modes:       make(map[uint64]string),
		fees:        make(map[uint64]string),
	}
}

// SeedQuota installs a quota row.
func (s *MemoryStore) SeedQuota(q Quota) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := q
	s.quotas[q.ID] = &cp
}

// SeedProgram installs the numbering context for a program.
func (s *MemoryStore) SeedProgram(programID uint64, year, courseCode, programCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[programID] = programContext{year: year, courseCode: courseCode, programCode: programCode}
}

// SeedMode installs an admission-mode code.
func (s *MemoryStore) SeedMode(modeID uint64, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modes[modeID] = code
}

// SeedApplicant installs an applicant's fee status.
func (s *MemoryStore) SeedApplicant(applicantID uint64, feeStatus string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fees[applicantID] = feeStatus
}

// QuotaSnapshot returns a copy of a quota row for assertions.
func (s *MemoryStore) QuotaSnapshot(quotaID uint64) (Quota, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotas[quotaID]
	if !ok {
		return Quota{}, false
	}
	return *q, true
}

// AdmissionSnapshot returns a copy of an admission row for assertions.
func (s *MemoryStore) AdmissionSnapshot(admissionID uint64) (Admission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admissions[admissionID]
	if !ok {
		return Admission{}, false
	}
	return *a, true
}

// Begin acquires the store mutex and returns a transaction. The
// mutex is released by Commit or Rollback, never by Begin.
func (s *MemoryStore) Begin(ctx context.Context) (Tx, error) {
	s.mu.Lock()
	return &memTx{store: s}, nil
}

type memTx struct {
	store   *MemoryStore
	pending []func()
	done    bool
}

func (t *memTx) QuotaForUpdate(ctx context.Context, quotaID uint64) (*Quota, error) {
	q, ok := t.store.quotas[quotaID]
	if !ok {
		return nil, ErrQuotaNotFound
	}
	cp := *q
	return &cp, nil
}

func (t *memTx) AdmissionExistsForApplicant(ctx context.Context, applicantID uint64) (bool, error) {
	_, ok := t.store.byApplicant[applicantID]
	return ok, nil
}

func (t *memTx) InsertAdmission(ctx context.Context, a *Admission) error {
	if _, ok := t.store.byApplicant[a.ApplicantID]; ok {
		return ErrDuplicateAdmission
	}
	t.store.nextID++
	a.ID = t.store.nextID
	cp := *a
	t.pending = append(t.pending, func() {
		t.store.admissions[cp.ID] = &cp
		t.store.byApplicant[cp.ApplicantID] = cp.ID
	})
	return nil
}

func (t *memTx) IncrementFilledSeats(ctx context.Context, quotaID uint64) error {
	if _, ok := t.store.quotas[quotaID]; !ok {
		return ErrQuotaNotFound
	}
	t.pending = append(t.pending, func() {
		t.store.quotas[quotaID].FilledSeats++
	})
	return nil
}

func (t *memTx) AdmissionForUpdate(ctx context.Context, admissionID uint64) (*ConfirmContext, error) {
	a, ok := t.store.admissions[admissionID]
	if !ok {
		return nil, ErrAdmissionNotFound
	}
	cx := ConfirmContext{Admission: *a}
	cx.FeeStatus = t.store.fees[a.ApplicantID]
	if pc, ok := t.store.programs[a.ProgramID]; ok {
		cx.Year = pc.year
		cx.CourseCode = pc.courseCode
		cx.ProgramCode = pc.programCode
	}
	if q, ok := t.store.quotas[a.QuotaID]; ok {
		cx.ModeCode = t.store.modes[q.AdmissionModeID]
	}
	return &cx, nil
}

func (t *memTx) CountConfirmed(ctx context.Context, programID uint64) (uint64, error) {
	var n uint64
	for _, a := range t.store.admissions {
		if a.ProgramID == programID && a.Status == StatusConfirmed {
			n++
		}
	}
	return n, nil
}

func (t *memTx) MarkConfirmed(ctx context.Context, admissionID uint64, number string, at time.Time) error {
	a, ok := t.store.admissions[admissionID]
	if !ok {
		return ErrAdmissionNotFound
	}
	if a.Status == StatusConfirmed {
		return ErrAlreadyConfirmed
	}
	when := at
	t.pending = append(t.pending, func() {
		row := t.store.admissions[admissionID]
		row.Status = StatusConfirmed
		row.AdmissionNumber = &number
		row.ConfirmationDate = &when
	})
	return nil
}

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}
	for _, apply := range t.pending {
		apply()
	}
	t.finish()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *memTx) finish() {
	t.done = true
	t.pending = nil
	t.store.mu.Unlock()
}
