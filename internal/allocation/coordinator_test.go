package allocation

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

const (
	testProgramID = uint64(1)
	testModeID    = uint64(7)
	testQuotaID   = uint64(10)
)

type CoordinatorSuite struct {
	suite.Suite
	store *MemoryStore
	coord *Coordinator
	ctx   context.Context
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.coord = NewCoordinator(s.store)
	s.ctx = context.Background()
	s.store.SeedProgram(testProgramID, "2026", "UG", "CSE")
	s.store.SeedMode(testModeID, "KCET")
}

// seedQuota installs a quota under the test program and mode.
func (s *CoordinatorSuite) seedQuota(id uint64, total, filled uint32) {
	s.store.SeedQuota(Quota{
		ID:              id,
		ProgramID:       testProgramID,
		AdmissionModeID: testModeID,
		Name:            "General",
		TotalSeats:      total,
		FilledSeats:     filled,
	})
}

func (s *CoordinatorSuite) allocate(applicantID, quotaID uint64) (uint64, error) {
	return s.coord.Allocate(s.ctx, AllocateRequest{
		ApplicantID: applicantID,
		ProgramID:   testProgramID,
		QuotaID:     quotaID,
	})
}

func (s *CoordinatorSuite) TestAllocate() {
	s.Run("success creates allocated admission and consumes a seat", func() {
		s.SetupTest()
		s.seedQuota(testQuotaID, 3, 0)
		id, err := s.allocate(100, testQuotaID)
		s.Require().NoError(err)
		adm, ok := s.store.AdmissionSnapshot(id)
		s.Require().True(ok)
		s.Equal(StatusAllocated, adm.Status)
		s.Nil(adm.AdmissionNumber)
		q, _ := s.store.QuotaSnapshot(testQuotaID)
		s.Equal(uint32(1), q.FilledSeats)
	})

	s.Run("missing fields", func() {
		s.SetupTest()
		_, err := s.coord.Allocate(s.ctx, AllocateRequest{ApplicantID: 100})
		s.Require().ErrorIs(err, ErrValidation)
	})

	s.Run("quota not found", func() {
		s.SetupTest()
		_, err := s.allocate(100, 999)
		s.Require().ErrorIs(err, ErrQuotaNotFound)
	})

	s.Run("quota full leaves state untouched", func() {
		s.SetupTest()
		s.seedQuota(testQuotaID, 2, 2)
		_, err := s.allocate(100, testQuotaID)
		s.Require().ErrorIs(err, ErrQuotaFull)
		q, _ := s.store.QuotaSnapshot(testQuotaID)
		s.Equal(uint32(2), q.FilledSeats)
	})

	s.Run("second allocation for same applicant rejected", func() {
		s.SetupTest()
		s.seedQuota(testQuotaID, 3, 0)
		_, err := s.allocate(100, testQuotaID)
		s.Require().NoError(err)
		_, err = s.allocate(100, testQuotaID)
		s.Require().ErrorIs(err, ErrDuplicateAdmission)
		q, _ := s.store.QuotaSnapshot(testQuotaID)
		s.Equal(uint32(1), q.FilledSeats)
	})
}

// Firing total-filled+1 concurrent allocations against a quota must
// admit exactly the remaining capacity and reject the surplus.
func (s *CoordinatorSuite) TestCapacityBoundUnderConcurrency() {
	const total, filled = 5, 2
	s.seedQuota(testQuotaID, total, filled)

	attempts := total - filled + 1
	errs := make([]error, attempts)
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		i := i
		g.Go(func() error {
			_, errs[i] = s.allocate(uint64(200+i), testQuotaID)
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	var ok, full int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case err == ErrQuotaFull:
			full++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(total-filled, ok)
	s.Equal(1, full)
	q, _ := s.store.QuotaSnapshot(testQuotaID)
	s.Equal(uint32(total), q.FilledSeats)
}

// Two concurrent allocations for one applicant against different
// quotas must produce exactly one admission.
func (s *CoordinatorSuite) TestNoDoubleAdmissionUnderConcurrency() {
	s.seedQuota(testQuotaID, 5, 0)
	s.seedQuota(testQuotaID+1, 5, 0)

	const applicant = 300
	errs := make([]error, 2)
	var g errgroup.Group
	for i, qid := range []uint64{testQuotaID, testQuotaID + 1} {
		i, qid := i, qid
		g.Go(func() error {
			_, errs[i] = s.allocate(applicant, qid)
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case err == ErrDuplicateAdmission:
			dup++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, ok)
	s.Equal(1, dup)
	qa, _ := s.store.QuotaSnapshot(testQuotaID)
	qb, _ := s.store.QuotaSnapshot(testQuotaID + 1)
	s.Equal(uint32(1), qa.FilledSeats+qb.FilledSeats)
}

// Confirming N admissions concurrently must hand out sequence values
// {1..N} with no repeats.
func (s *CoordinatorSuite) TestSequenceMonotonicityUnderConcurrency() {
	const n = 8
	s.seedQuota(testQuotaID, n, 0)

	admissionIDs := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		applicant := uint64(400 + i)
		s.store.SeedApplicant(applicant, FeeStatusPaid)
		id, err := s.allocate(applicant, testQuotaID)
		s.Require().NoError(err)
		admissionIDs = append(admissionIDs, id)
	}

	numbers := make([]string, n)
	var g errgroup.Group
	for i, id := range admissionIDs {
		i, id := i, id
		g.Go(func() error {
			var err error
			numbers[i], err = s.coord.Confirm(s.ctx, id)
			return err
		})
	}
	s.Require().NoError(g.Wait())

	seen := make(map[int]bool, n)
	for _, num := range numbers {
		seq := sequenceOf(s.T(), num)
		s.False(seen[seq], "sequence %d issued twice", seq)
		seen[seq] = true
	}
	for want := 1; want <= n; want++ {
		s.True(seen[want], "sequence %d missing", want)
	}
}

func (s *CoordinatorSuite) TestConfirm() {
	s.Run("admission not found", func() {
		s.SetupTest()
		_, err := s.coord.Confirm(s.ctx, 999)
		s.Require().ErrorIs(err, ErrAdmissionNotFound)
	})

	s.Run("zero id is a validation error", func() {
		s.SetupTest()
		_, err := s.coord.Confirm(s.ctx, 0)
		s.Require().ErrorIs(err, ErrValidation)
	})

	s.Run("unpaid fee blocks confirmation and mutates nothing", func() {
		s.SetupTest()
		s.seedQuota(testQuotaID, 1, 0)
		s.store.SeedApplicant(500, "Pending")
		id, err := s.allocate(500, testQuotaID)
		s.Require().NoError(err)

		_, err = s.coord.Confirm(s.ctx, id)
		s.Require().ErrorIs(err, ErrFeeNotPaid)
		adm, _ := s.store.AdmissionSnapshot(id)
		s.Equal(StatusAllocated, adm.Status)
		s.Nil(adm.AdmissionNumber)
		s.Nil(adm.ConfirmationDate)
	})

	s.Run("second confirm fails and keeps the original number", func() {
		s.SetupTest()
		s.seedQuota(testQuotaID, 1, 0)
		s.store.SeedApplicant(501, FeeStatusPaid)
		id, err := s.allocate(501, testQuotaID)
		s.Require().NoError(err)

		number, err := s.coord.Confirm(s.ctx, id)
		s.Require().NoError(err)

		_, err = s.coord.Confirm(s.ctx, id)
		s.Require().ErrorIs(err, ErrAlreadyConfirmed)
		adm, _ := s.store.AdmissionSnapshot(id)
		s.Require().NotNil(adm.AdmissionNumber)
		s.Equal(number, *adm.AdmissionNumber)
	})
}

// Full walk through the lifecycle on a single-seat quota.
func (s *CoordinatorSuite) TestEndToEnd() {
	s.seedQuota(testQuotaID, 1, 0)
	s.store.SeedApplicant(600, FeeStatusPaid)
	s.store.SeedApplicant(601, FeeStatusPaid)

	idA, err := s.allocate(600, testQuotaID)
	s.Require().NoError(err)
	q, _ := s.store.QuotaSnapshot(testQuotaID)
	s.Equal(uint32(1), q.FilledSeats)

	_, err = s.allocate(601, testQuotaID)
	s.Require().ErrorIs(err, ErrQuotaFull)

	number, err := s.coord.Confirm(s.ctx, idA)
	s.Require().NoError(err)
	s.Equal("INST/2026/UG/CSE/KCET/0001", number)

	_, err = s.coord.Confirm(s.ctx, idA)
	s.Require().ErrorIs(err, ErrAlreadyConfirmed)
}

// Allocations and confirmations on unrelated quotas and programs must
// not interfere with each other's sequences.
func (s *CoordinatorSuite) TestProgramsSequenceIndependently() {
	const otherProgram, otherQuota = uint64(2), uint64(20)
	s.store.SeedProgram(otherProgram, "2026", "PG", "MBA")
	s.seedQuota(testQuotaID, 2, 0)
	s.store.SeedQuota(Quota{
		ID: otherQuota, ProgramID: otherProgram, AdmissionModeID: testModeID,
		Name: "Management", TotalSeats: 2,
	})

	var mu sync.Mutex
	byProgram := map[uint64][]string{}
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		i := i
		g.Go(func() error {
			applicant := uint64(700 + i)
			s.store.SeedApplicant(applicant, FeeStatusPaid)
			id, err := s.allocate(applicant, testQuotaID)
			if err != nil {
				return err
			}
			num, err := s.coord.Confirm(s.ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			byProgram[testProgramID] = append(byProgram[testProgramID], num)
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			applicant := uint64(800 + i)
			s.store.SeedApplicant(applicant, FeeStatusPaid)
			id, err := s.coord.Allocate(s.ctx, AllocateRequest{
				ApplicantID: applicant, ProgramID: otherProgram, QuotaID: otherQuota,
			})
			if err != nil {
				return err
			}
			num, err := s.coord.Confirm(s.ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			byProgram[otherProgram] = append(byProgram[otherProgram], num)
			mu.Unlock()
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	for _, nums := range byProgram {
		seen := map[int]bool{}
		for _, num := range nums {
			seen[sequenceOf(s.T(), num)] = true
		}
		s.True(seen[1])
		s.True(seen[2])
	}
}

// sequenceOf extracts the trailing sequence component of a formatted
// admission number.
func sequenceOf(t *testing.T, number string) int {
	t.Helper()
	parts := strings.Split(number, "/")
	if len(parts) != 6 {
		t.Fatalf("malformed admission number %q", number)
	}
	n, err := strconv.Atoi(parts[5])
	if err != nil {
		t.Fatalf("non-numeric sequence in %q", number)
	}
	return n
}
