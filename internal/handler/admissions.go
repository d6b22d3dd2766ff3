package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/uniadmit/admission-intake/internal/allocation"
	"github.com/uniadmit/admission-intake/internal/queue"
	"github.com/uniadmit/admission-intake/internal/repository"
	queue_publisher "github.com/uniadmit/admission-intake/internal/service"
)

// AdmissionHandler exposes seat allocation and admission confirmation.
// Both writes go through the allocation coordinator, which owns the
// row locking; this handler only translates errors onto HTTP and
// publishes the confirmation event.
type AdmissionHandler struct {
	Coordinator *allocation.Coordinator
	Admissions  *repository.AdmissionRepo
}

func NewAdmissionHandler(co *allocation.Coordinator, a *repository.AdmissionRepo) *AdmissionHandler {
	if co == nil || a == nil {
		panic("nil dependency passed to NewAdmissionHandler")
	}
	return &AdmissionHandler{Coordinator: co, Admissions: a}
}

type allocateReq struct {
	ApplicantID     uint64  `json:"applicant_id"`
	ProgramID       uint64  `json:"program_id"`
	QuotaID         uint64  `json:"quota_id"`
	AllotmentNumber *string `json:"allotment_number"`
}

// Allocate reserves a seat for an applicant against a quota. The
// admission starts in ALLOCATED state; no number is issued yet.
func (h *AdmissionHandler) Allocate(c echo.Context) error {
	var req allocateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AllotmentNumber != nil {
		trimmed := strings.TrimSpace(*req.AllotmentNumber)
		if trimmed == "" {
			req.AllotmentNumber = nil
		} else {
			req.AllotmentNumber = &trimmed
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := h.Coordinator.Allocate(ctx, allocation.AllocateRequest{
		ApplicantID:     req.ApplicantID,
		ProgramID:       req.ProgramID,
		QuotaID:         req.QuotaID,
		AllotmentNumber: req.AllotmentNumber,
	})
	if err != nil {
		return allocationError(c, err, "allocate failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"admission_id": id,
		"status":       allocation.StatusAllocated,
	})
}

// Confirm issues the permanent admission number for an allocated
// admission. On success an AdmissionConfirmedEvent is published;
// publish failures are ignored because the confirmation is already
// committed.
func (h *AdmissionHandler) Confirm(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admission id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	number, err := h.Coordinator.Confirm(ctx, id)
	if err != nil {
		return allocationError(c, err, "confirm failed")
	}

	uid, _ := getUserID(c)
	if detail, derr := h.Admissions.GetByID(ctx, id); derr == nil {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = queue_publisher.PublishAdmissionConfirmed(pubCtx, queue.AdmissionConfirmedEvent{
			AdmissionID:       detail.ID,
			AdmissionNumber:   number,
			ApplicantID:       detail.ApplicantID,
			ApplicationNumber: detail.ApplicationNumber,
			ApplicantName:     detail.ApplicantName,
			ApplicantEmail:    detail.ApplicantEmail,
			ProgramID:         detail.ProgramID,
			ProgramName:       detail.ProgramName,
			QuotaID:           detail.QuotaID,
			QuotaName:         detail.QuotaName,
			AdmissionMode:     detail.ModeName,
			ConfirmedAt:       time.Now().UTC().Format(time.RFC3339),
			ConfirmedBy:       uid,
		})
		pubCancel()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"admission_id":     id,
		"admission_number": number,
		"status":           allocation.StatusConfirmed,
	})
}

func (h *AdmissionHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admission id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Admissions.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "load admission failed")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AdmissionHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		items []repository.AdmissionDetail
		err   error
	)
	if c.QueryParam("program_id") != "" {
		pid, perr := parseQueryID(c, "program_id")
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid program_id"})
		}
		items, err = h.Admissions.ListByProgram(ctx, pid)
	} else {
		items, err = h.Admissions.List(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list admissions failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"admissions": items})
}

func (h *AdmissionHandler) ListConfirmed(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Admissions.ListConfirmed(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list admissions failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"admissions": items})
}

func (h *AdmissionHandler) ListPending(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Admissions.ListPending(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list admissions failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"admissions": items})
}

// allocationError maps allocation sentinels onto HTTP responses.
func allocationError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, allocation.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, allocation.ErrQuotaNotFound),
		errors.Is(err, allocation.ErrAdmissionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, allocation.ErrQuotaFull),
		errors.Is(err, allocation.ErrDuplicateAdmission),
		errors.Is(err, allocation.ErrFeeNotPaid),
		errors.Is(err, allocation.ErrAlreadyConfirmed):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
	}
}
