package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/uniadmit/admission-intake/internal/model"
	"github.com/uniadmit/admission-intake/internal/repository"
)

// ProgramHandler manages programs and their quotas. Quota creation is
// intake-checked so the seats split across quotas can never exceed
// the program's sanctioned intake.
type ProgramHandler struct {
	Programs *repository.ProgramRepo
	Quotas   *repository.QuotaRepo
}

func NewProgramHandler(p *repository.ProgramRepo, q *repository.QuotaRepo) *ProgramHandler {
	if p == nil || q == nil {
		panic("nil repository passed to NewProgramHandler")
	}
	return &ProgramHandler{Programs: p, Quotas: q}
}

type programReq struct {
	DepartmentID   uint64  `json:"department_id"`
	AcademicYearID uint64  `json:"academic_year_id"`
	CourseTypeID   uint64  `json:"course_type_id"`
	EntryTypeID    uint64  `json:"entry_type_id"`
	Name           string  `json:"name"`
	Code           string  `json:"code"`
	Intake         uint32  `json:"intake"`
	Duration       *int32  `json:"duration"`
	BranchName     *string `json:"branch_name"`
}

func (h *ProgramHandler) Create(c echo.Context) error {
	var req programReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.DepartmentID == 0 || req.AcademicYearID == 0 || req.CourseTypeID == 0 || req.EntryTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "department/year/course/entry ids required"})
	}
	if req.Name == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/code required"})
	}
	if req.Intake == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "intake must be positive"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := model.Program{
		DepartmentID:   req.DepartmentID,
		AcademicYearID: req.AcademicYearID,
		CourseTypeID:   req.CourseTypeID,
		EntryTypeID:    req.EntryTypeID,
		Name:           req.Name,
		Code:           req.Code,
		Intake:         req.Intake,
		BranchName:     nullStr(req.BranchName),
	}
	if req.Duration != nil && *req.Duration > 0 {
		p.Duration = sql.NullInt32{Int32: *req.Duration, Valid: true}
	}
	if err := h.Programs.Create(ctx, &p); err != nil {
		if fkViolation(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "referenced master record not found"})
		}
		return repoError(c, err, "create program failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": p.ID, "name": p.Name, "code": p.Code, "intake": p.Intake})
}

func (h *ProgramHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Programs.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list programs failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"programs": items})
}

func (h *ProgramHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid program id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Programs.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "load program failed")
	}
	return c.JSON(http.StatusOK, p)
}

// ----- quotas -----

type quotaReq struct {
	ProgramID       uint64 `json:"program_id"`
	AdmissionModeID uint64 `json:"admission_mode_id"`
	Name            string `json:"quota_name"`
	TotalSeats      uint32 `json:"total_seats"`
}

func (h *ProgramHandler) CreateQuota(c echo.Context) error {
	var req quotaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.ProgramID == 0 || req.AdmissionModeID == 0 || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "program_id/admission_mode_id/quota_name required"})
	}
	if req.TotalSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be positive"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	q := model.Quota{
		ProgramID:       req.ProgramID,
		AdmissionModeID: req.AdmissionModeID,
		Name:            req.Name,
		TotalSeats:      req.TotalSeats,
	}
	remaining, err := h.Quotas.Create(ctx, &q)
	if err != nil {
		if errors.Is(err, repository.ErrIntakeExceeded) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":           "quota exceeds remaining program intake",
				"available_seats": remaining,
			})
		}
		if fkViolation(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "program or admission mode not found"})
		}
		return repoError(c, err, "create quota failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id": q.ID, "quota_name": q.Name, "total_seats": q.TotalSeats, "intake_remaining": remaining,
	})
}

func (h *ProgramHandler) ListQuotas(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid program id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Quotas.ListByProgram(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list quotas failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"quotas": items})
}
