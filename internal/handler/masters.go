package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/uniadmit/admission-intake/internal/model"
	"github.com/uniadmit/admission-intake/internal/repository"
)

// MasterHandler exposes the master-data hierarchy and lookup tables.
// Writes are admin-only; reads are open to any authenticated role.
type MasterHandler struct {
	Masters *repository.MasterRepo
}

func NewMasterHandler(m *repository.MasterRepo) *MasterHandler {
	if m == nil {
		panic("nil repository passed to NewMasterHandler")
	}
	return &MasterHandler{Masters: m}
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

func nullStr(s *string) sql.NullString {
	if s == nil || strings.TrimSpace(*s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.TrimSpace(*s), Valid: true}
}

// fkViolation reports whether err is a MySQL foreign key failure
// (error 1452), meaning a referenced parent row does not exist.
func fkViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}

// ----- institutions -----

type institutionReq struct {
	Name    string  `json:"name"`
	Code    string  `json:"code"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
}

func (h *MasterHandler) CreateInstitution(c echo.Context) error {
	var req institutionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Name == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/code required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	in := model.Institution{
		Name: req.Name, Code: req.Code,
		Address: nullStr(req.Address), City: nullStr(req.City), State: nullStr(req.State),
	}
	if err := h.Masters.CreateInstitution(ctx, &in); err != nil {
		return repoError(c, err, "create institution failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": in.ID, "name": in.Name, "code": in.Code})
}

func (h *MasterHandler) ListInstitutions(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Masters.ListInstitutions(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list institutions failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"institutions": items})
}

// ----- campuses -----

type campusReq struct {
	InstitutionID uint64  `json:"institution_id"`
	Name          string  `json:"name"`
	Code          string  `json:"code"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
}

func (h *MasterHandler) CreateCampus(c echo.Context) error {
	var req campusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.InstitutionID == 0 || req.Name == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "institution_id/name/code required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cm := model.Campus{
		InstitutionID: req.InstitutionID, Name: req.Name, Code: req.Code,
		Address: nullStr(req.Address), City: nullStr(req.City),
	}
	if err := h.Masters.CreateCampus(ctx, &cm); err != nil {
		if fkViolation(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "institution not found"})
		}
		return repoError(c, err, "create campus failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": cm.ID, "name": cm.Name, "code": cm.Code})
}

func (h *MasterHandler) ListCampuses(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid institution id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Masters.ListCampuses(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list campuses failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"campuses": items})
}

// ----- departments -----

type departmentReq struct {
	CampusID uint64 `json:"campus_id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
}

func (h *MasterHandler) CreateDepartment(c echo.Context) error {
	var req departmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.CampusID == 0 || req.Name == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "campus_id/name/code required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d := model.Department{CampusID: req.CampusID, Name: req.Name, Code: req.Code}
	if err := h.Masters.CreateDepartment(ctx, &d); err != nil {
		if fkViolation(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "campus not found"})
		}
		return repoError(c, err, "create department failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": d.ID, "name": d.Name, "code": d.Code})
}

func (h *MasterHandler) ListDepartments(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid campus id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Masters.ListDepartments(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list departments failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"departments": items})
}

// ----- academic years -----

type academicYearReq struct {
	Year      string `json:"year"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *MasterHandler) CreateAcademicYear(c echo.Context) error {
	var req academicYearReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Year = strings.TrimSpace(req.Year)
	if req.Year == "" || req.StartDate == "" || req.EndDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "year/start_date/end_date required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	y := model.AcademicYear{Year: req.Year, StartDate: req.StartDate, EndDate: req.EndDate}
	if err := h.Masters.CreateAcademicYear(ctx, &y); err != nil {
		return repoError(c, err, "create academic year failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": y.ID, "year": y.Year})
}

func (h *MasterHandler) ListAcademicYears(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Masters.ListAcademicYears(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list academic years failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"academic_years": items})
}

// ----- seeded lookups -----

func (h *MasterHandler) ListCourseTypes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Masters.ListCourseTypes(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list course types failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"course_types": items})
}

func (h *MasterHandler) ListEntryTypes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Masters.ListEntryTypes(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list entry types failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entry_types": items})
}

func (h *MasterHandler) ListAdmissionModes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Masters.ListAdmissionModes(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list admission modes failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"admission_modes": items})
}
