package handler

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/uniadmit/admission-intake/internal/model"
	"github.com/uniadmit/admission-intake/internal/repository"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// ApplicantHandler registers applicants and maintains their fee and
// document status. Status updates here are record keeping; the
// allocation engine re-reads fee_status inside its own transaction
// before issuing an admission number.
type ApplicantHandler struct {
	Applicants *repository.ApplicantRepo
}

func NewApplicantHandler(a *repository.ApplicantRepo) *ApplicantHandler {
	if a == nil {
		panic("nil repository passed to NewApplicantHandler")
	}
	return &ApplicantHandler{Applicants: a}
}

type applicantReq struct {
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Email           string   `json:"email"`
	PhoneNumber     *string  `json:"phone_number"`
	Category        *string  `json:"category"`
	DateOfBirth     *string  `json:"date_of_birth"`
	Gender          *string  `json:"gender"`
	QualifyingExam  *string  `json:"qualifying_exam"`
	QualifyingMarks *float64 `json:"qualifying_marks"`
	EntryTypeID     uint64   `json:"entry_type_id"`
	AdmissionModeID uint64   `json:"admission_mode_id"`
	ProgramID       uint64   `json:"program_id"`
}

func (h *ApplicantHandler) Create(c echo.Context) error {
	var req applicantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name/last_name/email required"})
	}
	if req.EntryTypeID == 0 || req.AdmissionModeID == 0 || req.ProgramID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "entry_type_id/admission_mode_id/program_id required"})
	}
	if req.PhoneNumber != nil && *req.PhoneNumber != "" && !phonePattern.MatchString(*req.PhoneNumber) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone_number must be 10 digits"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := model.Applicant{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		PhoneNumber:     nullStr(req.PhoneNumber),
		Category:        nullStr(req.Category),
		DateOfBirth:     nullStr(req.DateOfBirth),
		Gender:          nullStr(req.Gender),
		QualifyingExam:  nullStr(req.QualifyingExam),
		EntryTypeID:     req.EntryTypeID,
		AdmissionModeID: req.AdmissionModeID,
		ProgramID:       req.ProgramID,
	}
	if req.QualifyingMarks != nil {
		a.QualifyingMarks.Float64 = *req.QualifyingMarks
		a.QualifyingMarks.Valid = true
	}
	if err := h.Applicants.Create(ctx, &a); err != nil {
		if fkViolation(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "referenced program/mode/entry type not found"})
		}
		return repoError(c, err, "create applicant failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":                 a.ID,
		"application_number": a.ApplicationNumber,
	})
}

func (h *ApplicantHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		items []repository.ApplicantDetail
		err   error
	)
	switch {
	case c.QueryParam("program_id") != "":
		pid, perr := parseQueryID(c, "program_id")
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid program_id"})
		}
		items, err = h.Applicants.ListByProgram(ctx, pid)
	case c.QueryParam("fee_status") == model.FeeStatusPending:
		items, err = h.Applicants.ListPendingFee(ctx)
	case c.QueryParam("document_status") == model.DocStatusPending:
		items, err = h.Applicants.ListPendingDocuments(ctx)
	default:
		items, err = h.Applicants.List(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list applicants failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"applicants": items})
}

func (h *ApplicantHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid applicant id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Applicants.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "load applicant failed")
	}
	return c.JSON(http.StatusOK, a)
}

type feeStatusReq struct {
	FeeStatus string `json:"fee_status"`
}

// UpdateFeeStatus records a fee payment. Marking Paid is what makes
// an allocated admission confirmable.
func (h *ApplicantHandler) UpdateFeeStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid applicant id"})
	}
	var req feeStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FeeStatus != model.FeeStatusPending && req.FeeStatus != model.FeeStatusPaid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fee_status must be Pending or Paid"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Applicants.UpdateFeeStatus(ctx, id, req.FeeStatus); err != nil {
		return repoError(c, err, "update fee status failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "fee_status": req.FeeStatus})
}

type documentStatusReq struct {
	DocumentStatus string `json:"document_status"`
}

func (h *ApplicantHandler) UpdateDocumentStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid applicant id"})
	}
	var req documentStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch req.DocumentStatus {
	case model.DocStatusPending, model.DocStatusSubmitted, model.DocStatusVerified:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "document_status must be Pending, Submitted or Verified"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Applicants.UpdateDocumentStatus(ctx, id, req.DocumentStatus); err != nil {
		return repoError(c, err, "update document status failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "document_status": req.DocumentStatus})
}
