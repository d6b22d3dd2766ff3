package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/uniadmit/admission-intake/internal/model"
	"github.com/uniadmit/admission-intake/internal/repository"
)

// DocumentHandler records uploaded documents and their verification
// outcomes. Verifying the last pending document of an applicant also
// flips the applicant's document_status to Verified.
type DocumentHandler struct {
	Documents *repository.DocumentRepo
}

func NewDocumentHandler(d *repository.DocumentRepo) *DocumentHandler {
	if d == nil {
		panic("nil repository passed to NewDocumentHandler")
	}
	return &DocumentHandler{Documents: d}
}

type documentReq struct {
	ApplicantID  uint64 `json:"applicant_id"`
	DocumentType string `json:"document_type"`
	FilePath     string `json:"file_path"`
}

func (h *DocumentHandler) Create(c echo.Context) error {
	var req documentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.DocumentType = strings.TrimSpace(req.DocumentType)
	req.FilePath = strings.TrimSpace(req.FilePath)
	if req.ApplicantID == 0 || req.DocumentType == "" || req.FilePath == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "applicant_id/document_type/file_path required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Documents.Create(ctx, req.ApplicantID, req.DocumentType, req.FilePath)
	if err != nil {
		return repoError(c, err, "create document failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "status": model.DocumentPending})
}

func (h *DocumentHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid document id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Documents.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "load document failed")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DocumentHandler) ListPending(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Documents.ListPending(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list documents failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"documents": items})
}

func (h *DocumentHandler) ListByApplicant(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid applicant id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Documents.ListByApplicant(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list documents failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"documents": items})
}

// Verify marks a document VERIFIED, recording the verifying officer.
func (h *DocumentHandler) Verify(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid document id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Documents.Verify(ctx, id, uid); err != nil {
		return repoError(c, err, "verify document failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.DocumentVerified})
}

type rejectReq struct {
	Reason string `json:"reason"`
}

// Reject marks a document REJECTED. A reason is mandatory so the
// applicant knows what to resubmit.
func (h *DocumentHandler) Reject(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid document id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req rejectReq
	_ = c.Bind(&req)
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason required when rejecting"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Documents.Reject(ctx, id, uid, req.Reason); err != nil {
		return repoError(c, err, "reject document failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.DocumentRejected})
}
