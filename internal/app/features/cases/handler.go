package cases

import (
	"net/http"
	"strings"
	"time"

	apierrors "github.com/dalemusser/nyaysahayak/internal/app/features/errors"
	"github.com/dalemusser/nyaysahayak/internal/app/services/caseflow"
	"github.com/dalemusser/nyaysahayak/internal/app/system/apperr"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/dalemusser/nyaysahayak/internal/app/system/formutil"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Response messages.
const (
	MsgCreated         = "Case created successfully"
	MsgStatusUpdated   = "Case status updated successfully"
	MsgDocumentAdded   = "Document added successfully"
	MsgInvalidIncident = "Date of incident must be a date (YYYY-MM-DD) or RFC 3339 timestamp."
)

// Handler serves the case endpoints.
type Handler struct {
	Svc     *caseflow.Service
	MaxBody int64
	Log     *zap.Logger
}

func NewHandler(svc *caseflow.Service, maxBody int64, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:     svc,
		MaxBody: maxBody,
		Log:     logger,
	}
}

type firDetailsRequest struct {
	FIRNumber      string `json:"firNumber"`
	PoliceStation  string `json:"policeStation"`
	DateOfIncident string `json:"dateOfIncident"`
}

type createCaseRequest struct {
	BeneficiaryMobile string            `json:"beneficiaryMobile"`
	FIRDetails        firDetailsRequest `json:"firDetails"`
}

type documentRequest struct {
	DocType string `json:"docType"`
	DocName string `json:"docName"`
}

type caseResponse struct {
	Message string          `json:"message"`
	Case    models.CaseView `json:"case"`
}

type listResponse struct {
	Cases []models.CaseView `json:"cases"`
}

// List handles GET /api/cases.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r)
	views, err := h.Svc.ListCases(r.Context(), caller)
	if err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, listResponse{Cases: views})
}

// Mine handles GET /api/cases/my-case.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r)
	views, err := h.Svc.ListMyCases(r.Context(), caller)
	if err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, listResponse{Cases: views})
}

// Create handles POST /api/cases.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r)

	var req createCaseRequest
	if err := formutil.DecodeJSON(w, r, h.MaxBody, &req); err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}

	incident, err := parseIncidentDate(req.FIRDetails.DateOfIncident)
	if err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}

	c, err := h.Svc.CreateCase(r.Context(), caller, caseflow.CreateCaseInput{
		BeneficiaryMobile: req.BeneficiaryMobile,
		FIR: models.FIRDetails{
			FIRNumber:      req.FIRDetails.FIRNumber,
			PoliceStation:  req.FIRDetails.PoliceStation,
			DateOfIncident: incident,
		},
	})
	if err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, caseResponse{Message: MsgCreated, Case: models.NewCaseView(c, "")})
}

// PromoteStatus handles PUT /api/cases/{caseId}/status.
func (h *Handler) PromoteStatus(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r)

	c, err := h.Svc.PromoteStatus(r.Context(), caller, chi.URLParam(r, "caseId"))
	if err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, caseResponse{Message: MsgStatusUpdated, Case: models.NewCaseView(c, "")})
}

// AttachDocument handles POST /api/cases/{caseId}/documents.
func (h *Handler) AttachDocument(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r)

	var req documentRequest
	if err := formutil.DecodeJSON(w, r, h.MaxBody, &req); err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}

	c, err := h.Svc.AttachDocument(r.Context(), caller, chi.URLParam(r, "caseId"), caseflow.DocumentInput{
		DocType: req.DocType,
		DocName: req.DocName,
	})
	if err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, caseResponse{Message: MsgDocumentAdded, Case: models.NewCaseView(c, "")})
}

// parseIncidentDate accepts an empty string, a calendar date, or an RFC 3339
// timestamp.
func parseIncidentDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperr.InvalidArgument(MsgInvalidIncident)
}
