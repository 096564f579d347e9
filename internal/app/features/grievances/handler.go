package grievances

import (
	"net/http"

	apierrors "github.com/dalemusser/nyaysahayak/internal/app/features/errors"
	"github.com/dalemusser/nyaysahayak/internal/app/services/grievanceflow"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/dalemusser/nyaysahayak/internal/app/system/formutil"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Response messages.
const (
	MsgSubmitted = "Grievance submitted successfully"
	MsgResolved  = "Grievance resolved successfully"
)

// Handler serves the grievance endpoints.
type Handler struct {
	Svc     *grievanceflow.Service
	MaxBody int64
	Log     *zap.Logger
}

func NewHandler(svc *grievanceflow.Service, maxBody int64, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, MaxBody: maxBody, Log: logger}
}

type grievanceResponse struct {
	Message   string               `json:"message"`
	Grievance models.GrievanceView `json:"grievance"`
}

type listResponse struct {
	Grievances []models.GrievanceView `json:"grievances"`
}

// ListOpen handles GET /api/grievances.
func (h *Handler) ListOpen(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r)
	views, err := h.Svc.ListOpenGrievances(r.Context(), caller)
	if err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, listResponse{Grievances: views})
}

// Mine handles GET /api/grievances/my-grievances.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r)
	views, err := h.Svc.ListMyGrievances(r.Context(), caller)
	if err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, listResponse{Grievances: views})
}

// Create handles POST /api/grievances.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r)

	var req struct {
		Details string `json:"details"`
	}
	if err := formutil.DecodeJSON(w, r, h.MaxBody, &req); err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}

	g, err := h.Svc.CreateGrievance(r.Context(), caller, req.Details)
	if err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, grievanceResponse{
		Message:   MsgSubmitted,
		Grievance: models.NewGrievanceView(g, "", ""),
	})
}

// Resolve handles PUT /api/grievances/{id}/resolve.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r)

	g, err := h.Svc.ResolveGrievance(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		apierrors.Write(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, grievanceResponse{
		Message:   MsgResolved,
		Grievance: models.NewGrievanceView(g, "", ""),
	})
}
