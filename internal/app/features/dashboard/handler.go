package dashboard

import (
	"net/http"

	apierrors "github.com/dalemusser/nyaysahayak/internal/app/features/errors"
	"github.com/dalemusser/nyaysahayak/internal/app/policy/casepolicy"
	metricsstore "github.com/dalemusser/nyaysahayak/internal/app/store/metrics"
	"github.com/dalemusser/nyaysahayak/internal/app/system/apperr"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auditlog"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/dalemusser/nyaysahayak/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB    *mongo.Database
	Audit *auditlog.Logger
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Audit: audit,
		Log:   logger,
	}
}

// ServeCounts handles GET /api/dashboard/counts. Officers and admins only.
func (h *Handler) ServeCounts(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r)
	if err := casepolicy.Authorize(caller, casepolicy.ViewDashboard); err != nil {
		h.Audit.AccessDenied(r.Context(), caller.UserID, caller.Role, "dashboard_counts", apperr.Message(err))
		apierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard counts")
	defer cancel()

	apierrors.WriteJSON(w, http.StatusOK, metricsstore.FetchCaseCounts(ctx, h.DB))
}
