// internal/app/features/auditlog/list.go
package auditlog

import (
	"errors"
	"net/http"
	"strings"
	"time"

	apierrors "github.com/dalemusser/nyaysahayak/internal/app/features/errors"
	"github.com/dalemusser/nyaysahayak/internal/app/policy/casepolicy"
	"github.com/dalemusser/nyaysahayak/internal/app/store/audit"
	"github.com/dalemusser/nyaysahayak/internal/app/system/apperr"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/dalemusser/nyaysahayak/internal/app/system/paging"
	"github.com/dalemusser/nyaysahayak/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeList handles GET /api/audit.
//
// Query parameters: case (ObjectID hex or human-readable case id), actor,
// category, event_type, start_date and end_date (YYYY-MM-DD), page.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CurrentUser(r)
	if err := casepolicy.Authorize(caller, casepolicy.ViewAuditLog); err != nil {
		h.Audit.AccessDenied(r.Context(), caller.UserID, caller.Role, "audit_log", apperr.Message(err))
		apierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit log list")
	defer cancel()

	q := r.URL.Query()
	page := paging.ParsePage(r)
	filter := audit.QueryFilter{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		Limit:     paging.PageSize,
		Offset:    paging.Offset(page),
	}

	if ref := strings.TrimSpace(q.Get("case")); ref != "" {
		if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
			filter.CaseID = &oid
		} else {
			c, err := h.Cases.GetByCaseID(ctx, ref)
			if errors.Is(err, mongo.ErrNoDocuments) {
				apierrors.Write(w, r, h.Log, apperr.NotFound("Case not found"))
				return
			}
			if err != nil {
				apierrors.Write(w, r, h.Log, apperr.Internal(err))
				return
			}
			filter.CaseID = &c.ID
		}
	}
	if actor := strings.TrimSpace(q.Get("actor")); actor != "" {
		oid, err := primitive.ObjectIDFromHex(actor)
		if err != nil {
			apierrors.BadRequest(w, "Invalid actor id.")
			return
		}
		filter.ActorID = &oid
	}

	if s := strings.TrimSpace(q.Get("start_date")); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			apierrors.BadRequest(w, "Invalid start_date; use YYYY-MM-DD.")
			return
		}
		filter.StartTime = &t
	}
	if s := strings.TrimSpace(q.Get("end_date")); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			apierrors.BadRequest(w, "Invalid end_date; use YYYY-MM-DD.")
			return
		}
		// End of day
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		apierrors.Write(w, r, h.Log, apperr.Internal(err))
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		apierrors.Write(w, r, h.Log, apperr.Internal(err))
		return
	}

	out := listResponse{
		Events:     make([]eventView, 0, len(events)),
		Page:       page,
		TotalPages: paging.TotalPages(total),
		Total:      total,
	}
	for _, e := range events {
		out.Events = append(out.Events, newEventView(e))
	}
	apierrors.WriteJSON(w, http.StatusOK, out)
}
