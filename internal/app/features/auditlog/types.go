// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/nyaysahayak/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// eventView is a single audit event as returned by the API.
type eventView struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"eventType"`
	ActorID       string            `json:"actorId,omitempty"`
	UserID        string            `json:"userId,omitempty"`
	CaseID        string            `json:"caseId,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failureReason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Events     []eventView `json:"events"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
	Total      int64       `json:"total"`
}

func hexOrEmpty(id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	return id.Hex()
}

func newEventView(e audit.Event) eventView {
	return eventView{
		ID:            e.ID.Hex(),
		Timestamp:     e.Timestamp,
		Category:      e.Category,
		EventType:     e.EventType,
		ActorID:       hexOrEmpty(e.ActorID),
		UserID:        hexOrEmpty(e.UserID),
		CaseID:        hexOrEmpty(e.CaseID),
		IP:            e.IP,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
}
