// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	"github.com/dalemusser/nyaysahayak/internal/app/store/audit"
	auditlogger "github.com/dalemusser/nyaysahayak/internal/app/system/auditlog"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"go.uber.org/zap"
)

// EventStore reads audit events. *audit.Store satisfies it.
type EventStore interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

// CaseLookup resolves human-readable case ids. *casestore.Store satisfies it.
type CaseLookup interface {
	GetByCaseID(ctx context.Context, caseID string) (models.Case, error)
}

type Handler struct {
	Events EventStore
	Cases  CaseLookup
	Audit  *auditlogger.Logger
	Log    *zap.Logger
}

// NewHandler constructs an audit log feature handler.
func NewHandler(events EventStore, cases CaseLookup, auditLog *auditlogger.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Cases:  cases,
		Audit:  auditLog,
		Log:    logger,
	}
}
