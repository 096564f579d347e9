// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/nyaysahayak/internal/app/store/audit"
	"github.com/dalemusser/nyaysahayak/internal/app/system/ratelimit"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Case controls logging for case and grievance mutations.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Case string
	// Security controls logging for access denials.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Security string
}

// Sink persists audit events. *audit.Store satisfies it.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via Sink) and structured logs (via zap).
type Logger struct {
	store  Sink
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Sink, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

type metaKey struct{}

type requestMeta struct {
	ip        string
	userAgent string
}

// Middleware stores the caller's IP and user agent on the request context so
// services can attach them to audit events without seeing the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithRequestMeta(r.Context(), ratelimit.ClientIP(r), r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithRequestMeta returns ctx carrying ip and userAgent.
func WithRequestMeta(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, metaKey{}, requestMeta{ip: ip, userAgent: userAgent})
}

func metaFrom(ctx context.Context) requestMeta {
	m, _ := ctx.Value(metaKey{}).(requestMeta)
	return m
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.CaseID != nil {
		fields = append(fields, zap.String("case_oid", event.CaseID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op. Storage failures are logged and never returned.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryCase:
		setting = l.config.Case
	case audit.CategorySecurity:
		setting = l.config.Security
	default:
		setting = "all"
	}
	if setting == "" {
		setting = "all"
	}

	if setting == "off" {
		return
	}

	meta := metaFrom(ctx)
	if event.IP == "" {
		event.IP = meta.ip
	}
	if event.UserAgent == "" {
		event.UserAgent = meta.userAgent
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Case workflow events ---

// CaseCreated logs a new case.
func (l *Logger) CaseCreated(ctx context.Context, actor primitive.ObjectID, c models.Case) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryCase,
		EventType: audit.EventCaseCreated,
		ActorID:   &actor,
		UserID:    &c.Beneficiary,
		CaseID:    &c.ID,
		Success:   true,
		Details: map[string]string{
			"case_id":    c.CaseID,
			"fir_number": c.FIRDetails.FIRNumber,
		},
	})
}

// CaseStatusPromoted logs a status promotion.
func (l *Logger) CaseStatusPromoted(ctx context.Context, actor primitive.ObjectID, c models.Case, from models.CaseStatus) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryCase,
		EventType: audit.EventCaseStatusPromoted,
		ActorID:   &actor,
		UserID:    &c.Beneficiary,
		CaseID:    &c.ID,
		Success:   true,
		Details: map[string]string{
			"case_id": c.CaseID,
			"from":    string(from),
			"to":      string(c.Status),
		},
	})
}

// CaseDocumentAttached logs a document attachment.
func (l *Logger) CaseDocumentAttached(ctx context.Context, actor primitive.ObjectID, c models.Case, docType string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryCase,
		EventType: audit.EventCaseDocumentAttached,
		ActorID:   &actor,
		CaseID:    &c.ID,
		Success:   true,
		Details: map[string]string{
			"case_id":  c.CaseID,
			"doc_type": docType,
		},
	})
}

// GrievanceCreated logs a newly filed grievance.
func (l *Logger) GrievanceCreated(ctx context.Context, actor primitive.ObjectID, g models.Grievance) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryCase,
		EventType: audit.EventGrievanceCreated,
		ActorID:   &actor,
		UserID:    &g.Beneficiary,
		CaseID:    &g.CaseID,
		Success:   true,
		Details:   map[string]string{"grievance_id": g.ID.Hex()},
	})
}

// GrievanceResolved logs a resolution.
func (l *Logger) GrievanceResolved(ctx context.Context, actor primitive.ObjectID, g models.Grievance) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryCase,
		EventType: audit.EventGrievanceResolved,
		ActorID:   &actor,
		UserID:    &g.Beneficiary,
		CaseID:    &g.CaseID,
		Success:   true,
		Details:   map[string]string{"grievance_id": g.ID.Hex()},
	})
}

// --- Security events ---

// AccessDenied logs a rejected operation.
func (l *Logger) AccessDenied(ctx context.Context, actor primitive.ObjectID, role models.Role, operation, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategorySecurity,
		EventType:     audit.EventAccessDenied,
		ActorID:       &actor,
		Success:       false,
		FailureReason: reason,
		Details: map[string]string{
			"operation": operation,
			"role":      string(role),
		},
	})
}
