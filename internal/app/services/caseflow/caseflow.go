// Package caseflow implements the case workflow: creation, linear status
// promotion with history, document attachment, and listings.
//
// Every operation checks the caller's capability itself, so handlers cannot
// forget a gate. Preconditions are checked before any write, and each write
// is a single-document update.
package caseflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/nyaysahayak/internal/app/policy/casepolicy"
	casestore "github.com/dalemusser/nyaysahayak/internal/app/store/cases"
	"github.com/dalemusser/nyaysahayak/internal/app/system/apperr"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auditlog"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/dalemusser/nyaysahayak/internal/app/system/metrics"
	"github.com/dalemusser/nyaysahayak/internal/app/system/timeouts"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxCaseIDAttempts bounds case id regeneration on collision.
const MaxCaseIDAttempts = 5

// Client-facing messages.
const (
	MsgBeneficiaryNotFound = "Beneficiary not found with that mobile number."
	MsgCaseNotFound        = "Case not found"
	MsgFinalStage          = "Case is already at the final stage."
	MsgRejected            = "Case has been rejected and cannot be promoted."
	MsgNotPromotable       = "Case status cannot be promoted."
	MsgConcurrentUpdate    = "Case status was updated by another request. Please reload and try again."
	MsgMobileRequired      = "Beneficiary mobile number is required."
	MsgFIRRequired         = "FIR number and police station are required."
	MsgDocumentRequired    = "Document type and name are required."
)

// CaseStore is the persistence the workflow needs. *casestore.Store satisfies it.
type CaseStore interface {
	Create(ctx context.Context, c models.Case) (models.Case, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Case, error)
	GetByCaseID(ctx context.Context, caseID string) (models.Case, error)
	List(ctx context.Context) ([]models.Case, error)
	ListByBeneficiary(ctx context.Context, beneficiary primitive.ObjectID) ([]models.Case, error)
	AdvanceStatus(ctx context.Context, id primitive.ObjectID, from, to models.CaseStatus, entry models.HistoryEntry) (models.Case, error)
	AppendDocument(ctx context.Context, id primitive.ObjectID, doc models.CaseDocument) (models.Case, error)
}

// UserStore resolves beneficiaries. *userstore.Store satisfies it.
type UserStore interface {
	GetByMobile(ctx context.Context, mobile string) (models.User, error)
	MobilesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

// IDGenerator produces candidate human-readable case ids.
type IDGenerator interface {
	Next() string
}

// Deps wires a Service. Audit and Metrics may be nil.
type Deps struct {
	Cases   CaseStore
	Users   UserStore
	IDs     IDGenerator
	Audit   *auditlog.Logger
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

type Service struct {
	cases   CaseStore
	users   UserStore
	ids     IDGenerator
	audit   *auditlog.Logger
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func New(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cases:   d.Cases,
		users:   d.Users,
		ids:     d.IDs,
		audit:   d.Audit,
		metrics: d.Metrics,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateCaseInput is the officer-supplied data for a new case.
type CreateCaseInput struct {
	BeneficiaryMobile string
	FIR               models.FIRDetails
}

// CreateCase opens a case for the beneficiary registered under the given
// mobile number. The case starts at Case Registered with one history entry.
func (s *Service) CreateCase(ctx context.Context, caller auth.Identity, in CreateCaseInput) (models.Case, error) {
	if err := s.authorize(ctx, caller, casepolicy.CreateCase, "create_case"); err != nil {
		return models.Case{}, err
	}

	mobile := strings.TrimSpace(in.BeneficiaryMobile)
	if mobile == "" {
		return models.Case{}, apperr.InvalidArgument(MsgMobileRequired)
	}
	fir := models.FIRDetails{
		FIRNumber:      strings.TrimSpace(in.FIR.FIRNumber),
		PoliceStation:  strings.TrimSpace(in.FIR.PoliceStation),
		DateOfIncident: in.FIR.DateOfIncident,
	}
	if fir.FIRNumber == "" || fir.PoliceStation == "" {
		return models.Case{}, apperr.InvalidArgument(MsgFIRRequired)
	}

	uctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "lookup beneficiary")
	ben, err := s.users.GetByMobile(uctx, mobile)
	cancel()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Case{}, apperr.NotFound(MsgBeneficiaryNotFound)
	}
	if err != nil {
		return models.Case{}, s.internal("lookup beneficiary", err)
	}

	now := s.now()
	c := models.Case{
		Beneficiary: ben.ID,
		FIRDetails:  fir,
		Status:      models.StatusCaseRegistered,
		Documents:   []models.CaseDocument{},
		History: []models.HistoryEntry{{
			Status:    models.StatusCaseRegistered,
			UpdatedBy: caller.ID(),
			Remarks:   models.RemarkCaseCreated,
			Timestamp: now,
		}},
	}

	for attempt := 1; attempt <= MaxCaseIDAttempts; attempt++ {
		c.CaseID = s.ids.Next()

		cctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "create case")
		created, err := s.cases.Create(cctx, c)
		cancel()
		if errors.Is(err, casestore.ErrDuplicateCaseID) {
			s.log.Info("case id collision, regenerating",
				zap.String("case_id", c.CaseID),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return models.Case{}, s.internal("create case", err)
		}

		s.log.Info("case created",
			zap.String("case_id", created.CaseID),
			zap.String("officer", caller.ID()))
		s.audit.CaseCreated(ctx, caller.UserID, created)
		s.metrics.CaseEvent("created")
		return created, nil
	}

	return models.Case{}, s.internal("create case",
		fmt.Errorf("no unique case id after %d attempts", MaxCaseIDAttempts))
}

// PromoteStatus moves the case one step along the ordered status sequence
// and appends a history entry. At most one concurrent promotion from a given
// status succeeds; the others get a Conflict.
func (s *Service) PromoteStatus(ctx context.Context, caller auth.Identity, ref string) (models.Case, error) {
	if err := s.authorize(ctx, caller, casepolicy.PromoteCase, "promote_case"); err != nil {
		return models.Case{}, err
	}

	c, err := s.resolve(ctx, ref)
	if err != nil {
		return models.Case{}, err
	}

	next, err := c.Status.Next()
	if err != nil {
		s.metrics.Promotion(c.Status, metrics.OutcomeRejected)
		switch {
		case errors.Is(err, models.ErrFinalStage):
			return models.Case{}, apperr.InvalidTransition(MsgFinalStage, err)
		case c.Status == models.StatusRejected:
			return models.Case{}, apperr.InvalidTransition(MsgRejected, err)
		default:
			return models.Case{}, apperr.InvalidTransition(MsgNotPromotable, err)
		}
	}

	ts := s.now()
	if n := len(c.History); n > 0 && c.History[n-1].Timestamp.After(ts) {
		ts = c.History[n-1].Timestamp
	}
	entry := models.HistoryEntry{
		Status:    next,
		UpdatedBy: caller.ID(),
		Remarks:   models.RemarkStatusUpdated,
		Timestamp: ts,
	}

	wctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "promote case")
	defer cancel()
	updated, err := s.cases.AdvanceStatus(wctx, c.ID, c.Status, next, entry)
	switch {
	case errors.Is(err, casestore.ErrStatusChanged):
		s.metrics.Promotion(c.Status, metrics.OutcomeConflict)
		return models.Case{}, apperr.Conflict(MsgConcurrentUpdate)
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.Case{}, apperr.NotFound(MsgCaseNotFound)
	case err != nil:
		return models.Case{}, s.internal("promote case", err)
	}

	s.log.Info("case promoted",
		zap.String("case_id", updated.CaseID),
		zap.String("from", string(c.Status)),
		zap.String("to", string(updated.Status)),
		zap.String("officer", caller.ID()))
	s.audit.CaseStatusPromoted(ctx, caller.UserID, updated, c.Status)
	s.metrics.Promotion(c.Status, metrics.OutcomeOK)
	return updated, nil
}

// DocumentInput describes a document the beneficiary attaches.
type DocumentInput struct {
	DocType string
	DocName string
}

// AttachDocument appends a document descriptor to the caller's own case.
func (s *Service) AttachDocument(ctx context.Context, caller auth.Identity, ref string, in DocumentInput) (models.Case, error) {
	c, err := s.resolve(ctx, ref)
	if err != nil {
		return models.Case{}, err
	}

	if err := casepolicy.CanAttachDocument(caller, c); err != nil {
		s.audit.AccessDenied(ctx, caller.UserID, caller.Role, "attach_document", apperr.Message(err))
		return models.Case{}, err
	}

	doc := models.CaseDocument{
		DocType: strings.TrimSpace(in.DocType),
		DocURL:  strings.TrimSpace(in.DocName),
	}
	if doc.DocType == "" || doc.DocURL == "" {
		return models.Case{}, apperr.InvalidArgument(MsgDocumentRequired)
	}

	wctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "attach document")
	defer cancel()
	updated, err := s.cases.AppendDocument(wctx, c.ID, doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Case{}, apperr.NotFound(MsgCaseNotFound)
	}
	if err != nil {
		return models.Case{}, s.internal("attach document", err)
	}

	s.audit.CaseDocumentAttached(ctx, caller.UserID, updated, doc.DocType)
	s.metrics.CaseEvent("document_attached")
	return updated, nil
}

// ListCases returns every case with beneficiary mobile numbers resolved.
func (s *Service) ListCases(ctx context.Context, caller auth.Identity) ([]models.CaseView, error) {
	if err := s.authorize(ctx, caller, casepolicy.ListAllCases, "list_cases"); err != nil {
		return nil, err
	}

	lctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "list cases")
	defer cancel()

	cases, err := s.cases.List(lctx)
	if err != nil {
		return nil, s.internal("list cases", err)
	}

	seen := make(map[primitive.ObjectID]struct{}, len(cases))
	ids := make([]primitive.ObjectID, 0, len(cases))
	for _, c := range cases {
		if _, ok := seen[c.Beneficiary]; !ok {
			seen[c.Beneficiary] = struct{}{}
			ids = append(ids, c.Beneficiary)
		}
	}
	mobiles, err := s.users.MobilesByIDs(lctx, ids)
	if err != nil {
		return nil, s.internal("resolve beneficiaries", err)
	}

	out := make([]models.CaseView, 0, len(cases))
	for _, c := range cases {
		out = append(out, models.NewCaseView(c, mobiles[c.Beneficiary]))
	}
	return out, nil
}

// ListMyCases returns the caller's own cases, newest first.
func (s *Service) ListMyCases(ctx context.Context, caller auth.Identity) ([]models.CaseView, error) {
	if err := s.authorize(ctx, caller, casepolicy.ListOwnCases, "list_my_cases"); err != nil {
		return nil, err
	}

	lctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "list my cases")
	defer cancel()

	cases, err := s.cases.ListByBeneficiary(lctx, caller.UserID)
	if err != nil {
		return nil, s.internal("list my cases", err)
	}
	out := make([]models.CaseView, 0, len(cases))
	for _, c := range cases {
		out = append(out, models.NewCaseView(c, ""))
	}
	return out, nil
}

// resolve finds a case by ObjectID hex or, failing that, by human-readable id.
func (s *Service) resolve(ctx context.Context, ref string) (models.Case, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Case{}, apperr.NotFound(MsgCaseNotFound)
	}

	rctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "get case")
	defer cancel()

	var (
		c   models.Case
		err error
	)
	if oid, perr := primitive.ObjectIDFromHex(ref); perr == nil {
		c, err = s.cases.GetByID(rctx, oid)
	} else {
		c, err = s.cases.GetByCaseID(rctx, ref)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Case{}, apperr.NotFound(MsgCaseNotFound)
	}
	if err != nil {
		return models.Case{}, s.internal("get case", err)
	}
	return c, nil
}

func (s *Service) authorize(ctx context.Context, caller auth.Identity, c casepolicy.Capability, op string) error {
	if err := casepolicy.Authorize(caller, c); err != nil {
		s.audit.AccessDenied(ctx, caller.UserID, caller.Role, op, apperr.Message(err))
		return err
	}
	return nil
}

func (s *Service) internal(op string, err error) error {
	s.log.Error("case workflow failure", zap.String("op", op), zap.Error(err))
	return apperr.Internal(fmt.Errorf("%s: %w", op, err))
}
