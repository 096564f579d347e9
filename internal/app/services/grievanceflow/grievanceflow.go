// Package grievanceflow implements the grievance lifecycle: beneficiaries
// file grievances against their most recent case and officers resolve them.
package grievanceflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/nyaysahayak/internal/app/policy/casepolicy"
	"github.com/dalemusser/nyaysahayak/internal/app/system/apperr"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auditlog"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/dalemusser/nyaysahayak/internal/app/system/htmlsanitize"
	"github.com/dalemusser/nyaysahayak/internal/app/system/metrics"
	"github.com/dalemusser/nyaysahayak/internal/app/system/timeouts"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Client-facing messages.
const (
	MsgDetailsRequired   = "Grievance details are required."
	MsgNoCaseForUser     = "No case found for this user to file a grievance against."
	MsgGrievanceNotFound = "Grievance not found"
)

// GrievanceStore is the grievance persistence. *grievancestore.Store satisfies it.
type GrievanceStore interface {
	Create(ctx context.Context, g models.Grievance) (models.Grievance, error)
	Resolve(ctx context.Context, id primitive.ObjectID) (models.Grievance, error)
	ListOpen(ctx context.Context) ([]models.Grievance, error)
	ListByBeneficiary(ctx context.Context, beneficiary primitive.ObjectID) ([]models.Grievance, error)
}

// CaseLookup is the slice of the case store grievances depend on.
type CaseLookup interface {
	LatestByBeneficiary(ctx context.Context, beneficiary primitive.ObjectID) (models.Case, error)
	CaseIDsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

// UserLookup resolves mobile numbers for listings.
type UserLookup interface {
	MobilesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

// Deps wires a Service. Audit and Metrics may be nil.
type Deps struct {
	Grievances GrievanceStore
	Cases      CaseLookup
	Users      UserLookup
	Audit      *auditlog.Logger
	Metrics    *metrics.Metrics
	Log        *zap.Logger
}

type Service struct {
	grievances GrievanceStore
	cases      CaseLookup
	users      UserLookup
	audit      *auditlog.Logger
	metrics    *metrics.Metrics
	log        *zap.Logger
}

func New(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		grievances: d.Grievances,
		cases:      d.Cases,
		users:      d.Users,
		audit:      d.Audit,
		metrics:    d.Metrics,
		log:        log,
	}
}

// CreateGrievance files a grievance against the caller's most recently
// created case. Details are stripped of markup and must not be empty.
func (s *Service) CreateGrievance(ctx context.Context, caller auth.Identity, details string) (models.Grievance, error) {
	if err := s.authorize(ctx, caller, casepolicy.FileGrievance, "create_grievance"); err != nil {
		return models.Grievance{}, err
	}

	details = htmlsanitize.StripTags(details)
	if details == "" {
		return models.Grievance{}, apperr.InvalidArgument(MsgDetailsRequired)
	}

	cctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "latest case")
	c, err := s.cases.LatestByBeneficiary(cctx, caller.UserID)
	cancel()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Grievance{}, apperr.NotFound(MsgNoCaseForUser)
	}
	if err != nil {
		return models.Grievance{}, s.internal("latest case", err)
	}

	wctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "create grievance")
	defer cancel()
	g, err := s.grievances.Create(wctx, models.Grievance{
		CaseID:      c.ID,
		Beneficiary: caller.UserID,
		Details:     details,
		Status:      models.GrievanceOpen,
	})
	if err != nil {
		return models.Grievance{}, s.internal("create grievance", err)
	}

	s.log.Info("grievance filed",
		zap.String("grievance_id", g.ID.Hex()),
		zap.String("case_id", c.CaseID))
	s.audit.GrievanceCreated(ctx, caller.UserID, g)
	s.metrics.GrievanceEvent("created")
	return g, nil
}

// ResolveGrievance marks a grievance Resolved. Resolving an already
// resolved grievance succeeds.
func (s *Service) ResolveGrievance(ctx context.Context, caller auth.Identity, id string) (models.Grievance, error) {
	if err := s.authorize(ctx, caller, casepolicy.ResolveGrievance, "resolve_grievance"); err != nil {
		return models.Grievance{}, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Grievance{}, apperr.NotFound(MsgGrievanceNotFound)
	}

	wctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "resolve grievance")
	defer cancel()
	g, err := s.grievances.Resolve(wctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Grievance{}, apperr.NotFound(MsgGrievanceNotFound)
	}
	if err != nil {
		return models.Grievance{}, s.internal("resolve grievance", err)
	}

	s.audit.GrievanceResolved(ctx, caller.UserID, g)
	s.metrics.GrievanceEvent("resolved")
	return g, nil
}

// ListOpenGrievances returns Open grievances oldest first, with beneficiary
// mobile numbers and case ids resolved.
func (s *Service) ListOpenGrievances(ctx context.Context, caller auth.Identity) ([]models.GrievanceView, error) {
	if err := s.authorize(ctx, caller, casepolicy.ListOpenGrievances, "list_open_grievances"); err != nil {
		return nil, err
	}

	lctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "list open grievances")
	defer cancel()

	list, err := s.grievances.ListOpen(lctx)
	if err != nil {
		return nil, s.internal("list open grievances", err)
	}

	userIDs := make([]primitive.ObjectID, 0, len(list))
	caseIDs := make([]primitive.ObjectID, 0, len(list))
	for _, g := range list {
		userIDs = append(userIDs, g.Beneficiary)
		caseIDs = append(caseIDs, g.CaseID)
	}
	mobiles, err := s.users.MobilesByIDs(lctx, userIDs)
	if err != nil {
		return nil, s.internal("resolve beneficiaries", err)
	}
	refs, err := s.cases.CaseIDsByIDs(lctx, caseIDs)
	if err != nil {
		return nil, s.internal("resolve cases", err)
	}

	out := make([]models.GrievanceView, 0, len(list))
	for _, g := range list {
		out = append(out, models.NewGrievanceView(g, refs[g.CaseID], mobiles[g.Beneficiary]))
	}
	return out, nil
}

// ListMyGrievances returns every grievance the caller has filed, across all
// of their cases, newest first. A caller with no grievances gets an empty list.
func (s *Service) ListMyGrievances(ctx context.Context, caller auth.Identity) ([]models.GrievanceView, error) {
	if err := s.authorize(ctx, caller, casepolicy.FileGrievance, "list_my_grievances"); err != nil {
		return nil, err
	}

	lctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "list my grievances")
	defer cancel()

	list, err := s.grievances.ListByBeneficiary(lctx, caller.UserID)
	if err != nil {
		return nil, s.internal("list my grievances", err)
	}

	caseIDs := make([]primitive.ObjectID, 0, len(list))
	for _, g := range list {
		caseIDs = append(caseIDs, g.CaseID)
	}
	refs, err := s.cases.CaseIDsByIDs(lctx, caseIDs)
	if err != nil {
		return nil, s.internal("resolve cases", err)
	}

	out := make([]models.GrievanceView, 0, len(list))
	for _, g := range list {
		out = append(out, models.NewGrievanceView(g, refs[g.CaseID], ""))
	}
	return out, nil
}

func (s *Service) authorize(ctx context.Context, caller auth.Identity, c casepolicy.Capability, op string) error {
	if err := casepolicy.Authorize(caller, c); err != nil {
		s.audit.AccessDenied(ctx, caller.UserID, caller.Role, op, apperr.Message(err))
		return err
	}
	return nil
}

func (s *Service) internal(op string, err error) error {
	s.log.Error("grievance workflow failure", zap.String("op", op), zap.Error(err))
	return apperr.Internal(fmt.Errorf("%s: %w", op, err))
}
