package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given mobile number and role.
func (f *Fixtures) CreateUser(ctx context.Context, mobile string, role models.Role) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		MobileNumber: mobile,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateBeneficiary inserts a beneficiary.
func (f *Fixtures) CreateBeneficiary(ctx context.Context, mobile string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, mobile, models.RoleBeneficiary)
}

// CreateOfficer inserts an officer.
func (f *Fixtures) CreateOfficer(ctx context.Context, mobile string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, mobile, models.RoleOfficer)
}

// CreateCase inserts a case in the given status. History holds a single
// entry for that status.
func (f *Fixtures) CreateCase(ctx context.Context, beneficiary primitive.ObjectID, caseID string, status models.CaseStatus) models.Case {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Case{
		ID:          primitive.NewObjectID(),
		CaseID:      caseID,
		Beneficiary: beneficiary,
		FIRDetails:  models.FIRDetails{FIRNumber: "FIR-" + caseID, PoliceStation: "Test PS"},
		Status:      status,
		Documents:   []models.CaseDocument{},
		History: []models.HistoryEntry{{
			Status:    status,
			UpdatedBy: "fixture",
			Remarks:   models.RemarkCaseCreated,
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("cases").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test case: %v", err)
	}
	return c
}

// CreateGrievance inserts a grievance against c.
func (f *Fixtures) CreateGrievance(ctx context.Context, c models.Case, details string, status models.GrievanceStatus) models.Grievance {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Grievance{
		ID:          primitive.NewObjectID(),
		CaseID:      c.ID,
		Beneficiary: c.Beneficiary,
		Details:     details,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("grievances").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test grievance: %v", err)
	}
	return g
}
