package grievanceflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/nyaysahayak/internal/app/services/grievanceflow"
	"github.com/dalemusser/nyaysahayak/internal/app/system/apperr"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"github.com/dalemusser/nyaysahayak/internal/testutil/memstore"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type env struct {
	svc      *grievanceflow.Service
	store    *memstore.Store
	officer  auth.Identity
	ben      models.User
	benIdent auth.Identity
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memstore.New()
	ben := store.AddUser(models.User{MobileNumber: "8888888888"})
	officer := store.AddUser(models.User{MobileNumber: "7777777777", Role: models.RoleOfficer})
	svc := grievanceflow.New(grievanceflow.Deps{
		Grievances: store.Grievances(),
		Cases:      store.Cases(),
		Users:      store,
		Log:        zap.NewNop(),
	})
	return &env{
		svc:      svc,
		store:    store,
		officer:  auth.Identity{UserID: officer.ID, Role: models.RoleOfficer},
		ben:      ben,
		benIdent: auth.Identity{UserID: ben.ID, Role: models.RoleBeneficiary},
	}
}

func (e *env) seedCase(t *testing.T, caseID string) models.Case {
	t.Helper()
	c, err := e.store.Cases().Create(context.Background(), models.Case{
		CaseID:      caseID,
		Beneficiary: e.ben.ID,
		Status:      models.StatusCaseRegistered,
		History:     []models.HistoryEntry{{Status: models.StatusCaseRegistered, Timestamp: time.Now().UTC()}},
	})
	if err != nil {
		t.Fatalf("seed case failed: %v", err)
	}
	return c
}

func expectKind(t *testing.T, err error, want apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := apperr.KindOf(err); got != want {
		t.Fatalf("expected kind %s, got %s (%v)", want, got, err)
	}
}

func TestCreateGrievance_UsesMostRecentCase(t *testing.T) {
	e := newEnv(t)
	e.seedCase(t, "POA-TN-2025-10001")
	latest := e.seedCase(t, "POA-TN-2025-10002")

	g, err := e.svc.CreateGrievance(context.Background(), e.benIdent, "  Compensation not received  ")
	if err != nil {
		t.Fatalf("CreateGrievance failed: %v", err)
	}
	if g.CaseID != latest.ID {
		t.Errorf("case: got %v, want most recent %v", g.CaseID, latest.ID)
	}
	if g.Beneficiary != e.ben.ID {
		t.Errorf("beneficiary: got %v", g.Beneficiary)
	}
	if g.Status != models.GrievanceOpen {
		t.Errorf("status: got %q, want Open", g.Status)
	}
	if g.Details != "Compensation not received" {
		t.Errorf("details: got %q", g.Details)
	}
}

func TestCreateGrievance_BlankDetails(t *testing.T) {
	e := newEnv(t)
	e.seedCase(t, "POA-TN-2025-10001")

	for _, details := range []string{"", "   ", "\n\t", "<script>alert(1)</script>"} {
		_, err := e.svc.CreateGrievance(context.Background(), e.benIdent, details)
		expectKind(t, err, apperr.KindInvalidArgument)
		if apperr.Message(err) != grievanceflow.MsgDetailsRequired {
			t.Errorf("message: got %q", apperr.Message(err))
		}
	}
}

func TestCreateGrievance_StripsMarkup(t *testing.T) {
	e := newEnv(t)
	e.seedCase(t, "POA-TN-2025-10001")

	g, err := e.svc.CreateGrievance(context.Background(), e.benIdent, "<b>Payment</b> delayed<script>x()</script>")
	if err != nil {
		t.Fatalf("CreateGrievance failed: %v", err)
	}
	if g.Details != "Payment delayed" {
		t.Errorf("details: got %q", g.Details)
	}
}

func TestCreateGrievance_NoCase(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.CreateGrievance(context.Background(), e.benIdent, "Where is my case?")
	expectKind(t, err, apperr.KindNotFound)
	if apperr.Message(err) != grievanceflow.MsgNoCaseForUser {
		t.Errorf("message: got %q", apperr.Message(err))
	}
}

func TestResolveGrievance(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedCase(t, "POA-TN-2025-10001")
	g, _ := e.svc.CreateGrievance(ctx, e.benIdent, "delay")

	_, err := e.svc.ResolveGrievance(ctx, e.benIdent, g.ID.Hex())
	expectKind(t, err, apperr.KindForbidden)

	resolved, err := e.svc.ResolveGrievance(ctx, e.officer, g.ID.Hex())
	if err != nil {
		t.Fatalf("ResolveGrievance failed: %v", err)
	}
	if resolved.Status != models.GrievanceResolved {
		t.Errorf("status: got %q", resolved.Status)
	}

	// Idempotent.
	if _, err := e.svc.ResolveGrievance(ctx, e.officer, g.ID.Hex()); err != nil {
		t.Errorf("second resolve failed: %v", err)
	}

	for _, id := range []string{primitive.NewObjectID().Hex(), "bogus"} {
		_, err := e.svc.ResolveGrievance(ctx, e.officer, id)
		expectKind(t, err, apperr.KindNotFound)
	}
}

func TestListOpenGrievances(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.seedCase(t, "POA-TN-2025-10001")

	first, _ := e.svc.CreateGrievance(ctx, e.benIdent, "first")
	second, _ := e.svc.CreateGrievance(ctx, e.benIdent, "second")
	done, _ := e.svc.CreateGrievance(ctx, e.benIdent, "done")
	if _, err := e.svc.ResolveGrievance(ctx, e.officer, done.ID.Hex()); err != nil {
		t.Fatalf("ResolveGrievance failed: %v", err)
	}

	views, err := e.svc.ListOpenGrievances(ctx, e.officer)
	if err != nil {
		t.Fatalf("ListOpenGrievances failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 open grievances, got %d", len(views))
	}
	if views[0].ID != first.ID || views[1].ID != second.ID {
		t.Error("expected oldest grievance first")
	}
	if views[0].Beneficiary.MobileNumber != "8888888888" {
		t.Errorf("mobile: got %q", views[0].Beneficiary.MobileNumber)
	}
	if views[0].Case.CaseID != c.CaseID {
		t.Errorf("case id: got %q, want %q", views[0].Case.CaseID, c.CaseID)
	}

	_, err = e.svc.ListOpenGrievances(ctx, e.benIdent)
	expectKind(t, err, apperr.KindForbidden)
}

func TestListMyGrievances(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	empty, err := e.svc.ListMyGrievances(ctx, e.benIdent)
	if err != nil {
		t.Fatalf("ListMyGrievances without case failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil list, got %v", empty)
	}

	old := e.seedCase(t, "POA-TN-2025-10001")
	early, _ := e.svc.CreateGrievance(ctx, e.benIdent, "early")
	e.seedCase(t, "POA-TN-2025-10002")

	a, _ := e.svc.CreateGrievance(ctx, e.benIdent, "a")
	b, _ := e.svc.CreateGrievance(ctx, e.benIdent, "b")

	// Another beneficiary's grievance must not show up.
	other := e.store.AddUser(models.User{MobileNumber: "5555555555"})
	_, _ = e.store.Grievances().Create(ctx, models.Grievance{CaseID: old.ID, Beneficiary: other.ID, Details: "other"})

	views, err := e.svc.ListMyGrievances(ctx, e.benIdent)
	if err != nil {
		t.Fatalf("ListMyGrievances failed: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 grievances, got %d", len(views))
	}
	if views[0].ID != b.ID || views[1].ID != a.ID || views[2].ID != early.ID {
		t.Error("expected newest grievance first")
	}
	if views[0].Case.CaseID != "POA-TN-2025-10002" {
		t.Errorf("case id: got %q", views[0].Case.CaseID)
	}
	// Grievances on an earlier case stay visible after a newer case exists.
	if views[2].Case.CaseID != "POA-TN-2025-10001" {
		t.Errorf("earlier case id: got %q", views[2].Case.CaseID)
	}
}

func TestStoreFailureIsInternal(t *testing.T) {
	e := newEnv(t)
	e.store.Err = errors.New("boom")

	_, err := e.svc.ListOpenGrievances(context.Background(), e.officer)
	expectKind(t, err, apperr.KindInternal)

	_, err = e.svc.CreateGrievance(context.Background(), e.benIdent, "details")
	expectKind(t, err, apperr.KindInternal)
}
