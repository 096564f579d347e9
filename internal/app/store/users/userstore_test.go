package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/nyaysahayak/internal/app/store/users"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"github.com/dalemusser/nyaysahayak/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create_DefaultsToBeneficiary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{MobileNumber: " 9000000001 "})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.MobileNumber != "9000000001" {
		t.Errorf("expected trimmed mobile, got %q", created.MobileNumber)
	}
	if created.Role != models.RoleBeneficiary {
		t.Errorf("expected role beneficiary, got %q", created.Role)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_DuplicateMobile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{MobileNumber: "9000000002"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{MobileNumber: "9000000002", Role: models.RoleOfficer})
	if !errors.Is(err, userstore.ErrDuplicateMobile) {
		t.Errorf("expected ErrDuplicateMobile, got %v", err)
	}
}

func TestStore_Create_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{MobileNumber: "  "}); err == nil {
		t.Error("expected error for blank mobile")
	}
	if _, err := store.Create(ctx, models.User{MobileNumber: "9000000003", Role: "superadmin"}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestStore_GetByMobile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateBeneficiary(ctx, "9000000004")

	got, err := store.GetByMobile(ctx, "9000000004 ")
	if err != nil {
		t.Fatalf("GetByMobile failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("ID: got %v, want %v", got.ID, u.ID)
	}

	_, err = store.GetByMobile(ctx, "0000000000")
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_MobilesByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateBeneficiary(ctx, "9000000005")
	b := fixtures.CreateBeneficiary(ctx, "9000000006")
	missing := primitive.NewObjectID()

	got, err := store.MobilesByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, missing})
	if err != nil {
		t.Fatalf("MobilesByIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[a.ID] != "9000000005" || got[b.ID] != "9000000006" {
		t.Errorf("unexpected mobiles: %v", got)
	}

	empty, err := store.MobilesByIDs(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty map for no ids, got %v, %v", empty, err)
	}
}
