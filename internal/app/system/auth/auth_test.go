package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret-must-be-32-chars-long"

func newTestTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(testSecret, time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return tm
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	return body.Message
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	if _, err := auth.NewTokenManager("", time.Hour, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueAndParse_RoundTrip(t *testing.T) {
	tm := newTestTokenManager(t)
	uid := primitive.NewObjectID()

	tok, err := tm.Issue(uid, models.RoleOfficer)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	id, err := tm.Parse(tok)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if id.UserID != uid {
		t.Errorf("UserID: got %v, want %v", id.UserID, uid)
	}
	if id.Role != models.RoleOfficer {
		t.Errorf("Role: got %q, want officer", id.Role)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	tm := newTestTokenManager(t)
	other, _ := auth.NewTokenManager("another-secret-that-is-32-chars-long!", time.Hour, zap.NewNop())

	tok, _ := other.Issue(primitive.NewObjectID(), models.RoleAdmin)
	if _, err := tm.Parse(tok); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestParse_Expired(t *testing.T) {
	tm := newTestTokenManager(t)
	c := jwt.MapClaims{
		"id":   primitive.NewObjectID().Hex(),
		"role": "officer",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))

	if _, err := tm.Parse(tok); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParse_UnknownRole(t *testing.T) {
	tm := newTestTokenManager(t)
	c := jwt.MapClaims{
		"id":   primitive.NewObjectID().Hex(),
		"role": "superuser",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))

	if _, err := tm.Parse(tok); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParse_MissingExpiry(t *testing.T) {
	tm := newTestTokenManager(t)
	c := jwt.MapClaims{
		"id":   primitive.NewObjectID().Hex(),
		"role": "officer",
	}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))

	if _, err := tm.Parse(tok); err == nil {
		t.Fatal("expected error for token without exp")
	}
}

func TestRequireSignedIn_NoToken_Returns401(t *testing.T) {
	tm := newTestTokenManager(t)
	called := false
	handler := tm.LoadIdentity(auth.RequireSignedIn(okHandler(&called)))

	req := httptest.NewRequest("GET", "/api/cases/my-case", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if called {
		t.Error("handler should not be called")
	}
	if msg := decodeMessage(t, rec); msg != "Authorization denied. No token provided." {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestRequireSignedIn_InvalidToken_Returns401(t *testing.T) {
	tm := newTestTokenManager(t)
	called := false
	handler := tm.LoadIdentity(auth.RequireSignedIn(okHandler(&called)))

	req := httptest.NewRequest("GET", "/api/cases/my-case", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Token is not valid." {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestRequireSignedIn_ValidToken_Proceeds(t *testing.T) {
	tm := newTestTokenManager(t)
	uid := primitive.NewObjectID()
	tok, _ := tm.Issue(uid, models.RoleBeneficiary)

	var seen auth.Identity
	handler := tm.LoadIdentity(auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest("GET", "/api/cases/my-case", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if seen.UserID != uid || seen.Role != models.RoleBeneficiary {
		t.Errorf("unexpected identity %+v", seen)
	}
}
