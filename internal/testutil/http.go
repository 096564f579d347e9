package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OfficerUser returns an officer identity with a fresh id.
func OfficerUser() auth.Identity {
	return auth.Identity{UserID: primitive.NewObjectID(), Role: models.RoleOfficer}
}

// AdminUser returns an admin identity with a fresh id.
func AdminUser() auth.Identity {
	return auth.Identity{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}
}

// BeneficiaryUser returns a beneficiary identity for the given user id.
func BeneficiaryUser(id primitive.ObjectID) auth.Identity {
	return auth.Identity{UserID: id, Role: models.RoleBeneficiary}
}

// WithUser adds an identity to the request context for testing
// authenticated handlers. This bypasses token parsing.
func WithUser(r *http.Request, user auth.Identity) *http.Request {
	return auth.WithTestUser(r, user)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request with body encoded as JSON.
// A string body is sent verbatim.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeJSON decodes a recorded response body into a map.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
