package formutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/nyaysahayak/internal/app/system/apperr"
	"github.com/dalemusser/nyaysahayak/internal/app/system/formutil"
)

type payload struct {
	Details string `json:"details"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		max     int64
		want    string
		wantMsg string
	}{
		{name: "valid", body: `{"details":"late payment"}`, want: "late payment"},
		{name: "empty body", body: ""},
		{name: "unknown fields ignored", body: `{"details":"x","extra":1}`, want: "x"},
		{name: "malformed", body: `{"details":`, wantMsg: formutil.MsgInvalidBody},
		{name: "wrong type", body: `{"details":42}`, wantMsg: formutil.MsgInvalidBody},
		{name: "too large", body: `{"details":"` + strings.Repeat("a", 64) + `"}`, max: 16, wantMsg: formutil.MsgBodyTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/grievances", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var p payload
			err := formutil.DecodeJSON(rec, req, tt.max, &p)

			if tt.wantMsg != "" {
				if apperr.KindOf(err) != apperr.KindInvalidArgument {
					t.Fatalf("expected invalid argument, got %v", err)
				}
				if got := apperr.Message(err); got != tt.wantMsg {
					t.Errorf("message: got %q, want %q", got, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Details != tt.want {
				t.Errorf("details: got %q, want %q", p.Details, tt.want)
			}
		})
	}
}
