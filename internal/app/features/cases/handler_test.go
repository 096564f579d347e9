package cases_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/nyaysahayak/internal/app/features/cases"
	"github.com/dalemusser/nyaysahayak/internal/app/policy/casepolicy"
	"github.com/dalemusser/nyaysahayak/internal/app/services/caseflow"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/dalemusser/nyaysahayak/internal/app/system/caseid"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"github.com/dalemusser/nyaysahayak/internal/testutil"
	"github.com/dalemusser/nyaysahayak/internal/testutil/memstore"
	"go.uber.org/zap"
)

type caseBody struct {
	Message string `json:"message"`
	Case    struct {
		ID         string `json:"id"`
		CaseID     string `json:"caseId"`
		Status     string `json:"status"`
		FIRDetails struct {
			FIRNumber      string `json:"firNumber"`
			PoliceStation  string `json:"policeStation"`
			DateOfIncident string `json:"dateOfIncident"`
		} `json:"firDetails"`
		Documents []models.CaseDocument `json:"documents"`
		History   []models.HistoryEntry `json:"history"`
	} `json:"case"`
}

type listBody struct {
	Cases []struct {
		CaseID      string `json:"caseId"`
		Beneficiary struct {
			MobileNumber string `json:"mobileNumber"`
		} `json:"beneficiary"`
	} `json:"cases"`
}

type env struct {
	router  http.Handler
	officer auth.Identity
	ben     auth.Identity
	other   auth.Identity
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memstore.New()
	ben := store.AddUser(models.User{MobileNumber: "8888888888"})
	other := store.AddUser(models.User{MobileNumber: "6666666666"})

	gen, err := caseid.New(caseid.DefaultPrefix)
	if err != nil {
		t.Fatalf("caseid.New failed: %v", err)
	}
	svc := caseflow.New(caseflow.Deps{Cases: store.Cases(), Users: store, IDs: gen, Log: zap.NewNop()})
	h := cases.NewHandler(svc, 0, zap.NewNop())

	return &env{
		router:  cases.Routes(h),
		officer: testutil.OfficerUser(),
		ben:     testutil.BeneficiaryUser(ben.ID),
		other:   testutil.BeneficiaryUser(other.ID),
	}
}

func (e *env) do(t *testing.T, req *http.Request, user *auth.Identity) *httptest.ResponseRecorder {
	t.Helper()
	if user != nil {
		req = testutil.WithUser(req, *user)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeCase(t *testing.T, rec *httptest.ResponseRecorder) caseBody {
	t.Helper()
	var b caseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("failed to parse response %q: %v", rec.Body.String(), err)
	}
	return b
}

func (e *env) create(t *testing.T) caseBody {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"beneficiaryMobile": "8888888888",
		"firDetails":        map[string]string{"firNumber": "FIR1", "policeStation": "PS1", "dateOfIncident": "2025-01-10"},
	})
	rec := e.do(t, req, &e.officer)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decodeCase(t, rec)
}

func TestCaseLifecycle(t *testing.T) {
	e := newEnv(t)

	created := e.create(t)
	if created.Message != cases.MsgCreated {
		t.Errorf("message: got %q", created.Message)
	}
	if created.Case.Status != string(models.StatusCaseRegistered) {
		t.Errorf("status: got %q", created.Case.Status)
	}
	if len(created.Case.History) != 1 {
		t.Errorf("history: got %d entries, want 1", len(created.Case.History))
	}
	if created.Case.FIRDetails.DateOfIncident == "" {
		t.Error("expected date of incident to be kept")
	}

	want := []models.CaseStatus{models.StatusVerificationPending, models.StatusSanctionPending, models.StatusDisbursed}
	for i, st := range want {
		rec := e.do(t, httptest.NewRequest(http.MethodPut, "/"+created.Case.CaseID+"/status", nil), &e.officer)
		if rec.Code != http.StatusOK {
			t.Fatalf("promotion %d: expected 200, got %d: %s", i+1, rec.Code, rec.Body.String())
		}
		b := decodeCase(t, rec)
		if b.Message != cases.MsgStatusUpdated {
			t.Errorf("message: got %q", b.Message)
		}
		if b.Case.Status != string(st) {
			t.Errorf("promotion %d: status got %q, want %q", i+1, b.Case.Status, st)
		}
		if len(b.Case.History) != i+2 {
			t.Errorf("promotion %d: history got %d entries", i+1, len(b.Case.History))
		}
	}

	rec := e.do(t, httptest.NewRequest(http.MethodPut, "/"+created.Case.ID+"/status", nil), &e.officer)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("promotion past final stage: expected 400, got %d", rec.Code)
	}
	if got := decodeCase(t, rec).Message; got != caseflow.MsgFinalStage {
		t.Errorf("message: got %q", got)
	}
}

func TestCreate_RequiresOfficer(t *testing.T) {
	e := newEnv(t)
	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"beneficiaryMobile": "8888888888",
		"firDetails":        map[string]string{"firNumber": "FIR1", "policeStation": "PS1"},
	})

	rec := e.do(t, req, &e.ben)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := decodeCase(t, rec).Message; got != casepolicy.MsgOnlyOfficers {
		t.Errorf("message: got %q", got)
	}
}

func TestCreate_BadInput(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"malformed json", `{"beneficiaryMobile":`, http.StatusBadRequest},
		{"unknown mobile", map[string]any{
			"beneficiaryMobile": "1234567890",
			"firDetails":        map[string]string{"firNumber": "F", "policeStation": "P"},
		}, http.StatusNotFound},
		{"missing fir", map[string]any{"beneficiaryMobile": "8888888888"}, http.StatusBadRequest},
		{"bad incident date", map[string]any{
			"beneficiaryMobile": "8888888888",
			"firDetails":        map[string]string{"firNumber": "F", "policeStation": "P", "dateOfIncident": "yesterday"},
		}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			rec := e.do(t, testutil.NewJSONRequest(t, http.MethodPost, "/", tt.body), &e.officer)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUnauthenticated(t *testing.T) {
	e := newEnv(t)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/", nil),
		httptest.NewRequest(http.MethodGet, "/my-case", nil),
		httptest.NewRequest(http.MethodPut, "/POA-TN-2025-10001/status", nil),
	} {
		rec := e.do(t, req, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", req.Method, req.URL.Path, rec.Code)
		}
	}
}

func TestAttachDocument(t *testing.T) {
	e := newEnv(t)
	created := e.create(t)
	path := "/" + created.Case.CaseID + "/documents"
	doc := map[string]string{"docType": "FIR Copy", "docName": "fir.pdf"}

	rec := e.do(t, testutil.NewJSONRequest(t, http.MethodPost, path, doc), &e.other)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner: expected 403, got %d", rec.Code)
	}

	rec = e.do(t, testutil.NewJSONRequest(t, http.MethodPost, path, doc), &e.ben)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	b := decodeCase(t, rec)
	if b.Message != cases.MsgDocumentAdded {
		t.Errorf("message: got %q", b.Message)
	}
	if len(b.Case.Documents) != 1 || b.Case.Documents[0].DocURL != "fir.pdf" {
		t.Errorf("documents: got %+v", b.Case.Documents)
	}

	rec = e.do(t, testutil.NewJSONRequest(t, http.MethodPost, path, map[string]string{"docType": "FIR Copy"}), &e.ben)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing name: expected 400, got %d", rec.Code)
	}
}

func TestListEndpoints(t *testing.T) {
	e := newEnv(t)
	created := e.create(t)

	rec := e.do(t, httptest.NewRequest(http.MethodGet, "/", nil), &e.officer)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var all listBody
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("failed to parse list: %v", err)
	}
	if len(all.Cases) != 1 || all.Cases[0].Beneficiary.MobileNumber != "8888888888" {
		t.Errorf("unexpected list %+v", all.Cases)
	}

	rec = e.do(t, httptest.NewRequest(http.MethodGet, "/", nil), &e.ben)
	if rec.Code != http.StatusForbidden {
		t.Errorf("list as beneficiary: expected 403, got %d", rec.Code)
	}

	rec = e.do(t, httptest.NewRequest(http.MethodGet, "/my-case", nil), &e.ben)
	var mine listBody
	if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
		t.Fatalf("failed to parse my cases: %v", err)
	}
	if len(mine.Cases) != 1 || mine.Cases[0].CaseID != created.Case.CaseID {
		t.Errorf("unexpected my cases %+v", mine.Cases)
	}

	rec = e.do(t, httptest.NewRequest(http.MethodGet, "/my-case", nil), &e.other)
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"cases\":[]}\n" {
		t.Errorf("empty my cases: got %d %q", rec.Code, rec.Body.String())
	}
}
