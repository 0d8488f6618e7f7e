package http_handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/application/onboarding"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/infrastructure/memory"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/middleware"
)

var fixedNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

type testApp struct {
	svc     *onboarding.Service
	handler http.Handler
}

// newTestApp wires the real service on the in-memory stores and mounts the
// handlers the way the router does, minus the global middleware.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	accounts := memory.NewAccountRepo()
	drafts := memory.NewDraftRepo(accounts)
	svc := onboarding.NewService(
		memory.NewPartitionStore(),
		accounts,
		drafts,
		memory.NewSessionStore(),
		security.NewBcryptHasher(4),
		memory.NewReportView(accounts, drafts),
		memory.NewNoopPublisher(),
		onboarding.Config{Clock: func() time.Time { return fixedNow }},
	)

	ob := NewOnboardingHandler(svc, time.Hour, false)
	admin := NewAdminHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/onboarding/v1", func(r chi.Router) {
		r.Get("/config", ob.Config)
		r.Post("/drafts", ob.StartDraft)
		r.Get("/me", ob.Me)
		r.Post("/me/steps/{step}", ob.SubmitStep)
		r.Get("/admin/config", admin.GetConfig)
		r.Put("/admin/config", admin.PutConfig)
		r.Get("/admin/users", admin.ListUsers)
	})

	return &testApp{svc: svc, handler: r}
}

// do sends a request; token, when set, goes in the session cookie.
func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		rdr = mustJSONBody(t, b)
	}

	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: token})
	}

	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

// doWithHeader passes the token in the session header instead of a cookie.
func (a *testApp) doWithHeader(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, mustJSONBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(security.SessionHeader, token)

	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

// start runs step 1 and returns the session token.
func (a *testApp) start(t *testing.T, email string) string {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/onboarding/v1/drafts", map[string]string{
		"email":    email,
		"password": "secret-pass",
	}, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("start: status=%d body=%s", rr.Code, rr.Body.String())
	}
	c := readCookie(rr.Result(), security.SessionCookieName)
	if c == nil || c.Value == "" {
		t.Fatalf("start: no session cookie")
	}
	return c.Value
}

func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadData decodes the {"data": ...} envelope into out.
func mustReadData(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	wrapped := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rr.Body.Bytes(), &wrapped); err != nil || len(wrapped.Data) == 0 {
		t.Fatalf("decode envelope failed; body=%s", rr.Body.String())
	}
	if err := json.Unmarshal(wrapped.Data, out); err != nil {
		t.Fatalf("decode data failed; body=%s err=%v", rr.Body.String(), err)
	}
}

type errorBody struct {
	Error struct {
		Code string            `json:"code"`
		Meta map[string]string `json:"meta"`
	} `json:"error"`
}

func mustReadError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var eb errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &eb); err != nil {
		t.Fatalf("decode error body: %v; body=%s", err, rr.Body.String())
	}
	return eb
}

func readCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
