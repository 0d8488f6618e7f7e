package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/logger"
	appctx "github.com/baechuer/real-time-ressys/services/onboarding-service/internal/pkg/context"
)

func newReqWithBody(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type decodeDst struct {
	A string `json:"a"`
	B int    `json:"b"`
}

func TestDecodeJSON_OK_SingleObject(t *testing.T) {
	var dst decodeDst
	if err := DecodeJSON(httptest.NewRecorder(), newReqWithBody(t, `{"a":"x","b":1}`), &dst); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if dst.A != "x" || dst.B != 1 {
		t.Fatalf("unexpected dst: %+v", dst)
	}
}

func TestDecodeJSON_Rejects(t *testing.T) {
	cases := map[string]string{
		"truncated":       `{"a":"x",`,
		"multiple values": `{}{}`,
		"trailing junk":   `{"a":"x"} nope`,
		"empty":           ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var dst decodeDst
			err := DecodeJSON(httptest.NewRecorder(), newReqWithBody(t, body), &dst)
			if !domain.Is(err, "invalid_json") {
				t.Fatalf("expected invalid_json, got %v", err)
			}
		})
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	body := `{"a":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	var dst decodeDst
	err := DecodeJSON(httptest.NewRecorder(), newReqWithBody(t, body), &dst)
	if !domain.Is(err, "invalid_json") {
		t.Fatalf("expected invalid_json, got %v", err)
	}
}

func TestWriteError_DomainError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(appctx.WithRequestID(req.Context(), "rid-1"))
	rr := httptest.NewRecorder()

	WriteError(rr, req, domain.ErrStepMismatch("3", domain.StepTwo))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content-type = %q", ct)
	}

	var body ErrorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "step_mismatch" {
		t.Fatalf("code = %q", body.Error.Code)
	}
	if body.Error.Meta["expected"] != "3" || body.Error.Meta["got"] != "2" {
		t.Fatalf("meta = %v", body.Error.Meta)
	}
	if body.Error.RequestID != "rid-1" {
		t.Fatalf("request_id = %q", body.Error.RequestID)
	}
}

func TestWriteError_NonDomainErrorIsOpaque(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, httptest.NewRequest(http.MethodGet, "/x", nil), errors.New("pq: secret detail"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "secret detail") {
		t.Fatalf("leaked internal error: %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"internal_error"`) {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestWriteError_LogsServerSideFailuresOnly(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	var buf bytes.Buffer
	logger.InitWithWriter(&buf)
	t.Cleanup(func() { logger.InitWithWriter(&bytes.Buffer{}) })

	WriteError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil), domain.ErrDraftNotFound())
	if buf.Len() != 0 {
		t.Fatalf("client error was logged: %s", buf.String())
	}

	rr := httptest.NewRecorder()
	WriteError(rr, httptest.NewRequest(http.MethodGet, "/x", nil), domain.ErrDBUnavailable(errors.New("dial tcp: refused")))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(buf.String(), `"request_failed"`) || !strings.Contains(buf.String(), "dial tcp: refused") {
		t.Fatalf("log = %s", buf.String())
	}
	if strings.Contains(rr.Body.String(), "dial tcp") {
		t.Fatalf("leaked cause: %s", rr.Body.String())
	}
}

func TestStatusFromKind(t *testing.T) {
	cases := map[domain.ErrKind]int{
		domain.KindValidation:     400,
		domain.KindAuth:           401,
		domain.KindForbidden:      403,
		domain.KindNotFound:       404,
		domain.KindConflict:       409,
		domain.KindRateLimited:    429,
		domain.KindInfrastructure: 503,
		domain.KindInternal:       500,
		domain.ErrKind("weird"):   500,
	}
	for kind, want := range cases {
		if got := StatusFromKind(kind); got != want {
			t.Errorf("StatusFromKind(%q) = %d, want %d", kind, got, want)
		}
	}
}

func TestSuccessWriters(t *testing.T) {
	rr := httptest.NewRecorder()
	Created(rr, "/onboarding/v1/me", map[string]string{"id": "d1"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/onboarding/v1/me" {
		t.Fatalf("Location = %q", got)
	}
	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q", got)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"data":{"id":"d1"}}` {
		t.Fatalf("body = %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	NoContent(rr)
	if rr.Code != http.StatusNoContent || rr.Body.Len() != 0 {
		t.Fatalf("unexpected no-content response: %d %q", rr.Code, rr.Body.String())
	}
}
