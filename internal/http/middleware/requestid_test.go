package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func captureRequestID(t *testing.T, inbound string) (ctxID string, header string) {
	t.Helper()

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	if inbound != "" {
		request.Header.Set(RequestIDHeader, inbound)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return ctxID, recorder.Header().Get(RequestIDHeader)
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	fromContext, fromHeader := captureRequestID(t, "")
	if fromContext == "" || fromContext == "unknown" {
		t.Fatalf("expected a generated id, got %q", fromContext)
	}
	if _, err := uuid.Parse(fromContext); err != nil {
		t.Fatalf("expected a uuid, got %q", fromContext)
	}
	if fromHeader != fromContext {
		t.Fatalf("expected response header %q to match context id %q", fromHeader, fromContext)
	}
}

func TestRequestIDKeepsValidInboundID(t *testing.T) {
	inbound := uuid.NewString()
	fromContext, fromHeader := captureRequestID(t, inbound)
	if fromContext != inbound || fromHeader != inbound {
		t.Fatalf("expected inbound id %q kept, got context=%q header=%q", inbound, fromContext, fromHeader)
	}
}

func TestRequestIDReplacesMalformedInboundID(t *testing.T) {
	fromContext, _ := captureRequestID(t, "not-a-uuid-<script>")
	if fromContext == "not-a-uuid-<script>" {
		t.Fatalf("expected malformed inbound id to be replaced")
	}
	if _, err := uuid.Parse(fromContext); err != nil {
		t.Fatalf("expected replacement to be a uuid, got %q", fromContext)
	}
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	if got := GetRequestID(request.Context()); got != "unknown" {
		t.Fatalf("expected fallback id, got %q", got)
	}
}
