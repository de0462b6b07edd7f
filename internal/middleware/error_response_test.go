package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/mtauth/internal/model"
)

func TestWriteErrorResponse_WritesUnifiedFormat(t *testing.T) {
	w := httptest.NewRecorder()

	WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthFailedError())

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body ErrorResponseBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if body.Code != model.ErrCodeAuthFailed {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeAuthFailed)
	}
	if body.Category != "auth" {
		t.Errorf("category = %q, want %q", body.Category, "auth")
	}
	if body.Message == "" || body.Action == "" {
		t.Error("message and action should be populated")
	}
}

// 内部エラーの詳細がレスポンスボディに漏れないこと
func TestWriteInternalServerError_DoesNotLeakDetail(t *testing.T) {
	w := httptest.NewRecorder()

	WriteInternalServerError(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	body := w.Body.String()
	for _, leak := range []string{"sql", "pq:", "connection", "stack"} {
		if strings.Contains(strings.ToLower(body), leak) {
			t.Errorf("body should not contain %q, got %q", leak, body)
		}
	}

	var parsed ErrorResponseBody
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if parsed.Code != model.ErrCodeInternal {
		t.Errorf("code = %q, want %q", parsed.Code, model.ErrCodeInternal)
	}
}
