package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/mtauth/internal/middleware"
	"github.com/hitoshi/mtauth/internal/model"
)

func newTestRouter(svc *mockAuthService) http.Handler {
	return NewRouter(&RouterDeps{
		Logger:        slog.New(slog.NewJSONHandler(io.Discard, nil)),
		HealthChecker: &mockHealthChecker{},
		AuthService:   svc,
		AuthConfig:    AuthHandlerConfig{UIBaseURL: "http://localhost:3000"},
		Metrics:       newMockMetrics(),
	})
}

func TestRouter_Root(t *testing.T) {
	router := newTestRouter(&mockAuthService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "up and running") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(&mockAuthService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// devフラグなしのログイン開始は、ルート不存在と区別できない404になること
func TestRouter_LoginWithoutDevFlag_Returns404(t *testing.T) {
	called := false
	router := newTestRouter(&mockAuthService{
		getLoginURLFn: func(_ string) string {
			called = true
			return "https://accounts.google.com/o/oauth2/auth"
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/google/login", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if called {
		t.Error("login handler must not run when dev flag is absent")
	}
	if loc := w.Header().Get("Location"); loc != "" {
		t.Errorf("unexpected redirect: %q", loc)
	}

	var body middleware.ErrorResponseBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error body: %v", err)
	}
	if body.Code != model.ErrCodeRouteNotFound {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeRouteNotFound)
	}
}

func TestRouter_LoginWithDevFlag_Redirects(t *testing.T) {
	router := newTestRouter(&mockAuthService{
		getLoginURLFn: func(_ string) string {
			return "https://accounts.google.com/o/oauth2/auth?client_id=x"
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/google/login?dev=true", nil))

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "accounts.google.com") {
		t.Errorf("Location = %q", loc)
	}
}

// コールバックはdevフラグゲートの対象外であること
func TestRouter_CallbackNotGatedByDevFlag(t *testing.T) {
	router := newTestRouter(&mockAuthService{
		handleCallbackFn: func(_ context.Context, _ string) (*model.User, bool, error) {
			return defaultUser(), false, nil
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/google/callback?code=test-code", nil))

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != "http://localhost:3000" {
		t.Errorf("Location = %q, want configured UI URL", loc)
	}
}

func TestRouter_UnknownRoute_Returns404(t *testing.T) {
	router := newTestRouter(&mockAuthService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}

	var body middleware.ErrorResponseBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error body: %v", err)
	}
	if body.Code != model.ErrCodeRouteNotFound {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeRouteNotFound)
	}
}

// ゲートされたルートの404と未知ルートの404が完全に同一レスポンスであること
func TestRouter_GatedAndUnknownRoute404sAreIndistinguishable(t *testing.T) {
	router := newTestRouter(&mockAuthService{})

	gated := httptest.NewRecorder()
	router.ServeHTTP(gated, httptest.NewRequest(http.MethodGet, "/google/login", nil))

	unknown := httptest.NewRecorder()
	router.ServeHTTP(unknown, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

	if gated.Code != unknown.Code {
		t.Errorf("status codes differ: gated = %d, unknown = %d", gated.Code, unknown.Code)
	}
	if g, u := gated.Header().Get("Content-Type"), unknown.Header().Get("Content-Type"); g != u {
		t.Errorf("Content-Type differs: gated = %q, unknown = %q", g, u)
	}
	if gated.Body.String() != unknown.Body.String() {
		t.Errorf("bodies differ:\ngated   = %s\nunknown = %s", gated.Body.String(), unknown.Body.String())
	}
}

// ハンドラーのpanicが500に変換され、プロセスが落ちないこと
func TestRouter_RecoversFromPanic(t *testing.T) {
	router := newTestRouter(&mockAuthService{
		handleCallbackFn: func(_ context.Context, _ string) (*model.User, bool, error) {
			panic("unexpected state")
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/google/callback?code=test-code", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
