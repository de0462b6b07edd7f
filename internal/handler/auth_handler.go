// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/mtauth/internal/metrics"
	"github.com/hitoshi/mtauth/internal/middleware"
	"github.com/hitoshi/mtauth/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	GetLoginURL(state string) string
	HandleCallback(ctx context.Context, code string) (user *model.User, created bool, err error)
}

// MetricsRecorder は認証フローの計測インターフェース。metrics.Collectorの部分集合。
type MetricsRecorder interface {
	RecordLoginInitiated()
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
	RecordUserRegistered()
	RecordCallbackLatency(duration time.Duration)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	// UIBaseURL は認証完了後のリダイレクト先。
	// リクエスト由来の値は使用せず、常にこの設定値へリダイレクトする。
	UIBaseURL string
}

// AuthHandler はOAuth認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics MetricsRecorder
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, m MetricsRecorder, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: m,
		config:  config,
	}
}

// Login はGoogle OAuthフローを開始する。
// GET /google/login?dev=true&redirectURL=xxx
// redirectURLはstateとしてIdPへそのまま渡す不透明値であり、
// コールバック側では一切参照しない（最終リダイレクト先は常に設定のUI URL）。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("redirectURL")

	url := h.service.GetLoginURL(state)

	slog.Info("login initiated",
		slog.String("provider", "google"),
		slog.Bool("redirect_url_param_present", state != ""),
	)
	h.metrics.RecordLoginInitiated()

	http.Redirect(w, r, url, http.StatusFound)
}

// Callback はOAuthコールバックを処理する。
// GET /google/callback?code=xxx
// 成否に関わらずハンドラー内で完結し、プロセスを落とすことはない。
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// 1. 認可コードの取得
	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("oauth callback without authorization code")
		h.metrics.RecordLoginFailure(metrics.ReasonExchangeFailed)
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthFailedError())
		return
	}

	// 2. 認証処理（交換 → 正規化 → 存在チェック → 条件付き挿入）
	user, created, err := h.service.HandleCallback(r.Context(), code)
	h.metrics.RecordCallbackLatency(time.Since(start))

	if err != nil {
		h.writeCallbackError(w, err)
		return
	}

	slog.Info("login completed",
		slog.String("user_id", user.ID),
		slog.String("provider", user.LogInProvider),
		slog.Bool("new_user", created),
	)
	h.metrics.RecordLoginSuccess()
	if created {
		h.metrics.RecordUserRegistered()
	}

	// 3. 設定されたUIのURLへリダイレクト（Persisted/SkippedPersistを問わず同一）
	http.Redirect(w, r, h.config.UIBaseURL, http.StatusFound)
}

// writeCallbackError はコールバック処理のエラーをHTTPレスポンスへ変換する。
// 認証系の失敗（*model.APIError）は401、永続化等の内部失敗は詳細を伏せた500を返す。
func (h *AuthHandler) writeCallbackError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		reason := metrics.ReasonExchangeFailed
		if apiErr.Code == model.ErrCodeProfileIncomplete {
			reason = metrics.ReasonProfileIncomplete
		}
		h.metrics.RecordLoginFailure(reason)
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, apiErr)
		return
	}

	slog.Error("oauth callback failed", slog.String("error", err.Error()))
	h.metrics.RecordLoginFailure(metrics.ReasonPersistenceFailed)
	middleware.WriteInternalServerError(w)
}
