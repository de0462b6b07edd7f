package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/mtauth/internal/metrics"
	"github.com/hitoshi/mtauth/internal/middleware"
	"github.com/hitoshi/mtauth/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
// グローバル変数への依存を避け、すべて明示的に注入する。
type RouterDeps struct {
	Logger        *slog.Logger
	HealthChecker HealthChecker

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 観測
	Metrics  MetricsRecorder
	Gatherer prometheus.Gatherer

	// CORS
	CORSAllowedOrigin string
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → CORS
//
// devフラグゲートはログイン開始ルートにのみ適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.CORSAllowedOrigin != "" {
		r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	}

	// 未知ルートもdevフラグゲートと同一の404ボディを返し、両者を区別できないようにする
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewRouteNotFoundError())
	})

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics, deps.AuthConfig)

	// 稼働確認
	r.Get("/", Root)
	r.Get("/health", NewHealthHandler(deps.HealthChecker))

	// Prometheusスクレイプ
	if deps.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.Gatherer).ServeHTTP)
	}

	// OAuthフロー
	r.Route("/google", func(r chi.Router) {
		// ログイン開始はdevフラグゲートの背後に置く
		r.With(middleware.NewDevFlagMiddleware()).Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)
	})

	return r
}
