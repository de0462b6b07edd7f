// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 失敗理由ラベルの定義値
const (
	ReasonExchangeFailed    = "exchange_failed"
	ReasonProfileIncomplete = "profile_incomplete"
	ReasonPersistenceFailed = "persistence_failed"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginInitiated  prometheus.Counter
	loginSuccess    prometheus.Counter
	loginFailure    *prometheus.CounterVec
	usersRegistered prometheus.Counter
	callbackLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginInitiated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mtauth_login_initiated_total",
			Help: "ログイン開始（IdPへのリダイレクト発行）の合計数",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mtauth_login_success_total",
			Help: "認証成功（UIへのリダイレクト発行）の合計数",
		}),
		loginFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mtauth_login_failure_total",
			Help: "認証失敗の理由別合計数",
		}, []string{"reason"}),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mtauth_users_registered_total",
			Help: "新規登録されたユーザーの合計数",
		}),
		callbackLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mtauth_callback_latency_seconds",
			Help:    "コールバック処理（コード交換から永続化まで）のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.loginInitiated,
		c.loginSuccess,
		c.loginFailure,
		c.usersRegistered,
		c.callbackLatency,
	)

	return c
}

// RecordLoginInitiated はログイン開始を記録する。
func (c *Collector) RecordLoginInitiated() {
	c.loginInitiated.Inc()
}

// RecordLoginSuccess は認証成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure は認証失敗を理由付きで記録する。
func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFailure.WithLabelValues(reason).Inc()
}

// RecordUserRegistered は新規ユーザー登録を記録する。
func (c *Collector) RecordUserRegistered() {
	c.usersRegistered.Inc()
}

// RecordCallbackLatency はコールバック処理のレイテンシを記録する。
func (c *Collector) RecordCallbackLatency(duration time.Duration) {
	c.callbackLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
