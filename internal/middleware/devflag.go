package middleware

import (
	"net/http"

	"github.com/hitoshi/mtauth/internal/model"
)

// devFlagParam はログイン開始ルートを開放するクエリパラメータ名。
const devFlagParam = "dev"

// NewDevFlagMiddleware はdev=trueクエリパラメータを持つリクエストのみ通過させる
// ミドルウェアを返す。ステージング環境向けのフィーチャーフラグであり、認可ではない。
// フラグがない場合は404を返し、ルートの不存在と区別できないようにする。
// 判定以外の副作用は持たない。
func NewDevFlagMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get(devFlagParam) != "true" {
				WriteErrorResponse(w, http.StatusNotFound, model.NewRouteNotFoundError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
