// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeRouteNotFound     = "ROUTE_NOT_FOUND"
	ErrCodeAuthFailed        = "AUTH_FAILED"
	ErrCodeProfileIncomplete = "PROFILE_INCOMPLETE"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// NewRouteNotFoundError はルート未検出エラーを生成する。
// devフラグゲートで遮断されたリクエストにも同じエラーを返し、
// ルートの存在自体を隠蔽する。
func NewRouteNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeRouteNotFound,
		Message:  "指定されたルートが見つかりません。",
		Category: "system",
		Action:   "URLを確認してください。",
	}
}

// NewAuthFailedError は認証失敗エラーを生成する。
// IdPとのコード交換失敗やプロフィール取得失敗を含む。
func NewAuthFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthFailed,
		Message:  "ユーザーを認証できませんでした。",
		Category: "auth",
		Action:   "ログインをやり直してください。",
	}
}

// NewProfileIncompleteError はIdPプロフィールに必須項目が欠けている場合のエラーを生成する。
func NewProfileIncompleteError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeProfileIncomplete,
		Message:  fmt.Sprintf("IdPプロフィールに必須項目がありません: %s", field),
		Category: "auth",
		Action:   "Googleアカウントの設定を確認し、ログインをやり直してください。",
	}
}
