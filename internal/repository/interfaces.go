// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/mtauth/internal/model"
)

// ErrDuplicateEmail は同一emailのユーザーが既に存在する場合の挿入エラー。
// usersテーブルのUNIQUE制約違反をドライバ非依存の形で呼び出し側へ伝える。
var ErrDuplicateEmail = errors.New("user with this email already exists")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを挿入する。
	// 同一emailが既に存在する場合はErrDuplicateEmailをラップしたエラーを返す。
	Create(ctx context.Context, user *model.User) error

	// ExistsByEmail は指定emailのユーザーが存在するか返す。
	// クエリ失敗はエラーとして伝播し、falseと区別する。
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
