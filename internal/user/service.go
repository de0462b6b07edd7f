// Package user はユーザー登録のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/mtauth/internal/model"
	"github.com/hitoshi/mtauth/internal/repository"
)

// Service はユーザー登録のサービス層。
// 挿入のみを行う（再ログイン時の属性更新は行わない）。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// Register はユーザーを登録する。
// 同時初回ログインの競合でemailのUNIQUE制約に弾かれた場合は、
// 既に登録済みとみなし冪等に成功として扱う。
// それ以外の永続化エラーはそのまま伝播する。
func (s *Service) Register(ctx context.Context, user *model.User) error {
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			slog.Info("concurrent registration detected, treating as already registered",
				slog.String("user_id", user.ID),
				slog.String("provider", user.LogInProvider),
			)
			return nil
		}
		return fmt.Errorf("failed to register user: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("provider", user.LogInProvider),
	)

	return nil
}
