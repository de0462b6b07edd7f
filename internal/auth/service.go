// Package auth はOAuth認証フローのオーケストレーションを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hitoshi/mtauth/internal/model"
	"github.com/hitoshi/mtauth/internal/repository"
)

// Profile はOAuthプロバイダーから取得した正規化済みプロフィールを表す。
type Profile struct {
	ProviderUserID string
	GivenName      string
	FamilyName     string
	Emails         []string // 先頭要素をdomain上のemailとして採用する
	Provider       string   // "google" 等
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// 将来的に複数IdP（Google, GitHub等）に対応するための抽象化。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、正規化済みプロフィールを取得する。
	// 失敗は必ずエラー戻り値として返り、プロバイダー境界を越えてpanicしない。
	ExchangeCode(ctx context.Context, code string) (*Profile, error)
}

// Registrar はユーザー登録のインターフェース。user.Serviceの部分集合。
type Registrar interface {
	Register(ctx context.Context, user *model.User) error
}

// Service は認証フロー全体のオーケストレーションを提供する。
// 1コールバックにつき存在チェック1回・挿入は最大1回。
type Service struct {
	oauth     OAuthProvider
	userRepo  repository.UserRepository
	registrar Registrar
	sanitizer *bluemonday.Policy
}

// NewService はServiceを生成する。
func NewService(oauth OAuthProvider, userRepo repository.UserRepository, registrar Registrar) *Service {
	return &Service{
		oauth:     oauth,
		userRepo:  userRepo,
		registrar: registrar,
		// IdP由来の名前フィールドはユーザー制御値のため、HTMLを全て除去してから永続化する
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback はOAuthコールバックを処理する。
// 認可コードをプロフィールに交換し、ドメインのユーザー形へ正規化した上で、
// emailでの存在チェックを経て未登録の場合のみ挿入する。
// 登録済みemailの場合は既存行を一切更新しない（SkippedPersist）。
// 戻り値のcreatedは新規挿入が行われたかを示す。
// 認証系の失敗は*model.APIError、永続化の失敗は通常のエラーとして返る。
func (s *Service) HandleCallback(ctx context.Context, code string) (user *model.User, created bool, err error) {
	// 1. 認可コードをプロフィールに交換
	profile, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		slog.Error("oauth code exchange failed", slog.String("error", err.Error()))
		return nil, false, model.NewAuthFailedError()
	}

	// 2. ドメインのユーザー形へ正規化
	user, apiErr := s.normalize(profile)
	if apiErr != nil {
		slog.Warn("oauth profile incomplete",
			slog.String("provider", profile.Provider),
			slog.String("code", apiErr.Code),
		)
		return nil, false, apiErr
	}

	// 3. emailでの存在チェック
	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check user existence: %w", err)
	}

	if exists {
		// SkippedPersist: 再ログイン。属性の更新も行わない。
		slog.Info("existing user logged in",
			slog.String("user_id", user.ID),
			slog.String("provider", user.LogInProvider),
		)
		return user, false, nil
	}

	// 4. 未登録の場合のみ挿入
	if err := s.registrar.Register(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to persist user: %w", err)
	}

	return user, true, nil
}

// normalize はIdPプロフィールをドメインのユーザー形へ変換する。
// emailリストが空の場合はProfileIncompleteエラーを返す。
// 名前フィールドの欠落は許容する（空文字のまま永続化）。
func (s *Service) normalize(profile *Profile) (*model.User, *model.APIError) {
	if profile.ProviderUserID == "" {
		return nil, model.NewProfileIncompleteError("sub")
	}
	if len(profile.Emails) == 0 || profile.Emails[0] == "" {
		return nil, model.NewProfileIncompleteError("email")
	}

	return &model.User{
		ID:            profile.ProviderUserID,
		FirstName:     s.sanitizer.Sanitize(profile.GivenName),
		LastName:      s.sanitizer.Sanitize(profile.FamilyName),
		Email:         profile.Emails[0],
		Phone:         nil, // IdPは電話番号を提供しない
		LogInProvider: profile.Provider,
	}, nil
}
