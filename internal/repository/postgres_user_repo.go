package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/mtauth/internal/model"
)

// pqUniqueViolation はPostgreSQLのunique_violationエラーコード。
const pqUniqueViolation = "23505"

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
// queryTimeoutが0の場合はタイムアウトを適用しない。
func NewPostgresUserRepo(db *sql.DB, queryTimeout time.Duration) *PostgresUserRepo {
	return &PostgresUserRepo{db: db, queryTimeout: queryTimeout}
}

// Create はユーザーを挿入する。
// プレースホルダによるパラメータバインドのみを使用する（emailはユーザー制御値）。
// email重複はErrDuplicateEmailをラップしたエラーとして返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, email, phone, log_in_provider)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.Phone, user.LogInProvider,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("failed to insert user: %w", ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	slog.Info("user inserted",
		slog.String("user_id", user.ID),
		slog.String("provider", user.LogInProvider),
	)

	return nil
}

// ExistsByEmail は指定emailのユーザーが存在するか返す。
func (r *PostgresUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE email = $1 LIMIT 1`,
		email,
	).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return true, nil
}

// withTimeout はクエリタイムアウト付きのコンテキストを返す。
func (r *PostgresUserRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
