// Package logger はJSON構造化ログのセットアップを提供する。
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options はログ出力先の設定。
// コンソール出力とファイル出力は独立に有効化できる。
type Options struct {
	ConsoleEnabled bool
	FileEnabled    bool
	FilePath       string
}

// Setup はJSON構造化ログ出力のslog.Loggerを生成して返す。
// writerが指定された場合はそのwriterに出力する。
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupDefault はJSON構造化ログ出力をグローバルロガーとして設定する。
// writerが指定された場合はそのwriterに出力する。
// 本番ではos.Stdoutを渡すことを想定している。
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w)
	slog.SetDefault(logger)
}

// OpenWriter はOptionsに従ってログ出力先writerを構築する。
// ファイル出力が有効な場合はディレクトリを作成し、追記モードで開く。
// 両方無効の場合はio.Discardを返す（出力なし）。
// 戻り値のclose関数は呼び出し側がシャットダウン時に呼ぶこと。
func OpenWriter(opts Options) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	var writers []io.Writer
	closeFn := noop

	if opts.ConsoleEnabled {
		writers = append(writers, os.Stdout)
	}

	if opts.FileEnabled {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
			return nil, noop, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		closeFn = f.Close
	}

	if len(writers) == 0 {
		return io.Discard, noop, nil
	}

	return io.MultiWriter(writers...), closeFn, nil
}
