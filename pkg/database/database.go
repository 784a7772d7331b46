// Package database はSQLiteデータベースへの接続プールを構築する。
//
// 接続数の上限と接続確立のタイムアウトを設定し、起動時に疎通を確認する。
// 接続失敗やプール枯渇はエラーとして呼び出し元に返し、再試行は行わない。
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// driverName はmodernc.org/sqliteが登録するドライバー名。
const driverName = "sqlite"

// Options は接続プールの設定。
type Options struct {
	// Path はデータベースファイルのパス。":memory:" でインメモリDBを使う。
	Path string
	// MaxOpenConns は同時に開く接続数の上限。
	MaxOpenConns int
	// MaxIdleConns はアイドル状態で保持する接続数の上限。
	MaxIdleConns int
	// ConnMaxIdleTime はアイドル接続を閉じるまでの時間。
	ConnMaxIdleTime time.Duration
	// ConnectTimeout は起動時の疎通確認に許す時間。
	ConnectTimeout time.Duration
	// BusyTimeout はSQLiteのロック待ち時間の上限。
	BusyTimeout time.Duration
}

// Open は接続プールを開き、ConnectTimeout内に疎通を確認する。
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	if opts.Path == "" {
		return nil, errors.New("データベースのパスが指定されていません")
	}

	db, err := sql.Open(driverName, DSN(opts.Path, opts.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	// インメモリDBは接続ごとに別のDBになるため1接続に固定する
	if IsMemory(opts.Path) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			db.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxIdleTime > 0 {
			db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
		}
	}

	pingCtx := ctx
	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("データベースへの疎通確認に失敗: %w", err)
	}

	return db, nil
}

// DSN はパスとロック待ち時間からmodernc.org/sqlite用の接続文字列を組み立てる。
// ファイルDBではWALモードを有効にする。
func DSN(path string, busyTimeout time.Duration) string {
	params := url.Values{}
	if busyTimeout > 0 {
		params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	}
	if !IsMemory(path) {
		params.Add("_pragma", "journal_mode(WAL)")
	}
	if len(params) == 0 {
		return path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode()
}

// IsMemory はパスがインメモリDBを指すかを返す。
func IsMemory(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, ":memory:?") || strings.Contains(path, "mode=memory")
}
