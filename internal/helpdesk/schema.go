package helpdesk

import (
	"context"
	"database/sql"
	"fmt"
)

// スキーマ定義。テーブルが無い場合のみ作成する。
const schema = `
CREATE TABLE IF NOT EXISTS cases (
    -- 呼び出し元が採番する一意識別子
    id TEXT PRIMARY KEY NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    priority TEXT NOT NULL DEFAULT '',
    -- サニタイズ済みの説明
    description TEXT NOT NULL DEFAULT '',
    -- サニタイズ済みの解決内容
    resolution TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT '',
    -- 未解決の場合はNULL
    resolved_at TEXT
);

-- 一覧取得は作成日時の降順で行う。
CREATE INDEX IF NOT EXISTS idx_cases_created_at
    ON cases(created_at);

CREATE TABLE IF NOT EXISTS notes (
    -- ストアが採番する単調増加の識別子
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL DEFAULT '',
    -- サニタイズ済みの本文
    content TEXT NOT NULL DEFAULT ''
);
`

// initSchema はデータベースにスキーマを適用する。
func initSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("スキーマの適用に失敗: %w", err)
	}
	return nil
}
