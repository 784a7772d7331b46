// Package db はhelpdeskのcasesテーブルとnotesテーブルに対するクエリを提供する。
//
// すべてのステートメントは位置プレースホルダー（?）と順序付き引数で実行し、
// 値を文字列として埋め込むことはしない。各メソッドは1つのステートメントのみを
// 発行し、トランザクションは使用しない。
package db

import (
	"context"
	"database/sql"
)

// DBTX は*sql.DBと*sql.Txの共通インターフェース。
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// New は新しいQueriesを生成する。
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries はhelpdeskのクエリ実行オブジェクト。
type Queries struct {
	db DBTX
}

// WithTx はトランザクション上でクエリを実行するQueriesを返す。
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}
