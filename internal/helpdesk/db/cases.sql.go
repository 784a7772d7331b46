package db

import (
	"context"
	"database/sql"
)

const listCases = `-- name: ListCases :many
SELECT id, title, category, priority, description, resolution, created_at, resolved_at
FROM cases
ORDER BY created_at DESC
`

// ListCases は全てのケースを作成日時の新しい順に返す。
func (q *Queries) ListCases(ctx context.Context) ([]Case, error) {
	rows, err := q.db.QueryContext(ctx, listCases)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Case{}
	for rows.Next() {
		var (
			i          Case
			resolvedAt sql.NullString
		)
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Category,
			&i.Priority,
			&i.Description,
			&i.Resolution,
			&i.CreatedAt,
			&resolvedAt,
		); err != nil {
			return nil, err
		}
		if resolvedAt.Valid {
			i.ResolvedAt = &resolvedAt.String
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createCase = `-- name: CreateCase :exec
INSERT INTO cases (id, title, category, priority, description, resolution, created_at, resolved_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// CreateCaseParams はCreateCaseの引数。
type CreateCaseParams struct {
	ID          string
	Title       string
	Category    string
	Priority    string
	Description string
	Resolution  string
	CreatedAt   string
	ResolvedAt  *string
}

// CreateCase はケースを1件挿入する。IDは呼び出し元が指定する。
func (q *Queries) CreateCase(ctx context.Context, arg CreateCaseParams) error {
	_, err := q.db.ExecContext(ctx, createCase,
		arg.ID,
		arg.Title,
		arg.Category,
		arg.Priority,
		arg.Description,
		arg.Resolution,
		arg.CreatedAt,
		nullString(arg.ResolvedAt),
	)
	return err
}

const updateCase = `-- name: UpdateCase :execrows
UPDATE cases
SET title = ?, category = ?, priority = ?, description = ?, resolution = ?, resolved_at = ?
WHERE id = ?
`

// UpdateCaseParams はUpdateCaseの引数。
type UpdateCaseParams struct {
	Title       string
	Category    string
	Priority    string
	Description string
	Resolution  string
	ResolvedAt  *string
	ID          string
}

// UpdateCase はIDで指定したケースの全項目を更新し、更新行数を返す。
func (q *Queries) UpdateCase(ctx context.Context, arg UpdateCaseParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateCase,
		arg.Title,
		arg.Category,
		arg.Priority,
		arg.Description,
		arg.Resolution,
		nullString(arg.ResolvedAt),
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteCase = `-- name: DeleteCase :execrows
DELETE FROM cases WHERE id = ?
`

// DeleteCase はIDで指定したケースを削除し、削除行数を返す。
func (q *Queries) DeleteCase(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCase, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// nullString はnil許容の文字列をSQLのNULL許容値に変換する。
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
