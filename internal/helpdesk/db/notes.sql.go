package db

import (
	"context"
)

const listNotes = `-- name: ListNotes :many
SELECT id, category, content FROM notes
ORDER BY id ASC
`

// ListNotes は全てのノートをID昇順で返す。
func (q *Queries) ListNotes(ctx context.Context) ([]Note, error) {
	rows, err := q.db.QueryContext(ctx, listNotes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Note{}
	for rows.Next() {
		var i Note
		if err := rows.Scan(&i.ID, &i.Category, &i.Content); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createNote = `-- name: CreateNote :execlastid
INSERT INTO notes (category, content) VALUES (?, ?)
`

// CreateNoteParams はCreateNoteの引数。
type CreateNoteParams struct {
	Category string
	Content  string
}

// CreateNote はノートを1件挿入し、ストアが採番したIDを返す。
func (q *Queries) CreateNote(ctx context.Context, arg CreateNoteParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createNote, arg.Category, arg.Content)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const updateNoteContent = `-- name: UpdateNoteContent :execrows
UPDATE notes SET content = ? WHERE id = ?
`

// UpdateNoteContentParams はUpdateNoteContentの引数。
type UpdateNoteContentParams struct {
	Content string
	ID      int64
}

// UpdateNoteContent はIDで指定したノートの本文のみを更新し、更新行数を返す。
func (q *Queries) UpdateNoteContent(ctx context.Context, arg UpdateNoteContentParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateNoteContent, arg.Content, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteNote = `-- name: DeleteNote :execrows
DELETE FROM notes WHERE id = ?
`

// DeleteNote はIDで指定したノートを削除し、削除行数を返す。
func (q *Queries) DeleteNote(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteNote, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
