package helpdesk

import (
	"database/sql"
	"testing"
	"time"

	helpdeskdb "github.com/nao1215/helpdesk/internal/helpdesk/db"
	"github.com/nao1215/helpdesk/pkg/database"
)

// setupTestQueries はスキーマ作成済みのインメモリDBとQueriesを返す。
func setupTestQueries(t *testing.T) (*sql.DB, *helpdeskdb.Queries) {
	t.Helper()

	sqlDB, err := database.Open(t.Context(), database.Options{Path: ":memory:", ConnectTimeout: time.Second})
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := initSchema(t.Context(), sqlDB); err != nil {
		t.Fatalf("スキーマ初期化に失敗: %v", err)
	}
	return sqlDB, helpdeskdb.New(sqlDB)
}

func strPtr(s string) *string { return &s }

func TestInitSchema(t *testing.T) {
	t.Parallel()

	t.Run("2回実行してもエラーにならず既存データを保持する", func(t *testing.T) {
		t.Parallel()
		sqlDB, q := setupTestQueries(t)

		if _, err := q.CreateNote(t.Context(), helpdeskdb.CreateNoteParams{Category: "c", Content: "x"}); err != nil {
			t.Fatalf("CreateNote()でエラーが発生: %v", err)
		}
		if err := initSchema(t.Context(), sqlDB); err != nil {
			t.Fatalf("2回目のinitSchema()でエラーが発生: %v", err)
		}

		notes, err := q.ListNotes(t.Context())
		if err != nil {
			t.Fatalf("ListNotes()でエラーが発生: %v", err)
		}
		if len(notes) != 1 {
			t.Errorf("ノート数: got %d, want 1", len(notes))
		}
	})
}

func TestCaseQueries(t *testing.T) {
	t.Parallel()

	t.Run("解決日時のNULLと値を区別して読み出す", func(t *testing.T) {
		t.Parallel()
		_, q := setupTestQueries(t)
		ctx := t.Context()

		if err := q.CreateCase(ctx, helpdeskdb.CreateCaseParams{ID: "open", CreatedAt: "2024-01-01"}); err != nil {
			t.Fatalf("CreateCase()でエラーが発生: %v", err)
		}
		if err := q.CreateCase(ctx, helpdeskdb.CreateCaseParams{ID: "closed", CreatedAt: "2024-01-02", ResolvedAt: strPtr("2024-01-03")}); err != nil {
			t.Fatalf("CreateCase()でエラーが発生: %v", err)
		}

		cases, err := q.ListCases(ctx)
		if err != nil {
			t.Fatalf("ListCases()でエラーが発生: %v", err)
		}
		if len(cases) != 2 {
			t.Fatalf("ケース数: got %d, want 2", len(cases))
		}
		if cases[0].ID != "closed" || cases[0].ResolvedAt == nil || *cases[0].ResolvedAt != "2024-01-03" {
			t.Errorf("cases[0]: got %+v", cases[0])
		}
		if cases[1].ID != "open" || cases[1].ResolvedAt != nil {
			t.Errorf("cases[1]: got %+v", cases[1])
		}
	})

	t.Run("更新と削除は影響行数を返す", func(t *testing.T) {
		t.Parallel()
		_, q := setupTestQueries(t)
		ctx := t.Context()

		if err := q.CreateCase(ctx, helpdeskdb.CreateCaseParams{ID: "c1", Title: "before", CreatedAt: "2024-01-01"}); err != nil {
			t.Fatalf("CreateCase()でエラーが発生: %v", err)
		}

		n, err := q.UpdateCase(ctx, helpdeskdb.UpdateCaseParams{ID: "c1", Title: "after"})
		if err != nil || n != 1 {
			t.Errorf("UpdateCase(c1) = %d, %v, want 1, nil", n, err)
		}
		n, err = q.UpdateCase(ctx, helpdeskdb.UpdateCaseParams{ID: "missing", Title: "x"})
		if err != nil || n != 0 {
			t.Errorf("UpdateCase(missing) = %d, %v, want 0, nil", n, err)
		}

		cases, err := q.ListCases(ctx)
		if err != nil {
			t.Fatalf("ListCases()でエラーが発生: %v", err)
		}
		if cases[0].Title != "after" || cases[0].CreatedAt != "2024-01-01" {
			t.Errorf("更新後: got %+v", cases[0])
		}

		n, err = q.DeleteCase(ctx, "c1")
		if err != nil || n != 1 {
			t.Errorf("DeleteCase(c1) = %d, %v, want 1, nil", n, err)
		}
		n, err = q.DeleteCase(ctx, "c1")
		if err != nil || n != 0 {
			t.Errorf("2回目のDeleteCase(c1) = %d, %v, want 0, nil", n, err)
		}
	})

	t.Run("値は文字列として埋め込まれずそのまま保存される", func(t *testing.T) {
		t.Parallel()
		_, q := setupTestQueries(t)
		ctx := t.Context()

		hostile := "x'); DROP TABLE cases; --"
		if err := q.CreateCase(ctx, helpdeskdb.CreateCaseParams{ID: hostile, Title: hostile, CreatedAt: "2024-01-01"}); err != nil {
			t.Fatalf("CreateCase()でエラーが発生: %v", err)
		}

		cases, err := q.ListCases(ctx)
		if err != nil {
			t.Fatalf("ListCases()でエラーが発生: %v", err)
		}
		if len(cases) != 1 || cases[0].ID != hostile || cases[0].Title != hostile {
			t.Errorf("保存された値: got %+v", cases)
		}
	})
}

func TestNoteQueries(t *testing.T) {
	t.Parallel()

	t.Run("採番されたIDで本文のみ更新できる", func(t *testing.T) {
		t.Parallel()
		_, q := setupTestQueries(t)
		ctx := t.Context()

		id, err := q.CreateNote(ctx, helpdeskdb.CreateNoteParams{Category: "memo", Content: "old"})
		if err != nil {
			t.Fatalf("CreateNote()でエラーが発生: %v", err)
		}
		if id < 1 {
			t.Fatalf("id: got %d, want 正の整数", id)
		}

		n, err := q.UpdateNoteContent(ctx, helpdeskdb.UpdateNoteContentParams{ID: id, Content: "new"})
		if err != nil || n != 1 {
			t.Errorf("UpdateNoteContent() = %d, %v, want 1, nil", n, err)
		}

		notes, err := q.ListNotes(ctx)
		if err != nil {
			t.Fatalf("ListNotes()でエラーが発生: %v", err)
		}
		want := helpdeskdb.Note{ID: id, Category: "memo", Content: "new"}
		if len(notes) != 1 || notes[0] != want {
			t.Errorf("ListNotes() = %+v, want [%+v]", notes, want)
		}
	})

	t.Run("削除したIDは再利用されない", func(t *testing.T) {
		t.Parallel()
		_, q := setupTestQueries(t)
		ctx := t.Context()

		first, err := q.CreateNote(ctx, helpdeskdb.CreateNoteParams{Content: "a"})
		if err != nil {
			t.Fatalf("CreateNote()でエラーが発生: %v", err)
		}
		if n, err := q.DeleteNote(ctx, first); err != nil || n != 1 {
			t.Fatalf("DeleteNote() = %d, %v, want 1, nil", n, err)
		}
		second, err := q.CreateNote(ctx, helpdeskdb.CreateNoteParams{Content: "b"})
		if err != nil {
			t.Fatalf("CreateNote()でエラーが発生: %v", err)
		}
		if second <= first {
			t.Errorf("2件目のid: got %d, want > %d", second, first)
		}
	})

	t.Run("空の場合はnilではなく空スライスを返す", func(t *testing.T) {
		t.Parallel()
		_, q := setupTestQueries(t)

		notes, err := q.ListNotes(t.Context())
		if err != nil {
			t.Fatalf("ListNotes()でエラーが発生: %v", err)
		}
		if notes == nil {
			t.Error("ListNotes()がnilを返した")
		}
	})

	t.Run("トランザクション上のQueriesはロールバックで取り消される", func(t *testing.T) {
		t.Parallel()
		sqlDB, q := setupTestQueries(t)
		ctx := t.Context()

		tx, err := sqlDB.BeginTx(ctx, nil)
		if err != nil {
			t.Fatalf("BeginTx()でエラーが発生: %v", err)
		}
		if _, err := q.WithTx(tx).CreateNote(ctx, helpdeskdb.CreateNoteParams{Content: "tx"}); err != nil {
			t.Fatalf("CreateNote()でエラーが発生: %v", err)
		}
		if err := tx.Rollback(); err != nil {
			t.Fatalf("Rollback()でエラーが発生: %v", err)
		}

		notes, err := q.ListNotes(ctx)
		if err != nil {
			t.Fatalf("ListNotes()でエラーが発生: %v", err)
		}
		if len(notes) != 0 {
			t.Errorf("ノート数: got %d, want 0", len(notes))
		}
	})
}
