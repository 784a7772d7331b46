package helpdesk

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	helpdeskdb "github.com/nao1215/helpdesk/internal/helpdesk/db"
	"github.com/nao1215/helpdesk/pkg/middleware"
	"github.com/nao1215/helpdesk/pkg/sanitize"
)

// createNoteRequest はノート作成リクエストのJSON構造。
type createNoteRequest struct {
	// Category はノートの分類。
	Category string `json:"category"`
	// Content はノート本文。保存前にサニタイズする。
	Content string `json:"content"`
}

// updateNoteRequest はノート更新リクエストのJSON構造。本文のみ更新できる。
type updateNoteRequest struct {
	// Content はノート本文。保存前にサニタイズする。
	Content string `json:"content"`
}

// noteIDParam はパスパラメータのノートIDを数値として取り出す。
func noteIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ノートIDは整数である必要があります: %q", c.Param("id"))
	}
	return id, nil
}

// handleListNotes はノート一覧取得を処理するハンドラを返す。
// ID昇順で返す。
func (s *Server) handleListNotes() gin.HandlerFunc {
	return func(c *gin.Context) {
		notes, err := s.queries.ListNotes(c.Request.Context())
		if err != nil {
			respondStoreError(c, "Failed to fetch notes", err)
			return
		}
		c.JSON(http.StatusOK, notes)
	}
}

// handleCreateNote はノート作成を処理するハンドラを返す。
// 本文をサニタイズして保存し、ストアが採番したIDを含むノートを返す。
func (s *Server) handleCreateNote() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createNoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}

		content := sanitize.Text(req.Content)
		id, err := s.queries.CreateNote(c.Request.Context(), helpdeskdb.CreateNoteParams{
			Category: req.Category,
			Content:  content,
		})
		if err != nil {
			respondStoreError(c, "Failed to create note", err)
			return
		}

		c.JSON(http.StatusCreated, helpdeskdb.Note{
			ID:       id,
			Category: req.Category,
			Content:  content,
		})
	}
}

// handleUpdateNote はノート本文の更新を処理するハンドラを返す。
// 対象が存在しない場合も成功として応答する。
func (s *Server) handleUpdateNote() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := noteIDParam(c)
		if err != nil {
			respondBadRequest(c, err)
			return
		}

		var req updateNoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}

		affected, err := s.queries.UpdateNoteContent(c.Request.Context(), helpdeskdb.UpdateNoteContentParams{
			Content: sanitize.Text(req.Content),
			ID:      id,
		})
		if err != nil {
			respondStoreError(c, "Failed to update note", err)
			return
		}
		if affected == 0 {
			log.Printf("ノート更新: 対象が存在しません request_id=%s id=%d", middleware.GetRequestID(c), id)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Note updated successfully"})
	}
}

// handleDeleteNote はノート削除を処理するハンドラを返す。
// 対象が存在しない場合も成功として応答する。
func (s *Server) handleDeleteNote() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := noteIDParam(c)
		if err != nil {
			respondBadRequest(c, err)
			return
		}

		affected, err := s.queries.DeleteNote(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, "Failed to delete note", err)
			return
		}
		if affected == 0 {
			log.Printf("ノート削除: 対象が存在しません request_id=%s id=%d", middleware.GetRequestID(c), id)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
	}
}
