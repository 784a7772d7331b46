package helpdesk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	helpdeskdb "github.com/nao1215/helpdesk/internal/helpdesk/db"
	"github.com/nao1215/helpdesk/pkg/middleware"
	"github.com/nao1215/helpdesk/pkg/sanitize"
)

// caseID は呼び出し元が採番するケースID。
// フロントエンドはタイムスタンプ由来の数値を送ることがあるため、
// JSONの文字列と数値の両方を受け付けて文字列として保持する。
type caseID string

// UnmarshalJSON はJSONの文字列または数値をcaseIDに変換する。
func (id *caseID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = caseID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("idは文字列または数値である必要があります: %w", err)
	}
	*id = caseID(n.String())
	return nil
}

// createCaseRequest はケース作成リクエストのJSON構造。
type createCaseRequest struct {
	// ID は呼び出し元が採番する一意識別子。
	ID          caseID  `json:"id" binding:"required"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	Description string  `json:"description"`
	Resolution  string  `json:"resolution"`
	CreatedAt   string  `json:"created_at"`
	ResolvedAt  *string `json:"resolved_at"`
}

// updateCaseRequest はケース更新リクエストのJSON構造。
// IDはパスパラメータで指定し、作成日時は更新しない。
type updateCaseRequest struct {
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	Description string  `json:"description"`
	Resolution  string  `json:"resolution"`
	ResolvedAt  *string `json:"resolved_at"`
}

// normalizeResolvedAt は空文字列の解決日時を未解決（nil）として扱う。
func normalizeResolvedAt(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// handleListCases はケース一覧取得を処理するハンドラを返す。
// 作成日時の新しい順に返す。
func (s *Server) handleListCases() gin.HandlerFunc {
	return func(c *gin.Context) {
		cases, err := s.queries.ListCases(c.Request.Context())
		if err != nil {
			respondStoreError(c, "Failed to fetch cases", err)
			return
		}
		c.JSON(http.StatusOK, cases)
	}
}

// handleCreateCase はケース作成を処理するハンドラを返す。
// 説明と解決内容はサニタイズしてから保存する。
func (s *Server) handleCreateCase() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}

		if err := s.queries.CreateCase(c.Request.Context(), helpdeskdb.CreateCaseParams{
			ID:          string(req.ID),
			Title:       req.Title,
			Category:    req.Category,
			Priority:    req.Priority,
			Description: sanitize.Text(req.Description),
			Resolution:  sanitize.Text(req.Resolution),
			CreatedAt:   req.CreatedAt,
			ResolvedAt:  normalizeResolvedAt(req.ResolvedAt),
		}); err != nil {
			respondStoreError(c, "Failed to create case", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Case created successfully"})
	}
}

// handleUpdateCase はケース更新を処理するハンドラを返す。
// 対象が存在しない場合も成功として応答する。
func (s *Server) handleUpdateCase() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var req updateCaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}

		affected, err := s.queries.UpdateCase(c.Request.Context(), helpdeskdb.UpdateCaseParams{
			Title:       req.Title,
			Category:    req.Category,
			Priority:    req.Priority,
			Description: sanitize.Text(req.Description),
			Resolution:  sanitize.Text(req.Resolution),
			ResolvedAt:  normalizeResolvedAt(req.ResolvedAt),
			ID:          id,
		})
		if err != nil {
			respondStoreError(c, "Failed to update case", err)
			return
		}
		if affected == 0 {
			log.Printf("ケース更新: 対象が存在しません request_id=%s id=%s", middleware.GetRequestID(c), id)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Case updated successfully"})
	}
}

// handleDeleteCase はケース削除を処理するハンドラを返す。
// 対象が存在しない場合も成功として応答する。
func (s *Server) handleDeleteCase() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		affected, err := s.queries.DeleteCase(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, "Failed to delete case", err)
			return
		}
		if affected == 0 {
			log.Printf("ケース削除: 対象が存在しません request_id=%s id=%s", middleware.GetRequestID(c), id)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Case deleted successfully"})
	}
}
