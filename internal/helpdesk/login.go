package helpdesk

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/helpdesk/pkg/middleware"
)

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Password は管理者パスワード。
	Password string `json:"password"`
}

// loginResponse はログイン成功時のJSONレスポンス構造。
type loginResponse struct {
	// Token はBearerトークンとして送るJWT。
	Token string `json:"token"`
}

// handleLogin は管理者ログインを処理するハンドラを返す。
// パスワードが一致した場合のみadminロールのトークンを発行する。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}

		if req.Password == "" || !s.verifier.Verify(req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
			return
		}

		token, err := middleware.GenerateJWT(s.jwtSecret, adminRole)
		if err != nil {
			log.Printf("JWT生成エラー: request_id=%s err=%v", middleware.GetRequestID(c), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, loginResponse{Token: token})
	}
}
