package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// serveWithCORS はCORSミドルウェアを適用したルーターでリクエストを処理する。
func serveWithCORS(allowed []string, method, origin string) (*httptest.ResponseRecorder, bool) {
	handlerCalled := false
	router := gin.New()
	router.Use(CORS(allowed))
	router.Handle(method, "/api/cases", func(c *gin.Context) {
		handlerCalled = true
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(method, "/api/cases", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, handlerCalled
}

// TestCORS はCORSミドルウェアを検証する。
func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		allowed       []string
		method        string
		origin        string
		wantStatus    int
		wantOrigin    string
		wantHandler   bool
		wantAllowHdrs bool
	}{
		{
			name:          "許可されたオリジンにはそのオリジンが返ること",
			allowed:       []string{"http://localhost:5173", "https://example.com"},
			method:        http.MethodGet,
			origin:        "https://example.com",
			wantStatus:    http.StatusOK,
			wantOrigin:    "https://example.com",
			wantHandler:   true,
			wantAllowHdrs: true,
		},
		{
			name:        "許可されていないオリジンにはCORSヘッダーが設定されないこと",
			allowed:     []string{"http://localhost:5173"},
			method:      http.MethodGet,
			origin:      "https://evil.com",
			wantStatus:  http.StatusOK,
			wantOrigin:  "",
			wantHandler: true,
		},
		{
			name:          "ワイルドカード指定では任意のオリジンが許可されること",
			allowed:       []string{"*"},
			method:        http.MethodPost,
			origin:        "https://anywhere.example",
			wantStatus:    http.StatusOK,
			wantOrigin:    "*",
			wantHandler:   true,
			wantAllowHdrs: true,
		},
		{
			name:        "Originヘッダーが無い場合はCORSヘッダーが設定されないこと",
			allowed:     []string{"*"},
			method:      http.MethodGet,
			origin:      "",
			wantStatus:  http.StatusOK,
			wantOrigin:  "",
			wantHandler: true,
		},
		{
			name:          "OPTIONSリクエストは204で中断されること",
			allowed:       []string{"http://localhost:5173"},
			method:        http.MethodOptions,
			origin:        "http://localhost:5173",
			wantStatus:    http.StatusNoContent,
			wantOrigin:    "http://localhost:5173",
			wantHandler:   false,
			wantAllowHdrs: true,
		},
		{
			name:        "空のオリジンリストではCORSヘッダーが設定されないこと",
			allowed:     []string{},
			method:      http.MethodGet,
			origin:      "http://localhost:5173",
			wantStatus:  http.StatusOK,
			wantOrigin:  "",
			wantHandler: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, called := serveWithCORS(tt.allowed, tt.method, tt.origin)

			if w.Code != tt.wantStatus {
				t.Errorf("ステータスコード = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if called != tt.wantHandler {
				t.Errorf("ハンドラー呼び出し = %v, want %v", called, tt.wantHandler)
			}
			gotHdrs := w.Header().Get("Access-Control-Allow-Headers")
			if tt.wantAllowHdrs && gotHdrs != "Authorization, Content-Type" {
				t.Errorf("Access-Control-Allow-Headers = %q, want %q", gotHdrs, "Authorization, Content-Type")
			}
			if !tt.wantAllowHdrs && gotHdrs != "" {
				t.Errorf("Access-Control-Allow-Headers = %q, want empty string", gotHdrs)
			}
		})
	}
}
