package helpdesk

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/helpdesk/internal/config"
	helpdeskdb "github.com/nao1215/helpdesk/internal/helpdesk/db"
	"github.com/nao1215/helpdesk/pkg/database"
	"github.com/nao1215/helpdesk/pkg/middleware"
	"github.com/nao1215/helpdesk/pkg/password"
)

// livenessMessage はGET / が返す稼働確認用の文字列。
const livenessMessage = "Backend is running!"

// adminRole はログイン成功時にトークンへ埋め込むロール。
const adminRole = "admin"

// Server はhelpdesk APIのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はcases/notesテーブルへのクエリ実行オブジェクト。
	queries *helpdeskdb.Queries
	// db はデータベース接続プール。
	db *sql.DB
	// jwtSecret はトークン署名用の秘密鍵。
	jwtSecret string
	// verifier は管理者パスワードの照合を行う。
	verifier *password.Verifier
	// shutdownTimeout はグレースフルシャットダウンの猶予時間。
	shutdownTimeout time.Duration
}

// NewServer は設定から新しいhelpdeskサーバーを生成する。
// 接続プールの構築とスキーマ作成を行う。
func NewServer(ctx context.Context, cfg config.Config) (*Server, error) {
	verifier, err := password.NewVerifier(cfg.Auth.AdminPassword, cfg.Auth.AdminPasswordHash)
	if err != nil {
		return nil, fmt.Errorf("管理者パスワードの設定が不正です: %w", err)
	}

	sqlDB, err := database.Open(ctx, database.Options{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnectTimeout:  cfg.Database.ConnectTimeout,
		BusyTimeout:     cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, err
	}

	if err := initSchema(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	return newServer(sqlDB, cfg, verifier), nil
}

// newServer は初期化済みの接続プールからサーバーを組み立てる。
func newServer(sqlDB *sql.DB, cfg config.Config, verifier *password.Verifier) *Server {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	s := &Server{
		router:          router,
		port:            cfg.Server.Port,
		queries:         helpdeskdb.New(sqlDB),
		db:              sqlDB,
		jwtSecret:       cfg.Auth.JWTSecret,
		verifier:        verifier,
		shutdownTimeout: shutdownTimeout,
	}
	s.setupRoutes()

	return s
}

// Handler はルーティング済みのhttp.Handlerを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるとグレースフルに停止する。
// 停止後に接続プールを閉じる。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("helpdeskサービスを起動します: %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		log.Printf("helpdeskサービスを停止します")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if cerr := s.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Close は接続プールを閉じる。
func (s *Server) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("データベース接続のクローズに失敗: %w", err)
	}
	return nil
}

// setupRoutes はAPIルーティングを設定する。
// 一覧取得とログインは認証不要、作成・更新・削除はJWT認証必須。
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleLiveness())
	s.router.GET("/health", s.handleHealth())

	api := s.router.Group("/api")
	api.POST("/login", s.handleLogin())

	requireAuth := middleware.JWTAuth(s.jwtSecret)

	cases := api.Group("/cases")
	{
		// ケース一覧取得
		cases.GET("", s.handleListCases())
		// ケース作成
		cases.POST("", requireAuth, s.handleCreateCase())
		// ケース更新
		cases.PUT("/:id", requireAuth, s.handleUpdateCase())
		// ケース削除
		cases.DELETE("/:id", requireAuth, s.handleDeleteCase())
	}

	notes := api.Group("/notes")
	{
		// ノート一覧取得
		notes.GET("", s.handleListNotes())
		// ノート作成
		notes.POST("", requireAuth, s.handleCreateNote())
		// ノート本文の更新
		notes.PUT("/:id", requireAuth, s.handleUpdateNote())
		// ノート削除
		notes.DELETE("/:id", requireAuth, s.handleDeleteNote())
	}
}

// handleLiveness はプレーンテキストで稼働確認の応答を返すハンドラを返す。
func (s *Server) handleLiveness() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, livenessMessage)
	}
}

// handleHealth はデータベースへの疎通を含めたヘルスチェックのハンドラを返す。
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			log.Printf("ヘルスチェックエラー: request_id=%s err=%v", middleware.GetRequestID(c), err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": "helpdesk"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "helpdesk"})
	}
}

// respondStoreError はストアのエラーをログに記録し、固定メッセージの500を返す。
// ドライバーのメッセージやコードはクライアントに返さない。
func respondStoreError(c *gin.Context, message string, err error) {
	log.Printf("%s: request_id=%s role=%s method=%s path=%s err=%v",
		message, middleware.GetRequestID(c), middleware.GetRole(c), c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// respondBadRequest はリクエスト不正の400を返す。
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request: %v", err)})
}
