// Package config はhelpdeskサーバーの設定を読み込む。
//
// 設定はYAMLファイル（任意）から読み込んだ後、環境変数で上書きする。
// 読み込み後のConfigはプロセス起動時に一度だけ構築され、
// 各コンポーネントに参照として渡される。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config はhelpdeskサーバー全体の設定。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig はHTTPサーバーの設定。
type ServerConfig struct {
	// Port はリッスンポート。
	Port string `yaml:"port"`
	// ShutdownTimeout はグレースフルシャットダウンの猶予時間。
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig はデータベース接続プールの設定。
type DatabaseConfig struct {
	// Path はSQLiteデータベースファイルのパス。":memory:" も指定できる。
	Path string `yaml:"path"`
	// MaxOpenConns は同時に開く接続数の上限。
	MaxOpenConns int `yaml:"max_open_conns"`
	// MaxIdleConns はアイドル状態で保持する接続数の上限。
	MaxIdleConns int `yaml:"max_idle_conns"`
	// ConnectTimeout は接続確立の待ち時間の上限。
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	// BusyTimeout はロック待ちの上限。
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// AuthConfig はログインとトークン署名の設定。
type AuthConfig struct {
	// JWTSecret はトークン署名用の秘密鍵。必須。
	JWTSecret string `yaml:"jwt_secret"`
	// AdminPassword は平文の管理者パスワード。
	AdminPassword string `yaml:"admin_password"`
	// AdminPasswordHash はArgon2idのPHC形式ハッシュ。AdminPasswordより優先される。
	AdminPasswordHash string `yaml:"admin_password_hash"`
}

// CORSConfig はクロスオリジンリクエストの設定。
type CORSConfig struct {
	// AllowedOrigins は許可するオリジンの一覧。"*" で全て許可する。
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ErrMissingJWTSecret はトークン署名用の秘密鍵が設定されていないことを表す。
var ErrMissingJWTSecret = errors.New("JWT_SECRETが設定されていません")

// ErrMissingAdminPassword は管理者パスワードが設定されていないことを表す。
var ErrMissingAdminPassword = errors.New("ADMIN_PASSWORDまたはADMIN_PASSWORD_HASHが設定されていません")

// Default はデフォルト値を設定したConfigを返す。
// 秘密情報にはデフォルト値を持たせない。
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "3000",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:           "/data/helpdesk.db",
			MaxOpenConns:   10,
			MaxIdleConns:   5,
			ConnectTimeout: 10 * time.Second,
			BusyTimeout:    5 * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load は設定を読み込んで検証する。
// pathが空でなければYAMLファイルを読み込み、その後に環境変数を適用する。
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("設定ファイルの解析に失敗: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv は環境変数の値で設定を上書きする。
// lookupはテストで差し替えられるようにos.LookupEnvと同じシグネチャを取る。
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("PORT", &c.Server.Port)
	str("DB_NAME", &c.Database.Path)
	str("DB_PATH", &c.Database.Path)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("ADMIN_PASSWORD", &c.Auth.AdminPassword)
	str("ADMIN_PASSWORD_HASH", &c.Auth.AdminPasswordHash)

	if v, ok := lookup("DB_MAX_OPEN_CONNS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_MAX_OPEN_CONNSの値が不正です: %w", err)
		}
		c.Database.MaxOpenConns = n
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{key: "DB_CONNECT_TIMEOUT", dst: &c.Database.ConnectTimeout},
		{key: "DB_BUSY_TIMEOUT", dst: &c.Database.BusyTimeout},
		{key: "SHUTDOWN_TIMEOUT", dst: &c.Server.ShutdownTimeout},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sの値が不正です: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowedOrigins = origins
	}

	return nil
}

// Validate は起動に必要な設定が揃っているかを検証する。
// 秘密鍵や管理者パスワードが無い状態での起動は許可しない。
func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.Auth.AdminPassword == "" && c.Auth.AdminPasswordHash == "" {
		return ErrMissingAdminPassword
	}
	if c.Server.Port == "" {
		return errors.New("ポート番号が設定されていません")
	}
	if c.Database.Path == "" {
		return errors.New("データベースのパスが設定されていません")
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("max_open_connsは1以上である必要があります: %d", c.Database.MaxOpenConns)
	}
	if c.Database.ConnectTimeout <= 0 {
		return fmt.Errorf("connect_timeoutは正の値である必要があります: %s", c.Database.ConnectTimeout)
	}
	return nil
}
