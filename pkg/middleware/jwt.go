package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken はトークン検証に失敗したことを表す。
// 形式不正・署名不一致・期限切れを区別せず、呼び出し元には常にこのエラーを返す。
var ErrInvalidToken = errors.New("トークンが無効です")

// TokenTTL は発行するトークンの有効期間。
const TokenTTL = 24 * time.Hour

// tokenIssuer はトークンの発行者名。
const tokenIssuer = "helpdesk"

// contextKeyRole は検証済みロールをGinコンテキストに格納するキー。
const contextKeyRole = "role"

// JWTClaims はJWTトークンのクレーム（ペイロード）を表す。
type JWTClaims struct {
	jwt.RegisteredClaims
	// Role はトークン保持者のロール（例: "admin"）。
	Role string `json:"role"`
}

// GenerateJWT はロールを埋め込んだJWTトークンを生成する。
// 有効期限は発行から24時間後。ログイン成功時に呼び出す。
func GenerateJWT(secret, role string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// ParseJWT はトークン文字列の署名と有効期限を検証し、クレームを返す。
// 失敗理由に関わらずErrInvalidTokenをラップしたエラーを返す。
func ParseJWT(tokenString, secret string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("%w: roleクレームがありません", ErrInvalidToken)
	}
	return claims, nil
}

// JWTAuth はJWTトークンを検証するGinミドルウェアを返す。
//
// Authorizationヘッダーの空白区切り2番目の要素をトークンとして扱う。
// スキーム部分（"Bearer"）は検証しない。トークンが無い場合は401、
// トークンが検証できない場合は403を返す。検証に成功した場合は
// コンテキストに "role" を設定する。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			return
		}

		claims, err := ParseJWT(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Invalid token",
			})
			return
		}

		c.Set(contextKeyRole, claims.Role)
		c.Next()
	}
}

// bearerToken はAuthorizationヘッダー値からトークン部分を取り出す。
func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}

// GetRole はGinコンテキストから検証済みロールを取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func GetRole(c *gin.Context) string {
	role, _ := c.Get(contextKeyRole)
	if r, ok := role.(string); ok {
		return r
	}
	return ""
}
