// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// JWTトークンの発行と検証、リクエストID付与、パニックリカバリ、
// CORS設定など、helpdesk APIサーバーが使用するミドルウェアを含む。
package middleware
