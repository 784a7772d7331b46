// Package httpclient はhelpdesk APIを呼び出すクライアントを提供する。
//
// CLIのサブコマンドが稼働中のサーバーに対してログインや一覧取得、
// ノート追加を行う際に使用する。コンテキストに設定したトークンは
// Bearerトークンとして送信する。
package httpclient
