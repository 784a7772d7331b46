// Package helpdesk はケース（サポートチケット）とノートを管理するAPIサーバーを提供する。
//
// 一覧取得は認証不要で公開し、作成・更新・削除はログインで発行した
// Bearerトークンを必須とする。自由記述の項目は永続化前にサニタイズする。
package helpdesk
