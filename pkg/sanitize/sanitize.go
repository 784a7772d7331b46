// Package sanitize は信頼できないクライアントから受け取った自由記述テキストを
// 永続化前に無害化する。
//
// スクリプトタグ、イベントハンドラー属性、javascript: URLなどの実行可能な
// コンテンツを除去し、プレーンテキストと無害な書式タグ（<b>, <p>, <a>など）は残す。
// プレーンテキスト中の ' " & > などは文字参照に変換せずそのまま保存する。
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// policy はユーザー投稿コンテンツ向けのサニタイズポリシー。
// bluemonday.Policyは構築後の並行利用が安全。
var policy = bluemonday.UGCPolicy()

// maxReferenceLen は文字参照として調べる "&" 以降の最大長。
const maxReferenceLen = 40

// Text は文字列から実行可能なマークアップを取り除いた文字列を返す。
// 既にサニタイズ済みの文字列を渡した場合は同じ文字列を返す。
func Text(raw string) string {
	if raw == "" {
		return raw
	}
	return restoreText(policy.Sanitize(raw))
}

// restoreText はbluemondayがエスケープしたテキスト部分を元の文字に戻す。
// タグはbluemondayの出力のまま残す。
func restoreText(sanitized string) string {
	z := html.NewTokenizer(strings.NewReader(sanitized))

	var b strings.Builder
	b.Grow(len(sanitized))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// strings.Readerからの読み込みではio.EOF以外は起きない
			return b.String()
		case html.TextToken:
			writeText(&b, string(z.Text()))
		default:
			b.Write(z.Raw())
		}
	}
}

// writeText はデコード済みのテキストを書き出す。
// 再度HTMLとして解釈されたときにタグや文字参照の開始になる "<" と "&" だけをエスケープする。
func writeText(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '<' && i+1 < len(s) && opensTag(s[i+1]):
			b.WriteString("&lt;")
		case c == '&' && startsReference(s[i:]):
			b.WriteString("&amp;")
		default:
			b.WriteByte(c)
		}
	}
}

// opensTag は "<" の直後の文字がタグ・終了タグ・コメントなどの開始になるかを返す。
func opensTag(c byte) bool {
	return isASCIILetter(c) || c == '/' || c == '!' || c == '?'
}

// startsReference はsの先頭の "&" が文字参照としてデコードされるかを返す。
func startsReference(s string) bool {
	end := 1
	if end < len(s) && s[end] == '#' {
		end++
	}
	for end < len(s) && end < maxReferenceLen && (isASCIILetter(s[end]) || isASCIIDigit(s[end])) {
		end++
	}
	if end == 1 {
		return false
	}
	if end < len(s) && s[end] == ';' {
		end++
	}
	candidate := s[:end]
	return html.UnescapeString(candidate) != candidate
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
