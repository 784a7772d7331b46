// Package password は管理者パスワードの照合を提供する。
//
// 平文パスワードの定数時間比較と、Argon2idのPHC形式ハッシュ
// （$argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>）の生成・照合を扱う。
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2idのパラメータ。
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 1
	argonKeyLen  = 32
	argonSaltLen = 16

	// maxArgonMemory は照合時に許すメモリ量の上限（KiB）。
	maxArgonMemory = 4 * 1024 * 1024
)

// ErrInvalidHash はPHC形式のハッシュ文字列を解釈できないことを表す。
var ErrInvalidHash = errors.New("PHC形式のハッシュが不正です")

// Hash は平文パスワードをArgon2idでハッシュ化し、PHC形式の文字列を返す。
func Hash(plain string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("ソルトの生成に失敗: %w", err)
	}

	hash := argon2.IDKey([]byte(plain), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyHash は平文パスワードがPHC形式のハッシュと一致するかを返す。
func VerifyHash(plain, encoded string) (bool, error) {
	salt, hash, params, err := decodePHC(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(plain), salt, params.time, params.memory, params.threads, uint32(len(hash))) //nolint:gosec // ハッシュ長は常にuint32に収まる
	return subtle.ConstantTimeCompare(hash, candidate) == 1, nil
}

// Equal は2つの平文を定数時間で比較する。
func Equal(plain, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(plain), []byte(expected)) == 1
}

// Verifier は設定された管理者パスワードとの照合を行う。
// hashが設定されている場合はそちらを優先する。
type Verifier struct {
	// plain は平文の管理者パスワード。
	plain string
	// hash はArgon2idのPHC形式ハッシュ。
	hash string
}

// NewVerifier は新しいVerifierを生成する。
// plainとhashの両方が空の場合はエラーを返す。hashは形式も検証する。
func NewVerifier(plain, hash string) (*Verifier, error) {
	if plain == "" && hash == "" {
		return nil, errors.New("管理者パスワードが設定されていません")
	}
	if hash != "" {
		if _, _, _, err := decodePHC(hash); err != nil {
			return nil, err
		}
	}
	return &Verifier{plain: plain, hash: hash}, nil
}

// Verify は入力されたパスワードが管理者パスワードと一致するかを返す。
func (v *Verifier) Verify(candidate string) bool {
	if v.hash != "" {
		ok, err := VerifyHash(candidate, v.hash)
		return err == nil && ok
	}
	return Equal(candidate, v.plain)
}

type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
}

// decodePHC はPHC形式の文字列をソルト・ハッシュ・パラメータに分解する。
func decodePHC(encoded string) (salt, hash []byte, params argonParams, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, nil, params, ErrInvalidHash
	}
	if parts[1] != "argon2id" {
		return nil, nil, params, fmt.Errorf("%w: 未対応のアルゴリズム %s", ErrInvalidHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, params, fmt.Errorf("%w: バージョンの解析に失敗: %w", ErrInvalidHash, err)
	}
	if version != argon2.Version {
		return nil, nil, params, fmt.Errorf("%w: 未対応のバージョン %d", ErrInvalidHash, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return nil, nil, params, fmt.Errorf("%w: パラメータの解析に失敗: %w", ErrInvalidHash, err)
	}
	// argon2.IDKeyはt<1やp<1でパニックするため起動時に弾く
	if params.time < 1 || params.threads < 1 {
		return nil, nil, params, fmt.Errorf("%w: t=%d,p=%dは1以上である必要があります", ErrInvalidHash, params.time, params.threads)
	}
	if params.memory < 8*uint32(params.threads) || params.memory > maxArgonMemory {
		return nil, nil, params, fmt.Errorf("%w: m=%dが範囲外です", ErrInvalidHash, params.memory)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, fmt.Errorf("%w: ソルトのデコードに失敗: %w", ErrInvalidHash, err)
	}
	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, params, fmt.Errorf("%w: ハッシュのデコードに失敗: %w", ErrInvalidHash, err)
	}
	if len(hash) == 0 {
		return nil, nil, params, fmt.Errorf("%w: ハッシュが空です", ErrInvalidHash)
	}

	return salt, hash, params, nil
}
