package password

import (
	"errors"
	"strings"
	"testing"
)

// TestHashAndVerifyHash はHashとVerifyHashの組み合わせを検証する。
func TestHashAndVerifyHash(t *testing.T) {
	t.Parallel()

	encoded, err := Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash()でエラーが発生: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=65536,t=3,p=1$") {
		t.Errorf("Hash() = %q, PHC形式ではない", encoded)
	}

	t.Run("正しいパスワードで一致すること", func(t *testing.T) {
		t.Parallel()

		ok, err := VerifyHash("correct horse", encoded)
		if err != nil {
			t.Fatalf("VerifyHash()でエラーが発生: %v", err)
		}
		if !ok {
			t.Error("VerifyHash() = false, want true")
		}
	})

	t.Run("誤ったパスワードで一致しないこと", func(t *testing.T) {
		t.Parallel()

		ok, err := VerifyHash("wrong horse", encoded)
		if err != nil {
			t.Fatalf("VerifyHash()でエラーが発生: %v", err)
		}
		if ok {
			t.Error("VerifyHash() = true, want false")
		}
	})

	t.Run("同じパスワードでもソルトが異なること", func(t *testing.T) {
		t.Parallel()

		other, err := Hash("correct horse")
		if err != nil {
			t.Fatalf("Hash()でエラーが発生: %v", err)
		}
		if other == encoded {
			t.Error("2回のHash()が同じ文字列を返した")
		}
	})
}

// TestVerifyHashInvalid は不正なハッシュ文字列の扱いを検証する。
func TestVerifyHashInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		encoded string
	}{
		{name: "区切りが足りない", encoded: "$argon2id$v=19$m=65536"},
		{name: "アルゴリズムが異なる", encoded: "$bcrypt$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA"},
		{name: "ソルトがbase64ではない", encoded: "$argon2id$v=19$m=65536,t=3,p=1$!!!$aGFzaA"},
		{name: "パラメータが壊れている", encoded: "$argon2id$v=19$memory$c2FsdA$aGFzaA"},
		{name: "空文字列", encoded: ""},
		{name: "反復回数が0", encoded: "$argon2id$v=19$m=65536,t=0,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA"},
		{name: "並列度が0", encoded: "$argon2id$v=19$m=65536,t=3,p=0$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA"},
		{name: "メモリが並列度の8倍未満", encoded: "$argon2id$v=19$m=15,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA"},
		{name: "メモリが上限を超える", encoded: "$argon2id$v=19$m=4194305,t=3,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, err := VerifyHash("anything", tt.encoded)
			if !errors.Is(err, ErrInvalidHash) {
				t.Errorf("VerifyHash() error = %v, want ErrInvalidHash", err)
			}
			if ok {
				t.Error("VerifyHash() = true, want false")
			}
		})
	}
}

// TestVerifier はVerifierを検証する。
func TestVerifier(t *testing.T) {
	t.Parallel()

	t.Run("平文パスワードと照合できること", func(t *testing.T) {
		t.Parallel()

		v, err := NewVerifier("s3cret", "")
		if err != nil {
			t.Fatalf("NewVerifier()でエラーが発生: %v", err)
		}
		if !v.Verify("s3cret") {
			t.Error("Verify(正しいパスワード) = false, want true")
		}
		if v.Verify("s3cret ") {
			t.Error("Verify(誤ったパスワード) = true, want false")
		}
		if v.Verify("") {
			t.Error("Verify(空文字列) = true, want false")
		}
	})

	t.Run("ハッシュが平文より優先されること", func(t *testing.T) {
		t.Parallel()

		encoded, err := Hash("from-hash")
		if err != nil {
			t.Fatalf("Hash()でエラーが発生: %v", err)
		}
		v, err := NewVerifier("from-plain", encoded)
		if err != nil {
			t.Fatalf("NewVerifier()でエラーが発生: %v", err)
		}
		if !v.Verify("from-hash") {
			t.Error("Verify(ハッシュのパスワード) = false, want true")
		}
		if v.Verify("from-plain") {
			t.Error("Verify(平文のパスワード) = true, want false")
		}
	})

	t.Run("どちらも空の場合はエラーになること", func(t *testing.T) {
		t.Parallel()

		if _, err := NewVerifier("", ""); err == nil {
			t.Error("NewVerifier()がエラーを返すべき")
		}
	})

	t.Run("照合時にパニックするパラメータのハッシュは生成時にエラーになること", func(t *testing.T) {
		t.Parallel()

		for _, encoded := range []string{
			"$argon2id$v=19$m=65536,t=0,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
			"$argon2id$v=19$m=65536,t=3,p=0$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
		} {
			v, err := NewVerifier("", encoded)
			if !errors.Is(err, ErrInvalidHash) {
				t.Errorf("NewVerifier(%q) error = %v, want ErrInvalidHash", encoded, err)
			}
			if v != nil {
				t.Errorf("NewVerifier(%q)はnilを返すべき", encoded)
			}
		}
	})

	t.Run("不正なハッシュはエラーになること", func(t *testing.T) {
		t.Parallel()

		if _, err := NewVerifier("", "not-a-phc-string"); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("NewVerifier() error = %v, want ErrInvalidHash", err)
		}
	})
}
