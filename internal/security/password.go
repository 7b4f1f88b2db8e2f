package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

const pepperedPrefix = "hmac256:"

// PasswordEncoder turns a submitted password into the value kept in the
// credential store. Login looks users up by equality on that value, so the
// encoding must be deterministic.
type PasswordEncoder interface {
	Encode(plain string) string
}

type plainEncoder struct{}

func (plainEncoder) Encode(plain string) string { return plain }

type pepperedEncoder struct {
	key []byte
}

func (e pepperedEncoder) Encode(plain string) string {
	h := hmac.New(sha256.New, e.key)
	h.Write([]byte(plain))
	return pepperedPrefix + hex.EncodeToString(h.Sum(nil))
}

// NewPasswordEncoder returns the plaintext encoder when pepper is empty and a
// keyed HMAC-SHA256 encoder otherwise.
func NewPasswordEncoder(pepper string) PasswordEncoder {
	if pepper == "" {
		return plainEncoder{}
	}
	return pepperedEncoder{key: []byte(pepper)}
}
