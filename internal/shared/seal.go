package shared

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

// ErrTokenUnreadable is returned when a sealed token fails authentication.
var ErrTokenUnreadable = errors.New("sealed token unreadable")

const sealInfo = "chalani session token v1"

// TokenSealer encrypts bearer tokens before they are written to Redis.
type TokenSealer struct {
	key [32]byte
}

// NewTokenSealer derives a sealing key from secret.
func NewTokenSealer(secret string) *TokenSealer {
	s := &TokenSealer{}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(sealInfo))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		// hkdf only fails past 255*hash size bytes.
		panic(err)
	}
	return s
}

// Seal encrypts plaintext and returns a URL-safe string.
func (s *TokenSealer) Seal(plaintext string) (string, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	out := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func (s *TokenSealer) Open(sealed string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(raw) < 24+secretbox.Overhead {
		return "", ErrTokenUnreadable
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	plain, ok := secretbox.Open(nil, raw[24:], &nonce, &s.key)
	if !ok {
		return "", ErrTokenUnreadable
	}
	return string(plain), nil
}
