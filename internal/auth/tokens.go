package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// OpaqueTokenBytes - энтропия одноразовых ссылок
const OpaqueTokenBytes = 32

// GenerateOpaqueToken возвращает hex от 32 криптографически случайных байт
func GenerateOpaqueToken() (string, error) {
	b := make([]byte, OpaqueTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomSuffix - короткая случайная строка [a-z0-9] (ключи идемпотентности)
func RandomSuffix(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate suffix: %w", err)
	}
	for i := range b {
		b[i] = suffixAlphabet[int(b[i])%len(suffixAlphabet)]
	}
	return string(b), nil
}
