package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// AccessTokenBytes imza linki tokenları için 256 bit.
const AccessTokenBytes = 32

// GenerateToken n baytlık rastgele değeri URL güvenli base64 (dolgusuz) olarak döndürür.
func GenerateToken(n int) (string, error) {
	if n <= 0 {
		n = AccessTokenBytes
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token üretilemedi: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
