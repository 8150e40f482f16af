package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PINDigest PIN'in anahtarlı (HMAC-SHA256) arama özetini hex olarak döndürür.
// Aynı anahtar ve PIN her zaman aynı özeti verir; bcrypt özetinin yanında indeksli arama için tutulur.
func PINDigest(key []byte, pin string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(pin))
	return hex.EncodeToString(mac.Sum(nil))
}
