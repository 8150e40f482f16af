package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPINDigest(t *testing.T) {
	key := []byte("kiosk-secret")

	a := PINDigest(key, "1234")
	assert.Len(t, a, 64)
	assert.Equal(t, a, PINDigest(key, "1234"))
	assert.NotEqual(t, a, PINDigest(key, "1235"))
	assert.NotEqual(t, a, PINDigest([]byte("other-secret"), "1234"))
	assert.NotContains(t, a, "1234")
}
