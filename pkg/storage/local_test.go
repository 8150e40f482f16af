package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutGetDelete(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "envelopes/abc/doc.pdf"
	require.NoError(t, s.Put(ctx, key, []byte("%PDF-1.4 test"), "application/pdf"))

	data, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	assert.NoError(t, s.Delete(ctx, key), "olmayan nesneyi silmek hata değil")
}

func TestValidateKey(t *testing.T) {
	valid := []string{"a.pdf", "envelopes/x/y.pdf"}
	invalid := []string{"", "/etc/passwd", "../secret", "a/../b", "a//b", "a\\b", "a/./b"}
	for _, k := range valid {
		assert.NoError(t, ValidateKey(k), k)
	}
	for _, k := range invalid {
		assert.ErrorIs(t, ValidateKey(k), ErrInvalidKey, k)
	}
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	err = s.Put(context.Background(), "../escape.pdf", []byte("x"), "application/pdf")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
