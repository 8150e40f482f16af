// Package storage imza zarflarına yüklenen PDF'ler için nesne deposu soyutlaması.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonsuite/configs"
)

var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrInvalidKey     = errors.New("storage: invalid key")
)

// ObjectStorage anahtar/değer tarzı nesne deposu.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// ValidateKey mutlak yolları ve ".." bölümlerini reddeder.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

// NewFromEnv STORAGE_DRIVER değerine göre sürücüyü seçer.
func NewFromEnv(ctx context.Context) (ObjectStorage, error) {
	switch driver := configs.GetEnv("STORAGE_DRIVER", "local"); driver {
	case "local":
		return NewLocalStorage(configs.GetEnv("STORAGE_LOCAL_DIR", "./data/storage"))
	case "s3":
		s, err := NewS3Storage(ctx, S3Config{
			Endpoint:     configs.GetEnv("S3_ENDPOINT", ""),
			Region:       configs.GetEnv("S3_REGION", "us-east-1"),
			Bucket:       configs.GetEnv("S3_BUCKET", ""),
			AccessKey:    configs.GetEnv("S3_ACCESS_KEY", ""),
			SecretKey:    configs.GetEnv("S3_SECRET_KEY", ""),
			UsePathStyle: configs.GetEnvBool("S3_USE_PATH_STYLE", true),
		})
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
