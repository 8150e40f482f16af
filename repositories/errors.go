package repositories

import "errors"

// ErrNotFound kayıt bulunamadığında tüm repository'ler bu hatayı döndürür.
var ErrNotFound = errors.New("kayıt bulunamadı")
