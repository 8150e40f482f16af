// Package validation istek DTO'larını go-playground/validator ile doğrular ve
// hataları tek bir kullanıcı mesajına çevirir.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate

	pinPattern = regexp.MustCompile(`^[0-9]{4,8}$`)
)

// Validator paylaşılan validator örneği. JSON alan adları hata mesajlarında kullanılır.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
			return pinPattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse("2006-01-02", fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
			_, err := time.LoadLocation(fl.Field().String())
			return err == nil && fl.Field().String() != ""
		})
	})
	return validate
}

// IsPIN 4-8 haneli sayısal PIN kontrolü.
func IsPIN(pin string) bool {
	return pinPattern.MatchString(pin)
}

// Struct doğrular; hata varsa ilk alan için okunabilir bir mesaj döndürür.
func Struct(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Field()+": "+message(fe))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return err
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "pin":
		return "must be 4 to 8 digits"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "timezone":
		return "must be a valid IANA timezone"
	default:
		return "invalid value"
	}
}
