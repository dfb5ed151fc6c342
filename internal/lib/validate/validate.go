// Package validate собирает валидатор запросов с правилами, которых нет в go-playground/validator.
package validate

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator"
)

// TagEmailShape — тег проверки формы адреса почты.
const TagEmailShape = "emailshape"

// New возвращает валидатор с зарегистрированным тегом emailshape.
func New() *validator.Validate {
	v := validator.New()
	// ошибка возможна только при пустом имени тега
	_ = v.RegisterValidation(TagEmailShape, func(fl validator.FieldLevel) bool {
		return EmailShape(fl.Field().String())
	})
	return v
}

// EmailShape проверяет, что в строке ровно один "@", обе части непустые,
// в домене есть точка не на краю и нет пробельных символов.
func EmailShape(s string) bool {
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return false
	}
	return len(domain) >= 3 && strings.Contains(domain[1:len(domain)-1], ".")
}
