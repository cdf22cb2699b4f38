package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate проверяет теги `validate` входной модели
// (например, `validate:"required,datetime=2006-01-02"`).
// Возвращает ошибку с перечнем полей, не прошедших проверку.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(fields, ", "))
}
