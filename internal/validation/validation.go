package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLen минимальная длина пароля, проверяемая на клиенте
const MinPasswordLen = 8

// OTPLen длина одноразового кода из письма
const OTPLen = 6

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В сообщениях используем имена полей из тега json (как их видит сервер)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Registration - поля формы регистрации
type Registration struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=normal store restaurant admin chef customer"`
}

// Credentials - поля формы входа
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Email - форма с единственным полем email
type Email struct {
	Email string `json:"email" validate:"required,email"`
}

// OTP - email и одноразовый код
type OTP struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"otp_code" validate:"required,len=6,number"`
}

// PasswordReset - последний шаг сброса пароля
type PasswordReset struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"otp_code" validate:"required,len=6,number"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// PasswordChange - смена пароля авторизованным пользователем
type PasswordChange struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,nefield=OldPassword"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// Rating - оценка рецепта или ресторана
type Rating struct {
	Comment string `json:"comment" validate:"max=1000"`
	Value   int    `json:"rating" validate:"min=1,max=5"`
}

// FieldError describes the first failed check of a form.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Validate проверяет структуру формы и возвращает *FieldError
// для первого невалидного поля
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validation failed: %w", err)
	}

	fe := verrs[0]
	return &FieldError{
		Field:   fe.Field(),
		Message: message(fe),
	}
}

// message переводит ошибку валидатора в сообщение для пользователя
func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "enter a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s digits", field, fe.Param())
	case "number", "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	case "eqfield":
		return "passwords do not match"
	case "nefield":
		return "new password must differ from the old one"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
