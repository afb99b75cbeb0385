package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/iudanet/geotaste/internal/client/api"
	"github.com/iudanet/geotaste/internal/validation"
)

// ErrNotAuthenticated возвращается операциями, требующими входа
var ErrNotAuthenticated = errors.New("not authenticated")

// ValidationError - поле формы не прошло проверку (на клиенте или на сервере)
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError - сервер отклонил учетные данные или запрос авторизованного пользователя
type AuthError struct {
	Message    string
	StatusCode int
	unverified bool
}

func (e *AuthError) Error() string {
	return e.Message
}

// Unverified reports that login was refused because the email address
// has not been confirmed yet.
func (e *AuthError) Unverified() bool {
	return e.unverified
}

// OtpError - неверный или просроченный одноразовый код
type OtpError struct {
	Message    string
	StatusCode int
}

func (e *OtpError) Error() string {
	return e.Message
}

// ServerError - сервер не смог обработать запрос (5xx)
type ServerError struct {
	Message    string
	StatusCode int
}

func (e *ServerError) Error() string {
	return e.Message
}

// NetworkError - запрос не был выполнен (сеть, таймаут, отмена контекста)
type NetworkError struct {
	Err error
	Op  string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type errorKind int

const (
	kindAuth errorKind = iota
	kindOtp
)

// operation описывает, как нормализовать ошибку сервера для одной операции:
// keys - порядок ключей ответа, из которых берется сообщение,
// fields - ключи, означающие ошибку конкретного поля формы.
type operation struct {
	name     string
	fallback string
	keys     []string
	fields   []string
	kind     errorKind
}

var (
	opRegister = operation{
		name:     "register",
		fallback: "Registration failed",
		keys:     []string{"email", "password", "password_confirm", "role", "non_field_errors", "detail"},
		fields:   []string{"email", "password", "password_confirm", "role"},
	}
	opLogin = operation{
		name:     "login",
		fallback: "Login failed",
		keys:     []string{"email", "password", "non_field_errors", "detail"},
	}
	opMe = operation{
		name:     "me",
		fallback: "Failed to load user",
		keys:     []string{"detail"},
	}
	opVerifyEmail = operation{
		name:     "verify email",
		fallback: "Email verification failed",
		keys:     []string{"non_field_errors", "otp_code", "detail"},
		kind:     kindOtp,
	}
	opResendOTP = operation{
		name:     "resend otp",
		fallback: "Failed to resend OTP",
		keys:     []string{"error", "email", "detail"},
		kind:     kindOtp,
	}
	opForgotPassword = operation{
		name:     "forgot password",
		fallback: "Failed to send reset code",
		keys:     []string{"error", "email", "detail"},
		kind:     kindOtp,
	}
	opVerifyResetOTP = operation{
		name:     "verify reset otp",
		fallback: "OTP verification failed",
		keys:     []string{"non_field_errors", "otp_code", "detail"},
		kind:     kindOtp,
	}
	opResetPassword = operation{
		name:     "reset password",
		fallback: "Password reset failed",
		keys:     []string{"non_field_errors", "new_password", "detail"},
		fields:   []string{"new_password"},
		kind:     kindOtp,
	}
	opGetProfile = operation{
		name:     "get profile",
		fallback: "Failed to fetch profile",
		keys:     []string{"detail"},
	}
	opUpdateProfile = operation{
		name:     "update profile",
		fallback: "Failed to update profile",
		keys:     []string{"detail", "first_name", "last_name", "phone_number", "location", "bio"},
		fields:   []string{"first_name", "last_name", "phone_number", "location", "bio"},
	}
	opChangePassword = operation{
		name:     "change password",
		fallback: "Failed to change password",
		keys:     []string{"old_password", "new_password", "detail"},
		fields:   []string{"new_password"},
	}
	opRate = operation{
		name:     "rate",
		fallback: "Failed to submit rating",
	}
)

// Normalize переводит ошибку запроса вне сессии (каталог, заказы) в AuthError,
// ServerError или NetworkError. Сообщением всегда служит fallback.
func Normalize(name, fallback string, err error) error {
	if err == nil {
		return nil
	}
	return operation{name: name, fallback: fallback}.normalize(err)
}

// normalize переводит ошибку API клиента в типизированную ошибку операции
func (op operation) normalize(err error) error {
	respErr, ok := api.AsResponseError(err)
	if !ok {
		return &NetworkError{Op: op.name, Err: err}
	}

	key, msg := respErr.FieldMessage(op.keys...)
	if msg == "" {
		msg = op.fallback
	}

	switch {
	case key != "" && slices.Contains(op.fields, key):
		return &ValidationError{Field: key, Message: msg}
	case respErr.StatusCode >= http.StatusInternalServerError:
		return &ServerError{StatusCode: respErr.StatusCode, Message: msg}
	case op.kind == kindOtp:
		return &OtpError{StatusCode: respErr.StatusCode, Message: msg}
	default:
		return &AuthError{
			StatusCode: respErr.StatusCode,
			Message:    msg,
			unverified: op.name == opLogin.name && isUnverified(respErr.StatusCode, msg),
		}
	}
}

// isUnverified распознает отказ во входе из-за неподтвержденного email
func isUnverified(status int, msg string) bool {
	if status != http.StatusForbidden {
		return false
	}
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "verif") || strings.Contains(msg, "not confirmed")
}

// validationError переводит ошибку формы в ValidationError
func validationError(err error) error {
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return &ValidationError{Field: fe.Field, Message: fe.Message}
	}
	return &ValidationError{Message: err.Error()}
}

// Message извлекает сообщение для пользователя из ошибки операции
func Message(err error) string {
	if err == nil {
		return ""
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "network error: " + netErr.Err.Error()
	}
	return err.Error()
}
