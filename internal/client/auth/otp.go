package auth

import (
	"context"
	"strings"

	"github.com/iudanet/geotaste/internal/client/storage"
	"github.com/iudanet/geotaste/internal/validation"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

// VerifyEmail подтверждает email одноразовым кодом из письма
func (s *Store) VerifyEmail(ctx context.Context, email, otpCode string) (string, error) {
	s.begin()

	if err := validation.Validate(validation.OTP{Email: email, Code: otpCode}); err != nil {
		return "", s.finish(validationError(err))
	}

	resp, err := s.apiClient.VerifyEmail(ctx, pkgapi.OTPRequest{Email: email, OTPCode: otpCode})
	if err != nil {
		return "", s.finish(opVerifyEmail.normalize(err))
	}

	s.markVerified(ctx, email)
	_ = s.finish(nil)
	return resp.Message, nil
}

// ResendVerificationOTP запрашивает новый код подтверждения email
func (s *Store) ResendVerificationOTP(ctx context.Context, email string) (string, error) {
	return s.sendEmail(ctx, email, opResendOTP, s.apiClient.ResendVerificationOTP)
}

// ForgotPassword запрашивает код сброса пароля (шаг 1 из 3)
func (s *Store) ForgotPassword(ctx context.Context, email string) (string, error) {
	return s.sendEmail(ctx, email, opForgotPassword, s.apiClient.ForgotPassword)
}

// VerifyPasswordResetOTP проверяет код сброса пароля (шаг 2 из 3)
func (s *Store) VerifyPasswordResetOTP(ctx context.Context, email, otpCode string) (string, error) {
	s.begin()

	if err := validation.Validate(validation.OTP{Email: email, Code: otpCode}); err != nil {
		return "", s.finish(validationError(err))
	}

	resp, err := s.apiClient.VerifyPasswordResetOTP(ctx, pkgapi.OTPRequest{Email: email, OTPCode: otpCode})
	if err != nil {
		return "", s.finish(opVerifyResetOTP.normalize(err))
	}

	_ = s.finish(nil)
	return resp.Message, nil
}

// ResetPassword устанавливает новый пароль (шаг 3 из 3).
// Шаги независимы: ошибка здесь не отменяет предыдущие.
func (s *Store) ResetPassword(ctx context.Context, email, otpCode, newPassword string) (string, error) {
	s.begin()

	form := validation.PasswordReset{Email: email, Code: otpCode, NewPassword: newPassword}
	if err := validation.Validate(form); err != nil {
		return "", s.finish(validationError(err))
	}

	resp, err := s.apiClient.ResetPassword(ctx, pkgapi.ResetPasswordRequest{
		Email:       email,
		OTPCode:     otpCode,
		NewPassword: newPassword,
	})
	if err != nil {
		return "", s.finish(opResetPassword.normalize(err))
	}

	s.logger.Info("password reset", "email", email)
	_ = s.finish(nil)
	return resp.Message, nil
}

type emailCall func(ctx context.Context, req pkgapi.EmailRequest) (*pkgapi.MessageResponse, error)

func (s *Store) sendEmail(ctx context.Context, email string, op operation, call emailCall) (string, error) {
	s.begin()

	if err := validation.Validate(validation.Email{Email: email}); err != nil {
		return "", s.finish(validationError(err))
	}

	resp, err := call(ctx, pkgapi.EmailRequest{Email: email})
	if err != nil {
		return "", s.finish(op.normalize(err))
	}

	_ = s.finish(nil)
	return resp.Message, nil
}

// markVerified отмечает email текущего пользователя подтвержденным
func (s *Store) markVerified(ctx context.Context, email string) {
	s.mu.Lock()
	user := s.session.User
	if user == nil || !strings.EqualFold(user.Email, email) || user.EmailVerified {
		s.mu.Unlock()
		return
	}
	user.EmailVerified = true
	snapshot := user.Clone()
	s.mu.Unlock()

	if err := storage.SetJSON(ctx, s.local, storage.KeyUser, snapshot); err != nil {
		s.logger.Warn("failed to cache user", "error", err)
	}
}
