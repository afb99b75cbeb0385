package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/geotaste/internal/client/storage"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

func TestStore_VerifyEmail(t *testing.T) {
	env := newTestEnv(t)
	env.mux.HandleFunc("POST /verify-email/", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.OTPRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.OTPCode != "123456" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"non_field_errors": []string{"Invalid or expired OTP"}})
			return
		}
		writeJSON(w, http.StatusOK, pkgapi.MessageResponse{Message: "Email verified successfully"})
	})
	ctx := context.Background()

	msg, err := env.store.VerifyEmail(ctx, "a@b.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "Email verified successfully", msg)

	_, err = env.store.VerifyEmail(ctx, "a@b.com", "000000")
	var otpErr *OtpError
	require.True(t, errors.As(err, &otpErr))
	assert.Equal(t, "Invalid or expired OTP", otpErr.Message)
	assert.Equal(t, http.StatusBadRequest, otpErr.StatusCode)
	assert.Equal(t, "Invalid or expired OTP", env.store.Session().Error)

	// формат кода проверяется до запроса
	before := env.calls.Load()
	for _, code := range []string{"12ab", "1.2345", "-12345", "+12345"} {
		_, err = env.store.VerifyEmail(ctx, "a@b.com", code)
		var valErr *ValidationError
		require.True(t, errors.As(err, &valErr), code)
		assert.Equal(t, "otp_code", valErr.Field, code)

		_, err = env.store.VerifyPasswordResetOTP(ctx, "a@b.com", code)
		require.True(t, errors.As(err, &valErr), code)
	}
	assert.Equal(t, before, env.calls.Load())
}

func TestStore_VerifyEmail_MarksCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	env.mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		u := testUser
		u.EmailVerified = false
		writeJSON(w, http.StatusOK, pkgapi.LoginResponse{Tokens: pkgapi.Tokens{Access: "opaque"}, User: u})
	})
	env.mux.HandleFunc("POST /verify-email/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pkgapi.MessageResponse{Message: "ok"})
	})
	ctx := context.Background()

	_, err := env.store.Login(ctx, "a@b.com", "password123")
	require.NoError(t, err)
	require.False(t, env.store.User().EmailVerified)

	_, err = env.store.VerifyEmail(ctx, "A@B.com", "123456")
	require.NoError(t, err)

	assert.True(t, env.store.User().EmailVerified)
	var saved pkgapi.User
	require.NoError(t, storage.GetJSON(ctx, env.local, storage.KeyUser, &saved))
	assert.True(t, saved.EmailVerified)
}

func TestStore_EmailRequests(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		call    func(s *Store) (string, error)
		body    map[string]any
		wantMsg string
		status  int
	}{
		{
			name:    "resend otp error key",
			path:    "POST /resend-verification-otp/",
			call:    func(s *Store) (string, error) { return s.ResendVerificationOTP(context.Background(), "a@b.com") },
			status:  http.StatusNotFound,
			body:    map[string]any{"error": "User not found"},
			wantMsg: "User not found",
		},
		{
			name:    "resend otp fallback",
			path:    "POST /resend-verification-otp/",
			call:    func(s *Store) (string, error) { return s.ResendVerificationOTP(context.Background(), "a@b.com") },
			status:  http.StatusBadRequest,
			body:    map[string]any{},
			wantMsg: "Failed to resend OTP",
		},
		{
			name:    "forgot password fallback",
			path:    "POST /forgot-password/",
			call:    func(s *Store) (string, error) { return s.ForgotPassword(context.Background(), "a@b.com") },
			status:  http.StatusBadRequest,
			body:    map[string]any{},
			wantMsg: "Failed to send reset code",
		},
		{
			name: "verify reset otp",
			path: "POST /verify-password-reset-otp/",
			call: func(s *Store) (string, error) {
				return s.VerifyPasswordResetOTP(context.Background(), "a@b.com", "654321")
			},
			status:  http.StatusBadRequest,
			body:    map[string]any{"non_field_errors": []string{"OTP has expired"}},
			wantMsg: "OTP has expired",
		},
		{
			name: "verify reset otp detail",
			path: "POST /verify-password-reset-otp/",
			call: func(s *Store) (string, error) {
				return s.VerifyPasswordResetOTP(context.Background(), "a@b.com", "654321")
			},
			status:  http.StatusBadRequest,
			body:    map[string]any{"detail": "ignored"},
			wantMsg: "ignored",
		},
		{
			name: "reset password",
			path: "POST /reset-password/",
			call: func(s *Store) (string, error) {
				return s.ResetPassword(context.Background(), "a@b.com", "654321", "newpassword1")
			},
			status:  http.StatusBadRequest,
			body:    map[string]any{"detail": "Invalid OTP"},
			wantMsg: "Invalid OTP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.mux.HandleFunc(tt.path, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := tt.call(env.store)

			var otpErr *OtpError
			require.True(t, errors.As(err, &otpErr), "got %T", err)
			assert.Equal(t, tt.wantMsg, otpErr.Message)
			assert.Equal(t, tt.wantMsg, env.store.Session().Error)
		})
	}
}

func TestStore_PasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	var steps []string
	record := func(step string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			steps = append(steps, step)
			writeJSON(w, http.StatusOK, pkgapi.MessageResponse{Message: step + " ok"})
		}
	}
	env.mux.HandleFunc("POST /forgot-password/", record("forgot"))
	env.mux.HandleFunc("POST /verify-password-reset-otp/", record("verify"))
	env.mux.HandleFunc("POST /reset-password/", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.ResetPasswordRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "654321", req.OTPCode)
		assert.Equal(t, "newpassword1", req.NewPassword)
		record("reset")(w, r)
	})
	ctx := context.Background()

	msg, err := env.store.ForgotPassword(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "forgot ok", msg)

	_, err = env.store.VerifyPasswordResetOTP(ctx, "a@b.com", "654321")
	require.NoError(t, err)

	// слишком короткий пароль отклоняется до запроса
	_, err = env.store.ResetPassword(ctx, "a@b.com", "654321", "short")
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "new_password", valErr.Field)

	_, err = env.store.ResetPassword(ctx, "a@b.com", "654321", "newpassword1")
	require.NoError(t, err)

	assert.Equal(t, []string{"forgot", "verify", "reset"}, steps)
	assert.False(t, env.store.IsAuthenticated())
}
