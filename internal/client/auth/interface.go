package auth

import (
	"context"

	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

// Service describes the session operations used by the command layer.
type Service interface {
	// Session state (read only)

	Session() Session
	Status() Status
	User() *pkgapi.User
	IsAuthenticated() bool
	Theme() Theme

	// Restore восстанавливает сессию из хранилища при старте
	Restore(ctx context.Context) error

	// Authentication methods

	Register(ctx context.Context, email, password, confirmPassword string, role pkgapi.Role) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Logout всегда завершается успешно локально
	Logout(ctx context.Context)
	RefreshUser(ctx context.Context) (*pkgapi.User, error)

	// Email verification and password reset

	VerifyEmail(ctx context.Context, email, otpCode string) (string, error)
	ResendVerificationOTP(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	VerifyPasswordResetOTP(ctx context.Context, email, otpCode string) (string, error)
	ResetPassword(ctx context.Context, email, otpCode, newPassword string) (string, error)

	// Methods below require an authenticated session

	GetProfile(ctx context.Context) (*pkgapi.Profile, error)
	UpdateProfile(ctx context.Context, update pkgapi.ProfileUpdate) (*pkgapi.Profile, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) (string, error)
	ToggleTheme(ctx context.Context) (Theme, error)
	SubmitRecipeRating(ctx context.Context, id pkgapi.ID, rating int, comment string) (string, error)
	SubmitRestaurantRating(ctx context.Context, id pkgapi.ID, rating int, comment string) (string, error)
}
