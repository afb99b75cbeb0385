package auth

import (
	"context"

	"github.com/iudanet/geotaste/internal/client/storage"
	"github.com/iudanet/geotaste/internal/validation"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

// GetProfile загружает профиль текущего пользователя и кеширует его
func (s *Store) GetProfile(ctx context.Context) (*pkgapi.Profile, error) {
	s.begin()
	if err := s.requireAuth(); err != nil {
		return nil, s.finish(err)
	}

	profile, err := s.apiClient.GetProfile(ctx)
	if err != nil {
		return nil, s.finish(opGetProfile.normalize(err))
	}

	if err := storage.SetJSON(ctx, s.local, storage.KeyProfile, profile); err != nil {
		s.logger.Warn("failed to cache profile", "error", err)
	}

	s.mu.Lock()
	p := *profile
	s.session.Profile = &p
	s.mu.Unlock()

	_ = s.finish(nil)
	return profile, nil
}

// UpdateProfile частично обновляет профиль. Заданные поля отправляются на
// сервер, ответ сервера заменяет профиль в сессии и во встроенном профиле пользователя.
func (s *Store) UpdateProfile(ctx context.Context, update pkgapi.ProfileUpdate) (*pkgapi.Profile, error) {
	s.begin()
	if err := s.requireAuth(); err != nil {
		return nil, s.finish(err)
	}
	if update.IsEmpty() {
		return nil, s.finish(&ValidationError{Message: "nothing to update"})
	}

	resp, err := s.apiClient.UpdateProfile(ctx, update)
	if err != nil {
		return nil, s.finish(opUpdateProfile.normalize(err))
	}

	profile := resp.Profile
	s.applyProfile(ctx, profile)

	_ = s.finish(nil)
	return &profile, nil
}

// ChangePassword меняет пароль авторизованного пользователя
func (s *Store) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) (string, error) {
	s.begin()
	if err := s.requireAuth(); err != nil {
		return "", s.finish(err)
	}

	form := validation.PasswordChange{
		OldPassword:     oldPassword,
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	}
	if err := validation.Validate(form); err != nil {
		return "", s.finish(validationError(err))
	}

	resp, err := s.apiClient.ChangePassword(ctx, pkgapi.ChangePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
	if err != nil {
		return "", s.finish(opChangePassword.normalize(err))
	}

	_ = s.finish(nil)
	return resp.Message, nil
}

// applyProfile заменяет профиль в сессии и во встроенном профиле пользователя
// и сохраняет оба снимка
func (s *Store) applyProfile(ctx context.Context, profile pkgapi.Profile) {
	s.mu.Lock()
	p := profile
	s.session.Profile = &p
	var snapshot *pkgapi.User
	if s.session.User != nil {
		up := profile
		s.session.User.Profile = &up
		snapshot = s.session.User.Clone()
	}
	s.mu.Unlock()

	if err := storage.SetJSON(ctx, s.local, storage.KeyProfile, profile); err != nil {
		s.logger.Warn("failed to cache profile", "error", err)
	}
	if snapshot != nil {
		if err := storage.SetJSON(ctx, s.local, storage.KeyUser, snapshot); err != nil {
			s.logger.Warn("failed to cache user", "error", err)
		}
	}
}
