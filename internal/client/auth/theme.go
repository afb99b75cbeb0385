package auth

import (
	"context"
	"fmt"

	"github.com/iudanet/geotaste/internal/client/storage"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

// Theme - цветовая тема клиента
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Theme возвращает текущую тему
func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// ToggleTheme переключает тему и сохраняет ее локально. Если пользователь
// вошел и профиль загружен, dark_mode профиля обновляется на сервере;
// ошибка такого обновления только логируется и не попадает в Session.Error.
func (s *Store) ToggleTheme(ctx context.Context) (Theme, error) {
	s.mu.RLock()
	current := s.theme
	syncProfile := s.session.Status == StatusAuthenticated && s.session.Profile != nil
	s.mu.RUnlock()

	next := ThemeDark
	if current == ThemeDark {
		next = ThemeLight
	}

	// Сначала сохраняем, потом меняем в памяти
	if err := s.local.Set(ctx, storage.KeyTheme, string(next)); err != nil {
		return current, fmt.Errorf("failed to save theme: %w", err)
	}

	s.mu.Lock()
	s.theme = next
	s.mu.Unlock()

	if syncProfile {
		s.syncDarkMode(ctx, next == ThemeDark)
	}

	return next, nil
}

// syncDarkMode отправляет dark_mode на сервер в обход begin/finish
func (s *Store) syncDarkMode(ctx context.Context, dark bool) {
	resp, err := s.apiClient.UpdateProfile(ctx, pkgapi.ProfileUpdate{DarkMode: &dark})
	if err != nil {
		s.logger.Warn("failed to sync theme with profile", "error", opUpdateProfile.normalize(err))
		return
	}
	s.applyProfile(ctx, resp.Profile)
}

func (s *Store) loadTheme(ctx context.Context) error {
	value, err := storage.GetOptional(ctx, s.local, storage.KeyTheme)
	if err != nil {
		return fmt.Errorf("failed to read theme: %w", err)
	}

	theme := ThemeLight
	if Theme(value) == ThemeDark {
		theme = ThemeDark
	}

	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	return nil
}
