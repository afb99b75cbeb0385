package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/geotaste/internal/client/api"
	"github.com/iudanet/geotaste/internal/client/storage"
	"github.com/iudanet/geotaste/internal/validation"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

// Status - состояние аутентификации сессии
type Status int

const (
	// StatusUnknown - сессия еще не восстановлена из хранилища
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session - снимок состояния сессии.
// AccessToken задан тогда и только тогда, когда API клиенту установлен bearer токен.
type Session struct {
	User         *pkgapi.User
	Profile      *pkgapi.Profile
	Error        string
	AccessToken  string
	RefreshToken string
	Status       Status
	Loading      bool
}

// sessionKeys - ключи, которые удаляются при выходе
var sessionKeys = []string{
	storage.KeyAccessToken,
	storage.KeyRefreshToken,
	storage.KeyUser,
	storage.KeyProfile,
}

// Store владеет сессией пользователя: токенами, закешированным пользователем
// и состоянием загрузки. Все изменения сессии проходят через методы Store.
type Store struct {
	apiClient api.ClientAPI
	local     storage.LocalStorage
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.RWMutex
	session Session
	theme   Theme
}

// Compile-time check that Store implements Service
var _ Service = (*Store)(nil)

// NewStore создает хранилище сессии в состоянии StatusUnknown.
// Для восстановления сохраненной сессии вызовите Restore.
func NewStore(apiClient api.ClientAPI, local storage.LocalStorage, logger *slog.Logger) *Store {
	return &Store{
		apiClient: apiClient,
		local:     local,
		logger:    logger,
		now:       time.Now,
		theme:     ThemeLight,
	}
}

// Session возвращает копию текущего состояния
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := s.session
	sess.User = s.session.User.Clone()
	if s.session.Profile != nil {
		p := *s.session.Profile
		sess.Profile = &p
	}
	return sess
}

// Status возвращает текущее состояние аутентификации
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Status
}

// User возвращает копию текущего пользователя или nil
func (s *Store) User() *pkgapi.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User.Clone()
}

// IsAuthenticated сообщает, выполнен ли вход
func (s *Store) IsAuthenticated() bool {
	return s.Status() == StatusAuthenticated
}

// Restore восстанавливает сессию из хранилища.
// При наличии снимка пользователя и непросроченного токена сеть не используется.
// Без снимка пользователь запрашивается через GET /me/; отказ в авторизации
// очищает сохраненные токены.
func (s *Store) Restore(ctx context.Context) error {
	s.begin()

	if err := s.loadTheme(ctx); err != nil {
		s.logger.Warn("failed to load theme", "error", err)
	}

	access, err := storage.GetOptional(ctx, s.local, storage.KeyAccessToken)
	if err != nil {
		s.clearSession()
		return s.finish(fmt.Errorf("failed to read access token: %w", err))
	}
	if access == "" {
		s.clearSession()
		return s.finish(nil)
	}

	if claims, err := ParseAccessToken(access); err != nil {
		s.logger.Debug("access token is not a JWT, expiry is not checked", "error", err)
	} else if claims.Expired(s.now()) {
		s.logger.Info("stored access token expired", "expired_at", claims.ExpiresAt.Time)
		s.teardown(ctx)
		return s.finish(nil)
	}

	refresh, err := storage.GetOptional(ctx, s.local, storage.KeyRefreshToken)
	if err != nil {
		s.logger.Warn("failed to read refresh token", "error", err)
	}
	tokens := pkgapi.Tokens{Access: access, Refresh: refresh}

	var profile *pkgapi.Profile
	var p pkgapi.Profile
	if err := storage.GetJSON(ctx, s.local, storage.KeyProfile, &p); err == nil {
		profile = &p
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		s.logger.Warn("failed to read cached profile", "error", err)
	}

	var user pkgapi.User
	err = storage.GetJSON(ctx, s.local, storage.KeyUser, &user)
	if err == nil {
		s.authenticate(&user, tokens, profile)
		return s.finish(nil)
	}
	if !errors.Is(err, storage.ErrKeyNotFound) {
		s.logger.Warn("failed to read cached user, asking server", "error", err)
	}

	// Снимка пользователя нет: токен уже нужен для запроса /me/
	s.apiClient.SetAccessToken(access)
	resp, err := s.apiClient.Me(ctx)
	if err != nil {
		if respErr, ok := api.AsResponseError(err); ok && respErr.IsUnauthorized() {
			s.logger.Info("stored access token rejected by server", "status", respErr.StatusCode)
			s.teardown(ctx)
			return s.finish(nil)
		}
		s.clearSession()
		return s.finish(opMe.normalize(err))
	}

	if err := storage.SetJSON(ctx, s.local, storage.KeyUser, resp.User); err != nil {
		s.logger.Warn("failed to cache user", "error", err)
	}
	if profile == nil && resp.User.Profile != nil {
		profile = resp.User.Profile
		if err := storage.SetJSON(ctx, s.local, storage.KeyProfile, profile); err != nil {
			s.logger.Warn("failed to cache profile", "error", err)
		}
	}
	s.authenticate(&resp.User, tokens, profile)
	return s.finish(nil)
}

// RegisterResult содержит результат регистрации
type RegisterResult struct {
	User    *pkgapi.User
	Message string
}

// Register регистрирует нового пользователя.
// Успешная регистрация не выполняет вход: сначала нужно подтвердить email.
func (s *Store) Register(ctx context.Context, email, password, confirmPassword string, role pkgapi.Role) (*RegisterResult, error) {
	s.begin()

	form := validation.Registration{
		Email:           email,
		Password:        password,
		PasswordConfirm: confirmPassword,
		Role:            string(role),
	}
	if err := validation.Validate(form); err != nil {
		return nil, s.finish(validationError(err))
	}

	resp, err := s.apiClient.Register(ctx, pkgapi.RegisterRequest{
		Email:           email,
		Password:        password,
		PasswordConfirm: confirmPassword,
		Role:            role,
	})
	if err != nil {
		return nil, s.finish(opRegister.normalize(err))
	}

	s.logger.Info("user registered", "email", email, "role", role)
	_ = s.finish(nil)
	return &RegisterResult{User: resp.User, Message: resp.Message}, nil
}

// LoginResult содержит результат авторизации
type LoginResult struct {
	User   *pkgapi.User
	Tokens pkgapi.Tokens
}

// Login выполняет вход. При успехе токены и снимок пользователя сохраняются,
// а access токен устанавливается API клиенту. При ошибке сессия становится
// неавторизованной.
func (s *Store) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	s.begin()

	if err := validation.Validate(validation.Credentials{Email: email, Password: password}); err != nil {
		s.clearSession()
		return nil, s.finish(validationError(err))
	}

	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.clearSession()
		return nil, s.finish(opLogin.normalize(err))
	}

	if err := s.persistSession(ctx, resp); err != nil {
		s.clearSession()
		return nil, s.finish(err)
	}

	s.authenticate(&resp.User, resp.Tokens, resp.User.Profile)
	s.logger.Info("user logged in", "user_id", resp.User.ID, "role", resp.User.Role)
	_ = s.finish(nil)

	return &LoginResult{User: resp.User.Clone(), Tokens: resp.Tokens}, nil
}

// Logout завершает сессию. Уведомление сервера выполняется по возможности,
// локальные данные удаляются всегда.
func (s *Store) Logout(ctx context.Context) {
	s.begin()

	if s.apiClient.AccessToken() != "" {
		if err := s.apiClient.Logout(ctx); err != nil {
			// Не прерываем выход, если сервер недоступен
			s.logger.Warn("failed to logout on server", "error", err)
		}
	}

	s.teardown(ctx)
	s.logger.Info("user logged out")
	_ = s.finish(nil)
}

// RefreshUser перечитывает текущего пользователя с сервера и обновляет снимок
func (s *Store) RefreshUser(ctx context.Context) (*pkgapi.User, error) {
	s.begin()
	if err := s.requireAuth(); err != nil {
		return nil, s.finish(err)
	}

	resp, err := s.apiClient.Me(ctx)
	if err != nil {
		if respErr, ok := api.AsResponseError(err); ok && respErr.IsUnauthorized() {
			s.teardown(ctx)
		}
		return nil, s.finish(opMe.normalize(err))
	}

	if err := storage.SetJSON(ctx, s.local, storage.KeyUser, resp.User); err != nil {
		s.logger.Warn("failed to cache user", "error", err)
	}

	s.mu.Lock()
	s.session.User = resp.User.Clone()
	if resp.User.Profile != nil {
		p := *resp.User.Profile
		s.session.Profile = &p
	}
	s.mu.Unlock()

	_ = s.finish(nil)
	return resp.User.Clone(), nil
}

// persistSession сохраняет токены и снимок пользователя после входа
func (s *Store) persistSession(ctx context.Context, resp *pkgapi.LoginResponse) error {
	if err := s.local.Set(ctx, storage.KeyAccessToken, resp.Tokens.Access); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	if err := s.local.Set(ctx, storage.KeyRefreshToken, resp.Tokens.Refresh); err != nil {
		s.removeKeys(ctx, storage.KeyAccessToken)
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	if err := storage.SetJSON(ctx, s.local, storage.KeyUser, resp.User); err != nil {
		s.removeKeys(ctx, storage.KeyAccessToken, storage.KeyRefreshToken)
		return fmt.Errorf("failed to save user: %w", err)
	}

	// Профиль предыдущего пользователя не должен пережить вход другого
	if resp.User.Profile != nil {
		if err := storage.SetJSON(ctx, s.local, storage.KeyProfile, resp.User.Profile); err != nil {
			s.logger.Warn("failed to cache profile", "error", err)
		}
	} else {
		s.removeKeys(ctx, storage.KeyProfile)
	}

	return nil
}

// authenticate атомарно устанавливает пользователя, токены и bearer токен клиента
func (s *Store) authenticate(user *pkgapi.User, tokens pkgapi.Tokens, profile *pkgapi.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.User = user.Clone()
	s.session.AccessToken = tokens.Access
	s.session.RefreshToken = tokens.Refresh
	s.session.Status = StatusAuthenticated
	s.session.Profile = nil
	if profile != nil {
		p := *profile
		s.session.Profile = &p
	}
	s.apiClient.SetAccessToken(tokens.Access)
}

// clearSession сбрасывает состояние в памяти, не трогая хранилище
func (s *Store) clearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.User = nil
	s.session.Profile = nil
	s.session.AccessToken = ""
	s.session.RefreshToken = ""
	s.session.Status = StatusUnauthenticated
	s.apiClient.ClearAccessToken()
}

// teardown сбрасывает сессию и удаляет ее из хранилища
func (s *Store) teardown(ctx context.Context) {
	s.removeKeys(ctx, sessionKeys...)
	s.clearSession()
}

// removeKeys удаляет ключи; ошибки только логируются
func (s *Store) removeKeys(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.local.Remove(ctx, key); err != nil {
			s.logger.Warn("failed to remove key from storage", "key", key, "error", err)
		}
	}
}

func (s *Store) requireAuth() error {
	if s.Status() != StatusAuthenticated {
		return ErrNotAuthenticated
	}
	return nil
}

// begin отмечает начало операции
func (s *Store) begin() {
	s.mu.Lock()
	s.session.Loading = true
	s.session.Error = ""
	s.mu.Unlock()
}

// finish завершает операцию и сохраняет сообщение об ошибке в сессии
func (s *Store) finish(err error) error {
	s.mu.Lock()
	s.session.Loading = false
	if err != nil {
		s.session.Error = Message(err)
	}
	s.mu.Unlock()
	return err
}
