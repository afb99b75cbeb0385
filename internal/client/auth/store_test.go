package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/geotaste/internal/client/storage"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

func TestNewStore(t *testing.T) {
	env := newTestEnv(t)

	sess := env.store.Session()
	assert.Equal(t, StatusUnknown, sess.Status)
	assert.Nil(t, sess.User)
	assert.Empty(t, sess.AccessToken)
	assert.Equal(t, ThemeLight, env.store.Theme())
}

func TestStore_Login_Success(t *testing.T) {
	env := newTestEnv(t)
	access := makeToken(t, "7", time.Now().Add(time.Hour))
	env.handleLogin(t, access)

	result, err := env.store.Login(context.Background(), "a@b.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, access, result.Tokens.Access)
	assert.Equal(t, pkgapi.ID("7"), result.User.ID)

	sess := env.store.Session()
	assert.Equal(t, StatusAuthenticated, sess.Status)
	assert.False(t, sess.Loading)
	assert.Empty(t, sess.Error)
	assert.Equal(t, access, sess.AccessToken)
	assert.Equal(t, "refresh-token", sess.RefreshToken)
	require.NotNil(t, sess.User)
	assert.Equal(t, "a@b.com", sess.User.Email)

	// bearer токен установлен клиенту
	assert.Equal(t, access, env.client.AccessToken())

	// токены и снимок пользователя сохранены
	assert.Equal(t, access, env.data[storage.KeyAccessToken])
	assert.Equal(t, "refresh-token", env.data[storage.KeyRefreshToken])
	var saved pkgapi.User
	require.NoError(t, json.Unmarshal([]byte(env.data[storage.KeyUser]), &saved))
	assert.Equal(t, testUser, saved)
}

func TestStore_Login_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
	})

	result, err := env.store.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.Nil(t, result)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "Invalid credentials", authErr.Message)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.False(t, authErr.Unverified())

	sess := env.store.Session()
	assert.Equal(t, "Invalid credentials", sess.Error)
	assert.Equal(t, StatusUnauthenticated, sess.Status)
	assert.False(t, env.store.IsAuthenticated())
	assert.Empty(t, env.client.AccessToken())
	assert.NotContains(t, env.data, storage.KeyAccessToken)
}

func TestStore_Login_ErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]any
		want    string
		status  int
		unverif bool
	}{
		{
			name:   "field message wins over detail",
			status: http.StatusBadRequest,
			body:   map[string]any{"email": []string{"Enter a valid email."}, "detail": "Bad request"},
			want:   "Enter a valid email.",
		},
		{
			name:   "non field errors",
			status: http.StatusBadRequest,
			body:   map[string]any{"non_field_errors": []string{"Unable to log in."}},
			want:   "Unable to log in.",
		},
		{
			name:   "fallback",
			status: http.StatusBadRequest,
			body:   map[string]any{"unexpected": true},
			want:   "Login failed",
		},
		{
			name:    "unverified email",
			status:  http.StatusForbidden,
			body:    map[string]any{"detail": "Please verify your email before logging in."},
			want:    "Please verify your email before logging in.",
			unverif: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := env.store.Login(context.Background(), "a@b.com", "password123")

			var authErr *AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.want, authErr.Message)
			assert.Equal(t, tt.unverif, authErr.Unverified())
			assert.Equal(t, tt.want, env.store.Session().Error)
		})
	}
}

func TestStore_Login_ValidationSkipsNetwork(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.store.Login(context.Background(), "not-an-email", "password123")

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "email", valErr.Field)
	assert.Equal(t, int32(0), env.calls.Load())
	assert.Equal(t, StatusUnauthenticated, env.store.Status())
}

func TestStore_Login_NetworkError(t *testing.T) {
	env := newTestEnv(t)
	env.server.Close()

	_, err := env.store.Login(context.Background(), "a@b.com", "password123")

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "login", netErr.Op)
	assert.Contains(t, env.store.Session().Error, "network error")
	assert.Equal(t, StatusUnauthenticated, env.store.Status())
}

func TestStore_LoginReloadRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	access := env.login(t)
	callsAfterLogin := env.calls.Load()

	// перезапуск клиента
	env.reload()
	require.Equal(t, StatusUnknown, env.store.Status())

	require.NoError(t, env.store.Restore(context.Background()))

	sess := env.store.Session()
	assert.Equal(t, StatusAuthenticated, sess.Status)
	assert.Equal(t, access, sess.AccessToken)
	assert.Equal(t, "refresh-token", sess.RefreshToken)
	require.NotNil(t, sess.User)
	assert.Equal(t, testUser, *sess.User)
	assert.Equal(t, access, env.client.AccessToken())

	// сеть не использовалась
	assert.Equal(t, callsAfterLogin, env.calls.Load())
}

func TestStore_Restore_NoToken(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.store.Restore(context.Background()))

	assert.Equal(t, StatusUnauthenticated, env.store.Status())
	assert.Empty(t, env.client.AccessToken())
	assert.Equal(t, int32(0), env.calls.Load())
}

func TestStore_Restore_ExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	env.data[storage.KeyAccessToken] = makeToken(t, "7", time.Now().Add(-time.Minute))
	env.data[storage.KeyRefreshToken] = "refresh-token"
	env.data[storage.KeyUser] = `{"id": 7, "email": "a@b.com", "role": "normal"}`

	require.NoError(t, env.store.Restore(context.Background()))

	assert.Equal(t, StatusUnauthenticated, env.store.Status())
	assert.Empty(t, env.client.AccessToken())
	assert.NotContains(t, env.data, storage.KeyAccessToken)
	assert.NotContains(t, env.data, storage.KeyRefreshToken)
	assert.NotContains(t, env.data, storage.KeyUser)
	assert.Equal(t, int32(0), env.calls.Load())
}

func TestStore_Restore_FetchesUser(t *testing.T) {
	env := newTestEnv(t)
	access := makeToken(t, "7", time.Now().Add(time.Hour))
	env.data[storage.KeyAccessToken] = access

	env.mux.HandleFunc("GET /me/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+access, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, pkgapi.MeResponse{User: testUser})
	})

	require.NoError(t, env.store.Restore(context.Background()))

	assert.Equal(t, StatusAuthenticated, env.store.Status())
	assert.Equal(t, "a@b.com", env.store.User().Email)
	assert.Contains(t, env.data, storage.KeyUser)
	assert.Equal(t, int32(1), env.calls.Load())
}

func TestStore_Restore_FetchedUserProfile(t *testing.T) {
	env := newTestEnv(t)
	env.data[storage.KeyAccessToken] = makeToken(t, "7", time.Now().Add(time.Hour))

	env.mux.HandleFunc("GET /me/", func(w http.ResponseWriter, r *http.Request) {
		u := testUser
		u.Profile = &pkgapi.Profile{FirstName: "Ada", DarkMode: true}
		writeJSON(w, http.StatusOK, pkgapi.MeResponse{User: u})
	})

	require.NoError(t, env.store.Restore(context.Background()))

	profile := env.store.Session().Profile
	require.NotNil(t, profile)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.JSONEq(t, `{"first_name":"Ada","last_name":"","phone_number":"","location":"","bio":"","dark_mode":true}`,
		env.data[storage.KeyProfile])
}

func TestStore_Restore_OpaqueToken(t *testing.T) {
	env := newTestEnv(t)
	env.data[storage.KeyAccessToken] = "opaque-token"
	env.data[storage.KeyUser] = `{"id": "7", "email": "a@b.com", "role": "chef"}`
	env.data[storage.KeyProfile] = `{"first_name": "Ada", "dark_mode": true}`

	require.NoError(t, env.store.Restore(context.Background()))

	sess := env.store.Session()
	assert.Equal(t, StatusAuthenticated, sess.Status)
	assert.Equal(t, pkgapi.RoleChef, sess.User.Role)
	require.NotNil(t, sess.Profile)
	assert.Equal(t, "Ada", sess.Profile.FirstName)
}

func TestStore_Restore_Unauthorized(t *testing.T) {
	env := newTestEnv(t)
	env.data[storage.KeyAccessToken] = makeToken(t, "7", time.Now().Add(time.Hour))
	env.data[storage.KeyRefreshToken] = "refresh-token"

	env.mux.HandleFunc("GET /me/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
	})

	require.NoError(t, env.store.Restore(context.Background()))

	assert.Equal(t, StatusUnauthenticated, env.store.Status())
	assert.Empty(t, env.client.AccessToken())
	assert.NotContains(t, env.data, storage.KeyAccessToken)
	assert.NotContains(t, env.data, storage.KeyRefreshToken)
}

func TestStore_Restore_ServerUnavailable(t *testing.T) {
	env := newTestEnv(t)
	access := makeToken(t, "7", time.Now().Add(time.Hour))
	env.data[storage.KeyAccessToken] = access
	env.server.Close()

	err := env.store.Restore(context.Background())

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, StatusUnauthenticated, env.store.Status())
	assert.Empty(t, env.client.AccessToken())
	// токен сохраняется до следующей попытки
	assert.Equal(t, access, env.data[storage.KeyAccessToken])
}

func TestStore_Restore_StorageError(t *testing.T) {
	env := newTestEnv(t)
	env.local.GetFunc = func(ctx context.Context, key string) (string, error) {
		return "", errors.New("disk failure")
	}

	err := env.store.Restore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read access token")
	assert.Equal(t, StatusUnauthenticated, env.store.Status())
}

func TestStore_Logout(t *testing.T) {
	env := newTestEnv(t)
	env.mux.HandleFunc("POST /logout/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
	})
	env.login(t)
	env.data[storage.KeyProfile] = `{"first_name": "Ada"}`
	env.data[storage.KeyFavoriteRecipes] = `[]`

	env.store.Logout(context.Background())

	sess := env.store.Session()
	assert.Equal(t, StatusUnauthenticated, sess.Status)
	assert.Nil(t, sess.User)
	assert.Nil(t, sess.Profile)
	assert.Empty(t, sess.AccessToken)
	assert.Empty(t, sess.RefreshToken)
	assert.Empty(t, sess.Error)
	assert.Empty(t, env.client.AccessToken())

	for _, key := range sessionKeys {
		assert.NotContains(t, env.data, key)
	}
	// персональные данные не относятся к сессии
	assert.Contains(t, env.data, storage.KeyFavoriteRecipes)
}

func TestStore_Logout_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mux.HandleFunc("POST /logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	env.login(t)
	env.local.RemoveFunc = func(ctx context.Context, key string) error {
		return errors.New("read-only")
	}

	env.store.Logout(context.Background())

	assert.Equal(t, StatusUnauthenticated, env.store.Status())
	assert.Empty(t, env.client.AccessToken())
}

func TestStore_Logout_WithoutSession(t *testing.T) {
	env := newTestEnv(t)

	env.store.Logout(context.Background())

	assert.Equal(t, StatusUnauthenticated, env.store.Status())
	assert.Equal(t, int32(0), env.calls.Load())
}

func TestStore_Register(t *testing.T) {
	env := newTestEnv(t)
	env.mux.HandleFunc("POST /register/", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email == "taken@b.com" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"email": []string{"This email is already registered."}})
			return
		}
		writeJSON(w, http.StatusCreated, pkgapi.RegisterResponse{
			Message: "Registration successful. Check your email for the verification code.",
			User:    &pkgapi.User{ID: "9", Email: req.Email, Role: req.Role},
		})
	})

	ctx := context.Background()

	t.Run("success does not authenticate", func(t *testing.T) {
		result, err := env.store.Register(ctx, "new@b.com", "password123", "password123", pkgapi.RoleStore)
		require.NoError(t, err)
		assert.Contains(t, result.Message, "verification code")
		assert.Equal(t, pkgapi.RoleStore, result.User.Role)
		assert.False(t, env.store.IsAuthenticated())
		assert.Empty(t, env.client.AccessToken())
	})

	t.Run("backend field error", func(t *testing.T) {
		_, err := env.store.Register(ctx, "taken@b.com", "password123", "password123", pkgapi.RoleNormal)

		var valErr *ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, "email", valErr.Field)
		assert.Equal(t, "This email is already registered.", valErr.Message)
		assert.Equal(t, "This email is already registered.", env.store.Session().Error)
	})

	t.Run("client side checks", func(t *testing.T) {
		before := env.calls.Load()

		_, err := env.store.Register(ctx, "new@b.com", "password123", "password124", pkgapi.RoleNormal)
		var valErr *ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, "passwords do not match", valErr.Message)

		_, err = env.store.Register(ctx, "new@b.com", "password123", "password123", pkgapi.Role("superuser"))
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, "role", valErr.Field)

		assert.Equal(t, before, env.calls.Load())
	})
}

func TestStore_RefreshUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.store.RefreshUser(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	env.mux.HandleFunc("GET /me/", func(w http.ResponseWriter, r *http.Request) {
		u := testUser
		u.Role = pkgapi.RoleRestaurant
		u.Profile = &pkgapi.Profile{Location: "Tbilisi"}
		writeJSON(w, http.StatusOK, pkgapi.MeResponse{User: u})
	})
	env.login(t)

	user, err := env.store.RefreshUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pkgapi.RoleRestaurant, user.Role)
	assert.Equal(t, "Tbilisi", env.store.Session().Profile.Location)

	var saved pkgapi.User
	require.NoError(t, storage.GetJSON(context.Background(), env.local, storage.KeyUser, &saved))
	assert.Equal(t, pkgapi.RoleRestaurant, saved.Role)
}

func TestStore_SessionIsCopy(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	sess := env.store.Session()
	sess.User.Email = "changed@b.com"

	assert.Equal(t, "a@b.com", env.store.User().Email)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "unknown", StatusUnknown.String())
	assert.Equal(t, "authenticated", StatusAuthenticated.String())
	assert.Equal(t, "unauthenticated", StatusUnauthenticated.String())
}
