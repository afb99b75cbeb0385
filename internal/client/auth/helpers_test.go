package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/geotaste/internal/client/api"
	"github.com/iudanet/geotaste/internal/client/storage"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

// testEnv - сервер, API клиент, хранилище и store для одного теста
type testEnv struct {
	server *httptest.Server
	mux    *http.ServeMux
	client *api.Client
	local  *storage.LocalStorageMock
	data   map[string]string
	store  *Store
	calls  *atomic.Int32
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		mux:   http.NewServeMux(),
		calls: &atomic.Int32{},
	}
	env.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.calls.Add(1)
		env.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(env.server.Close)

	env.local, env.data = newMemStorage()
	env.reload()
	return env
}

// reload имитирует перезапуск клиента: новый API клиент и store поверх того же хранилища
func (e *testEnv) reload() {
	e.client = api.NewClient(e.server.URL)
	e.store = NewStore(e.client, e.local, testLogger())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMemStorage() (*storage.LocalStorageMock, map[string]string) {
	data := make(map[string]string)
	return &storage.LocalStorageMock{
		GetFunc: func(ctx context.Context, key string) (string, error) {
			v, ok := data[key]
			if !ok {
				return "", storage.ErrKeyNotFound
			}
			return v, nil
		},
		SetFunc: func(ctx context.Context, key, value string) error {
			data[key] = value
			return nil
		},
		RemoveFunc: func(ctx context.Context, key string) error {
			delete(data, key)
			return nil
		},
	}, data
}

// makeToken выпускает подписанный тестовым ключом access токен
func makeToken(t *testing.T, userID string, expiresAt time.Time) string {
	t.Helper()

	claims := AccessClaims{
		UserID:    pkgapi.ID(userID),
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var testUser = pkgapi.User{
	ID:            "7",
	Email:         "a@b.com",
	Role:          pkgapi.RoleNormal,
	EmailVerified: true,
}

// handleLogin регистрирует успешный POST /login/ для testUser
func (e *testEnv) handleLogin(t *testing.T, access string) {
	t.Helper()
	e.mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pkgapi.LoginResponse{
			Tokens: pkgapi.Tokens{Access: access, Refresh: "refresh-token"},
			User:   testUser,
		})
	})
}

// login выполняет успешный вход testUser
func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	access := makeToken(t, "7", time.Now().Add(time.Hour))
	e.handleLogin(t, access)

	_, err := e.store.Login(context.Background(), "a@b.com", "password123")
	require.NoError(t, err)
	return access
}
