package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/geotaste/internal/client/api"
	"github.com/iudanet/geotaste/internal/client/auth"
	"github.com/iudanet/geotaste/internal/client/catalog"
	"github.com/iudanet/geotaste/internal/client/iocli"
	"github.com/iudanet/geotaste/internal/client/personal"
	"github.com/iudanet/geotaste/internal/client/storage"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

// testEnv - фейковый сервер и собранный поверх него Cli
type testEnv struct {
	mux    *http.ServeMux
	server *httptest.Server
	local  *storage.LocalStorageMock
	data   map[string]string
	store  *auth.Store
	cache  *personal.Cache
	out    *bytes.Buffer
	inputs []string
	cli    *Cli
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		mux:  http.NewServeMux(),
		data: make(map[string]string),
		out:  &bytes.Buffer{},
	}
	env.server = httptest.NewServer(env.mux)
	t.Cleanup(env.server.Close)

	env.local = &storage.LocalStorageMock{
		GetFunc: func(ctx context.Context, key string) (string, error) {
			v, ok := env.data[key]
			if !ok {
				return "", storage.ErrKeyNotFound
			}
			return v, nil
		},
		SetFunc: func(ctx context.Context, key, value string) error {
			env.data[key] = value
			return nil
		},
		RemoveFunc: func(ctx context.Context, key string) error {
			delete(env.data, key)
			return nil
		},
	}

	env.mux.HandleFunc("GET /recipes/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pkgapi.RecipesResponse{Recipes: []pkgapi.Recipe{
			{ID: "1", Title: "Pasta Carbonara", CuisineType: "Italian", AvgRating: 4.5},
			{ID: "2", Title: "Ramen", CuisineType: "Japanese"},
		}})
	})
	env.mux.HandleFunc("GET /restaurants/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pkgapi.RestaurantsResponse{Restaurants: []pkgapi.Restaurant{
			{ID: "3", Name: "Trattoria", CuisineType: "Italian", RatingAvg: 4.2},
		}})
	})

	env.reload(t)
	return env
}

// reload собирает клиент заново поверх того же хранилища
func (e *testEnv) reload(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client := api.NewClient(e.server.URL)
	e.store = auth.NewStore(client, e.local, logger)
	require.NoError(t, e.store.Restore(ctx))

	cache, err := personal.New(ctx, e.local, logger)
	require.NoError(t, err)
	e.cache = cache

	e.cli = New(e.newIO(), e.store, cache, catalog.NewService(client, cache, logger))
}

// newIO возвращает IO, которое пишет в e.out и читает ответы из e.inputs
func (e *testEnv) newIO() *iocli.IOMock {
	next := func(prompt string) (string, error) {
		e.out.WriteString(prompt)
		if len(e.inputs) == 0 {
			return "", io.EOF
		}
		v := e.inputs[0]
		e.inputs = e.inputs[1:]
		return v, nil
	}
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			_, _ = fmt.Fprintln(e.out, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			_, _ = fmt.Fprintf(e.out, format, a...)
		},
		ReadInputFunc:    next,
		ReadPasswordFunc: next,
		WriteFunc:        e.out.Write,
	}
}

func (e *testEnv) run(t *testing.T, inputs []string, args ...string) (string, error) {
	t.Helper()
	e.out.Reset()
	e.inputs = inputs
	err := e.cli.Run(context.Background(), args)
	return e.out.String(), err
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

func (e *testEnv) handleLogin(user pkgapi.User) {
	e.mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pkgapi.LoginResponse{
			Tokens: pkgapi.Tokens{Access: "access-token", Refresh: "refresh-token"},
			User:   user,
		})
	})
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	e.handleLogin(testUser)
	_, err := e.run(t, []string{"password123"}, "login", "a@b.com")
	require.NoError(t, err)
}
