package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/geotaste/pkg/api"
)

// HeaderRequestID - заголовок с идентификатором запроса для корреляции с логами сервера
const HeaderRequestID = "X-Request-ID"

// ClientAPI describes the GeoTaste REST endpoints used by the client.
type ClientAPI interface {
	// SetAccessToken installs the bearer credential for authenticated requests
	SetAccessToken(token string)
	// ClearAccessToken removes the bearer credential
	ClearAccessToken()
	// AccessToken returns the installed bearer credential ("" if none)
	AccessToken() string

	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*api.MeResponse, error)

	VerifyEmail(ctx context.Context, req api.OTPRequest) (*api.MessageResponse, error)
	ResendVerificationOTP(ctx context.Context, req api.EmailRequest) (*api.MessageResponse, error)
	ForgotPassword(ctx context.Context, req api.EmailRequest) (*api.MessageResponse, error)
	VerifyPasswordResetOTP(ctx context.Context, req api.OTPRequest) (*api.MessageResponse, error)
	ResetPassword(ctx context.Context, req api.ResetPasswordRequest) (*api.MessageResponse, error)

	GetProfile(ctx context.Context) (*api.Profile, error)
	UpdateProfile(ctx context.Context, req api.ProfileUpdate) (*api.ProfileUpdateResponse, error)
	ChangePassword(ctx context.Context, req api.ChangePasswordRequest) (*api.MessageResponse, error)

	ListRecipes(ctx context.Context) ([]api.Recipe, error)
	ListRestaurants(ctx context.Context) ([]api.Restaurant, error)
	RateRecipe(ctx context.Context, id api.ID, req api.RatingRequest) (*api.MessageResponse, error)
	RateRestaurant(ctx context.Context, id api.ID, req api.RatingRequest) (*api.MessageResponse, error)
	GetRecipe(ctx context.Context, id api.ID) (*api.RecipeDetail, error)
	LikeRecipe(ctx context.Context, id api.ID) (*api.LikeResponse, error)
	GetRestaurant(ctx context.Context, id api.ID) (*api.RestaurantDetail, error)
	GetRestaurantMenu(ctx context.Context, id api.ID) ([]api.MenuItem, error)
	ListStores(ctx context.Context) ([]api.Store, error)
	ListOrders(ctx context.Context) ([]api.Order, error)
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu          sync.RWMutex
	accessToken string
}

// Compile-time check that Client implements ClientAPI
var _ ClientAPI = (*Client)(nil)

// NewClient создает новый API клиент.
// baseURL включает префикс API, например http://localhost:8000/api
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetAccessToken устанавливает токен для последующих запросов
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// ClearAccessToken удаляет токен
func (c *Client) ClearAccessToken() {
	c.SetAccessToken("")
}

// AccessToken возвращает текущий токен
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// doRequest выполняет HTTP запрос.
// Для ответов вне 2xx возвращает *ResponseError.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newResponseError(resp.StatusCode, requestID, respBody)
	}

	// Декодируем успешный ответ
	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
