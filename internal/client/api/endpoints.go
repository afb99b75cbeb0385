package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iudanet/geotaste/pkg/api"
)

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.doRequest(ctx, http.MethodPost, "/register/", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/login/", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Logout уведомляет сервер о выходе
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/logout/", nil, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// Me возвращает текущего пользователя по установленному токену
func (c *Client) Me(ctx context.Context) (*api.MeResponse, error) {
	var resp api.MeResponse
	if err := c.doRequest(ctx, http.MethodGet, "/me/", nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp, nil
}

// VerifyEmail подтверждает email одноразовым кодом
func (c *Client) VerifyEmail(ctx context.Context, req api.OTPRequest) (*api.MessageResponse, error) {
	return c.postMessage(ctx, "/verify-email/", req, "verify email")
}

// ResendVerificationOTP запрашивает новый код подтверждения
func (c *Client) ResendVerificationOTP(ctx context.Context, req api.EmailRequest) (*api.MessageResponse, error) {
	return c.postMessage(ctx, "/resend-verification-otp/", req, "resend verification otp")
}

// ForgotPassword запрашивает код сброса пароля
func (c *Client) ForgotPassword(ctx context.Context, req api.EmailRequest) (*api.MessageResponse, error) {
	return c.postMessage(ctx, "/forgot-password/", req, "forgot password")
}

// VerifyPasswordResetOTP проверяет код сброса пароля
func (c *Client) VerifyPasswordResetOTP(ctx context.Context, req api.OTPRequest) (*api.MessageResponse, error) {
	return c.postMessage(ctx, "/verify-password-reset-otp/", req, "verify password reset otp")
}

// ResetPassword устанавливает новый пароль
func (c *Client) ResetPassword(ctx context.Context, req api.ResetPasswordRequest) (*api.MessageResponse, error) {
	return c.postMessage(ctx, "/reset-password/", req, "reset password")
}

// GetProfile возвращает профиль текущего пользователя
func (c *Client) GetProfile(ctx context.Context) (*api.Profile, error) {
	var resp api.Profile
	if err := c.doRequest(ctx, http.MethodGet, "/profile/", nil, &resp); err != nil {
		return nil, fmt.Errorf("get profile request failed: %w", err)
	}
	return &resp, nil
}

// UpdateProfile частично обновляет профиль
func (c *Client) UpdateProfile(ctx context.Context, req api.ProfileUpdate) (*api.ProfileUpdateResponse, error) {
	var resp api.ProfileUpdateResponse
	if err := c.doRequest(ctx, http.MethodPut, "/profile/", req, &resp); err != nil {
		return nil, fmt.Errorf("update profile request failed: %w", err)
	}
	return &resp, nil
}

// ChangePassword меняет пароль текущего пользователя
func (c *Client) ChangePassword(ctx context.Context, req api.ChangePasswordRequest) (*api.MessageResponse, error) {
	return c.postMessage(ctx, "/change-password/", req, "change password")
}

// ListRecipes возвращает каталог рецептов
func (c *Client) ListRecipes(ctx context.Context) ([]api.Recipe, error) {
	var resp api.RecipesResponse
	if err := c.doRequest(ctx, http.MethodGet, "/recipes/", nil, &resp); err != nil {
		return nil, fmt.Errorf("list recipes request failed: %w", err)
	}
	return resp.Recipes, nil
}

// ListRestaurants возвращает каталог ресторанов
func (c *Client) ListRestaurants(ctx context.Context) ([]api.Restaurant, error) {
	var resp api.RestaurantsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/restaurants/", nil, &resp); err != nil {
		return nil, fmt.Errorf("list restaurants request failed: %w", err)
	}
	return resp.Restaurants, nil
}

// RateRecipe отправляет оценку рецепта
func (c *Client) RateRecipe(ctx context.Context, id api.ID, req api.RatingRequest) (*api.MessageResponse, error) {
	path := fmt.Sprintf("/recipes/%s/rating/", url.PathEscape(id.String()))
	return c.postMessage(ctx, path, req, "rate recipe")
}

// RateRestaurant отправляет оценку ресторана
func (c *Client) RateRestaurant(ctx context.Context, id api.ID, req api.RatingRequest) (*api.MessageResponse, error) {
	path := fmt.Sprintf("/restaurants/%s/rating/", url.PathEscape(id.String()))
	return c.postMessage(ctx, path, req, "rate restaurant")
}

// GetRecipe возвращает рецепт с ингредиентами и отзывами
func (c *Client) GetRecipe(ctx context.Context, id api.ID) (*api.RecipeDetail, error) {
	var resp api.RecipeDetail
	path := fmt.Sprintf("/recipes/%s/", url.PathEscape(id.String()))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get recipe request failed: %w", err)
	}
	return &resp, nil
}

// LikeRecipe переключает отметку "нравится" у рецепта
func (c *Client) LikeRecipe(ctx context.Context, id api.ID) (*api.LikeResponse, error) {
	var resp api.LikeResponse
	path := fmt.Sprintf("/recipes/%s/like/", url.PathEscape(id.String()))
	if err := c.doRequest(ctx, http.MethodPost, path, struct{}{}, &resp); err != nil {
		return nil, fmt.Errorf("like recipe request failed: %w", err)
	}
	return &resp, nil
}

// GetRestaurant возвращает профиль ресторана
func (c *Client) GetRestaurant(ctx context.Context, id api.ID) (*api.RestaurantDetail, error) {
	var resp api.RestaurantDetail
	path := fmt.Sprintf("/restaurants/%s/", url.PathEscape(id.String()))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get restaurant request failed: %w", err)
	}
	return &resp, nil
}

// GetRestaurantMenu возвращает меню ресторана
func (c *Client) GetRestaurantMenu(ctx context.Context, id api.ID) ([]api.MenuItem, error) {
	var resp api.MenuResponse
	path := fmt.Sprintf("/restaurants/%s/menu/", url.PathEscape(id.String()))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get menu request failed: %w", err)
	}
	return resp.Menu, nil
}

// ListStores возвращает список магазинов
func (c *Client) ListStores(ctx context.Context) ([]api.Store, error) {
	var resp api.StoresResponse
	if err := c.doRequest(ctx, http.MethodGet, "/stores/", nil, &resp); err != nil {
		return nil, fmt.Errorf("list stores request failed: %w", err)
	}
	return resp.Stores, nil
}

// ListOrders возвращает заказы текущего пользователя
func (c *Client) ListOrders(ctx context.Context) ([]api.Order, error) {
	var resp api.OrdersResponse
	if err := c.doRequest(ctx, http.MethodGet, "/orders/", nil, &resp); err != nil {
		return nil, fmt.Errorf("list orders request failed: %w", err)
	}
	return resp.Orders, nil
}

// postMessage выполняет POST, ответом которого является сообщение
func (c *Client) postMessage(ctx context.Context, path string, body any, op string) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	return &resp, nil
}
