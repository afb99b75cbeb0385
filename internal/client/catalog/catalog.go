// Package catalog ищет рецепты и рестораны, загружает карточки рецептов,
// ресторанов с меню, магазины и заказы. Поисковые запросы попадают в историю.
package catalog

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/geotaste/internal/client/api"
	"github.com/iudanet/geotaste/internal/client/auth"
	"github.com/iudanet/geotaste/internal/client/personal"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

// Lister - часть API клиента, нужная для поиска
type Lister interface {
	ListRecipes(ctx context.Context) ([]pkgapi.Recipe, error)
	ListRestaurants(ctx context.Context) ([]pkgapi.Restaurant, error)
}

// Backend - часть API клиента, нужная каталогу
type Backend interface {
	Lister
	GetRecipe(ctx context.Context, id pkgapi.ID) (*pkgapi.RecipeDetail, error)
	LikeRecipe(ctx context.Context, id pkgapi.ID) (*pkgapi.LikeResponse, error)
	GetRestaurant(ctx context.Context, id pkgapi.ID) (*pkgapi.RestaurantDetail, error)
	GetRestaurantMenu(ctx context.Context, id pkgapi.ID) ([]pkgapi.MenuItem, error)
	ListStores(ctx context.Context) ([]pkgapi.Store, error)
	ListOrders(ctx context.Context) ([]pkgapi.Order, error)
}

// Compile-time check that the API client can serve the catalog
var _ Backend = (api.ClientAPI)(nil)

// RestaurantProfile - ресторан вместе с меню
type RestaurantProfile struct {
	Restaurant *pkgapi.RestaurantDetail
	Menu       []pkgapi.MenuItem
}

// Service выполняет поиск по каталогу
type Service struct {
	backend Backend
	cache   *personal.Cache
	logger  *slog.Logger
}

// NewService создает сервис каталога
func NewService(backend Backend, cache *personal.Cache, logger *slog.Logger) *Service {
	return &Service{
		backend: backend,
		cache:   cache,
		logger:  logger,
	}
}

// SearchRecipes возвращает рецепты, у которых название или кухня содержат term
// (без учета регистра). Пустой term возвращает весь список.
func (s *Service) SearchRecipes(ctx context.Context, term string) ([]pkgapi.Recipe, error) {
	s.remember(ctx, personal.KindRecipes, term)

	recipes, err := s.backend.ListRecipes(ctx)
	if err != nil {
		return nil, auth.Normalize("list recipes", "Failed to load recipes", err)
	}

	return filter(recipes, term, func(r pkgapi.Recipe) []string {
		return []string{r.Title, r.CuisineType}
	}), nil
}

// SearchRestaurants возвращает рестораны, у которых название или кухня содержат term
func (s *Service) SearchRestaurants(ctx context.Context, term string) ([]pkgapi.Restaurant, error) {
	s.remember(ctx, personal.KindRestaurants, term)

	restaurants, err := s.backend.ListRestaurants(ctx)
	if err != nil {
		return nil, auth.Normalize("list restaurants", "Failed to load restaurants", err)
	}

	return filter(restaurants, term, func(r pkgapi.Restaurant) []string {
		return []string{r.Name, r.CuisineType}
	}), nil
}

// Recipe загружает карточку рецепта
func (s *Service) Recipe(ctx context.Context, id pkgapi.ID) (*pkgapi.RecipeDetail, error) {
	recipe, err := s.backend.GetRecipe(ctx, id)
	if err != nil {
		return nil, auth.Normalize("get recipe", "Failed to load recipe details", err)
	}
	return recipe, nil
}

// LikeRecipe переключает отметку "нравится" у рецепта
func (s *Service) LikeRecipe(ctx context.Context, id pkgapi.ID) (*pkgapi.LikeResponse, error) {
	resp, err := s.backend.LikeRecipe(ctx, id)
	if err != nil {
		return nil, auth.Normalize("like recipe", "Failed to like recipe", err)
	}
	return resp, nil
}

// Restaurant загружает профиль ресторана и его меню параллельно.
// Ошибка любого из запросов отменяет второй.
func (s *Service) Restaurant(ctx context.Context, id pkgapi.ID) (*RestaurantProfile, error) {
	var profile RestaurantProfile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.backend.GetRestaurant(gctx, id)
		profile.Restaurant = r
		return err
	})
	g.Go(func() error {
		menu, err := s.backend.GetRestaurantMenu(gctx, id)
		profile.Menu = menu
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, auth.Normalize("get restaurant", "Failed to load restaurant details", err)
	}
	return &profile, nil
}

// Stores возвращает магазины, у которых название или тип содержат term
func (s *Service) Stores(ctx context.Context, term string) ([]pkgapi.Store, error) {
	stores, err := s.backend.ListStores(ctx)
	if err != nil {
		return nil, auth.Normalize("list stores", "Failed to load stores", err)
	}
	return filter(stores, term, func(st pkgapi.Store) []string {
		return []string{st.Name, st.StoreType}
	}), nil
}

// Orders возвращает заказы текущего пользователя
func (s *Service) Orders(ctx context.Context) ([]pkgapi.Order, error) {
	orders, err := s.backend.ListOrders(ctx)
	if err != nil {
		return nil, auth.Normalize("list orders", "Failed to load orders", err)
	}
	return orders, nil
}

// remember записывает запрос в историю; ошибка записи не мешает поиску
func (s *Service) remember(ctx context.Context, kind personal.Kind, term string) {
	if err := s.cache.AddSearchTerm(ctx, kind, term); err != nil {
		s.logger.Warn("failed to save search term", "kind", kind, "error", err)
	}
}

func filter[T any](items []T, term string, fields func(T) []string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}

	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields(it) {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
