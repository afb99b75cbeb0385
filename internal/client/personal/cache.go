// Package personal хранит избранное и историю поиска пользователя.
// Данные живут только на клиенте и переживают перезапуск через LocalStorage.
package personal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/iudanet/geotaste/internal/client/storage"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

// MaxHistory - сколько последних поисковых запросов хранится для каждого вида
const MaxHistory = 10

// Kind - вид сущности: рецепты или рестораны
type Kind string

const (
	KindRecipes     Kind = "recipes"
	KindRestaurants Kind = "restaurants"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindRecipes, KindRestaurants}

// ErrUnknownKind возвращается для вида, отличного от recipes/restaurants
var ErrUnknownKind = errors.New("unknown kind")

// ParseKind принимает единственное и множественное число: recipe, recipes, restaurant, restaurants
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "recipe", "recipes":
		return KindRecipes, nil
	case "restaurant", "restaurants":
		return KindRestaurants, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

func (k Kind) favoritesKey() (string, error) {
	switch k {
	case KindRecipes:
		return storage.KeyFavoriteRecipes, nil
	case KindRestaurants:
		return storage.KeyFavoriteRestaurants, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
}

func (k Kind) historyKey() (string, error) {
	switch k {
	case KindRecipes:
		return storage.KeyRecipeSearchHistory, nil
	case KindRestaurants:
		return storage.KeyRestaurantSearchHistory, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
}

// Item - избранный рецепт или ресторан
type Item struct {
	ID          pkgapi.ID `json:"id"`
	Name        string    `json:"name"`
	CuisineType string    `json:"cuisine_type,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
}

// RecipeItem строит элемент избранного из рецепта
func RecipeItem(r pkgapi.Recipe) Item {
	return Item{ID: r.ID, Name: r.Title, CuisineType: r.CuisineType, Rating: r.AvgRating}
}

// RestaurantItem строит элемент избранного из ресторана
func RestaurantItem(r pkgapi.Restaurant) Item {
	return Item{ID: r.ID, Name: r.Name, CuisineType: r.CuisineType, Rating: r.RatingAvg}
}

// Cache - избранное и история поиска в памяти с сохранением в LocalStorage.
// Изменение сначала сохраняется, и только потом применяется в памяти:
// при ошибке записи состояние не меняется.
type Cache struct {
	local  storage.LocalStorage
	logger *slog.Logger

	mu        sync.RWMutex
	favorites map[Kind][]Item
	history   map[Kind][]string
}

// New загружает сохраненные данные. Поврежденные записи пропускаются с
// предупреждением, ошибки чтения хранилища возвращаются.
func New(ctx context.Context, local storage.LocalStorage, logger *slog.Logger) (*Cache, error) {
	c := &Cache{
		local:     local,
		logger:    logger,
		favorites: make(map[Kind][]Item, len(Kinds)),
		history:   make(map[Kind][]string, len(Kinds)),
	}

	for _, kind := range Kinds {
		favKey, _ := kind.favoritesKey()
		items, err := loadList[Item](ctx, c, favKey)
		if err != nil {
			return nil, err
		}
		c.favorites[kind] = dedupeItems(items)

		histKey, _ := kind.historyKey()
		terms, err := loadList[string](ctx, c, histKey)
		if err != nil {
			return nil, err
		}
		if len(terms) > MaxHistory {
			terms = terms[:MaxHistory]
		}
		c.history[kind] = terms
	}

	return c, nil
}

// loadList читает JSON список по ключу. Отсутствующий или поврежденный
// список дает пустой результат.
func loadList[T any](ctx context.Context, c *Cache, key string) ([]T, error) {
	raw, err := c.local.Get(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		c.logger.Warn("ignoring corrupted personal data", "key", key, "error", err)
		return nil, nil
	}
	return list, nil
}

// AddFavorite добавляет элемент в конец избранного. Повторное добавление того же id
// ничего не меняет. Возвращает true, если элемент был добавлен.
func (c *Cache) AddFavorite(ctx context.Context, kind Kind, item Item) (bool, error) {
	key, err := kind.favoritesKey()
	if err != nil {
		return false, err
	}
	if item.ID == "" {
		return false, errors.New("favorite id is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.favorites[kind]
	if containsID(current, item.ID) {
		return false, nil
	}

	updated := append(slices.Clip(current), item)
	if err := storage.SetJSON(ctx, c.local, key, updated); err != nil {
		return false, fmt.Errorf("failed to save favorites: %w", err)
	}
	c.favorites[kind] = updated
	return true, nil
}

// RemoveFavorite удаляет элемент по id. Отсутствующий id - не ошибка.
// Возвращает true, если элемент был удален.
func (c *Cache) RemoveFavorite(ctx context.Context, kind Kind, id pkgapi.ID) (bool, error) {
	key, err := kind.favoritesKey()
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.favorites[kind]
	idx := slices.IndexFunc(current, func(it Item) bool { return it.ID == id })
	if idx < 0 {
		return false, nil
	}

	updated := slices.Delete(slices.Clone(current), idx, idx+1)
	if err := storage.SetJSON(ctx, c.local, key, updated); err != nil {
		return false, fmt.Errorf("failed to save favorites: %w", err)
	}
	c.favorites[kind] = updated
	return true, nil
}

// IsFavorite сообщает, есть ли id в избранном
func (c *Cache) IsFavorite(kind Kind, id pkgapi.ID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return containsID(c.favorites[kind], id)
}

// Favorites возвращает копию избранного в порядке добавления
func (c *Cache) Favorites(kind Kind) []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.favorites[kind])
}

// AddSearchTerm помещает запрос в начало истории. Пустой запрос игнорируется,
// повторный переносится в начало, история обрезается до MaxHistory.
func (c *Cache) AddSearchTerm(ctx context.Context, kind Kind, term string) error {
	key, err := kind.historyKey()
	if err != nil {
		return err
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.history[kind]
	updated := make([]string, 0, min(len(current)+1, MaxHistory))
	updated = append(updated, term)
	for _, t := range current {
		if len(updated) == MaxHistory {
			break
		}
		if t != term {
			updated = append(updated, t)
		}
	}

	if slices.Equal(updated, current) {
		return nil
	}
	if err := storage.SetJSON(ctx, c.local, key, updated); err != nil {
		return fmt.Errorf("failed to save search history: %w", err)
	}
	c.history[kind] = updated
	return nil
}

// SearchHistory возвращает историю поиска, последние запросы первыми
func (c *Cache) SearchHistory(kind Kind) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.history[kind])
}

// ClearSearchHistory очищает историю обоих видов и удаляет ее из хранилища
func (c *Cache) ClearSearchHistory(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, kind := range Kinds {
		c.history[kind] = nil
		key, _ := kind.historyKey()
		if err := c.local.Remove(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func containsID(items []Item, id pkgapi.ID) bool {
	return slices.ContainsFunc(items, func(it Item) bool { return it.ID == id })
}

// dedupeItems убирает повторы id, сохраняя первое вхождение
func dedupeItems(items []Item) []Item {
	out := items[:0:0]
	for _, it := range items {
		if it.ID != "" && !containsID(out, it.ID) {
			out = append(out, it)
		}
	}
	return out
}
