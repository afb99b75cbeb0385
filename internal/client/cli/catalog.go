package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/iudanet/geotaste/internal/client/personal"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

func parseKind(args []string, usage string) (personal.Kind, error) {
	if len(args) == 0 {
		return "", usageError("%s", usage)
	}
	kind, err := personal.ParseKind(args[0])
	if err != nil {
		return "", usageError("%v", err)
	}
	return kind, nil
}

// search возвращает найденные элементы в виде элементов избранного
func (c *Cli) search(ctx context.Context, kind personal.Kind, term string) ([]personal.Item, error) {
	var items []personal.Item
	switch kind {
	case personal.KindRecipes:
		recipes, err := c.catalog.SearchRecipes(ctx, term)
		if err != nil {
			return nil, err
		}
		for _, r := range recipes {
			items = append(items, personal.RecipeItem(r))
		}
	case personal.KindRestaurants:
		restaurants, err := c.catalog.SearchRestaurants(ctx, term)
		if err != nil {
			return nil, err
		}
		for _, r := range restaurants {
			items = append(items, personal.RestaurantItem(r))
		}
	default:
		return nil, fmt.Errorf("%w: %q", personal.ErrUnknownKind, kind)
	}
	return items, nil
}

func (c *Cli) runSearch(ctx context.Context, args []string) error {
	kind, err := parseKind(args, "search KIND [TERM...]")
	if err != nil {
		return err
	}
	term := strings.Join(args[1:], " ")

	items, err := c.search(ctx, kind, term)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		c.io.Printf("No %s found.\n", kind)
		return nil
	}
	c.io.Printf("Found %d %s:\n", len(items), kind)
	for _, it := range items {
		mark := " "
		if c.cache.IsFavorite(kind, it.ID) {
			mark = "★"
		}
		printItem(c, mark, it)
	}
	return nil
}

func printItem(c *Cli, mark string, it personal.Item) {
	c.io.Printf("%s [%s] %s", mark, it.ID, it.Name)
	if it.CuisineType != "" {
		c.io.Printf(" (%s)", it.CuisineType)
	}
	if it.Rating > 0 {
		c.io.Printf(" %.1f", it.Rating)
	}
	c.io.Println()
}

func (c *Cli) runFavorite(ctx context.Context, args []string) error {
	const usage = "favorite add|remove KIND ID | favorite list [KIND]"
	if len(args) > 0 && args[0] == "list" {
		return c.runFavorites(ctx, args[1:])
	}
	if len(args) != 3 {
		return usageError(usage)
	}
	kind, err := parseKind(args[1:], usage)
	if err != nil {
		return err
	}
	id := pkgapi.ID(args[2])

	switch args[0] {
	case "add":
		// Название и кухня берутся из каталога
		items, err := c.search(ctx, kind, "")
		if err != nil {
			return err
		}
		var found *personal.Item
		for i := range items {
			if items[i].ID == id {
				found = &items[i]
				break
			}
		}
		if found == nil {
			return fmt.Errorf("%s %s not found", kind, id)
		}

		added, err := c.cache.AddFavorite(ctx, kind, *found)
		if err != nil {
			return err
		}
		if added {
			c.io.Printf("★ Added %q to favorite %s\n", found.Name, kind)
		} else {
			c.io.Printf("%q is already in favorite %s\n", found.Name, kind)
		}
	case "remove":
		removed, err := c.cache.RemoveFavorite(ctx, kind, id)
		if err != nil {
			return err
		}
		if removed {
			c.io.Printf("Removed %s from favorite %s\n", id, kind)
		} else {
			c.io.Printf("%s is not in favorite %s\n", id, kind)
		}
	default:
		return usageError(usage)
	}
	return nil
}

func (c *Cli) runFavorites(_ context.Context, args []string) error {
	kinds := personal.Kinds
	if len(args) > 0 {
		kind, err := parseKind(args, "favorites [KIND]")
		if err != nil {
			return err
		}
		kinds = []personal.Kind{kind}
	}

	for _, kind := range kinds {
		items := c.cache.Favorites(kind)
		c.io.Printf("Favorite %s (%d):\n", kind, len(items))
		for _, it := range items {
			printItem(c, "★", it)
		}
	}
	return nil
}

func (c *Cli) runHistory(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "clear" {
		if err := c.cache.ClearSearchHistory(ctx); err != nil {
			return err
		}
		c.io.Println("✓ Search history cleared")
		return nil
	}
	if len(args) > 0 && args[0] == "list" {
		args = args[1:]
	}

	kinds := personal.Kinds
	if len(args) > 0 {
		kind, err := parseKind(args, "history [list] [KIND] | history clear")
		if err != nil {
			return err
		}
		kinds = []personal.Kind{kind}
	}

	for _, kind := range kinds {
		terms := c.cache.SearchHistory(kind)
		c.io.Printf("Recent %s searches:\n", kind)
		for i, term := range terms {
			c.io.Printf("  %d. %s\n", i+1, term)
		}
	}
	return nil
}

func (c *Cli) runRate(ctx context.Context, args []string) error {
	const usage = "rate KIND ID RATING [COMMENT...]"
	if len(args) < 3 {
		return usageError(usage)
	}
	kind, err := parseKind(args, usage)
	if err != nil {
		return err
	}
	rating, err := strconv.Atoi(args[2])
	if err != nil {
		return usageError("rating must be a number from 1 to 5, got %q", args[2])
	}
	id := pkgapi.ID(args[1])
	comment := strings.Join(args[3:], " ")

	var msg string
	switch kind {
	case personal.KindRecipes:
		msg, err = c.store.SubmitRecipeRating(ctx, id, rating, comment)
	case personal.KindRestaurants:
		msg, err = c.store.SubmitRestaurantRating(ctx, id, rating, comment)
	}
	if err != nil {
		return err
	}
	c.io.Printf("✓ %s\n", orDefault(msg, "Rating submitted"))
	return nil
}
