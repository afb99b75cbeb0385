package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/iudanet/geotaste/internal/client/auth"
	"github.com/iudanet/geotaste/internal/client/route"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

// role возвращает роль текущего пользователя ("" без входа)
func (c *Cli) role() pkgapi.Role {
	if user := c.store.User(); user != nil {
		return user.Role
	}
	return ""
}

// page пускает команду, только если страница path открылась бы при навигации
func (c *Cli) page(path string) error {
	d := route.Resolve(c.store.Status(), c.role(), path)
	switch {
	case d.Action == route.Render:
		return nil
	case d.Action == route.Redirect && d.Target == route.LoginPath:
		return fmt.Errorf("%w: run 'geotaste login' first", auth.ErrNotAuthenticated)
	case d.Action == route.Redirect:
		return fmt.Errorf("%s is not available (redirect %s)", path, d.Target)
	default:
		return fmt.Errorf("%s is not available: %s", path, d.Action)
	}
}

// idArg читает единственный аргумент ID
func idArg(args []string, usage string) (pkgapi.ID, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", usageError("%s", usage)
	}
	return pkgapi.ID(strings.TrimSpace(args[0])), nil
}

func (c *Cli) runRecipe(ctx context.Context, args []string) error {
	id, err := idArg(args, "recipe ID")
	if err != nil {
		return err
	}
	if err := c.page("/recipes/" + url.PathEscape(id.String())); err != nil {
		return err
	}

	r, err := c.catalog.Recipe(ctx, id)
	if err != nil {
		return err
	}

	c.io.Printf("%s [%s]\n", r.Title, r.ID)
	if r.CuisineType != "" || r.Difficulty != "" {
		c.io.Printf("Cuisine: %s  Difficulty: %s\n", orDefault(r.CuisineType, "-"), orDefault(r.Difficulty, "-"))
	}
	if r.AuthorName != "" {
		c.io.Printf("By %s\n", r.AuthorName)
	}
	c.io.Printf("Rating: %.1f  Likes: %d  Views: %d\n", r.AvgRating, r.LikesCount, r.ViewsCount)
	if r.UserLiked {
		c.io.Println("You like this recipe.")
	}
	c.io.Printf("Prep: %d min  Cook: %d min  Servings: %d  Calories: %d\n",
		r.PreparationTime, r.CookingTime, r.Servings, r.Calories)
	if r.Description != "" {
		c.io.Println()
		c.io.Println(r.Description)
	}
	if r.DietaryTags != "" {
		c.io.Printf("Tags: %s\n", strings.Join(splitList(r.DietaryTags, ","), ", "))
	}
	if lines := splitList(r.Ingredients, "\n"); len(lines) > 0 {
		c.io.Println()
		c.io.Println("Ingredients:")
		for _, l := range lines {
			c.io.Printf("  - %s\n", l)
		}
	}
	if lines := splitList(r.Instructions, "\n"); len(lines) > 0 {
		c.io.Println()
		c.io.Println("Instructions:")
		for i, l := range lines {
			c.io.Printf("  %d. %s\n", i+1, l)
		}
	}
	if len(r.Ratings) > 0 {
		c.io.Println()
		c.io.Println("Reviews:")
		for _, rt := range r.Ratings {
			c.io.Printf("  %d/5 %s", rt.Rating, rt.UserEmail)
			if rt.Comment != "" {
				c.io.Printf(": %s", rt.Comment)
			}
			c.io.Println()
		}
	}
	return nil
}

func (c *Cli) runLike(ctx context.Context, args []string) error {
	id, err := idArg(args, "like ID")
	if err != nil {
		return err
	}
	if err := c.page("/recipes/" + url.PathEscape(id.String())); err != nil {
		return err
	}

	resp, err := c.catalog.LikeRecipe(ctx, id)
	if err != nil {
		return err
	}
	if resp.Liked {
		c.io.Printf("Liked recipe %s (%d likes)\n", id, resp.LikesCount)
	} else {
		c.io.Printf("Removed like from recipe %s (%d likes)\n", id, resp.LikesCount)
	}
	return nil
}

func (c *Cli) runRestaurant(ctx context.Context, args []string) error {
	id, err := idArg(args, "restaurant ID")
	if err != nil {
		return err
	}
	if err := c.page("/restaurants/" + url.PathEscape(id.String())); err != nil {
		return err
	}

	p, err := c.catalog.Restaurant(ctx, id)
	if err != nil {
		return err
	}

	r := p.Restaurant
	c.io.Printf("%s [%s]\n", r.Name, r.ID)
	if r.CuisineType != "" {
		c.io.Printf("Cuisine: %s\n", r.CuisineType)
	}
	c.io.Printf("Rating: %.1f (%d ratings)\n", r.RatingAvg, r.NumberOfRatings)
	printLocation(c, r.Location)
	if r.Description != "" {
		c.io.Println()
		c.io.Println(r.Description)
	}

	c.io.Println()
	if len(p.Menu) == 0 {
		c.io.Println("Menu is empty.")
		return nil
	}
	c.io.Println("Menu:")
	for _, m := range p.Menu {
		c.io.Printf("  [%s] %s  %s", m.ID, m.Name, m.Price)
		if m.Category != "" {
			c.io.Printf("  (%s)", m.Category)
		}
		if !m.IsAvailable {
			c.io.Printf("  unavailable")
		}
		c.io.Println()
	}
	return nil
}

func (c *Cli) runStores(ctx context.Context, args []string) error {
	if err := c.page("/stores"); err != nil {
		return err
	}

	stores, err := c.catalog.Stores(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		c.io.Println("No stores found.")
		return nil
	}
	c.io.Printf("Found %d stores:\n", len(stores))
	for _, s := range stores {
		c.io.Printf("  [%s] %s", s.ID, s.Name)
		if s.StoreType != "" {
			c.io.Printf(" (%s)", s.StoreType)
		}
		if s.RatingAvg > 0 {
			c.io.Printf(" ★ %.1f", s.RatingAvg)
		}
		if s.Location != nil && s.Location.City != "" {
			c.io.Printf(" - %s", s.Location.City)
		}
		c.io.Println()
	}
	return nil
}

func (c *Cli) runOrders(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return usageError("orders")
	}
	if err := c.page("/orders"); err != nil {
		return err
	}

	orders, err := c.catalog.Orders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		c.io.Println("No orders yet.")
		return nil
	}
	for _, o := range orders {
		c.io.Printf("Order %s  %s  total %s\n", orDefault(o.OrderID, o.ID.String()), orDefault(o.Status, "-"), o.TotalAmount)
		if o.DeliveryAddress != "" {
			c.io.Printf("  Deliver to: %s\n", o.DeliveryAddress)
		}
		for _, it := range o.Items {
			c.io.Printf("  %d x %s  %s", it.Quantity, it.ProductName, it.Price)
			if it.StoreName != "" {
				c.io.Printf("  (%s)", it.StoreName)
			}
			c.io.Println()
		}
	}
	return nil
}

func printLocation(c *Cli, loc *pkgapi.Location) {
	if loc == nil {
		return
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{loc.City, loc.Country, loc.Postal} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		c.io.Printf("Location: %s\n", strings.Join(parts, ", "))
	}
	if loc.Phone != "" {
		c.io.Printf("Phone: %s\n", loc.Phone)
	}
	if loc.Website != "" {
		c.io.Printf("Website: %s\n", loc.Website)
	}
	if loc.Hours != "" {
		c.io.Printf("Hours: %s\n", loc.Hours)
	}
}

// splitList разбивает строку по sep и отбрасывает пустые элементы
func splitList(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
