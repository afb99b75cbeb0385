package route

import (
	"path"
	"strings"

	"github.com/iudanet/geotaste/internal/client/auth"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

// Page - страница приложения
type Page struct {
	Path        string
	Title       string
	Requirement Requirement
	Public      bool
}

// Table - все страницы приложения. Сегменты вида ":id" совпадают с любым значением.
var Table = []Page{
	{Path: "/", Title: "Landing", Public: true},
	{Path: LoginPath, Title: "Login", Public: true},
	{Path: "/register", Title: "Register", Public: true},
	{Path: "/forgot-password", Title: "Forgot password", Public: true},
	{Path: "/verify-email", Title: "Verify email", Public: true},

	{Path: HomePath, Title: "Home"},
	{Path: "/dashboard", Title: "Dashboard"},
	{Path: AdminLandingPath, Title: "Admin dashboard", Requirement: RequireRole(pkgapi.RoleAdmin)},
	{Path: "/profile", Title: "Profile"},
	{Path: "/store-profile", Title: "Store profile", Requirement: RequireRole(pkgapi.RoleStore)},
	{Path: "/restaurant-profile", Title: "Restaurant profile", Requirement: RequireRole(pkgapi.RoleRestaurant)},
	{Path: "/recipes", Title: "Recipes"},
	{Path: "/recipes/:id", Title: "Recipe"},
	{Path: "/favorites", Title: "Favorites"},
	{Path: "/restaurants", Title: "Restaurants"},
	{Path: "/restaurants/:id", Title: "Restaurant"},
	{Path: "/stores", Title: "Stores"},
	{Path: "/orders", Title: "Orders"},
}

// Match ищет страницу для пути и возвращает значения параметров
func Match(p string) (Page, map[string]string, bool) {
	segments := split(p)

	for _, page := range Table {
		pattern := split(page.Path)
		if len(pattern) != len(segments) {
			continue
		}

		params := map[string]string{}
		ok := true
		for i, seg := range pattern {
			if strings.HasPrefix(seg, ":") {
				params[seg[1:]] = segments[i]
				continue
			}
			if seg != segments[i] {
				ok = false
				break
			}
		}
		if ok {
			return page, params, true
		}
	}

	return Page{}, nil, false
}

// Resolve решает, что показать по пути: публичные страницы показываются всегда,
// защищенные проходят через Guard, неизвестные пути ведут на HomePath.
func Resolve(status auth.Status, role pkgapi.Role, p string) Decision {
	page, _, ok := Match(p)
	if !ok {
		return Decision{Action: Redirect, Target: HomePath}
	}
	if page.Public {
		return Decision{Action: Render}
	}
	return Guard(status, role, page.Requirement)
}

// split нормализует путь и разбивает его на сегменты
func split(p string) []string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = path.Clean("/" + p)
	if p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}
