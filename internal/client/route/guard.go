// Package route решает, какую страницу показать пользователю в зависимости
// от состояния сессии и роли. Все функции пакета чистые.
package route

import (
	"slices"

	"github.com/iudanet/geotaste/internal/client/auth"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

const (
	LoginPath        = "/login"
	HomePath         = "/home"
	AdminLandingPath = "/admin-dashboard"
)

// Action - результат проверки доступа
type Action int

const (
	// Render - показать запрошенную страницу
	Render Action = iota
	// Loading - сессия еще восстанавливается
	Loading
	// Redirect - перейти на Decision.Target
	Redirect
)

func (a Action) String() string {
	switch a {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision - решение охранника маршрутов
type Decision struct {
	Target string
	Action Action
}

// Requirement - роли, которым доступна страница. Пустой список означает
// любого вошедшего пользователя.
type Requirement struct {
	Roles []pkgapi.Role
}

// AnyRole - страница доступна любому вошедшему пользователю
func AnyRole() Requirement {
	return Requirement{}
}

// RequireRole - страница доступна только указанным ролям
func RequireRole(roles ...pkgapi.Role) Requirement {
	return Requirement{Roles: roles}
}

// Allows сообщает, удовлетворяет ли роль требованию
func (r Requirement) Allows(role pkgapi.Role) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

// Guard решает, показать ли защищенную страницу. Решение зависит только от
// аргументов. При неподходящей роли перенаправляет на стартовую страницу роли,
// а не на запрошенную.
func Guard(status auth.Status, role pkgapi.Role, req Requirement) Decision {
	switch status {
	case auth.StatusAuthenticated:
	case auth.StatusUnauthenticated:
		return Decision{Action: Redirect, Target: LoginPath}
	default:
		return Decision{Action: Loading}
	}

	if !req.Allows(role) {
		return Decision{Action: Redirect, Target: Landing(role)}
	}
	return Decision{Action: Render}
}

// Landing возвращает стартовую страницу роли
func Landing(role pkgapi.Role) string {
	if role == pkgapi.RoleAdmin {
		return AdminLandingPath
	}
	return HomePath
}
