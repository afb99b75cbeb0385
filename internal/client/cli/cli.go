// Package cli реализует команды клиента GeoTaste поверх сессии, личного кеша и каталога.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/geotaste/internal/client/auth"
	"github.com/iudanet/geotaste/internal/client/catalog"
	"github.com/iudanet/geotaste/internal/client/iocli"
	"github.com/iudanet/geotaste/internal/client/personal"
)

// ErrUsage возвращается при неверных аргументах команды
var ErrUsage = errors.New("invalid usage")

type Cli struct {
	io      iocli.IO
	store   auth.Service
	cache   *personal.Cache
	catalog *catalog.Service
}

func New(io iocli.IO, store auth.Service, cache *personal.Cache, catalog *catalog.Service) *Cli {
	return &Cli{
		io:      io,
		store:   store,
		cache:   cache,
		catalog: catalog,
	}
}

type command func(ctx context.Context, args []string) error

func (c *Cli) commands() map[string]command {
	return map[string]command{
		"register":        c.runRegister,
		"login":           c.runLogin,
		"logout":          c.runLogout,
		"status":          c.runStatus,
		"whoami":          c.runWhoami,
		"verify-email":    c.runVerifyEmail,
		"resend-otp":      c.runResendOTP,
		"forgot-password": c.runForgotPassword,
		"change-password": c.runChangePassword,
		"profile":         c.runProfile,
		"theme":           c.runTheme,
		"search":          c.runSearch,
		"favorite":        c.runFavorite,
		"favorites":       c.runFavorites,
		"history":         c.runHistory,
		"rate":            c.runRate,
		"recipe":          c.runRecipe,
		"like":            c.runLike,
		"restaurant":      c.runRestaurant,
		"stores":          c.runStores,
		"orders":          c.runOrders,
		"open":            c.runOpen,
	}
}

// Run выполняет команду args[0] с аргументами args[1:]
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		PrintUsage(c.io)
		return ErrUsage
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		PrintUsage(c.io)
		return nil
	}

	cmd, ok := c.commands()[name]
	if !ok {
		PrintUsage(c.io)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, name)
	}
	return cmd(ctx, args[1:])
}

// arg возвращает args[i] или запрашивает значение у пользователя
func (c *Cli) arg(args []string, i int, prompt string) (string, error) {
	if i < len(args) {
		return strings.TrimSpace(args[i]), nil
	}
	return c.input(prompt)
}

func (c *Cli) input(prompt string) (string, error) {
	v, err := c.io.ReadInput(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return v, nil
}

func (c *Cli) password(prompt string) (string, error) {
	v, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return v, nil
}

func usageError(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, a...))
}

func PrintUsage(out iocli.IO) {
	out.Println("GeoTaste Client")
	out.Println()
	out.Println("Usage:")
	out.Println("  geotaste [OPTIONS] COMMAND [ARGS]")
	out.Println()
	out.Println("Options:")
	out.Println("  --version                Show version information")
	out.Println("  --server URL             API base URL (default: http://localhost:8000/api)")
	out.Println("  --db PATH                Path to local storage (default: geotaste-client.db)")
	out.Println("  --log-level LEVEL        debug, info, warn, error (default: warn)")
	out.Println("  --timeout DURATION       HTTP request timeout (default: 30s)")
	out.Println("  --passphrase-file PATH   File with the local storage passphrase")
	out.Println()
	out.Println("Environment:")
	out.Println("  GEOTASTE_SERVER, GEOTASTE_DB, GEOTASTE_LOG_LEVEL, GEOTASTE_TIMEOUT")
	out.Println("  GEOTASTE_STORAGE_PASSPHRASE  encrypt the local storage (priority over --passphrase-file)")
	out.Println("  GEOTASTE_ENV_FILE            dotenv file to load (default: .env)")
	out.Println()
	out.Println("Account:")
	out.Println("  register [EMAIL] [ROLE]          Create an account (role: normal, store, restaurant, ...)")
	out.Println("  verify-email [EMAIL] [CODE]      Confirm email with the code from the letter")
	out.Println("  resend-otp [EMAIL]               Send a new verification code")
	out.Println("  login [EMAIL]                    Sign in")
	out.Println("  logout                           Sign out and forget the local session")
	out.Println("  status                           Show session status")
	out.Println("  whoami                           Reload the current user from the server")
	out.Println("  forgot-password [EMAIL]          Reset a forgotten password")
	out.Println("  change-password                  Change the password")
	out.Println("  profile [show]                   Show the profile")
	out.Println("  profile update FIELD=VALUE...    Update first_name, last_name, phone_number, location, bio")
	out.Println("  theme [toggle]                   Show or toggle the color theme")
	out.Println()
	out.Println("Catalog:")
	out.Println("  search KIND [TERM...]            Search recipes or restaurants")
	out.Println("  favorite add|remove KIND ID      Manage favorites")
	out.Println("  favorite list [KIND]             List favorites (also: favorites [KIND])")
	out.Println("  history [list] [KIND]            Show recent searches")
	out.Println("  history clear                    Forget all searches")
	out.Println("  rate KIND ID RATING [COMMENT...] Rate a recipe or restaurant (1-5)")
	out.Println("  recipe ID                        Show a recipe with ingredients and reviews")
	out.Println("  like ID                          Like or unlike a recipe")
	out.Println("  restaurant ID                    Show a restaurant with its menu")
	out.Println("  stores [TERM...]                 List stores")
	out.Println("  orders                           List your orders")
	out.Println("  open PATH                        Show which page the path leads to")
	out.Println()
	out.Println("KIND is recipes or restaurants.")
	out.Println()
	out.Println("Examples:")
	out.Println("  geotaste register user@example.com normal")
	out.Println("  geotaste verify-email user@example.com 123456")
	out.Println("  geotaste login user@example.com")
	out.Println("  geotaste search recipes pasta")
	out.Println("  geotaste favorite add recipes 12")
	out.Println("  geotaste rate restaurants 3 5 Great place")
	out.Println("  geotaste --server https://geotaste.example.com/api status")
}
