package cli

import (
	"context"
	"fmt"
	"strings"

	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

func (c *Cli) runProfile(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "show":
		profile, err := c.store.GetProfile(ctx)
		if err != nil {
			return err
		}
		printProfile(c, profile)
		return nil
	case "update":
		update, err := parseProfileUpdate(args[1:])
		if err != nil {
			return err
		}
		profile, err := c.store.UpdateProfile(ctx, update)
		if err != nil {
			return err
		}
		c.io.Println("✓ Profile updated")
		printProfile(c, profile)
		return nil
	default:
		return usageError("profile [show | update FIELD=VALUE...]")
	}
}

// parseProfileUpdate разбирает аргументы вида first_name=Ann bio="..."
func parseProfileUpdate(args []string) (pkgapi.ProfileUpdate, error) {
	var update pkgapi.ProfileUpdate
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok {
			return update, usageError("expected FIELD=VALUE, got %q", arg)
		}
		v := value
		switch field {
		case "first_name":
			update.FirstName = &v
		case "last_name":
			update.LastName = &v
		case "phone_number":
			update.PhoneNumber = &v
		case "location":
			update.Location = &v
		case "bio":
			update.Bio = &v
		default:
			return update, usageError("unknown profile field %q", field)
		}
	}
	return update, nil
}

func printProfile(c *Cli, p *pkgapi.Profile) {
	c.io.Printf("First name: %s\n", p.FirstName)
	c.io.Printf("Last name: %s\n", p.LastName)
	c.io.Printf("Phone: %s\n", p.PhoneNumber)
	c.io.Printf("Location: %s\n", p.Location)
	c.io.Printf("Bio: %s\n", p.Bio)
	c.io.Printf("Dark mode: %t\n", p.DarkMode)
}

func (c *Cli) runChangePassword(ctx context.Context, _ []string) error {
	c.io.Println("=== Change Password ===")

	old, err := c.password("Current password: ")
	if err != nil {
		return err
	}
	password, err := c.password("New password (min 8 chars): ")
	if err != nil {
		return err
	}
	confirm, err := c.password("Confirm new password: ")
	if err != nil {
		return err
	}

	msg, err := c.store.ChangePassword(ctx, old, password, confirm)
	if err != nil {
		return err
	}
	c.io.Printf("✓ %s\n", orDefault(msg, "Password changed"))
	return nil
}

func (c *Cli) runTheme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.io.Printf("Theme: %s\n", c.store.Theme())
		return nil
	}
	if args[0] != "toggle" {
		return usageError("theme [toggle]")
	}

	theme, err := c.store.ToggleTheme(ctx)
	if err != nil {
		return fmt.Errorf("failed to toggle theme: %w", err)
	}
	c.io.Printf("Theme: %s\n", theme)
	return nil
}
