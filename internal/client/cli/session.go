package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/geotaste/internal/client/auth"
	"github.com/iudanet/geotaste/internal/client/route"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context, args []string) error {
	c.io.Println("=== Registration ===")

	email, err := c.arg(args, 0, "Email: ")
	if err != nil {
		return err
	}
	role := pkgapi.RoleNormal
	if len(args) > 1 {
		role = pkgapi.Role(args[1])
	}
	password, err := c.password("Password (min 8 chars): ")
	if err != nil {
		return err
	}
	confirm, err := c.password("Confirm password: ")
	if err != nil {
		return err
	}

	result, err := c.store.Register(ctx, email, password, confirm, role)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	if result.Message != "" {
		c.io.Println(result.Message)
	}
	c.io.Printf("A verification code was sent to %s.\n", email)
	c.io.Println("Run 'geotaste verify-email' to confirm it, then 'geotaste login'.")
	return nil
}

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	c.io.Println("=== Login ===")

	email, err := c.arg(args, 0, "Email: ")
	if err != nil {
		return err
	}
	password, err := c.password("Password: ")
	if err != nil {
		return err
	}

	result, err := c.store.Login(ctx, email, password)
	if err != nil {
		var authErr *auth.AuthError
		if errors.As(err, &authErr) && authErr.Unverified() {
			c.io.Println("Your email is not verified yet.")
			c.io.Printf("Run 'geotaste verify-email %s' with the code from the letter,\n", email)
			c.io.Printf("or 'geotaste resend-otp %s' to get a new one.\n", email)
		}
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Email: %s\n", result.User.Email)
	c.io.Printf("Role: %s\n", result.User.Role)
	c.io.Printf("Landing page: %s\n", route.Landing(result.User.Role))
	return nil
}

func (c *Cli) runLogout(ctx context.Context, _ []string) error {
	c.io.Println("=== Logout ===")

	c.store.Logout(ctx)

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")
	return nil
}

func (c *Cli) runStatus(_ context.Context, _ []string) error {
	c.io.Println("=== Session Status ===")
	c.io.Println()

	session := c.store.Session()
	c.io.Printf("Status: %s\n", session.Status)
	c.io.Printf("Theme: %s\n", c.store.Theme())

	if session.Status != auth.StatusAuthenticated || session.User == nil {
		c.io.Println()
		c.io.Println("Run 'geotaste login' to authenticate.")
		return nil
	}

	printUser(c, session.User)

	if claims, err := auth.ParseAccessToken(session.AccessToken); err == nil && claims.ExpiresAt != nil {
		c.io.Printf("Token expires: %s\n", claims.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func (c *Cli) runWhoami(ctx context.Context, _ []string) error {
	user, err := c.store.RefreshUser(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return fmt.Errorf("%w. Please run 'geotaste login' first", err)
		}
		return err
	}
	printUser(c, user)
	return nil
}

func printUser(c *Cli, user *pkgapi.User) {
	c.io.Printf("User ID: %s\n", user.ID)
	c.io.Printf("Email: %s\n", user.Email)
	c.io.Printf("Role: %s\n", user.Role)
	c.io.Printf("Email verified: %t\n", user.EmailVerified)
}
