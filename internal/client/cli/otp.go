package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runVerifyEmail(ctx context.Context, args []string) error {
	email, err := c.arg(args, 0, "Email: ")
	if err != nil {
		return err
	}
	code, err := c.arg(args, 1, "Verification code: ")
	if err != nil {
		return err
	}

	msg, err := c.store.VerifyEmail(ctx, email, code)
	if err != nil {
		return err
	}

	c.io.Printf("✓ %s\n", orDefault(msg, "Email verified"))
	if !c.store.IsAuthenticated() {
		c.io.Println("You can now run 'geotaste login'.")
	}
	return nil
}

func (c *Cli) runResendOTP(ctx context.Context, args []string) error {
	email, err := c.arg(args, 0, "Email: ")
	if err != nil {
		return err
	}

	msg, err := c.store.ResendVerificationOTP(ctx, email)
	if err != nil {
		return err
	}
	c.io.Printf("✓ %s\n", orDefault(msg, "Verification code sent"))
	return nil
}

// runForgotPassword проводит пользователя через три шага: запрос кода,
// проверка кода, установка нового пароля
func (c *Cli) runForgotPassword(ctx context.Context, args []string) error {
	c.io.Println("=== Password Reset ===")

	email, err := c.arg(args, 0, "Email: ")
	if err != nil {
		return err
	}

	msg, err := c.store.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	c.io.Printf("✓ %s\n", orDefault(msg, "Reset code sent"))

	code, err := c.input("Reset code: ")
	if err != nil {
		return err
	}
	if _, err := c.store.VerifyPasswordResetOTP(ctx, email, code); err != nil {
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
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	msg, err = c.store.ResetPassword(ctx, email, code, password)
	if err != nil {
		return err
	}
	c.io.Printf("✓ %s\n", orDefault(msg, "Password has been reset"))
	c.io.Println("You can now run 'geotaste login' with the new password.")
	return nil
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
