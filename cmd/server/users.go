package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/services"
)

// usersCmd holds the operator commands that change account flags. They are
// the only way to grant admin rights.
func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	actions := []struct {
		use, short string
		apply      func(ctx context.Context, s *services.AuthService, email string) error
	}{
		{"promote", "Grant admin rights", func(ctx context.Context, s *services.AuthService, email string) error {
			return s.SetAdmin(ctx, email, true)
		}},
		{"demote", "Revoke admin rights", func(ctx context.Context, s *services.AuthService, email string) error {
			return s.SetAdmin(ctx, email, false)
		}},
		{"activate", "Enable an account", func(ctx context.Context, s *services.AuthService, email string) error {
			return s.SetActive(ctx, email, true)
		}},
		{"deactivate", "Disable an account; it can no longer log in or act as admin", func(ctx context.Context, s *services.AuthService, email string) error {
			return s.SetActive(ctx, email, false)
		}},
	}

	for _, a := range actions {
		var email string
		sub := &cobra.Command{
			Use:   a.use,
			Short: a.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return updateUser(cmd.Context(), email, a.use, a.apply)
			},
		}
		sub.Flags().StringVar(&email, "email", "", "Email of the account to change")
		_ = sub.MarkFlagRequired("email")
		cmd.AddCommand(sub)
	}
	return cmd
}

func updateUser(ctx context.Context, email, action string, apply func(context.Context, *services.AuthService, string) error) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer database.Close(db)

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		return err
	}
	svc := services.NewAuthService(db, cfg, auth.NewPasswordHasher(cfg.BcryptCost), tokens)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := apply(ctx, svc, email); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fmt.Errorf("no user with email %q", email)
		}
		return err
	}
	fmt.Printf("%s: %s\n", action, email)
	return nil
}
