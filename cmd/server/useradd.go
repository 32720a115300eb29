package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ecom-backend/internal/config"
	"ecom-backend/internal/domain"
	"ecom-backend/internal/service"
)

func useraddCmd() *cobra.Command {
	var (
		email    string
		password string
		name     string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "useradd",
		Short: "Create an account directly in the credential store",
		Example: `  shop useradd --email admin@example.com --password 's3cret-pass' --role admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx := context.Background()
			st, err := openStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.db.Close()

			users := service.NewUserService(st.users, newHasher(cfg))
			user, err := users.Register(ctx, service.RegisterInput{
				Email:    email,
				Password: password,
				Name:     name,
				Role:     domain.Role(role),
			})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "role (user or admin)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
