// Command admin provisions administrator accounts directly against the
// database, bypassing the HTTP signup flow which only issues lecturer and
// student accounts.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/PAA-LMS/lms-backend/internal/common/security"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
	"github.com/PAA-LMS/lms-backend/internal/domain/repository"
	"github.com/PAA-LMS/lms-backend/internal/platform/config"
	"github.com/PAA-LMS/lms-backend/internal/platform/database"
)

func main() {
	root := &cobra.Command{
		Use:   "admin",
		Short: "Administrative maintenance commands",
	}
	root.AddCommand(createAdminCmd())

	if err := root.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func createAdminCmd() *cobra.Command {
	var email, username, password, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()
			database.Connect()
			defer database.Close()

			hashed, err := security.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			user := &model.User{
				ID:             uuid.NewString(),
				Email:          email,
				Username:       username,
				HashedPassword: hashed,
				Role:           model.RoleAdmin,
				FirstName:      firstName,
				LastName:       lastName,
				IsActive:       true,
			}

			users := repository.NewPgUserRepository(database.DB)
			tx := repository.NewTransactor(database.DB)
			err = tx.WithinTx(context.Background(), func(txn *sql.Tx) error {
				return users.Create(context.Background(), txn, user)
			})
			if err != nil {
				return err
			}

			color.Green("Admin account created")
			fmt.Printf("  id:       %s\n", user.ID)
			fmt.Printf("  username: %s\n", user.Username)
			fmt.Printf("  email:    %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&firstName, "first-name", "Admin", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "User", "last name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}
