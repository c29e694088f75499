package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

var newUser types.RegisterRequest

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an account with the same rules as registration",
	RunE: func(cmd *cobra.Command, args []string) error {
		auth := service.NewAuthService(repository.NewUserRepository(db), nil, cfg.JWTSecret, time.Hour)
		user, err := auth.Register(cmd.Context(), newUser)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	flags := createUserCmd.Flags()
	flags.StringVar(&newUser.Email, "email", "", "email address")
	flags.StringVar(&newUser.Username, "username", "", "username")
	flags.StringVar(&newUser.FirstName, "first-name", "", "first name")
	flags.StringVar(&newUser.LastName, "last-name", "", "last name")
	flags.StringVar(&newUser.Password, "password", "", "password")
	for _, name := range []string{"email", "username", "first-name", "last-name", "password"} {
		_ = createUserCmd.MarkFlagRequired(name)
	}
}
