package cmd

import (
	"context"
	"fmt"
	"log"

	"StillFM/core/auth"

	"github.com/spf13/cobra"
)

var (
	authEmail    string
	authPassword string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored credential",
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.Close()

		if err := app.auth.Register(context.Background(), authEmail, authPassword); err != nil {
			log.Fatalf("Register failed: %v", err)
		}
		fmt.Println("Account created.")
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the credential",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.Close()

		if err := app.auth.Login(context.Background(), authEmail, authPassword); err != nil {
			log.Fatalf("Login failed: %v", err)
		}
		fmt.Println("Logged in.")
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored credential",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.Close()

		if err := app.auth.Logout(context.Background()); err != nil {
			log.Fatalf("Logout failed: %v", err)
		}
		fmt.Println("Logged out.")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Resolve the identity behind the stored credential",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.Close()

		ctx := context.Background()
		token, ok := app.identity.Token(ctx)
		if !ok {
			fmt.Println("Not logged in.")
			return
		}

		if claims, err := auth.PeekClaims(token); err == nil && claims.Email != "" {
			fmt.Printf("Credential for %s (admin: %v)\n", claims.Email, claims.IsAdmin)
		}

		user, err := app.auth.Me(ctx)
		if err != nil {
			log.Fatalf("Credential rejected by server: %v", err)
		}
		fmt.Printf("Logged in as %s (id %d, admin: %v)\n", user.Email, user.ID, user.IsAdmin)
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "account email")
		c.Flags().StringVar(&authPassword, "password", "", "account password")
		c.MarkFlagRequired("email")
		c.MarkFlagRequired("password")
	}

	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(authCmd)
}
