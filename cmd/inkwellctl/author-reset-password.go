package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkwell-sh/inkwell/pkg/auth"
	storegorm "github.com/inkwell-sh/inkwell/pkg/store/gorm"
)

// authorResetPasswordCmd represents the author reset-password command
var authorResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Reset an author's password",
	Long: `Reset an author's password.

If no password is given, a random one is generated and printed.

Example:
  inkwellctl author reset-password vera@example.com
  inkwellctl author reset-password vera@example.com --password opensesame`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		password, _ := cmd.Flags().GetString("password")

		generated, err := resetPassword(email, password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Password reset for '%s'\n", email)
		if generated != "" {
			fmt.Printf("Generated password: %s\n", generated)
		}
	},
}

func init() {
	authorCmd.AddCommand(authorResetPasswordCmd)
	authorResetPasswordCmd.Flags().String("password", "", "New password (default: generated)")
}

func resetPassword(email, password string) (generated string, err error) {
	gdb, err := connectWithCipher()
	if err != nil {
		return "", err
	}

	if password == "" {
		raw, err := auth.GenerateAPIKey()
		if err != nil {
			return "", err
		}
		generated = hex.EncodeToString(raw[:12])
		password = generated
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	authors := storegorm.NewAuthorsStore(gdb)
	author, err := authors.GetAuthorByEmail(email)
	if err != nil {
		return "", err
	}

	if err := authors.SetPasswordDigest(author.ID, digest); err != nil {
		return "", err
	}
	return generated, nil
}
