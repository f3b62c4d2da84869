package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-sh/inkwell/pkg/auth"
	"github.com/inkwell-sh/inkwell/pkg/store"
	storegorm "github.com/inkwell-sh/inkwell/pkg/store/gorm"
)

// authorCreateCmd represents the author create command
var authorCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create an author account",
	Long: `Create an author account.

The INKWELL_DATA_KEY must be available in the environment since it is used
to encrypt the author's API key in the database.

If no password is given, a random one is generated and printed. The author's
API key is output to STDOUT; it is shown only once.

Example:
  inkwellctl author create vera@example.com --name Vera
  inkwellctl author create vera@example.com --password opensesame`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		name, _ := cmd.Flags().GetString("name")
		password, _ := cmd.Flags().GetString("password")

		apiKey, generated, err := createAuthor(email, name, password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create author: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Created author '%s'\n", email)
		if generated != "" {
			fmt.Printf("Generated password: %s\n", generated)
		}
		fmt.Printf("API key for %s: %s\n", email, apiKey)
	},
}

func init() {
	authorCmd.AddCommand(authorCreateCmd)
	authorCreateCmd.Flags().StringP("name", "n", "", "Display name (default: the email's local part)")
	authorCreateCmd.Flags().String("password", "", "Login password (default: generated)")
}

func createAuthor(email, name, password string) (apiKey string, generated string, err error) {
	gdb, err := connectWithCipher()
	if err != nil {
		return "", "", err
	}

	if name == "" {
		name = email
		for i := range email {
			if email[i] == '@' {
				name = email[:i]
				break
			}
		}
	}

	if password == "" {
		raw, err := auth.GenerateAPIKey()
		if err != nil {
			return "", "", err
		}
		generated = hex.EncodeToString(raw[:12])
		password = generated
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return "", "", err
	}

	authors := storegorm.NewAuthorsStore(gdb)
	author := &store.Author{Name: name, Email: email, PasswordDigest: digest}
	if err := authors.CreateAuthor(author); err != nil {
		return "", "", err
	}

	key, err := auth.GenerateAPIKey()
	if err != nil {
		return "", "", err
	}
	if err := authors.SetAPIKey(author.ID, key, time.Now().UTC()); err != nil {
		return "", "", err
	}

	return hex.EncodeToString(key), generated, nil
}
