package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-sh/inkwell/pkg/auth"
	storegorm "github.com/inkwell-sh/inkwell/pkg/store/gorm"
)

// authorRotateKeyCmd represents the author rotate-key command
var authorRotateKeyCmd = &cobra.Command{
	Use:   "rotate-key <email>",
	Short: "Rotate an author's API key",
	Long: `Rotate an author's API key.

The previous key stops working immediately. The new key is output to
STDOUT; it is shown only once.

Example:
  inkwellctl author rotate-key vera@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]

		apiKey, err := rotateAuthorKey(email)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to rotate API key: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("API key for %s: %s\n", email, apiKey)
	},
}

func init() {
	authorCmd.AddCommand(authorRotateKeyCmd)
}

func rotateAuthorKey(email string) (string, error) {
	gdb, err := connectWithCipher()
	if err != nil {
		return "", err
	}

	authors := storegorm.NewAuthorsStore(gdb)
	author, err := authors.GetAuthorByEmail(email)
	if err != nil {
		return "", err
	}

	key, err := auth.GenerateAPIKey()
	if err != nil {
		return "", err
	}
	if err := authors.SetAPIKey(author.ID, key, time.Now().UTC()); err != nil {
		return "", err
	}

	return hex.EncodeToString(key), nil
}
