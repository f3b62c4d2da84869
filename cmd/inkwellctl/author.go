package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/db"
	"github.com/inkwell-sh/inkwell/pkg/seal"
)

// authorCmd represents the author command
var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Manage authors",
	Long:  `Manage author accounts and their credentials.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'author' requires a subcommand (create, reset-password, rotate-key)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(authorCmd)
}

// connectWithCipher opens a database session with the data key cipher
// bound, so credential columns encrypt and decrypt transparently.
func connectWithCipher() (*gorm.DB, error) {
	dataKeyB64, ok := os.LookupEnv("INKWELL_DATA_KEY")
	if !ok {
		return nil, fmt.Errorf("INKWELL_DATA_KEY environment variable is required")
	}

	dataKey, err := base64.StdEncoding.DecodeString(dataKeyB64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode INKWELL_DATA_KEY: %w", err)
	}

	cipher, err := seal.NewSymmetric(dataKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return db.Connect(db.Config{Cipher: cipher})
}
