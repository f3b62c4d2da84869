package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/seed"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed content from a manifest",
	Long:  `Seed authors, blogs, posts and comments from a YAML manifest.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'seed' requires a subcommand (load, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// seedLoadCmd represents the seed load command
var seedLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a seed manifest",
	Long: `Load a seed manifest.

The manifest is validated before anything is written, and applied in a
single transaction. Authors that already exist (by email) are reused.

Example:
  inkwellctl seed load seeds/demo.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		gdb, err := connectWithCipher()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
			os.Exit(1)
		}

		if err := loadSeedFile(gdb, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load seed: %v\n", err)
			os.Exit(1)
		}
	},
}

// seedWatchCmd represents the seed watch command
var seedWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a manifest and reload it when it changes",
	Long: `Watch a manifest file and reload it when it changes.

Duplicate content on a reload is reported but does not stop the watcher.

Example:
  inkwellctl seed watch seeds/demo.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchSeedFile(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch seed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedLoadCmd)
	seedCmd.AddCommand(seedWatchCmd)
}

func loadSeedFile(gdb *gorm.DB, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	manifest, err := seed.Parse(f)
	if err != nil {
		return err
	}

	result, err := seed.NewLoader(gdb).Apply(context.Background(), manifest)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d authors, %d blogs, %d posts, %d comments\n",
		result.Authors, result.Blogs, result.Posts, result.Comments)
	return nil
}

func watchSeedFile(filename string) error {
	gdb, err := connectWithCipher()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for seed changes\n", filename)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] File modified, reloading seed...\n", time.Now().Format(time.RFC3339))
				if err := loadSeedFile(gdb, filename); err != nil {
					fmt.Fprintf(os.Stderr, "Error loading seed: %v\n", err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("Shutting down...")
			return nil
		}
	}
}
