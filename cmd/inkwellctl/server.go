package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/inkwell-sh/inkwell/pkg/auth"
	"github.com/inkwell-sh/inkwell/pkg/cache"
	"github.com/inkwell-sh/inkwell/pkg/config"
	"github.com/inkwell-sh/inkwell/pkg/db"
	"github.com/inkwell-sh/inkwell/pkg/history"
	"github.com/inkwell-sh/inkwell/pkg/retention"
	"github.com/inkwell-sh/inkwell/pkg/seal"
	"github.com/inkwell-sh/inkwell/pkg/server"
	"github.com/inkwell-sh/inkwell/pkg/server/endpoints"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Inkwell application server",
	Long: `Run the Inkwell application server.

To run the server requires the environment variables INKWELL_DATA_KEY and
DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		dataKeyB64, ok := os.LookupEnv("INKWELL_DATA_KEY")
		if !ok {
			fmt.Fprintln(os.Stderr, "INKWELL_DATA_KEY environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Info().Msg("running database migrations")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		dataKey, err := base64.StdEncoding.DecodeString(dataKeyB64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad INKWELL_DATA_KEY:", err)
			os.Exit(1)
		}

		cipher, err := seal.NewSymmetric(dataKey)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to initiate cipher:", err)
			os.Exit(1)
		}

		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		gdb, err := db.Connect(db.Config{
			Cipher:          cipher,
			MaxOpen:         cfg.DBMaxOpen,
			MaxIdle:         cfg.DBMaxIdle,
			ConnMaxLifetime: cfg.ConnMaxLifetime(),
			SlowQuery:       cfg.SlowQueryThreshold(),
			LogLevel:        cfg.LogLevel,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		if cfg.HistoryEnabled {
			if err := gdb.Use(history.NewPlugin()); err != nil {
				fmt.Fprintln(os.Stderr, "Unable to install history plugin:", err)
				os.Exit(1)
			}
		}

		redisURL := ""
		if cfg.CacheEnabled {
			redisURL = cfg.RedisURL
		}
		htmlCache, err := cache.NewFromURL(redisURL)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to Redis:", err)
			os.Exit(1)
		}
		defer func() { _ = htmlCache.Close() }()

		tokens, err := auth.NewTokenIssuer(auth.DeriveTokenKey(dataKey), cfg.TokenTTLDuration())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to initiate token issuer:", err)
			os.Exit(1)
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(cfg, cipher, tokens, htmlCache, gdb, host, port)

		endpoints.RegisterAll(s)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		group, ctx := errgroup.WithContext(ctx)

		group.Go(func() error {
			log.Info().Str("host", host).Str("port", port).Msg("running server")
			if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		sweepInterval, _ := cmd.Flags().GetDuration("sweep-interval")
		if sweepInterval > 0 {
			sweeper := retention.NewSweeper(gdb, retention.Config{
				RetentionDays: cfg.RetentionDays,
				RevisionKeep:  cfg.RevisionKeep,
			})
			group.Go(func() error {
				return sweeper.Schedule(ctx, sweepInterval)
			})
		}

		group.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return s.Shutdown(shutdownCtx)
		})

		if err := group.Wait(); err != nil {
			fmt.Fprintln(os.Stderr, "Server exited with error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Duration("sweep-interval", 24*time.Hour, "retention sweep interval (0 disables the sweeper)")
}
