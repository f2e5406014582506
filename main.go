package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/George1161/the-legit-website/api"
	"github.com/George1161/the-legit-website/config"
	"github.com/George1161/the-legit-website/database"
	"github.com/George1161/the-legit-website/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	// `the-legit-website hash-password <password>` prints a value for ADMIN_PASSWORD_HASH
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		hash, err := services.HashPassword(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	c := config.New()
	setupLogger(c)

	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("Server exited")
	}
}

func run(c map[string]string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if config.HasSSMParameters(c) {
		client, err := config.NewSSMClient(ctx)
		if err != nil {
			return err
		}
		if err := config.LoadSSMParameters(ctx, c, client); err != nil {
			return err
		}
		log.Info().Msg("Loaded secrets from SSM")
	}

	store, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer store.Close()

	images, err := services.NewImageStoreFromConfig(ctx, c)
	if err != nil {
		return err
	}
	if images == nil {
		log.Warn().Msg("S3_BUCKET not set, image uploads are disabled")
	}

	opts := []services.ProjectServiceOption{
		services.WithLimits(
			config.GetInt(c, "SUBMISSION_LIMIT", services.DefaultSubmissionLimit),
			config.GetInt(c, "EDIT_LIMIT", services.DefaultEditLimit),
		),
	}
	if images != nil {
		opts = append(opts, services.WithImageStore(images))
	}
	if notifier := services.NewNotifierFromConfig(c); notifier != nil {
		opts = append(opts, services.WithNotifier(notifier))
	}
	projects := services.NewProjectService(store, opts...)

	auth := services.NewAdminAuthFromConfig(c)
	if !auth.Enabled() {
		log.Warn().Msg("Admin credentials not configured, admin routes will reject every request")
	}

	server, err := api.NewServer(c, projects, auth)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		server.ShutdownGracefully(config.GetSeconds(c, "SHUTDOWN_TIMEOUT_SECONDS", 30))
		return nil
	})

	return g.Wait()
}

// openStore returns the in-memory store for DB_TYPE=memory, PostgreSQL otherwise.
func openStore(ctx context.Context, c map[string]string) (database.Store, error) {
	dbType := config.GetString(c, "DB_TYPE", database.TypePostgres)
	log.Info().Str("dbType", dbType).Msg("Opening store")

	if dbType == database.TypeMemory {
		log.Warn().Msg("Using the in-memory store, data is lost on restart")
		return database.NewMemoryStore(), nil
	}

	db, err := database.Connect(c)
	if err != nil {
		return nil, err
	}

	store := database.New(db)
	if config.GetBool(c, "DB_AUTO_MIGRATE", true) {
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

func setupLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(c, "LOG_FORMAT", "console") == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
