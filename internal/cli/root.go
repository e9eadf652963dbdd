package cli

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"adoption-chat-server/internal/config"
	"adoption-chat-server/internal/models"
	"adoption-chat-server/internal/services"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

// NewRootCommand creates the root command of the chat server.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "adoption-chat",
		Short: "Adopter/rehomer messaging service",
		Long:  "Conversations between adopters and rehomers about animals up for adoption.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(opts.EnvFile)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to load before reading configuration")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewPurgeUserCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

// loadEnvFile loads path into the environment. A missing file is not an
// error; deployments usually set the variables directly.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// newLogger returns a JSON logger in production and a text logger otherwise.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// openServices connects to the configured database and builds the chat services.
func openServices(cfg *config.Config, logger *slog.Logger) (*gorm.DB, *services.Services, error) {
	db, err := models.InitDB(models.DatabaseConfig{
		Driver:  cfg.Database.Driver,
		DSN:     cfg.Database.DSN,
		Verbose: !cfg.IsProduction(),
	})
	if err != nil {
		return nil, nil, err
	}

	// users and animals belong to other services; a local sqlite file has no one else to create them
	if cfg.Database.Driver == "sqlite" {
		if err := models.MigrateReadModels(db); err != nil {
			return nil, nil, err
		}
	}

	svc := services.New(db, services.Options{
		TypingWindow: cfg.Chat.TypingWindow,
		Logger:       logger,
	})
	return db, svc, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
