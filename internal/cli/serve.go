package cli

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"adoption-chat-server/internal/config"
	"adoption-chat-server/internal/routes"
	"adoption-chat-server/internal/services"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "serve",
		Short:         "Run the HTTP API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	db, svc, err := openServices(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		return err
	}
	defer closeDB(db)

	router := NewRouter(cfg, svc, logger)

	logger.Info("server running", "port", cfg.Port, "env", cfg.Environment, "db_driver", cfg.Database.Driver)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil && err != http.ErrServerClosed {
		logger.Error("failed to start server", "err", err)
		return err
	}
	return nil
}

// NewRouter builds the gin engine with CORS and every API route.
func NewRouter(cfg *config.Config, svc *services.Services, logger *slog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, svc, cfg, logger)
	return router
}
