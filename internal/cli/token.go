package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"adoption-chat-server/internal/config"
	"adoption-chat-server/internal/utils"
)

type tokenOptions struct {
	TTL time.Duration
}

// NewTokenCommand creates the token command. It signs a token with the
// configured secret for local development against the API.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:           "token <userId>",
		Short:         "Sign a development access token for a user",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(cmd, opts, args[0])
		},
	}

	cmd.Flags().DurationVar(&opts.TTL, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}

func runToken(cmd *cobra.Command, opts *tokenOptions, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	if opts.TTL <= 0 {
		return fmt.Errorf("invalid ttl %s: must be positive", opts.TTL)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if cfg.IsProduction() {
		return fmt.Errorf("refusing to sign tokens in production")
	}

	token, err := utils.GenerateAccessToken(userID, cfg.JWTSecret, opts.TTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
