package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"adoption-chat-server/internal/config"
)

// NewPurgeUserCommand creates the purge-user command, run when an account is
// closed so none of the user's conversations outlive it.
func NewPurgeUserCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "purge-user <userId>",
		Short:         "Hard delete every conversation a user takes part in",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurgeUser(cmd, args[0])
		},
	}
}

func runPurgeUser(cmd *cobra.Command, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	db, svc, err := openServices(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := svc.Lifecycle.DeleteAllForUser(cmd.Context(), userID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "purged conversations of user %s\n", userID)
	return nil
}
