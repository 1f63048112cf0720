package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/cache"
	"github.com/dayplanhq/dayplan/internal/config"
)

// NewClearSessionCmd creates the clear-session command
func NewClearSessionCmd() *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "clear-session",
		Short: "Clear a user's cached session slot",
		Long:  "Remove the session mirror from the local cache so the next bootstrap goes through a full login",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			c, err := cache.NewRedis(cfg.RedisURL, zap.NewNop())
			if err != nil {
				return fmt.Errorf("failed to connect to Redis: %w", err)
			}
			defer func() {
				if err := c.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close Redis: %v\n", err)
				}
			}()

			if err := c.SetSessionProfile(context.Background(), userID, nil); err != nil {
				return fmt.Errorf("failed to clear session slot: %w", err)
			}

			fmt.Printf("Cleared session slot for %s\n", userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "User ID to clear (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
