package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dayplanhq/dayplan/internal/config"
	"github.com/dayplanhq/dayplan/internal/token"
)

// NewTokenCmd creates the token command
func NewTokenCmd() *cobra.Command {
	var userFlag string
	var emailFlag string
	var ttlFlag time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a session token for a user",
		Long:  "Sign a session token with the configured secret, for support and testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			mgr, err := token.NewManager([]byte(cfg.TokenSecret), ttlFlag)
			if err != nil {
				return fmt.Errorf("failed to create token manager: %w", err)
			}

			signed, err := mgr.Issue(userID, emailFlag)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			fmt.Println(signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "User ID to issue the token for (required)")
	cmd.Flags().StringVar(&emailFlag, "email", "", "Email claim to embed")
	cmd.Flags().DurationVar(&ttlFlag, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
