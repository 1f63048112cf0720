package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dayplanhq/dayplan/internal/config"
	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/store"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect a user's stored data",
		Long:  "Print the remote store's profile and collection sizes for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			st, err := store.NewPostgres(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := st.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			ctx := context.Background()

			profile, err := st.LoadProfile(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}
			if profile == nil {
				fmt.Println("No profile stored for this user")
			} else {
				fmt.Printf("Profile: %s <%s>\n", profile.Name, profile.Email)
				fmt.Printf("  Level: %d  XP: %d  Theme: %s\n", profile.Level, profile.XP, profile.Theme)
				if profile.FocusGoal != "" {
					fmt.Printf("  Focus goal: %s\n", profile.FocusGoal)
				}
			}

			fmt.Println("Collections:")
			for _, name := range models.CollectionNames {
				var items []map[string]any
				if err := st.LoadCollection(ctx, userID, name, &items); err != nil {
					fmt.Printf("  %-13s error: %v\n", name, err)
					continue
				}
				fmt.Printf("  %-13s %d items\n", name, len(items))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "User ID to inspect (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
