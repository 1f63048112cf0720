package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/cache"
	"github.com/dayplanhq/dayplan/internal/config"
	"github.com/dayplanhq/dayplan/internal/queue"
	"github.com/dayplanhq/dayplan/internal/store"
)

// NewPingCmd creates the ping command
func NewPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to all dependencies",
		Long:  "Verify that the database, Redis, and RabbitMQ are reachable with the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			failed := false

			if st, err := store.NewPostgres(cfg.DatabaseURL); err != nil {
				fmt.Printf("database  FAIL: %v\n", err)
				failed = true
			} else {
				if err := st.Ping(ctx); err != nil {
					fmt.Printf("database  FAIL: %v\n", err)
					failed = true
				} else {
					fmt.Println("database  ok")
				}
				_ = st.Close()
			}

			if c, err := cache.NewRedis(cfg.RedisURL, zap.NewNop()); err != nil {
				fmt.Printf("redis     FAIL: %v\n", err)
				failed = true
			} else {
				fmt.Println("redis     ok")
				_ = c.Close()
			}

			if q, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL, zap.NewNop()); err != nil {
				fmt.Printf("rabbitmq  FAIL: %v\n", err)
				failed = true
			} else {
				if err := q.HealthCheck(ctx); err != nil {
					fmt.Printf("rabbitmq  FAIL: %v\n", err)
					failed = true
				} else {
					fmt.Println("rabbitmq  ok")
				}
				_ = q.Close()
			}

			if failed {
				return fmt.Errorf("one or more dependencies are unreachable")
			}
			return nil
		},
	}

	return cmd
}
