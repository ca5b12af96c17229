package cmd

import (
	"context"
	"fmt"
	"log"

	"StillFM/config"
	"StillFM/store"

	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Check the client state store",
	Long:  `Verifies the Redis connection that holds the credential and device identifier, and runs a basic read/write check.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("Redis: %s:%s, DB %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		redisStore, err := store.NewRedisStore(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()

		if err := redisStore.Check(context.Background()); err != nil {
			log.Fatalf("Store check failed: %v", err)
		}
		fmt.Println("Store check passed.")
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
}
