package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show listening stats for this device",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.Close()

		ctx := context.Background()
		deviceID, err := app.device.DeviceID(ctx)
		if err != nil {
			log.Fatalf("Failed to resolve device id: %v", err)
		}

		stats, err := app.tracker.Stats(ctx)
		if err != nil {
			log.Fatalf("Failed to fetch stats: %v", err)
		}

		fmt.Printf("Device %d: %d minutes listened, streak %d\n",
			deviceID, stats.TotalMinutes, stats.Streak)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
