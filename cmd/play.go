package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <track-id>",
	Short: "Play a meditation track",
	Long:  `Play a track from start to finish. A listening session is opened when playback starts and closed with the track's full duration when it ends. Session tracking is best-effort and never interrupts playback.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			log.Fatalf("Invalid track id %q", args[0])
		}

		app, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.Close()

		ctx := context.Background()
		track, err := app.catalog.Get(ctx, id)
		if err != nil {
			log.Fatalf("Failed to fetch track %d: %v", id, err)
		}

		app.player.OnProgress(func(elapsed, total int) {
			fmt.Printf("\rPlaying %q  %d/%d sec", track.Title, elapsed, total)
		})

		if err := app.player.Play(ctx, *track); err != nil {
			fmt.Println()
			log.Fatalf("Playback failed: %v", err)
		}
		fmt.Printf("\nFinished %q.\n", track.Title)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
