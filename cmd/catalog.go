package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the meditation catalog",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.Close()

		tracks, err := app.catalog.Refresh(context.Background())
		if err != nil {
			log.Fatalf("Failed to fetch catalog: %v", err)
		}

		if len(tracks) == 0 {
			fmt.Println("No meditations yet.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tDURATION\tLEVEL\tAUDIO")
		for _, t := range tracks {
			audio := "-"
			if t.HasAudio() {
				audio = *t.AudioURL
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%ds\t%s\t%s\n",
				t.ID, t.Title, t.Category, t.DurationSec, t.Level, audio)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
