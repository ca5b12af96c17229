package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"StillFM/core/admin"

	"github.com/spf13/cobra"
)

var (
	createTitle    string
	createCategory string
	createDuration string
	createLevel    string
	createAudio    string

	updateTitle    string
	updateCategory string
	updateDuration string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Maintain the meditation catalog",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a track, optionally attaching audio",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.Close()

		created, err := app.admin.Create(context.Background(), admin.CreateForm{
			Title:     createTitle,
			Category:  createCategory,
			Duration:  createDuration,
			Level:     createLevel,
			AudioPath: createAudio,
		})
		if err != nil {
			if created != nil {
				// The track exists without audio; only the upload failed.
				log.Fatalf("Created track %d, but audio upload failed: %v", created.ID, err)
			}
			log.Fatalf("Create failed: %v", err)
		}
		fmt.Printf("Created track %d (%s).\n", created.ID, created.Title)
	},
}

var adminUpdateCmd = &cobra.Command{
	Use:   "update <track-id>",
	Short: "Update a track's title, category or duration",
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
		if _, err := app.catalog.Refresh(ctx); err != nil {
			log.Fatalf("Failed to fetch catalog: %v", err)
		}

		edits := map[string]struct {
			value   string
			changed bool
		}{
			"title":        {updateTitle, cmd.Flags().Changed("title")},
			"category":     {updateCategory, cmd.Flags().Changed("category")},
			"duration_sec": {updateDuration, cmd.Flags().Changed("duration")},
		}
		for field, edit := range edits {
			if !edit.changed {
				continue
			}
			if err := app.admin.EditField(id, field, edit.value); err != nil {
				log.Fatalf("Edit failed: %v", err)
			}
		}

		if err := app.admin.Save(ctx, id); err != nil {
			log.Fatalf("Save failed: %v", err)
		}
		fmt.Printf("Saved track %d.\n", id)
	},
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <track-id>",
	Short: "Delete a track",
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

		if err := app.admin.Delete(context.Background(), id); err != nil {
			log.Fatalf("Delete failed: %v", err)
		}
		fmt.Printf("Deleted track %d.\n", id)
	},
}

var adminUploadCmd = &cobra.Command{
	Use:   "upload <track-id> <audio-file>",
	Short: "Replace a track's audio",
	Args:  cobra.ExactArgs(2),
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

		if err := app.admin.UploadAudioFile(context.Background(), id, args[1]); err != nil {
			log.Fatalf("Upload failed: %v", err)
		}
		fmt.Printf("Replaced audio for track %d.\n", id)
	},
}

var adminWatchCmd = &cobra.Command{
	Use:   "watch <track-id> <audio-file>",
	Short: "Re-upload a track's audio whenever the file changes",
	Args:  cobra.ExactArgs(2),
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

		fmt.Printf("Watching %s for track %d. Press Ctrl-C to stop.\n", args[1], id)
		if err := app.admin.Watch(context.Background(), id, args[1]); err != nil {
			log.Fatalf("Watch stopped: %v", err)
		}
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&createTitle, "title", "", "track title")
	adminCreateCmd.Flags().StringVar(&createCategory, "category", "", "track category")
	adminCreateCmd.Flags().StringVar(&createDuration, "duration", "", "duration in seconds")
	adminCreateCmd.Flags().StringVar(&createLevel, "level", "beginner", "difficulty level")
	adminCreateCmd.Flags().StringVar(&createAudio, "audio", "", "optional audio file to upload")

	adminUpdateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	adminUpdateCmd.Flags().StringVar(&updateCategory, "category", "", "new category")
	adminUpdateCmd.Flags().StringVar(&updateDuration, "duration", "", "new duration in seconds")

	adminCmd.AddCommand(adminCreateCmd, adminUpdateCmd, adminDeleteCmd, adminUploadCmd, adminWatchCmd)
	rootCmd.AddCommand(adminCmd)
}
