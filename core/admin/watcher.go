package admin

import (
	"context"
	"fmt"
	"path/filepath"

	"StillFM/logger"

	"github.com/fsnotify/fsnotify"
)

// Watch re-uploads the audio file at path to the track whenever the file is
// written, until the context is cancelled. The parent directory is watched
// because editors typically replace the file rather than write in place.
func (a *Controller) Watch(ctx context.Context, id int64, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	logger.Info("watching audio file",
		logger.Int64("trackID", id), logger.String("path", absPath))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Info("audio file changed, re-uploading",
				logger.Int64("trackID", id), logger.String("op", event.Op.String()))
			if err := a.UploadAudioFile(ctx, id, absPath); err != nil {
				logger.Error("re-upload failed",
					logger.Int64("trackID", id), logger.ErrorField(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logger.ErrorField(err))
		}
	}
}
