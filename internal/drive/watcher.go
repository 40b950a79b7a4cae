package drive

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// WatchOptions controls the polling sync loop.
type WatchOptions struct {
	FolderID    string
	DownloadDir string
	Interval    time.Duration
}

// Watcher polls a Drive folder and hands newly changed CSV exports to a
// callback, typically the ingest orchestrator.
type Watcher struct {
	service *Service
	opts    WatchOptions
	onFiles func(ctx context.Context, paths []string) error
	seen    map[string]string
}

func NewWatcher(service *Service, opts WatchOptions, onFiles func(ctx context.Context, paths []string) error) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = 15 * time.Minute
	}
	return &Watcher{
		service: service,
		opts:    opts,
		onFiles: onFiles,
		seen:    make(map[string]string),
	}
}

// Run blocks until ctx is cancelled, syncing once immediately and then on
// every tick. Sync errors are logged, not fatal.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	if err := w.SyncOnce(ctx); err != nil {
		log.Error().Err(err).Msg("drive: initial sync failed")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.SyncOnce(ctx); err != nil {
				log.Error().Err(err).Msg("drive: sync failed")
			}
		}
	}
}

// SyncOnce downloads CSVs that are new or modified since the last sync and
// passes them to the callback.
func (w *Watcher) SyncOnce(ctx context.Context) error {
	files, err := w.service.ListFiles(w.opts.FolderID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(w.opts.DownloadDir, 0o755); err != nil {
		return err
	}

	var changed []string
	for _, f := range files {
		if !strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			continue
		}
		if w.seen[f.ID] == f.ModifiedTime {
			continue
		}

		destPath := filepath.Join(w.opts.DownloadDir, f.Name)
		out, err := os.Create(destPath)
		if err != nil {
			return err
		}
		if err := w.service.DownloadFile(f.ID, out); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}

		w.seen[f.ID] = f.ModifiedTime
		changed = append(changed, destPath)
	}

	if len(changed) == 0 {
		return nil
	}

	log.Info().Int("files", len(changed)).Msg("drive: new sales exports downloaded")
	return w.onFiles(ctx, changed)
}
