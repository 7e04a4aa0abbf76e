package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const reloadDelay = 250 * time.Millisecond

// Watch reloads the config file at path whenever it changes on disk and hands
// the new value to onChange. The parent directory is watched rather than the
// file so editors that replace the file on save are still seen. It stops when
// ctx is done.
func Watch(ctx context.Context, path string, fs *pflag.FlagSet, log zerolog.Logger, onChange func(AppConfig)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	go watchLoop(ctx, w, abs, fs, log, onChange)
	return nil
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, fs *pflag.FlagSet, log zerolog.Logger, onChange func(AppConfig)) {
	defer w.Close()

	timer := time.NewTimer(reloadDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// debounce: editors often emit several events per save
			timer.Reset(reloadDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("config watcher error")
		case <-timer.C:
			cfg, err := Load(path, fs)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("config reload rejected")
				continue
			}
			log.Info().Str("path", path).Dur("poll_interval", cfg.PollInterval).Msg("config reloaded")
			onChange(cfg)
		}
	}
}
