package config

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/fsnotify/fsnotify"
)

const (
	reloadAttempts = 4
	reloadDelay    = 150 * time.Millisecond
)

// Watch calls onChange with the reloaded board every time path is written or
// recreated, until ctx is cancelled. Editors save in several steps, so a read
// or parse failure is retried; a board that fails validation is logged and
// skipped.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}
	log.Println("config: watching", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := reload(ctx, path)
			if err != nil {
				log.Printf("config: reload %s failed, keeping previous board: %v", path, err)
				continue
			}
			onChange(cfg)
			// atomic saves replace the inode
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("config: watcher error:", err)
		}
	}
}

func reload(ctx context.Context, path string) (*Config, error) {
	var cfg *Config
	err := retry.Do(func() error {
		c, err := Load(path)
		if err != nil {
			if errors.Is(err, ErrInvalid) {
				return retry.Unrecoverable(err)
			}
			return err
		}
		cfg = c
		return nil
	},
		retry.Context(ctx),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(reloadDelay),
		retry.Attempts(reloadAttempts),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("config: retry %d: %v", n, err)
		}),
	)
	return cfg, err
}
