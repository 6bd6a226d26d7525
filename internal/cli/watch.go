package cli

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tOgg1/threadcopy/internal/config"
	"github.com/tOgg1/threadcopy/internal/logging"
	"github.com/tOgg1/threadcopy/internal/page/htmlpage"
)

const watchDebounce = 100 * time.Millisecond

// watchFile reports changes to path. The parent directory is watched so
// editors that replace the file on save are still seen.
func watchFile(path string) (<-chan struct{}, io.Closer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = watcher.Close()
		return nil, nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, nil, err
	}

	changes := make(chan struct{}, 1)
	logger := logging.Component("cli")

	go func() {
		var debounceTimer *time.Timer

		// Protect against sending to closed channel from timer callback
		var closed bool
		var mu sync.Mutex

		defer func() {
			mu.Lock()
			closed = true
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			mu.Unlock()
			close(changes)
		}()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}

				mu.Lock()
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(watchDebounce, func() {
					mu.Lock()
					defer mu.Unlock()
					if closed {
						return
					}
					select {
					case changes <- struct{}{}:
					default:
						// A change is already pending.
					}
				})
				mu.Unlock()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("file watcher error")
			}
		}
	}()

	return changes, watcher, nil
}

// watchSnapshot extracts from the saved page now and again after every
// change, until ctx is cancelled. Failed runs are reported and watching goes on.
func (a *app) watchSnapshot(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts extractOptions) error {
	changes, closer, err := watchFile(opts.htmlPath)
	if err != nil {
		return Exitf(ExitCodeFailure, "watch %s: %v", opts.htmlPath, err)
	}
	defer closer.Close()

	logger := logging.Component("cli")
	run := func() {
		doc, err := htmlpage.Load(opts.htmlPath)
		if err != nil {
			logger.Warn().Err(err).Msg("reload snapshot")
			return
		}
		err = a.extractAndPrint(ctx, cmd, cfg, opts, doc)
		var exitErr *ExitError
		if errors.As(err, &exitErr) && !exitErr.Printed {
			a.status(cmd).fail(exitErr.Error())
		}
	}

	run()
	a.status(cmd).info("Watching " + opts.htmlPath + " for changes (ctrl+c to stop)")
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			run()
		}
	}
}
