// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ik5/audgrain/internal/log"
)

// Watch re-reads path whenever it is written or replaced and sends the
// result on configs, or the failure on errs. It returns once the watcher
// is running; the watcher stops when done is closed.
//
// The parent directory is watched so that editors which save by renaming
// a temporary file over path keep being noticed.
func Watch(path string, configs chan<- *Config, errs chan<- error, done <-chan struct{}) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("can't create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		// ignore close error
		watcher.Close()
		return fmt.Errorf("can't watch %s: %w", path, err)
	}

	go func() {
		// ignore close error
		defer watcher.Close()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != path {
					continue
				}

				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				c, err := Read(path)
				if err != nil {
					select {
					case errs <- err:
					case <-done:
						return
					}

					continue
				}

				log.Debug("config reloaded", "path", path, "op", event.Op.String())

				select {
				case configs <- c:
				case <-done:
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				select {
				case errs <- err:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()

	return nil
}
