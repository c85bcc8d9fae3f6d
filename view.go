// ABOUTME: Live config and offset-cache file watching
// ABOUTME: Reloads the shared config on writes and logs when the offset cache file is removed

package main

import (
	"log"
	"time"

	"github.com/fsnotify/fsnotify"

	"notewatch/config"
)

// WatchConfig watches configPath for writes and hot-reloads shared into the
// SharedConfig on change, until done is closed. Errors opening the watcher
// are returned; errors during the watch loop are logged and do not stop it.
func WatchConfig(configPath string, shared *config.SharedConfig, done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return err
	}

	go runConfigWatch(watcher, configPath, shared, done)
	return nil
}

func runConfigWatch(watcher *fsnotify.Watcher, configPath string, shared *config.SharedConfig, done <-chan struct{}) {
	defer watcher.Close()

	for {
		select {
		case <-done:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write != fsnotify.Write {
				continue
			}

			// Debounce: editors often emit several write events per save.
			time.Sleep(100 * time.Millisecond)

			if _, err := shared.Reload(configPath); err != nil {
				log.Printf("config watch: reload failed: %v", err)
				continue
			}
			log.Printf("config watch: reloaded %s", configPath)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config watch: watcher error: %v", err)
		}
	}
}

// WatchOffsetCache watches cachePath for removal (an operator invalidating a
// stale cache after a game update) and logs when it disappears, so a
// long-running tracker process can be restarted to pick up a fresh search
// instead of silently keeping stale offsets.
func WatchOffsetCache(cachePath string, done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(cachePath); err != nil {
		watcher.Close()
		return err
	}

	go runCacheWatch(watcher, cachePath, done)
	return nil
}

func runCacheWatch(watcher *fsnotify.Watcher, cachePath string, done <-chan struct{}) {
	defer watcher.Close()

	for {
		select {
		case <-done:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Remove == fsnotify.Remove {
				log.Printf("offset cache %s was removed; restart notewatch to re-resolve offsets", cachePath)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("offset cache watch: watcher error: %v", err)
		}
	}
}
