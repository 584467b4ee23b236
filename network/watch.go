package network

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
)

// Watch calls onChange with the reloaded network whenever the file changes until ctx is done.
// Files that fail to load are logged and skipped.
func Watch(ctx context.Context, path string, onChange func(*Network)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, editors and orchestrators replace the file instead of writing it
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			network, err := Load(path)
			if err != nil {
				glog.Warningf("Could not reload %s: %v", path, err)
				continue
			}
			onChange(network)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			glog.Warningf("Watcher error %v", err)
		}
	}
}
