package assets

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/quatmesh/engine/core"
)

// ConfigWatcher signals whenever a single file is written or recreated.
// Editors that save through rename are covered because the parent directory
// is watched rather than the file itself.
type ConfigWatcher struct {
	path string

	fsnotify *fsnotify.Watcher
	changes  chan struct{}
	errors   chan error
	done     chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		path:     abs,
		fsnotify: fsWatch,
		// One pending signal is enough: bursts of writes coalesce.
		changes: make(chan struct{}, 1),
		errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}
	cw.wg.Add(1)
	go cw.start()
	return cw, nil
}

// Changes fires after the watched file was modified.
func (cw *ConfigWatcher) Changes() <-chan struct{} {
	return cw.changes
}

// Errors reports watcher failures. Only the latest undelivered one is kept.
func (cw *ConfigWatcher) Errors() <-chan error {
	return cw.errors
}

func (cw *ConfigWatcher) Path() string {
	return cw.path
}

func (cw *ConfigWatcher) start() {
	defer cw.wg.Done()
	for {
		select {
		case e, ok := <-cw.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != cw.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				core.LogDebug("config %s changed (%s)", cw.path, e.Op)
				select {
				case cw.changes <- struct{}{}:
				default:
				}
			}

		case err, ok := <-cw.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("config watcher: %s", err)
			select {
			case cw.errors <- err:
			default:
			}

		case <-cw.done:
			return
		}
	}
}

var errWatcherClosed = errors.New("config watcher already closed")

// Close stops the watcher. Calling it twice returns an error.
func (cw *ConfigWatcher) Close() error {
	err := errWatcherClosed
	cw.closeOnce.Do(func() {
		close(cw.done)
		err = cw.fsnotify.Close()
		cw.wg.Wait()
	})
	return err
}
