// Package fields serves the canonical-field dictionary for the target schema.
package fields

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Dictionary holds the canonical field names ETL clients map headers onto.
// It is loaded from a YAML file and can be hot-reloaded when the file changes.
type Dictionary struct {
	path    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	mu     sync.RWMutex
	fields []string

	done     chan struct{}
	stopOnce sync.Once
}

type dictionaryFile struct {
	Fields []string `yaml:"fields"`
}

// Load reads the dictionary at path.
func Load(path string, logger *zap.Logger) (*Dictionary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dictionary{path: path, logger: logger, done: make(chan struct{})}
	if err := d.reload(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dictionary) reload() error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("read dictionary: %w", err)
	}
	var file dictionaryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse dictionary: %w", err)
	}

	d.mu.Lock()
	d.fields = file.Fields
	d.mu.Unlock()
	return nil
}

// Fields returns a copy of the canonical field names.
func (d *Dictionary) Fields() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.fields...)
}

// Watch reloads the dictionary whenever the file changes. Editors often
// replace the file (rename + create) instead of writing in place, so the
// parent directory is watched and events are filtered by name. Runs until
// Close is called.
func (d *Dictionary) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(d.path)); err != nil {
		_ = watcher.Close()
		return err
	}
	d.watcher = watcher

	go func() {
		for {
			select {
			case <-d.done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(d.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := d.reload(); err != nil {
					d.logger.Warn("dictionary reload failed", zap.String("path", d.path), zap.Error(err))
					continue
				}
				d.logger.Info("dictionary reloaded",
					zap.String("path", d.path),
					zap.Int("fields", len(d.Fields())))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				d.logger.Warn("dictionary watch error", zap.Error(err))
			}
		}
	}()
	return nil
}

// Close stops the watcher if one is running.
func (d *Dictionary) Close() error {
	var err error
	d.stopOnce.Do(func() {
		close(d.done)
		if d.watcher != nil {
			err = d.watcher.Close()
		}
	})
	return err
}
