package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/airshift-io/airshift/pkg/log"
)

// File is a Store persisted as a YAML file through viper. Writes go back to
// the same file, so values survive across boots. An optional watch reloads
// the in-memory view when another process rewrites the file.
type File struct {
	mu   sync.RWMutex
	v    *viper.Viper
	path string
}

var _ Store = (*File)(nil)

// OpenFile loads the settings file at path, creating an empty one when it
// does not exist yet.
func OpenFile(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create settings dir: %w", err)
		}
		if err := v.WriteConfigAs(path); err != nil {
			return nil, fmt.Errorf("failed to create settings file %s: %w", path, err)
		}
	}

	return &File{v: v, path: path}, nil
}

// Watch reloads the store when the backing file changes on disk. It returns
// immediately; reloads happen on viper's fsnotify watcher goroutine.
func (f *File) Watch() {
	f.v.OnConfigChange(func(e fsnotify.Event) {
		log.Debug("settings file changed, reloaded", "path", e.Name, "op", e.Op.String())
	})
	f.v.WatchConfig()
}

func (f *File) GetInt(key string, def int) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.v.IsSet(key) {
		return def
	}
	return f.v.GetInt(key)
}

func (f *File) GetString(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.v.IsSet(key) {
		return "", false
	}
	return f.v.GetString(key), true
}

func (f *File) SetInt(key string, value int) error {
	return f.set(key, value)
}

func (f *File) SetString(key, value string) error {
	return f.set(key, value)
}

func (f *File) set(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.v.Set(key, value)
	if err := f.v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to persist setting %s: %w", key, err)
	}
	return nil
}
