// Package handoff moves encoded parcels across the process boundary
// between the legacy producer and the consuming wifi stack: a directory of
// parcel files written atomically by one side and read by the other.
package handoff

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/airshift-io/airshift/pkg/log"
)

// Parcel file names inside a handoff directory.
const (
	ConfigParcel   = "config.parcel"
	SettingsParcel = "settings.parcel"
)

// Dir is a handoff directory.
type Dir struct {
	path string
}

// NewDir returns a handoff directory rooted at path.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the directory path.
func (d *Dir) Path() string {
	return d.path
}

// Write stores a parcel atomically: the data lands under a temporary name
// and is renamed into place, so a reader never observes a half-written
// parcel.
func (d *Dir) Write(name string, data []byte) error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("failed to create handoff dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.path, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp parcel: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write parcel: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close parcel: %w", err)
	}

	final := filepath.Join(d.path, name)
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish parcel: %w", err)
	}
	log.Debug("parcel written", "parcel", final, "bytes", len(data))
	return nil
}

// Read loads a parcel. os.IsNotExist distinguishes "not handed off yet".
func (d *Dir) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(d.path, name))
}

// Remove deletes a parcel after the consumer has applied it.
func (d *Dir) Remove(name string) error {
	err := os.Remove(filepath.Join(d.path, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Wait blocks until the named parcel exists and returns its contents. It
// is used when the producer runs in a separate process and the consumer
// boots first. The ctx deadline bounds the wait.
func (d *Dir) Wait(ctx context.Context, name string) ([]byte, error) {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create handoff dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(d.path); err != nil {
		return nil, fmt.Errorf("failed to watch handoff dir: %w", err)
	}

	// The parcel may already be there; check after the watch is armed so
	// a rename between the two steps cannot be missed.
	if data, err := d.Read(name); err == nil {
		return data, nil
	}

	target := filepath.Join(d.path, name)
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timed out waiting for parcel %s: %w", name, ctx.Err())
		case err := <-watcher.Errors:
			return nil, fmt.Errorf("handoff watch failed: %w", err)
		case event := <-watcher.Events:
			if event.Name != target {
				continue
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			data, err := d.Read(name)
			if err != nil {
				// Rename landed but the read raced a concurrent cleanup.
				continue
			}
			return data, nil
		}
	}
}
