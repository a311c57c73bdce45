// Package settings provides the key-value settings surface the migration
// reads from and the consuming wifi stack writes to going forward.
package settings

import (
	"github.com/airshift-io/airshift/pkg/migration"
)

// Store is a mutable settings provider. Its read side satisfies the
// migration Environment contract; the write side belongs to the consumer,
// which owns the settings after the handoff.
type Store interface {
	migration.Environment

	// SetInt stores an integer value under key.
	SetInt(key string, value int) error

	// SetString stores a string value under key.
	SetString(key, value string) error
}

// Memory is an in-memory Store, used by tests and by producer stubs that
// have no platform settings service behind them.
type Memory struct {
	ints    map[string]int
	strings map[string]string
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		ints:    make(map[string]int),
		strings: make(map[string]string),
	}
}

func (m *Memory) GetInt(key string, def int) int {
	if v, ok := m.ints[key]; ok {
		return v
	}
	return def
}

func (m *Memory) GetString(key string) (string, bool) {
	v, ok := m.strings[key]
	return v, ok
}

func (m *Memory) SetInt(key string, value int) error {
	m.ints[key] = value
	return nil
}

func (m *Memory) SetString(key, value string) error {
	m.strings[key] = value
	return nil
}
