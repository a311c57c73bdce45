// Package migration defines the immutable snapshot types a legacy OEM
// Wi-Fi implementation hands to the managed wifi stack on the first boot
// after an upgrade, and the one-shot source contract that governs when a
// producer may return real data.
package migration

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned by Build when a builder setter was called
// with input it rejects, e.g. a nil saved-networks slice.
var ErrInvalidArgument = errors.New("migration: invalid argument")

// ConfigSnapshot holds the legacy config-store data to migrate: the user's
// saved networks and their soft access point configuration. Both fields are
// independently optional; an absent field means the legacy store had nothing
// to migrate for it. Absence of the whole snapshot (a nil *ConfigSnapshot
// from Source.LoadConfigSnapshot) means no config migration is needed at
// all, which is distinct from a snapshot with both fields absent.
//
// A ConfigSnapshot is immutable once built and safe for concurrent readers.
type ConfigSnapshot struct {
	savedNetworks    []NetworkRecord
	hasSavedNetworks bool

	apConfig    AccessPointRecord
	hasAPConfig bool
}

// SavedNetworks returns the ordered saved networks and whether the field was
// set at all. A present empty slice means the legacy store existed but held
// no saved networks; absent means the field requires no migration.
func (s *ConfigSnapshot) SavedNetworks() ([]NetworkRecord, bool) {
	if !s.hasSavedNetworks {
		return nil, false
	}
	out := make([]NetworkRecord, len(s.savedNetworks))
	copy(out, s.savedNetworks)
	return out, true
}

// AccessPoint returns the soft AP configuration and whether it was set.
func (s *ConfigSnapshot) AccessPoint() (AccessPointRecord, bool) {
	return s.apConfig, s.hasAPConfig
}

// Equal reports field-wise equality, including the presence state of both
// optional fields. Two nil snapshots are equal.
func (s *ConfigSnapshot) Equal(o *ConfigSnapshot) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	if s.hasSavedNetworks != o.hasSavedNetworks || s.hasAPConfig != o.hasAPConfig {
		return false
	}
	if s.hasSavedNetworks {
		if len(s.savedNetworks) != len(o.savedNetworks) {
			return false
		}
		for i := range s.savedNetworks {
			if s.savedNetworks[i] != o.savedNetworks[i] {
				return false
			}
		}
	}
	if s.hasAPConfig && s.apConfig != o.apConfig {
		return false
	}
	return true
}

// ConfigSnapshotBuilder accumulates the optional fields of a ConfigSnapshot.
// Setters chain; a setter that rejects its input records the error and
// leaves prior state untouched, and Build surfaces it. Builders are not
// safe for concurrent use and are single-use by convention.
type ConfigSnapshotBuilder struct {
	snapshot ConfigSnapshot
	err      error
}

// NewConfigSnapshotBuilder returns a builder with both fields absent.
// Building it without calling any setter yields a valid, fully-absent
// snapshot.
func NewConfigSnapshotBuilder() *ConfigSnapshotBuilder {
	return &ConfigSnapshotBuilder{}
}

// SetSavedNetworks stores the user's saved networks. A nil slice is
// rejected: "no saved networks" must be an explicit empty slice, while "no
// migration for this field" is expressed by not calling the setter.
func (b *ConfigSnapshotBuilder) SetSavedNetworks(networks []NetworkRecord) *ConfigSnapshotBuilder {
	if b.err != nil {
		return b
	}
	if networks == nil {
		b.err = fmt.Errorf("%w: saved networks must not be nil", ErrInvalidArgument)
		return b
	}
	b.snapshot.savedNetworks = make([]NetworkRecord, len(networks))
	copy(b.snapshot.savedNetworks, networks)
	b.snapshot.hasSavedNetworks = true
	return b
}

// SetAccessPoint stores the soft AP configuration. A nil record is rejected.
func (b *ConfigSnapshotBuilder) SetAccessPoint(config *AccessPointRecord) *ConfigSnapshotBuilder {
	if b.err != nil {
		return b
	}
	if config == nil {
		b.err = fmt.Errorf("%w: access point config must not be nil", ErrInvalidArgument)
		return b
	}
	b.snapshot.apConfig = *config
	b.snapshot.hasAPConfig = true
	return b
}

// Build finalizes the builder into an immutable snapshot. It fails only if
// a setter previously rejected its input.
func (b *ConfigSnapshotBuilder) Build() (*ConfigSnapshot, error) {
	if b.err != nil {
		return nil, b.err
	}
	s := b.snapshot
	return &s, nil
}
