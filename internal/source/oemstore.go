// Package source carries the reference producer: a migration source backed
// by a JSON legacy config store on disk. OEMs with their own store format
// implement migration.Source themselves; this one doubles as the example
// and as the producer for devices that used the stock legacy stack.
package source

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/airshift-io/airshift/pkg/log"
	"github.com/airshift-io/airshift/pkg/migration"
)

// legacyStore mirrors the on-disk JSON layout of the stock legacy config
// store. Both top-level fields are optional; a JSON null and a missing key
// both mean "no migration for this field", while an empty networks array
// means "store existed, nothing saved".
type legacyStore struct {
	Networks    *[]legacyNetwork   `json:"networks"`
	AccessPoint *legacyAccessPoint `json:"access_point"`
}

type legacyNetwork struct {
	SSID        string `json:"ssid"`
	Security    string `json:"security"`
	Passphrase  string `json:"passphrase,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
	AutoConnect bool   `json:"auto_connect,omitempty"`
}

type legacyAccessPoint struct {
	SSID       string `json:"ssid"`
	Passphrase string `json:"passphrase,omitempty"`
	Band       string `json:"band,omitempty"`
	Channel    uint16 `json:"channel,omitempty"`
	MaxClients uint16 `json:"max_clients,omitempty"`
	Hidden     bool   `json:"hidden,omitempty"`
}

var securityNames = map[string]migration.SecurityType{
	"open": migration.SecurityOpen,
	"wep":  migration.SecurityWEP,
	"psk":  migration.SecurityPSK,
	"sae":  migration.SecuritySAE,
	"eap":  migration.SecurityEAP,
}

var bandNames = map[string]migration.Band{
	"":     migration.BandAny,
	"any":  migration.BandAny,
	"2ghz": migration.Band2GHz,
	"5ghz": migration.Band5GHz,
	"6ghz": migration.Band6GHz,
}

// Store is a migration.Source reading the stock legacy config store file.
// The file's presence is the one-shot trigger: once Purge has retired it,
// every later boot sees an absent config snapshot.
type Store struct {
	path string
}

var _ migration.Source = (*Store)(nil)

// NewStore returns a source backed by the legacy store file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// LoadConfigSnapshot parses the legacy store, or returns absent when the
// store file no longer exists.
func (s *Store) LoadConfigSnapshot() (*migration.ConfigSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read legacy store %s: %w", s.path, err)
	}

	var store legacyStore
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("failed to parse legacy store %s: %w", s.path, err)
	}

	b := migration.NewConfigSnapshotBuilder()

	if store.Networks != nil {
		networks := make([]migration.NetworkRecord, 0, len(*store.Networks))
		for _, n := range *store.Networks {
			sec, ok := securityNames[n.Security]
			if !ok {
				return nil, fmt.Errorf("legacy store %s: unknown security type %q for ssid %q", s.path, n.Security, n.SSID)
			}
			networks = append(networks, migration.NetworkRecord{
				SSID:        n.SSID,
				Security:    sec,
				Passphrase:  n.Passphrase,
				Hidden:      n.Hidden,
				AutoConnect: n.AutoConnect,
			})
		}
		b.SetSavedNetworks(networks)
	}

	if store.AccessPoint != nil {
		band, ok := bandNames[store.AccessPoint.Band]
		if !ok {
			return nil, fmt.Errorf("legacy store %s: unknown band %q", s.path, store.AccessPoint.Band)
		}
		b.SetAccessPoint(&migration.AccessPointRecord{
			SSID:       store.AccessPoint.SSID,
			Passphrase: store.AccessPoint.Passphrase,
			Band:       band,
			Channel:    store.AccessPoint.Channel,
			MaxClients: store.AccessPoint.MaxClients,
			Hidden:     store.AccessPoint.Hidden,
		})
	}

	return b.Build()
}

// LoadSettingsSnapshot reads the seven settings keys through env. The stock
// legacy stack kept its settings in the platform provider, so live values
// and legacy values are the same read.
func (s *Store) LoadSettingsSnapshot(env migration.Environment) (*migration.SettingsSnapshot, error) {
	return migration.LoadSettingsFromEnvironment(env), nil
}

// Purge retires the legacy store after a successful migration by renaming
// it to a tombstone next to the original. Later boots then load an absent
// snapshot, which is what keeps the one-shot contract honest for this
// producer.
func (s *Store) Purge() error {
	tombstone := s.path + ".migrated"
	if err := os.Rename(s.path, tombstone); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to retire legacy store %s: %w", s.path, err)
	}
	log.Info("legacy config store retired", "store", s.path, "tombstone", tombstone)
	return nil
}

// Path returns the legacy store file path.
func (s *Store) Path() string {
	return s.path
}
