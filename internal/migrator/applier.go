package migrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/airshift-io/airshift/pkg/migration"
	"github.com/airshift-io/airshift/pkg/settings"
)

// Applier is the consumer's write side: it lands migrated data in the
// stores the new wifi stack owns.
type Applier interface {
	// ApplyNetworks persists the migrated saved networks.
	ApplyNetworks(networks []migration.NetworkRecord) error

	// ApplyAccessPoint persists the migrated soft AP configuration.
	ApplyAccessPoint(ap migration.AccessPointRecord) error

	// ApplySettings persists the seven migrated settings.
	ApplySettings(s *migration.SettingsSnapshot) error
}

// StoreApplier writes networks and AP config into the new stack's JSON
// config store and settings into its settings provider.
type StoreApplier struct {
	// ConfigPath is the new stack's config store file.
	ConfigPath string

	// Settings is the provider the consumer owns going forward.
	Settings settings.Store
}

var _ Applier = (*StoreApplier)(nil)

type appliedConfig struct {
	Networks    []appliedNetwork `json:"networks,omitempty"`
	AccessPoint *appliedAP       `json:"access_point,omitempty"`
}

type appliedNetwork struct {
	SSID        string `json:"ssid"`
	Security    uint8  `json:"security"`
	Passphrase  string `json:"passphrase,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
	AutoConnect bool   `json:"auto_connect,omitempty"`
}

type appliedAP struct {
	SSID       string `json:"ssid"`
	Passphrase string `json:"passphrase,omitempty"`
	Band       uint8  `json:"band"`
	Channel    uint16 `json:"channel,omitempty"`
	MaxClients uint16 `json:"max_clients,omitempty"`
	Hidden     bool   `json:"hidden,omitempty"`
}

func (a *StoreApplier) ApplyNetworks(networks []migration.NetworkRecord) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}
	cfg.Networks = make([]appliedNetwork, 0, len(networks))
	for _, n := range networks {
		cfg.Networks = append(cfg.Networks, appliedNetwork{
			SSID:        n.SSID,
			Security:    uint8(n.Security),
			Passphrase:  n.Passphrase,
			Hidden:      n.Hidden,
			AutoConnect: n.AutoConnect,
		})
	}
	return a.save(cfg)
}

func (a *StoreApplier) ApplyAccessPoint(ap migration.AccessPointRecord) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}
	cfg.AccessPoint = &appliedAP{
		SSID:       ap.SSID,
		Passphrase: ap.Passphrase,
		Band:       uint8(ap.Band),
		Channel:    ap.Channel,
		MaxClients: ap.MaxClients,
		Hidden:     ap.Hidden,
	}
	return a.save(cfg)
}

func (a *StoreApplier) ApplySettings(s *migration.SettingsSnapshot) error {
	bools := []struct {
		key   string
		value bool
	}{
		{migration.KeyScanAlwaysAvailable, s.ScanAlwaysAvailable()},
		{migration.KeyP2PFactoryResetPending, s.P2PFactoryResetPending()},
		{migration.KeySoftAPTimeoutEnabled, s.SoftAPTimeoutEnabled()},
		{migration.KeyWakeupEnabled, s.WakeupEnabled()},
		{migration.KeyScanThrottleEnabled, s.ScanThrottleEnabled()},
		{migration.KeyVerboseLoggingEnabled, s.VerboseLoggingEnabled()},
	}
	for _, b := range bools {
		v := 0
		if b.value {
			v = 1
		}
		if err := a.Settings.SetInt(b.key, v); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", b.key, err)
		}
	}
	if name, ok := s.P2PDeviceName(); ok {
		if err := a.Settings.SetString(migration.KeyP2PDeviceName, name); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", migration.KeyP2PDeviceName, err)
		}
	}
	return nil
}

func (a *StoreApplier) load() (*appliedConfig, error) {
	cfg := &appliedConfig{}
	data, err := os.ReadFile(a.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config store: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config store: %w", err)
	}
	return cfg, nil
}

func (a *StoreApplier) save(cfg *appliedConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.ConfigPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config store dir: %w", err)
	}
	if err := os.WriteFile(a.ConfigPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config store: %w", err)
	}
	return nil
}
