package migration

// Settings provider keys read during migration, with their defaults when
// the provider has no value. Integer keys hold 0 or 1.
const (
	KeyScanAlwaysAvailable    = "wifi_scan_always_enabled"
	KeyP2PFactoryResetPending = "wifi_p2p_pending_factory_reset"
	KeyP2PDeviceName          = "wifi_p2p_device_name"
	KeySoftAPTimeoutEnabled   = "soft_ap_timeout_enabled"
	KeyWakeupEnabled          = "wifi_wakeup_enabled"
	KeyScanThrottleEnabled    = "wifi_scan_throttle_enabled"
	KeyVerboseLoggingEnabled  = "wifi_verbose_logging_enabled"
)

const (
	DefaultScanAlwaysAvailable    = 0
	DefaultP2PFactoryResetPending = 0
	DefaultSoftAPTimeoutEnabled   = 1
	DefaultWakeupEnabled          = 0
	DefaultScanThrottleEnabled    = 1
	DefaultVerboseLoggingEnabled  = 0
)

// Environment is the narrow read surface over the platform settings
// provider. GetInt returns def when the key has no value; GetString reports
// whether the key had a value at all.
type Environment interface {
	GetInt(key string, def int) int
	GetString(key string) (string, bool)
}

// Source is implemented by the legacy/OEM side of the migration. The
// consuming system calls both methods exactly once, sequentially, during
// boot-time initialization; never concurrently and never again within the
// same boot.
//
// The one-shot contract is cooperative and not enforced here: after
// returning a populated config snapshot once, the producer is expected to
// retire its legacy store and return absent on every later boot. What
// happens if a producer keeps returning fresh data is deliberately
// unspecified.
type Source interface {
	// LoadConfigSnapshot returns the legacy config-store data, or nil when
	// no config migration is needed. It must return non-nil only on the
	// single boot immediately following the upgrade from the legacy
	// implementation, with absent fields for anything that requires no
	// migration.
	LoadConfigSnapshot() (*ConfigSnapshot, error)

	// LoadSettingsSnapshot returns the global settings to migrate. It never
	// returns a nil snapshot on success: on steady-state boots it reflects
	// the current live values read through env, which the consumer owns
	// going forward.
	LoadSettingsSnapshot(env Environment) (*SettingsSnapshot, error)
}

// LoadSettingsFromEnvironment builds a settings snapshot from the seven
// provider keys, falling back to the documented defaults for keys the
// provider lacks. Producers without legacy settings of their own should
// delegate LoadSettingsSnapshot to this.
func LoadSettingsFromEnvironment(env Environment) *SettingsSnapshot {
	b := NewSettingsSnapshotBuilder().
		SetScanAlwaysAvailable(env.GetInt(KeyScanAlwaysAvailable, DefaultScanAlwaysAvailable) == 1).
		SetP2PFactoryResetPending(env.GetInt(KeyP2PFactoryResetPending, DefaultP2PFactoryResetPending) == 1).
		SetSoftAPTimeoutEnabled(env.GetInt(KeySoftAPTimeoutEnabled, DefaultSoftAPTimeoutEnabled) == 1).
		SetWakeupEnabled(env.GetInt(KeyWakeupEnabled, DefaultWakeupEnabled) == 1).
		SetScanThrottleEnabled(env.GetInt(KeyScanThrottleEnabled, DefaultScanThrottleEnabled) == 1).
		SetVerboseLoggingEnabled(env.GetInt(KeyVerboseLoggingEnabled, DefaultVerboseLoggingEnabled) == 1)
	if name, ok := env.GetString(KeyP2PDeviceName); ok {
		b.SetP2PDeviceName(name)
	}
	return b.Build()
}

// EmptySource is a Source with nothing to migrate: the config snapshot is
// always absent and the settings snapshot reflects the live environment.
// It is the correct producer for devices that never ran a legacy
// implementation.
type EmptySource struct{}

var _ Source = EmptySource{}

func (EmptySource) LoadConfigSnapshot() (*ConfigSnapshot, error) {
	return nil, nil
}

func (EmptySource) LoadSettingsSnapshot(env Environment) (*SettingsSnapshot, error) {
	return LoadSettingsFromEnvironment(env), nil
}
