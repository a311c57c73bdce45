package migration

// SettingsSnapshot holds the seven global Wi-Fi settings to migrate. Unlike
// ConfigSnapshot it is never absent as a whole: a producer always returns a
// fully-formed instance, with unset fields resolved to their documented
// defaults at construction time.
//
// A SettingsSnapshot is immutable once built and safe for concurrent readers.
type SettingsSnapshot struct {
	scanAlwaysAvailable    bool
	p2pFactoryResetPending bool
	p2pDeviceName          string
	hasP2PDeviceName       bool
	softAPTimeoutEnabled   bool
	wakeupEnabled          bool
	scanThrottleEnabled    bool
	verboseLoggingEnabled  bool
}

// ScanAlwaysAvailable reports whether scans are allowed while Wi-Fi is
// toggled off.
func (s *SettingsSnapshot) ScanAlwaysAvailable() bool { return s.scanAlwaysAvailable }

// P2PFactoryResetPending reports whether a P2P factory reset request is
// pending.
func (s *SettingsSnapshot) P2PFactoryResetPending() bool { return s.p2pFactoryResetPending }

// P2PDeviceName returns the peer-to-peer device name and whether one was set.
func (s *SettingsSnapshot) P2PDeviceName() (string, bool) {
	return s.p2pDeviceName, s.hasP2PDeviceName
}

// SoftAPTimeoutEnabled reports whether the soft AP shuts down after an idle
// timeout.
func (s *SettingsSnapshot) SoftAPTimeoutEnabled() bool { return s.softAPTimeoutEnabled }

// WakeupEnabled reports whether the Wi-Fi wakeup feature is enabled.
func (s *SettingsSnapshot) WakeupEnabled() bool { return s.wakeupEnabled }

// ScanThrottleEnabled reports whether scan throttling is enabled.
func (s *SettingsSnapshot) ScanThrottleEnabled() bool { return s.scanThrottleEnabled }

// VerboseLoggingEnabled reports whether verbose Wi-Fi logging is enabled.
func (s *SettingsSnapshot) VerboseLoggingEnabled() bool { return s.verboseLoggingEnabled }

// Equal reports field-wise equality, including the presence state of the
// device name.
func (s *SettingsSnapshot) Equal(o *SettingsSnapshot) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	return *s == *o
}

// SettingsSnapshotBuilder accumulates the seven settings fields. Setters
// never fail and overwrite prior values; Build always succeeds. A fresh
// builder carries the documented defaults, so building without calling any
// setter yields {false, false, no name, true, false, true, false}.
type SettingsSnapshotBuilder struct {
	snapshot SettingsSnapshot
}

// NewSettingsSnapshotBuilder returns a builder seeded with the documented
// defaults: soft AP timeout and scan throttling default to enabled, every
// other field to disabled, the device name to absent.
func NewSettingsSnapshotBuilder() *SettingsSnapshotBuilder {
	return &SettingsSnapshotBuilder{
		snapshot: SettingsSnapshot{
			softAPTimeoutEnabled: true,
			scanThrottleEnabled:  true,
		},
	}
}

// SetScanAlwaysAvailable sets whether scans are allowed while Wi-Fi is off.
func (b *SettingsSnapshotBuilder) SetScanAlwaysAvailable(available bool) *SettingsSnapshotBuilder {
	b.snapshot.scanAlwaysAvailable = available
	return b
}

// SetP2PFactoryResetPending sets whether a factory reset request is pending.
func (b *SettingsSnapshotBuilder) SetP2PFactoryResetPending(pending bool) *SettingsSnapshotBuilder {
	b.snapshot.p2pFactoryResetPending = pending
	return b
}

// SetP2PDeviceName sets the peer-to-peer device name and marks it present.
func (b *SettingsSnapshotBuilder) SetP2PDeviceName(name string) *SettingsSnapshotBuilder {
	b.snapshot.p2pDeviceName = name
	b.snapshot.hasP2PDeviceName = true
	return b
}

// ClearP2PDeviceName marks the device name absent again.
func (b *SettingsSnapshotBuilder) ClearP2PDeviceName() *SettingsSnapshotBuilder {
	b.snapshot.p2pDeviceName = ""
	b.snapshot.hasP2PDeviceName = false
	return b
}

// SetSoftAPTimeoutEnabled sets whether the soft AP idle timeout is enabled.
func (b *SettingsSnapshotBuilder) SetSoftAPTimeoutEnabled(enabled bool) *SettingsSnapshotBuilder {
	b.snapshot.softAPTimeoutEnabled = enabled
	return b
}

// SetWakeupEnabled sets whether the Wi-Fi wakeup feature is enabled.
func (b *SettingsSnapshotBuilder) SetWakeupEnabled(enabled bool) *SettingsSnapshotBuilder {
	b.snapshot.wakeupEnabled = enabled
	return b
}

// SetScanThrottleEnabled sets whether scan throttling is enabled.
func (b *SettingsSnapshotBuilder) SetScanThrottleEnabled(enabled bool) *SettingsSnapshotBuilder {
	b.snapshot.scanThrottleEnabled = enabled
	return b
}

// SetVerboseLoggingEnabled sets whether verbose logging is enabled.
func (b *SettingsSnapshotBuilder) SetVerboseLoggingEnabled(enabled bool) *SettingsSnapshotBuilder {
	b.snapshot.verboseLoggingEnabled = enabled
	return b
}

// Build finalizes the builder into an immutable snapshot reflecting the
// builder's current state.
func (b *SettingsSnapshotBuilder) Build() *SettingsSnapshot {
	s := b.snapshot
	return &s
}
