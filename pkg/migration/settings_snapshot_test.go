package migration

import "testing"

func TestSettingsSnapshotBuilder_Defaults(t *testing.T) {
	s := NewSettingsSnapshotBuilder().Build()

	if s.ScanAlwaysAvailable() {
		t.Error("ScanAlwaysAvailable default = true, want false")
	}
	if s.P2PFactoryResetPending() {
		t.Error("P2PFactoryResetPending default = true, want false")
	}
	if name, ok := s.P2PDeviceName(); ok {
		t.Errorf("P2PDeviceName default present: %q", name)
	}
	if !s.SoftAPTimeoutEnabled() {
		t.Error("SoftAPTimeoutEnabled default = false, want true")
	}
	if s.WakeupEnabled() {
		t.Error("WakeupEnabled default = true, want false")
	}
	if !s.ScanThrottleEnabled() {
		t.Error("ScanThrottleEnabled default = false, want true")
	}
	if s.VerboseLoggingEnabled() {
		t.Error("VerboseLoggingEnabled default = true, want false")
	}
}

func TestSettingsSnapshotBuilder_SetAll(t *testing.T) {
	s := NewSettingsSnapshotBuilder().
		SetScanAlwaysAvailable(true).
		SetP2PFactoryResetPending(true).
		SetP2PDeviceName("pixel-p2p").
		SetSoftAPTimeoutEnabled(false).
		SetWakeupEnabled(true).
		SetScanThrottleEnabled(false).
		SetVerboseLoggingEnabled(true).
		Build()

	if !s.ScanAlwaysAvailable() || !s.P2PFactoryResetPending() || !s.WakeupEnabled() || !s.VerboseLoggingEnabled() {
		t.Error("boolean setter values not reflected in snapshot")
	}
	if s.SoftAPTimeoutEnabled() || s.ScanThrottleEnabled() {
		t.Error("defaults-on fields not overridden to false")
	}
	name, ok := s.P2PDeviceName()
	if !ok || name != "pixel-p2p" {
		t.Errorf("P2PDeviceName = %q, %v, want \"pixel-p2p\", true", name, ok)
	}
}

func TestSettingsSnapshotBuilder_Overwrite(t *testing.T) {
	s := NewSettingsSnapshotBuilder().
		SetWakeupEnabled(true).
		SetWakeupEnabled(false).
		SetP2PDeviceName("first").
		SetP2PDeviceName("second").
		Build()

	if s.WakeupEnabled() {
		t.Error("later setter call did not overwrite earlier value")
	}
	if name, _ := s.P2PDeviceName(); name != "second" {
		t.Errorf("P2PDeviceName = %q, want %q", name, "second")
	}
}

func TestSettingsSnapshotBuilder_ClearP2PDeviceName(t *testing.T) {
	s := NewSettingsSnapshotBuilder().
		SetP2PDeviceName("gone").
		ClearP2PDeviceName().
		Build()

	if name, ok := s.P2PDeviceName(); ok {
		t.Errorf("P2PDeviceName present after clear: %q", name)
	}
}

func TestSettingsSnapshotBuilder_BuildIsDetached(t *testing.T) {
	b := NewSettingsSnapshotBuilder().SetVerboseLoggingEnabled(true)
	first := b.Build()

	// The builder staying usable must not mutate an already-built snapshot.
	b.SetVerboseLoggingEnabled(false)
	if !first.VerboseLoggingEnabled() {
		t.Error("snapshot changed after a later builder mutation")
	}
}

func TestSettingsSnapshot_Equal(t *testing.T) {
	base := func() *SettingsSnapshotBuilder { return NewSettingsSnapshotBuilder() }

	tests := []struct {
		name string
		a, b *SettingsSnapshot
		want bool
	}{
		{"defaults equal", base().Build(), base().Build(), true},
		{"field differs", base().SetWakeupEnabled(true).Build(), base().Build(), false},
		{"empty name vs absent name", base().SetP2PDeviceName("").Build(), base().Build(), false},
		{"same name", base().SetP2PDeviceName("n").Build(), base().SetP2PDeviceName("n").Build(), true},
		{"nil vs value", nil, base().Build(), false},
		{"nil pair", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}
