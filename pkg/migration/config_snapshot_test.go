package migration

import (
	"errors"
	"testing"
)

func TestConfigSnapshotBuilder_RoundTrip(t *testing.T) {
	networks := []NetworkRecord{
		{SSID: "home", Security: SecurityPSK, Passphrase: "hunter22", AutoConnect: true},
		{SSID: "office", Security: SecurityEAP, Hidden: true},
	}
	ap := AccessPointRecord{SSID: "my-hotspot", Passphrase: "tether123", Band: Band5GHz, Channel: 36}

	s, err := NewConfigSnapshotBuilder().
		SetSavedNetworks(networks).
		SetAccessPoint(&ap).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	got, ok := s.SavedNetworks()
	if !ok {
		t.Fatal("SavedNetworks() reported absent after SetSavedNetworks")
	}
	if len(got) != 2 || got[0] != networks[0] || got[1] != networks[1] {
		t.Errorf("SavedNetworks() = %+v, want %+v", got, networks)
	}

	gotAP, ok := s.AccessPoint()
	if !ok {
		t.Fatal("AccessPoint() reported absent after SetAccessPoint")
	}
	if gotAP != ap {
		t.Errorf("AccessPoint() = %+v, want %+v", gotAP, ap)
	}
}

func TestConfigSnapshotBuilder_NoSetters(t *testing.T) {
	s, err := NewConfigSnapshotBuilder().Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if _, ok := s.SavedNetworks(); ok {
		t.Error("SavedNetworks() present on an empty builder")
	}
	if _, ok := s.AccessPoint(); ok {
		t.Error("AccessPoint() present on an empty builder")
	}
	// A fully-absent snapshot is still a snapshot, distinct from nil.
	if s == nil {
		t.Fatal("Build() returned nil snapshot")
	}
}

func TestConfigSnapshotBuilder_EmptyNetworksIsNotAbsent(t *testing.T) {
	s, err := NewConfigSnapshotBuilder().SetSavedNetworks([]NetworkRecord{}).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	networks, ok := s.SavedNetworks()
	if !ok {
		t.Fatal("explicit empty slice decoded as absent")
	}
	if len(networks) != 0 {
		t.Errorf("len = %d, want 0", len(networks))
	}
}

func TestConfigSnapshotBuilder_NilArguments(t *testing.T) {
	tests := []struct {
		name  string
		apply func(b *ConfigSnapshotBuilder) *ConfigSnapshotBuilder
	}{
		{
			name:  "nil saved networks",
			apply: func(b *ConfigSnapshotBuilder) *ConfigSnapshotBuilder { return b.SetSavedNetworks(nil) },
		},
		{
			name:  "nil access point",
			apply: func(b *ConfigSnapshotBuilder) *ConfigSnapshotBuilder { return b.SetAccessPoint(nil) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid := []NetworkRecord{{SSID: "keep-me"}}
			b := NewConfigSnapshotBuilder().SetSavedNetworks(valid)

			_, err := tt.apply(b).Build()
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("Build() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestConfigSnapshotBuilder_RejectedSetterKeepsPriorState(t *testing.T) {
	b := NewConfigSnapshotBuilder().SetSavedNetworks(nil)

	// A later valid setter must not resurrect the builder.
	b.SetSavedNetworks([]NetworkRecord{{SSID: "late"}})
	if _, err := b.Build(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Build() after rejected setter error = %v, want ErrInvalidArgument", err)
	}
}

func TestConfigSnapshot_Immutable(t *testing.T) {
	networks := []NetworkRecord{{SSID: "before"}}
	s, err := NewConfigSnapshotBuilder().SetSavedNetworks(networks).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	// Mutating the caller's slice or the accessor result must not reach
	// the snapshot.
	networks[0].SSID = "tampered"
	got, _ := s.SavedNetworks()
	got[0].SSID = "tampered-again"

	fresh, _ := s.SavedNetworks()
	if fresh[0].SSID != "before" {
		t.Errorf("snapshot mutated through shared slice: %q", fresh[0].SSID)
	}
}

func TestConfigSnapshot_Equal(t *testing.T) {
	build := func(networks []NetworkRecord, ap *AccessPointRecord) *ConfigSnapshot {
		b := NewConfigSnapshotBuilder()
		if networks != nil {
			b.SetSavedNetworks(networks)
		}
		if ap != nil {
			b.SetAccessPoint(ap)
		}
		s, err := b.Build()
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		return s
	}

	ap := AccessPointRecord{SSID: "hotspot"}

	tests := []struct {
		name string
		a, b *ConfigSnapshot
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs fully absent", nil, build(nil, nil), false},
		{"fully absent pair", build(nil, nil), build(nil, nil), true},
		{"empty vs absent networks", build([]NetworkRecord{}, nil), build(nil, nil), false},
		{"same networks", build([]NetworkRecord{{SSID: "a"}}, nil), build([]NetworkRecord{{SSID: "a"}}, nil), true},
		{"different networks", build([]NetworkRecord{{SSID: "a"}}, nil), build([]NetworkRecord{{SSID: "b"}}, nil), false},
		{"ap presence differs", build(nil, &ap), build(nil, nil), false},
		{"same ap", build(nil, &ap), build(nil, &ap), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}
