package parcel

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/airshift-io/airshift/pkg/migration"
)

func buildConfig(t *testing.T, networks []migration.NetworkRecord, ap *migration.AccessPointRecord) *migration.ConfigSnapshot {
	t.Helper()
	b := migration.NewConfigSnapshotBuilder()
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

func TestConfigRoundTrip(t *testing.T) {
	ap := migration.AccessPointRecord{
		SSID:       "hotspot",
		Passphrase: "tether123",
		Band:       migration.Band5GHz,
		Channel:    149,
		MaxClients: 8,
	}

	tests := []struct {
		name     string
		snapshot *migration.ConfigSnapshot
	}{
		{"absent snapshot", nil},
		{"fully absent fields", buildConfig(t, nil, nil)},
		{"empty networks present", buildConfig(t, []migration.NetworkRecord{}, nil)},
		{
			"networks only",
			buildConfig(t, []migration.NetworkRecord{
				{SSID: "home", Security: migration.SecurityPSK, Passphrase: "hunter22", AutoConnect: true},
				{SSID: "café ☕", Security: migration.SecuritySAE, Passphrase: "pässwörd", Hidden: true},
				{SSID: "open-guest", Security: migration.SecurityOpen},
			}, nil),
		},
		{"ap only", buildConfig(t, nil, &ap)},
		{"both fields", buildConfig(t, []migration.NetworkRecord{{SSID: "a"}}, &ap)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := EncodeConfig(tt.snapshot)
			got, err := DecodeConfig(data)
			if err != nil {
				t.Fatalf("DecodeConfig() error: %v", err)
			}
			if !got.Equal(tt.snapshot) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, tt.snapshot)
			}
		})
	}
}

func TestConfigDistinctness(t *testing.T) {
	absent := EncodeConfig(nil)
	empty := EncodeConfig(buildConfig(t, nil, nil))

	if bytes.Equal(absent, empty) {
		t.Fatal("absent snapshot and fully-absent-fields snapshot encode identically")
	}

	gotAbsent, err := DecodeConfig(absent)
	if err != nil {
		t.Fatalf("DecodeConfig(absent) error: %v", err)
	}
	if gotAbsent != nil {
		t.Errorf("absent encoding decoded to %+v, want nil", gotAbsent)
	}

	gotEmpty, err := DecodeConfig(empty)
	if err != nil {
		t.Fatalf("DecodeConfig(empty) error: %v", err)
	}
	if gotEmpty == nil {
		t.Error("present-but-empty encoding decoded to nil")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *migration.SettingsSnapshotBuilder)
	}{
		{"defaults", func(b *migration.SettingsSnapshotBuilder) {}},
		{"all toggled", func(b *migration.SettingsSnapshotBuilder) {
			b.SetScanAlwaysAvailable(true).
				SetP2PFactoryResetPending(true).
				SetSoftAPTimeoutEnabled(false).
				SetWakeupEnabled(true).
				SetScanThrottleEnabled(false).
				SetVerboseLoggingEnabled(true)
		}},
		{"name present", func(b *migration.SettingsSnapshotBuilder) { b.SetP2PDeviceName("pixel-p2p") }},
		{"name empty but present", func(b *migration.SettingsSnapshotBuilder) { b.SetP2PDeviceName("") }},
		{"name with unicode", func(b *migration.SettingsSnapshotBuilder) { b.SetP2PDeviceName("téléphone 📱") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := migration.NewSettingsSnapshotBuilder()
			tt.build(b)
			want := b.Build()

			got, err := DecodeSettings(EncodeSettings(want))
			if err != nil {
				t.Fatalf("DecodeSettings() error: %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestDecodeConfig_Malformed(t *testing.T) {
	valid := EncodeConfig(buildConfig(t, []migration.NetworkRecord{{SSID: "home", Passphrase: "pw"}}, nil))

	corruptPresence := append([]byte(nil), valid...)
	corruptPresence[1] = 0x7f

	badVersion := append([]byte(nil), valid...)
	badVersion[0] = Version + 1

	tests := []struct {
		name string
		data []byte
	}{
		{"empty input", nil},
		{"version only", []byte{Version}},
		{"unsupported version", badVersion},
		{"invalid presence byte", corruptPresence},
		{"truncated mid-record", valid[:len(valid)-3]},
		{"trailing garbage", append(append([]byte(nil), valid...), 0xde, 0xad)},
		{"trailing after absent", []byte{Version, 0x00, 0x00}},
		{"huge network count", []byte{Version, 0x01, 0x01, 0xff, 0xff, 0xff, 0xff, 0x0f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeConfig(tt.data)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("DecodeConfig() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDecodeSettings_Malformed(t *testing.T) {
	valid := EncodeSettings(migration.NewSettingsSnapshotBuilder().SetP2PDeviceName("p2p").Build())

	badBool := append([]byte(nil), valid...)
	badBool[1] = 0x02

	tests := []struct {
		name string
		data []byte
	}{
		{"empty input", nil},
		{"truncated", valid[:4]},
		{"invalid boolean byte", badBool},
		{"trailing garbage", append(append([]byte(nil), valid...), 0x00)},
		{"oversized name length", []byte{Version, 0x00, 0x00, 0x01, 0xff, 0xff, 0xff, 0x7f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSettings(tt.data)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("DecodeSettings() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDecodeConfig_LongString(t *testing.T) {
	big := strings.Repeat("x", MaxStringLen)
	s := buildConfig(t, []migration.NetworkRecord{{SSID: big}}, nil)

	got, err := DecodeConfig(EncodeConfig(s))
	if err != nil {
		t.Fatalf("DecodeConfig() error at the string limit: %v", err)
	}
	networks, _ := got.SavedNetworks()
	if networks[0].SSID != big {
		t.Error("max-length SSID did not survive the round trip")
	}
}

func TestEncodeSettings_FieldOrder(t *testing.T) {
	// The wire order is contractual: scanAlways, resetPending, name,
	// softAPTimeout, wakeup, scanThrottle, verbose.
	s := migration.NewSettingsSnapshotBuilder().
		SetScanAlwaysAvailable(true).
		SetSoftAPTimeoutEnabled(false).
		SetScanThrottleEnabled(false).
		SetVerboseLoggingEnabled(true).
		Build()

	want := []byte{Version, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}
	if got := EncodeSettings(s); !bytes.Equal(got, want) {
		t.Errorf("EncodeSettings() = %#v, want %#v", got, want)
	}
}
