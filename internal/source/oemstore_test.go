package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/airshift-io/airshift/pkg/migration"
)

func writeStore(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wifi_config_store.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write legacy store: %v", err)
	}
	return NewStore(path)
}

func TestStore_MissingFileIsAbsent(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope.json"))
	snap, err := s.LoadConfigSnapshot()
	if err != nil {
		t.Fatalf("LoadConfigSnapshot() error: %v", err)
	}
	if snap != nil {
		t.Errorf("missing store loaded as %+v, want absent", snap)
	}
}

func TestStore_FullStore(t *testing.T) {
	s := writeStore(t, `{
		"networks": [
			{"ssid": "home", "security": "psk", "passphrase": "hunter22", "auto_connect": true},
			{"ssid": "corp", "security": "eap", "hidden": true}
		],
		"access_point": {"ssid": "hotspot", "passphrase": "tether", "band": "5ghz", "channel": 44, "max_clients": 4}
	}`)

	snap, err := s.LoadConfigSnapshot()
	if err != nil {
		t.Fatalf("LoadConfigSnapshot() error: %v", err)
	}
	networks, ok := snap.SavedNetworks()
	if !ok || len(networks) != 2 {
		t.Fatalf("SavedNetworks() = %v, %v, want 2 records", networks, ok)
	}
	if networks[0].Security != migration.SecurityPSK || !networks[0].AutoConnect {
		t.Errorf("first network mapped badly: %+v", networks[0])
	}
	ap, ok := snap.AccessPoint()
	if !ok {
		t.Fatal("AccessPoint() absent")
	}
	if ap.Band != migration.Band5GHz || ap.Channel != 44 || ap.MaxClients != 4 {
		t.Errorf("access point mapped badly: %+v", ap)
	}
}

func TestStore_FieldAbsence(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantNetworks bool
		wantEmpty    bool
		wantAP       bool
	}{
		{"both missing", `{}`, false, false, false},
		{"networks null", `{"networks": null}`, false, false, false},
		{"networks empty", `{"networks": []}`, true, true, false},
		{"ap only", `{"access_point": {"ssid": "x"}}`, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := writeStore(t, tt.content).LoadConfigSnapshot()
			if err != nil {
				t.Fatalf("LoadConfigSnapshot() error: %v", err)
			}
			if snap == nil {
				t.Fatal("existing store loaded as absent snapshot")
			}
			networks, ok := snap.SavedNetworks()
			if ok != tt.wantNetworks {
				t.Errorf("networks present = %v, want %v", ok, tt.wantNetworks)
			}
			if tt.wantEmpty && len(networks) != 0 {
				t.Errorf("networks = %v, want empty", networks)
			}
			if _, ok := snap.AccessPoint(); ok != tt.wantAP {
				t.Errorf("ap present = %v, want %v", ok, tt.wantAP)
			}
		})
	}
}

func TestStore_BadContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{{{`},
		{"unknown security", `{"networks": [{"ssid": "x", "security": "wpa9"}]}`},
		{"unknown band", `{"access_point": {"ssid": "x", "band": "7ghz"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := writeStore(t, tt.content).LoadConfigSnapshot(); err == nil {
				t.Error("LoadConfigSnapshot() succeeded on bad content")
			}
		})
	}
}

func TestStore_PurgeMakesLaterBootsAbsent(t *testing.T) {
	s := writeStore(t, `{"networks": [{"ssid": "home", "security": "psk"}]}`)

	first, err := s.LoadConfigSnapshot()
	if err != nil || first == nil {
		t.Fatalf("first boot load = %v, %v", first, err)
	}

	if err := s.Purge(); err != nil {
		t.Fatalf("Purge() error: %v", err)
	}

	second, err := s.LoadConfigSnapshot()
	if err != nil {
		t.Fatalf("second boot load error: %v", err)
	}
	if second != nil {
		t.Errorf("second boot load = %+v, want absent", second)
	}

	// Purge is idempotent.
	if err := s.Purge(); err != nil {
		t.Errorf("second Purge() error: %v", err)
	}
}
