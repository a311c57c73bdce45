package migration

// SecurityType identifies the authentication scheme of a saved network.
type SecurityType uint8

const (
	SecurityOpen SecurityType = iota
	SecurityWEP
	SecurityPSK
	SecuritySAE
	SecurityEAP
)

func (t SecurityType) String() string {
	switch t {
	case SecurityOpen:
		return "open"
	case SecurityWEP:
		return "wep"
	case SecurityPSK:
		return "psk"
	case SecuritySAE:
		return "sae"
	case SecurityEAP:
		return "eap"
	}
	return "unknown"
}

// Band identifies the radio band an access point is configured on.
type Band uint8

const (
	BandAny Band = iota
	Band2GHz
	Band5GHz
	Band6GHz
)

func (b Band) String() string {
	switch b {
	case BandAny:
		return "any"
	case Band2GHz:
		return "2.4GHz"
	case Band5GHz:
		return "5GHz"
	case Band6GHz:
		return "6GHz"
	}
	return "unknown"
}

// NetworkRecord is one saved network parsed from the legacy config store.
// The record is opaque to the migration core: it is carried, encoded and
// applied field-wise, never interpreted.
type NetworkRecord struct {
	// SSID is the network name, UTF-8.
	SSID string

	// Security is the authentication scheme.
	Security SecurityType

	// Passphrase is the pre-shared key or password, if the scheme has one.
	// Empty for open networks.
	Passphrase string

	// Hidden marks networks that do not broadcast their SSID.
	Hidden bool

	// AutoConnect mirrors the legacy store's auto-join flag.
	AutoConnect bool
}

// AccessPointRecord is the user's soft access point configuration parsed
// from the legacy config store.
type AccessPointRecord struct {
	SSID       string
	Passphrase string
	Band       Band

	// Channel is the configured channel, 0 when the legacy store left
	// channel selection automatic.
	Channel uint16

	// MaxClients is the client limit, 0 when unlimited.
	MaxClients uint16

	// Hidden marks an AP that does not broadcast its SSID.
	Hidden bool
}
