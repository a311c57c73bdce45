package parcel

import (
	"fmt"

	"github.com/airshift-io/airshift/pkg/migration"
)

// EncodeConfig serializes a config snapshot. A nil snapshot ("no config
// migration at all") has its own top-level encoding, distinct from a
// present snapshot whose two fields are both absent.
//
// Stream layout after the version byte:
//
//	presence  bool   whole-snapshot flag; stream ends here when absent
//	networks  bool + uvarint count + records, when the field is present
//	ap        bool + record, when the field is present
func EncodeConfig(s *migration.ConfigSnapshot) []byte {
	w := &writer{}
	w.buf.WriteByte(Version)
	w.writeBool(s != nil)
	if s == nil {
		return w.bytes()
	}

	networks, ok := s.SavedNetworks()
	w.writeBool(ok)
	if ok {
		w.writeUvarint(uint64(len(networks)))
		for i := range networks {
			encodeNetwork(w, &networks[i])
		}
	}

	ap, ok := s.AccessPoint()
	w.writeBool(ok)
	if ok {
		encodeAccessPoint(w, &ap)
	}
	return w.bytes()
}

// DecodeConfig reconstructs a config snapshot from its transfer encoding.
// It returns nil, nil for the "no config migration" encoding and
// ErrMalformed for truncated or corrupt input.
func DecodeConfig(data []byte) (*migration.ConfigSnapshot, error) {
	r := newReader(data)
	if err := r.readVersion(); err != nil {
		return nil, err
	}
	present, err := r.readBool()
	if err != nil {
		return nil, err
	}
	if !present {
		if err := r.finish(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	b := migration.NewConfigSnapshotBuilder()

	hasNetworks, err := r.readBool()
	if err != nil {
		return nil, err
	}
	if hasNetworks {
		count, err := r.readUvarint()
		if err != nil {
			return nil, err
		}
		if count > MaxNetworks {
			return nil, fmt.Errorf("%w: network count %d exceeds limit %d", ErrMalformed, count, MaxNetworks)
		}
		networks := make([]migration.NetworkRecord, 0, count)
		for i := uint64(0); i < count; i++ {
			n, err := decodeNetwork(r)
			if err != nil {
				return nil, err
			}
			networks = append(networks, n)
		}
		b.SetSavedNetworks(networks)
	}

	hasAP, err := r.readBool()
	if err != nil {
		return nil, err
	}
	if hasAP {
		ap, err := decodeAccessPoint(r)
		if err != nil {
			return nil, err
		}
		b.SetAccessPoint(&ap)
	}

	if err := r.finish(); err != nil {
		return nil, err
	}
	s, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return s, nil
}

// EncodeSettings serializes a settings snapshot: the seven fields in
// declared order after the version byte, the device name as a nullable
// string.
func EncodeSettings(s *migration.SettingsSnapshot) []byte {
	w := &writer{}
	w.buf.WriteByte(Version)
	w.writeBool(s.ScanAlwaysAvailable())
	w.writeBool(s.P2PFactoryResetPending())
	name, ok := s.P2PDeviceName()
	w.writeNullableString(name, ok)
	w.writeBool(s.SoftAPTimeoutEnabled())
	w.writeBool(s.WakeupEnabled())
	w.writeBool(s.ScanThrottleEnabled())
	w.writeBool(s.VerboseLoggingEnabled())
	return w.bytes()
}

// DecodeSettings reconstructs a settings snapshot from its transfer
// encoding.
func DecodeSettings(data []byte) (*migration.SettingsSnapshot, error) {
	r := newReader(data)
	if err := r.readVersion(); err != nil {
		return nil, err
	}

	b := migration.NewSettingsSnapshotBuilder()

	scanAlways, err := r.readBool()
	if err != nil {
		return nil, err
	}
	resetPending, err := r.readBool()
	if err != nil {
		return nil, err
	}
	name, hasName, err := r.readNullableString()
	if err != nil {
		return nil, err
	}
	softAPTimeout, err := r.readBool()
	if err != nil {
		return nil, err
	}
	wakeup, err := r.readBool()
	if err != nil {
		return nil, err
	}
	scanThrottle, err := r.readBool()
	if err != nil {
		return nil, err
	}
	verbose, err := r.readBool()
	if err != nil {
		return nil, err
	}
	if err := r.finish(); err != nil {
		return nil, err
	}

	b.SetScanAlwaysAvailable(scanAlways).
		SetP2PFactoryResetPending(resetPending).
		SetSoftAPTimeoutEnabled(softAPTimeout).
		SetWakeupEnabled(wakeup).
		SetScanThrottleEnabled(scanThrottle).
		SetVerboseLoggingEnabled(verbose)
	if hasName {
		b.SetP2PDeviceName(name)
	}
	return b.Build(), nil
}

func encodeNetwork(w *writer, n *migration.NetworkRecord) {
	w.writeString(n.SSID)
	w.buf.WriteByte(byte(n.Security))
	w.writeString(n.Passphrase)
	w.writeBool(n.Hidden)
	w.writeBool(n.AutoConnect)
}

func decodeNetwork(r *reader) (migration.NetworkRecord, error) {
	var n migration.NetworkRecord
	var err error
	if n.SSID, err = r.readString(); err != nil {
		return n, err
	}
	sec, err := r.readByte()
	if err != nil {
		return n, err
	}
	if sec > byte(migration.SecurityEAP) {
		return n, fmt.Errorf("%w: unknown security type %d", ErrMalformed, sec)
	}
	n.Security = migration.SecurityType(sec)
	if n.Passphrase, err = r.readString(); err != nil {
		return n, err
	}
	if n.Hidden, err = r.readBool(); err != nil {
		return n, err
	}
	if n.AutoConnect, err = r.readBool(); err != nil {
		return n, err
	}
	return n, nil
}

func encodeAccessPoint(w *writer, ap *migration.AccessPointRecord) {
	w.writeString(ap.SSID)
	w.writeString(ap.Passphrase)
	w.buf.WriteByte(byte(ap.Band))
	w.writeUvarint(uint64(ap.Channel))
	w.writeUvarint(uint64(ap.MaxClients))
	w.writeBool(ap.Hidden)
}

func decodeAccessPoint(r *reader) (migration.AccessPointRecord, error) {
	var ap migration.AccessPointRecord
	var err error
	if ap.SSID, err = r.readString(); err != nil {
		return ap, err
	}
	if ap.Passphrase, err = r.readString(); err != nil {
		return ap, err
	}
	band, err := r.readByte()
	if err != nil {
		return ap, err
	}
	if band > byte(migration.Band6GHz) {
		return ap, fmt.Errorf("%w: unknown band %d", ErrMalformed, band)
	}
	ap.Band = migration.Band(band)
	ch, err := r.readUvarint()
	if err != nil {
		return ap, err
	}
	if ch > 0xffff {
		return ap, fmt.Errorf("%w: channel %d out of range", ErrMalformed, ch)
	}
	ap.Channel = uint16(ch)
	mc, err := r.readUvarint()
	if err != nil {
		return ap, err
	}
	if mc > 0xffff {
		return ap, fmt.Errorf("%w: max clients %d out of range", ErrMalformed, mc)
	}
	ap.MaxClients = uint16(mc)
	if ap.Hidden, err = r.readBool(); err != nil {
		return ap, err
	}
	return ap, nil
}
