// Package parcel is the transfer codec for migration snapshots: a linear
// byte format that crosses the process/version boundary between the legacy
// producer and the consuming wifi stack. The format is versioned and must
// stay readable across exactly one upgrade step.
package parcel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Version is the current wire format version, written as the first byte of
// every stream.
const Version = 1

// Decode limits. The migration payload is small; anything past these caps
// is corrupt input, not real data.
const (
	// MaxNetworks caps the saved-network count in a config stream.
	MaxNetworks = 4096

	// MaxStringLen caps any length-prefixed string (64KB).
	MaxStringLen = 64 * 1024
)

// ErrMalformed is the sentinel for truncated or corrupt transfer data. The
// consumer must treat it as fatal to the migration attempt and proceed
// without migrated data; no retry.
var ErrMalformed = errors.New("parcel: malformed transfer data")

type writer struct {
	buf bytes.Buffer
}

func (w *writer) writeBool(v bool) {
	b := byte(0)
	if v {
		b = 1
	}
	w.buf.WriteByte(b)
}

func (w *writer) writeUvarint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

func (w *writer) writeString(s string) {
	w.writeUvarint(uint64(len(s)))
	w.buf.WriteString(s)
}

// writeNullableString writes a presence byte followed by the string when
// present.
func (w *writer) writeNullableString(s string, present bool) {
	w.writeBool(present)
	if present {
		w.writeString(s)
	}
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}

type reader struct {
	r *bytes.Reader
}

func newReader(data []byte) *reader {
	return &reader{r: bytes.NewReader(data)}
}

func (r *reader) readByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: truncated stream", ErrMalformed)
	}
	return b, nil
}

// readBool rejects any byte other than 0x00 and 0x01 so that a bit flip in
// a flag is surfaced instead of silently mapped to true.
func (r *reader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: invalid boolean byte 0x%02x", ErrMalformed, b)
	}
}

func (r *reader) readUvarint() (uint64, error) {
	v, err := binary.ReadUvarint(r.r)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid varint", ErrMalformed)
	}
	return v, nil
}

func (r *reader) readString() (string, error) {
	n, err := r.readUvarint()
	if err != nil {
		return "", err
	}
	if n > MaxStringLen {
		return "", fmt.Errorf("%w: string length %d exceeds limit %d", ErrMalformed, n, MaxStringLen)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return "", fmt.Errorf("%w: truncated string", ErrMalformed)
	}
	return string(buf), nil
}

func (r *reader) readNullableString() (string, bool, error) {
	present, err := r.readBool()
	if err != nil {
		return "", false, err
	}
	if !present {
		return "", false, nil
	}
	s, err := r.readString()
	return s, true, err
}

// finish fails if the stream has unread bytes left. Every well-formed
// parcel is consumed exactly.
func (r *reader) finish() error {
	if r.r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformed, r.r.Len())
	}
	return nil
}

func (r *reader) readVersion() error {
	v, err := r.readByte()
	if err != nil {
		return err
	}
	if v != Version {
		return fmt.Errorf("%w: unsupported format version %d", ErrMalformed, v)
	}
	return nil
}
