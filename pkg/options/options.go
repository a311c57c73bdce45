// Package options holds per-concern option structs shared by the Airshift
// commands. Each struct knows its defaults, its flags and its validation.
package options

import (
	"fmt"
	"net"

	"github.com/spf13/pflag"
)

// IOptions is the common surface of an option struct.
type IOptions interface {
	// Validate checks the user-supplied values.
	Validate() []error

	// AddFlags binds the fields to the given flag set.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}

// ValidateAddress checks that addr is a host:port the servers can bind.
func ValidateAddress(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return nil
}
