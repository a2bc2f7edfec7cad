package fs

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/pkg/errors"
)

// Mode holds raw POSIX permission bits as passed to mkdir(2) and open(2). It is
// handed to the filesystem unchanged, so the process umask still applies.
type Mode uint32

const (
	// ModeMask isolates the permission, setuid, setgid and sticky bits
	ModeMask = Mode(07777)
	// ModePermissionsMask isolates the portable permission bits
	ModePermissionsMask = Mode(0777)

	// ModeSetuid is the set-user-ID bit
	ModeSetuid = Mode(04000)
	// ModeSetgid is the set-group-ID bit
	ModeSetgid = Mode(02000)
	// ModeSticky is the sticky bit
	ModeSticky = Mode(01000)

	// DefaultMode is rwxrwxrwx before the umask is applied
	DefaultMode = Mode(0777)
)

// ParseMode parses a user-specified octal string and verifies that it is
// limited to the bits specified in mask. It allows, but does not require, the
// string to begin with a 0 (or several 0s). The provided string must not be
// empty.
func ParseMode(value string, mask Mode) (Mode, error) {
	if m, err := strconv.ParseUint(value, 8, 32); err != nil {
		return 0, errors.Wrap(err, "unable to parse numeric value")
	} else if mode := Mode(m); mode&mask != mode {
		return 0, ErrInvalidMode
	} else {
		return mode, nil
	}
}

// Valid reports whether the mode only uses bits within ModeMask
func (m Mode) Valid() bool {
	return m&ModeMask == m
}

// Perm converts the mode to the os package's representation
func (m Mode) Perm() fs.FileMode {
	result := fs.FileMode(m & ModePermissionsMask)
	if m&ModeSetuid != 0 {
		result |= fs.ModeSetuid
	}
	if m&ModeSetgid != 0 {
		result |= fs.ModeSetgid
	}
	if m&ModeSticky != 0 {
		result |= fs.ModeSticky
	}
	return result
}

// String formats the mode as a four digit octal number
func (m Mode) String() string {
	return fmt.Sprintf("%04o", uint32(m))
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements the text unmarshalling interface used when loading
// modes from configuration files and the environment
func (m *Mode) UnmarshalText(textBytes []byte) error {
	result, err := ParseMode(string(textBytes), ModeMask)
	if err != nil {
		return err
	}
	*m = result
	return nil
}
