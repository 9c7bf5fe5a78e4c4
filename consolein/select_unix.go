//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package consolein

import (
	"golang.org/x/sys/unix"
)

// canSelect returns true if the given descriptor has input ready,
// waiting at most a couple of hundred microseconds.
func canSelect(fd int) bool {

	fds := &unix.FdSet{}
	fds.Set(fd)

	tv := unix.Timeval{Usec: 200}

	nRead, err := unix.Select(fd+1, fds, nil, nil, &tv)
	if err != nil {
		return false
	}

	return nRead > 0
}
