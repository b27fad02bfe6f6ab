//go:build unix

package store

import (
	"os"

	"golang.org/x/sys/unix"
)

// flockExclusive blocks until an exclusive lock on f is acquired
func flockExclusive(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

// flockUnlock releases a lock on f
func flockUnlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
