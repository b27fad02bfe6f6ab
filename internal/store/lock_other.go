//go:build !unix

package store

import "os"

// Advisory locking is only implemented on unix; a single instance is assumed elsewhere.

func flockExclusive(*os.File) error { return nil }

func flockUnlock(*os.File) error { return nil }
