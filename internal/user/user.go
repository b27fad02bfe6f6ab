// Package user resolves the name recorded as the archiver of cleared tasks
package user

import (
	"os"
	"os/user"
)

// Name returns the name to record for the current user.
// KANBAN_USER wins when set; otherwise the OS account name is used, then
// the USER or USERNAME environment variable, then "unknown".
func Name() string {
	if name := os.Getenv("KANBAN_USER"); name != "" {
		return name
	}
	if current, err := user.Current(); err == nil && current.Username != "" {
		return current.Username
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if name := os.Getenv(key); name != "" {
			return name
		}
	}
	return "unknown"
}
