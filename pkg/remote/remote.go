// Package remote wraps the SFTP client used to reach the servers that files
// are harvested from. Discovery only ever talks to the Dialer/Session
// interfaces so tests can swap in fakes.
package remote

import "strings"

// Dialer opens a session against one server's SFTP endpoint.
type Dialer interface {
	Dial(addr, username, password string) (Session, error)
}

// Session is one open connection. Sessions are scoped to a single discovery
// run and must be closed when the run ends.
type Session interface {
	// List returns the entry names directly under path.
	List(path string) ([]string, error)

	// Download streams the remote file at remotePath into localPath.
	Download(remotePath, localPath string) error

	Close() error
}

// IsSafeFileName rejects directory entries that must never be treated as
// harvestable files: the . and .. entries and any name that could escape the
// upload directory when joined into a path.
func IsSafeFileName(name string) bool {
	switch {
	case name == "" || name == "." || name == "..":
		return false
	case strings.ContainsAny(name, "/\\"):
		return false
	case strings.ContainsRune(name, 0):
		return false
	}

	return true
}
