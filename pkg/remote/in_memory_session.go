package remote

import (
	"fmt"
	"os"
	"path"
	"sort"
)

// InMemorySession is a fake Session backed by a map of path -> contents.
// InMemoryDialer hands it out so pipeline tests can script remote listings
// and per-file download failures without a real server.
type InMemorySession struct {
	// Files maps a full remote path, e.g. "/upload/report.csv", to its
	// contents.
	Files map[string]string

	// FailDownloads holds remote paths whose Download should fail.
	FailDownloads map[string]bool

	// ExtraEntries are appended verbatim to every List result. Lets tests
	// put entries like "." or traversal names into a listing.
	ExtraEntries []string

	ListErr error
	Closed  bool
}

func (s *InMemorySession) List(dir string) ([]string, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	var names []string
	for p := range s.Files {
		if path.Dir(p) == dir {
			names = append(names, path.Base(p))
		}
	}

	sort.Strings(names)
	names = append(names, s.ExtraEntries...)
	return names, nil
}

func (s *InMemorySession) Download(remotePath, localPath string) error {
	if s.FailDownloads[remotePath] {
		return fmt.Errorf("download of %s failed", remotePath)
	}

	contents, ok := s.Files[remotePath]
	if !ok {
		return fmt.Errorf("no such remote file: %s", remotePath)
	}

	return os.WriteFile(localPath, []byte(contents), 0o644)
}

func (s *InMemorySession) Close() error {
	s.Closed = true
	return nil
}

// InMemoryDialer returns its session for every dial, or DialErr when set.
type InMemoryDialer struct {
	Session *InMemorySession
	DialErr error

	DialCount int
}

func (d *InMemoryDialer) Dial(addr, username, password string) (Session, error) {
	d.DialCount++
	if d.DialErr != nil {
		return nil, d.DialErr
	}

	return d.Session, nil
}
