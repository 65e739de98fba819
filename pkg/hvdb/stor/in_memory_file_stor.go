package stor

import (
	"sync"
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/xjoerootx/smart-test/pkg/hvdb/hvmodel"
	"gorm.io/gorm"
)

// InMemoryFileStor implements FileStor against a slice. It mirrors the claim
// semantics of GormFileStor closely enough for pipeline tests, including the
// lease-based reclaim. The mutex stands in for the database's atomicity.
type InMemoryFileStor struct {
	ErrToReturn error
	ClaimLease  time.Duration

	mu     sync.Mutex
	files  []*hvmodel.File
	lastID int
}

func NewInMemoryFileStor(files []*hvmodel.File) *InMemoryFileStor {
	s := &InMemoryFileStor{
		files:      files,
		lastID:     10000,
		ClaimLease: DefaultClaimLease,
	}

	for _, f := range files {
		if f.ID >= s.lastID {
			s.lastID = f.ID + 1
		}
	}

	return s
}

func (s *InMemoryFileStor) ClaimFile(serverID int, name string) (*hvmodel.File, bool, error) {
	if s.ErrToReturn != nil {
		return nil, false, s.ErrToReturn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	for _, f := range s.files {
		if f.ServerID != serverID || f.Name != name {
			continue
		}

		if !f.IsClaimable(s.ClaimLease, now) {
			return f, false, nil
		}

		f.Status = hvmodel.FileStatusDownloading
		f.ClaimedAt = &now
		return f, true, nil
	}

	fuuid, err := uuid.GenerateUUID()
	if err != nil {
		return nil, false, err
	}

	id := s.lastID
	s.lastID = s.lastID + 1

	file := &hvmodel.File{
		ID:        id,
		UUID:      fuuid,
		Name:      name,
		ServerID:  serverID,
		Status:    hvmodel.FileStatusDownloading,
		ClaimedAt: &now,
	}
	s.files = append(s.files, file)

	return file, true, nil
}

func (s *InMemoryFileStor) MarkFileUploaded(fileID int) error {
	if s.ErrToReturn != nil {
		return s.ErrToReturn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.files {
		if f.ID == fileID && f.Status == hvmodel.FileStatusDownloading {
			f.Status = hvmodel.FileStatusUploaded
		}
	}

	return nil
}

func (s *InMemoryFileStor) GetFileByID(fileID int) (*hvmodel.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.files {
		if f.ID == fileID {
			return f, nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (s *InMemoryFileStor) GetFilesForServer(serverID int) ([]hvmodel.File, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var files []hvmodel.File
	for _, f := range s.files {
		if f.ServerID == serverID {
			files = append(files, *f)
		}
	}

	return files, nil
}
