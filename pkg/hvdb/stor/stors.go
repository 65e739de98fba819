package stor

import (
	"time"

	"github.com/xjoerootx/smart-test/pkg/hvdb/hvmodel"
	"gorm.io/gorm"
)

// FileStor is the claim store for file ingestion records. ClaimFile is the
// dedup gate for the whole pipeline: for a given (serverID, name) at most one
// caller is granted the claim until it resolves or its lease expires.
type FileStor interface {
	// ClaimFile attempts to take ownership of (serverID, name) by moving it
	// to the downloading status. It returns the record and true when the
	// claim was granted, or the existing record and false when another run
	// already owns it or the file was already uploaded.
	ClaimFile(serverID int, name string) (*hvmodel.File, bool, error)

	// MarkFileUploaded transitions a claimed record to uploaded. Calling it
	// on an already-uploaded record is a no-op.
	MarkFileUploaded(fileID int) error

	GetFileByID(fileID int) (*hvmodel.File, error)
	GetFilesForServer(serverID int) ([]hvmodel.File, error)
}

type ServerStor interface {
	// CreateServer creates a new server record. Returns ErrServerNameTaken
	// when a server with the same name already exists.
	CreateServer(server *hvmodel.Server) (*hvmodel.Server, error)

	GetServerByID(serverID int) (*hvmodel.Server, error)
	ListServers() ([]hvmodel.Server, error)
}

type Stors struct {
	FileStor   FileStor
	ServerStor ServerStor
}

// DefaultClaimLease bounds how long a downloading claim is honored before a
// later discovery run may reclaim it. Without the lease a crashed transfer
// would leave its record stuck in downloading and skipped forever.
const DefaultClaimLease = time.Hour

func NewGormStors(db *gorm.DB, claimLease time.Duration) *Stors {
	return &Stors{
		FileStor:   NewGormFileStor(db, claimLease),
		ServerStor: NewGormServerStor(db),
	}
}
