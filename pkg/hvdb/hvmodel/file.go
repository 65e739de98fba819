package hvmodel

import "time"

const (
	// FileStatusPending is the initial status for a record that exists but
	// hasn't been claimed by a discovery run. Claiming moves it to
	// downloading.
	FileStatusPending = "pending"

	// FileStatusDownloading marks a record as claimed: exactly one discovery
	// run owns its transfer until the claim lease expires.
	FileStatusDownloading = "downloading"

	// FileStatusUploaded is the terminal status, set once the file's bytes
	// have landed in object storage.
	FileStatusUploaded = "uploaded"
)

// File tracks the ingestion progress of one remote filename on one server.
// The unique index on (server_id, name) is what makes claims atomic; see
// stor.GormFileStor.ClaimFile.
type File struct {
	ID        int        `json:"id"`
	UUID      string     `json:"uuid" gorm:"index"`
	Name      string     `json:"name" gorm:"uniqueIndex:idx_files_server_name;not null"`
	Status    string     `json:"status" gorm:"default:pending"`
	ServerID  int        `json:"server_id" gorm:"uniqueIndex:idx_files_server_name"`
	Server    *Server    `json:"-" gorm:"foreignKey:ServerID;references:ID"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (File) TableName() string {
	return "files"
}

// IsClaimable returns true when a new discovery run may take ownership of the
// record: either it was never claimed, or a previous claim went stale and its
// lease has run out.
func (f File) IsClaimable(leaseDuration time.Duration, now time.Time) bool {
	switch f.Status {
	case FileStatusUploaded:
		return false
	case FileStatusPending:
		return true
	default:
		if f.ClaimedAt == nil {
			return true
		}
		return now.After(f.ClaimedAt.Add(leaseDuration))
	}
}
