package stor

import (
	"errors"
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/xjoerootx/smart-test/pkg/hvdb/hvmodel"
	"gorm.io/gorm"
)

type GormFileStor struct {
	db         *gorm.DB
	claimLease time.Duration
}

func NewGormFileStor(db *gorm.DB, claimLease time.Duration) *GormFileStor {
	if claimLease <= 0 {
		claimLease = DefaultClaimLease
	}
	return &GormFileStor{db: db, claimLease: claimLease}
}

// ClaimFile is check-and-insert made atomic. The fast path looks up the
// record outside a transaction; the two mutation paths (insert of a new
// record, reclaim of a stale one) are each guarded so that concurrent runs
// racing on the same (serverID, name) resolve to exactly one winner:
//
//   - insert relies on the unique index on (server_id, name), so only one of
//     two racing inserts can succeed, the loser sees the winner's record;
//   - reclaim is a conditional update that only wins if no other run
//     refreshed claimed_at since we read the row.
func (s *GormFileStor) ClaimFile(serverID int, name string) (*hvmodel.File, bool, error) {
	now := time.Now()

	var file hvmodel.File
	err := s.db.Where("server_id = ? and name = ?", serverID, name).First(&file).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.createClaim(serverID, name, now)
	case err != nil:
		return nil, false, err
	}

	return s.reclaimIfExpired(&file, now)
}

func (s *GormFileStor) createClaim(serverID int, name string, now time.Time) (*hvmodel.File, bool, error) {
	fuuid, err := uuid.GenerateUUID()
	if err != nil {
		return nil, false, err
	}

	file := &hvmodel.File{
		UUID:      fuuid,
		Name:      name,
		ServerID:  serverID,
		Status:    hvmodel.FileStatusDownloading,
		ClaimedAt: &now,
	}

	if err := s.db.Create(file).Error; err != nil {
		// A failed insert usually means a concurrent run created the record
		// between our lookup and the insert, tripping the unique index. If
		// the record is there now, the other run owns the claim.
		var existing hvmodel.File
		if lookupErr := s.db.Where("server_id = ? and name = ?", serverID, name).First(&existing).Error; lookupErr == nil {
			return &existing, false, nil
		}
		return nil, false, err
	}

	return file, true, nil
}

func (s *GormFileStor) reclaimIfExpired(file *hvmodel.File, now time.Time) (*hvmodel.File, bool, error) {
	if !file.IsClaimable(s.claimLease, now) {
		return file, false, nil
	}

	cutoff := now.Add(-s.claimLease)

	var rowsAffected int64
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		res := tx.Model(&hvmodel.File{}).
			Where("id = ? and status <> ?", file.ID, hvmodel.FileStatusUploaded).
			Where("claimed_at is null or claimed_at <= ?", cutoff).
			Updates(map[string]interface{}{
				"status":     hvmodel.FileStatusDownloading,
				"claimed_at": now,
			})
		rowsAffected = res.RowsAffected
		return res.Error
	})

	if err != nil {
		return nil, false, err
	}

	if rowsAffected == 0 {
		// Another run won the reclaim (or the record just got uploaded).
		current, err := s.GetFileByID(file.ID)
		return current, false, err
	}

	file.Status = hvmodel.FileStatusDownloading
	file.ClaimedAt = &now

	return file, true, nil
}

func (s *GormFileStor) GetFileByID(fileID int) (*hvmodel.File, error) {
	var file hvmodel.File
	if err := s.db.First(&file, fileID).Error; err != nil {
		return nil, err
	}

	return &file, nil
}

// MarkFileUploaded only transitions records that are currently downloading,
// which keeps the status ordering downloading -> uploaded and makes the call
// idempotent: an already-uploaded record matches zero rows and nothing
// changes.
func (s *GormFileStor) MarkFileUploaded(fileID int) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Model(&hvmodel.File{}).
			Where("id = ? and status = ?", fileID, hvmodel.FileStatusDownloading).
			Update("status", hvmodel.FileStatusUploaded).Error
	})
}

func (s *GormFileStor) GetFilesForServer(serverID int) ([]hvmodel.File, error) {
	var files []hvmodel.File
	err := s.db.Where("server_id = ?", serverID).Find(&files).Error
	return files, err
}
