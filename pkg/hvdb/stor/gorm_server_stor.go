package stor

import (
	"github.com/xjoerootx/smart-test/pkg/hvdb/hvmodel"
	"gorm.io/gorm"
)

type GormServerStor struct {
	db *gorm.DB
}

func NewGormServerStor(db *gorm.DB) *GormServerStor {
	return &GormServerStor{db: db}
}

func (s *GormServerStor) CreateServer(server *hvmodel.Server) (*hvmodel.Server, error) {
	var existing hvmodel.Server
	if err := s.db.Where("name = ?", server.Name).First(&existing).Error; err == nil {
		return nil, ErrServerNameTaken
	}

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(server).Error
	})

	if err != nil {
		// The unique index on name catches creates that raced past the
		// lookup above.
		if lookupErr := s.db.Where("name = ?", server.Name).First(&existing).Error; lookupErr == nil {
			return nil, ErrServerNameTaken
		}
		return nil, err
	}

	return server, nil
}

func (s *GormServerStor) GetServerByID(serverID int) (*hvmodel.Server, error) {
	var server hvmodel.Server
	if err := s.db.First(&server, serverID).Error; err != nil {
		return nil, err
	}

	return &server, nil
}

func (s *GormServerStor) ListServers() ([]hvmodel.Server, error) {
	var servers []hvmodel.Server
	err := s.db.Find(&servers).Error
	return servers, err
}
