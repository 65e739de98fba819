package hvdb

import (
	"github.com/xjoerootx/smart-test/pkg/hvdb/hvmodel"
	"gorm.io/gorm"
)

// RunMigrations creates the servers and files tables, including the unique
// index on (server_id, name) that backs claim atomicity.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(&hvmodel.Server{}, &hvmodel.File{})
}
