package stor

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xjoerootx/smart-test/pkg/hvdb"
	"github.com/xjoerootx/smart-test/pkg/hvdb/hvmodel"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory sqlite database and runs the schema
// migration. The DSN is keyed on the test name so tests don't share state.
func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	sqlitedb, err := db.DB()
	require.NoError(t, err)

	// Set the sqlite db to 1 connection. This gets around table lock issues
	// from multiple goroutines.
	sqlitedb.SetMaxOpenConns(1)

	require.NoError(t, hvdb.RunMigrations(db))

	return db
}

func createTestServer(t *testing.T, db *gorm.DB, name string) *hvmodel.Server {
	server := &hvmodel.Server{
		Name:     name,
		URL:      "sftp://sftp.example.com:22",
		Username: "harvest",
		Password: "secret",
	}
	require.NoError(t, db.Create(server).Error)
	return server
}

func backdateClaim(t *testing.T, db *gorm.DB, fileID int, age time.Duration) {
	past := time.Now().Add(-age)
	require.NoError(t, db.Model(&hvmodel.File{}).Where("id = ?", fileID).Update("claimed_at", past).Error)
}
