package ingest

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xjoerootx/smart-test/pkg/objstore"
	"github.com/xjoerootx/smart-test/pkg/remote"
)

func requireEmptyDir(t *testing.T, dir string) {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staging dir should be empty")
}

func TestTransferUploadsAndCleansStaging(t *testing.T) {
	stagingDir := t.TempDir()
	store := objstore.NewInMemoryStore()
	session := &remote.InMemorySession{Files: map[string]string{"/upload/a.csv": "aaa"}}

	transferrer := NewTransferrer(store, testBucket, stagingDir)

	err := transferrer.Transfer(context.Background(), session, "/upload/a.csv", "a.csv")
	require.NoError(t, err)

	assert.True(t, store.HasObject(testBucket, "a.csv"))
	requireEmptyDir(t, stagingDir)
}

func TestTransferDownloadFailure(t *testing.T) {
	stagingDir := t.TempDir()
	store := objstore.NewInMemoryStore()
	session := &remote.InMemorySession{
		Files:         map[string]string{"/upload/a.csv": "aaa"},
		FailDownloads: map[string]bool{"/upload/a.csv": true},
	}

	transferrer := NewTransferrer(store, testBucket, stagingDir)

	err := transferrer.Transfer(context.Background(), session, "/upload/a.csv", "a.csv")
	require.Error(t, err)

	var terr *TransferError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, StageDownload, terr.Stage)

	// Object storage was never touched.
	assert.False(t, store.HasObject(testBucket, "a.csv"))
	requireEmptyDir(t, stagingDir)
}

func TestTransferUploadFailureCleansStaging(t *testing.T) {
	stagingDir := t.TempDir()
	store := objstore.NewInMemoryStore()
	store.FailPuts = map[string]bool{"a.csv": true}
	session := &remote.InMemorySession{Files: map[string]string{"/upload/a.csv": "aaa"}}

	transferrer := NewTransferrer(store, testBucket, stagingDir)

	err := transferrer.Transfer(context.Background(), session, "/upload/a.csv", "a.csv")
	require.Error(t, err)

	var terr *TransferError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, StageUpload, terr.Stage)
	requireEmptyDir(t, stagingDir)
}

func TestTransferBucketCheckFailureIsUploadStage(t *testing.T) {
	stagingDir := t.TempDir()
	store := objstore.NewInMemoryStore()
	store.EnsureBucketErr = errors.New("storage unreachable")
	session := &remote.InMemorySession{Files: map[string]string{"/upload/a.csv": "aaa"}}

	transferrer := NewTransferrer(store, testBucket, stagingDir)

	err := transferrer.Transfer(context.Background(), session, "/upload/a.csv", "a.csv")
	require.Error(t, err)

	var terr *TransferError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, StageUpload, terr.Stage)
	requireEmptyDir(t, stagingDir)
}
