package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-uuid"
	"github.com/xjoerootx/smart-test/pkg/objstore"
	"github.com/xjoerootx/smart-test/pkg/remote"
)

// Transferrer moves one file's bytes from an open remote session into object
// storage, staging them in a local scratch file on the way through. The
// staging copy is removed on every exit path.
type Transferrer struct {
	store      objstore.Store
	bucket     string
	stagingDir string
}

func NewTransferrer(store objstore.Store, bucket, stagingDir string) *Transferrer {
	if stagingDir == "" {
		stagingDir = os.TempDir()
	}
	return &Transferrer{store: store, bucket: bucket, stagingDir: stagingDir}
}

func (t *Transferrer) Transfer(ctx context.Context, session remote.Session, remotePath, name string) error {
	stagingPath, err := t.stagingPath(name)
	if err != nil {
		return &TransferError{Stage: StageDownload, Err: err}
	}
	defer os.Remove(stagingPath)

	if err := session.Download(remotePath, stagingPath); err != nil {
		return &TransferError{Stage: StageDownload, Err: err}
	}

	if err := t.store.EnsureBucket(ctx, t.bucket); err != nil {
		return &TransferError{Stage: StageUpload, Err: err}
	}

	if err := t.store.PutFile(ctx, t.bucket, name, stagingPath); err != nil {
		return &TransferError{Stage: StageUpload, Err: err}
	}

	return nil
}

// stagingPath prefixes the name with a uuid so concurrent runs pulling the
// same filename from different servers can't trample each other's staging
// copies.
func (t *Transferrer) stagingPath(name string) (string, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", err
	}

	return filepath.Join(t.stagingDir, fmt.Sprintf("%s-%s", id, name)), nil
}
