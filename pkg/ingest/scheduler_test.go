package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xjoerootx/smart-test/pkg/hvdb/hvmodel"
	"github.com/xjoerootx/smart-test/pkg/hvdb/stor"
	"github.com/xjoerootx/smart-test/pkg/notify"
	"github.com/xjoerootx/smart-test/pkg/objstore"
	"github.com/xjoerootx/smart-test/pkg/remote"
)

// addrDialer routes dials to per-address sessions so a test can make one
// server reachable and another not.
type addrDialer struct {
	sessions  map[string]*remote.InMemorySession
	failAddrs map[string]bool
}

func (d *addrDialer) Dial(addr, username, password string) (remote.Session, error) {
	if d.failAddrs[addr] {
		return nil, fmt.Errorf("cannot reach %s", addr)
	}

	session, ok := d.sessions[addr]
	if !ok {
		return nil, fmt.Errorf("no session for %s", addr)
	}

	return session, nil
}

func TestSchedulerScansAllServersAndIsolatesFailures(t *testing.T) {
	srv1 := &hvmodel.Server{ID: 1, Name: "srv1", URL: "sftp://one.example.com"}
	srv2 := &hvmodel.Server{ID: 2, Name: "srv2", URL: "sftp://two.example.com"}

	dialer := &addrDialer{
		sessions: map[string]*remote.InMemorySession{
			"one.example.com:22": {Files: map[string]string{"/upload/a.csv": "aaa"}},
		},
		failAddrs: map[string]bool{"two.example.com:22": true},
	}

	serverStor := stor.NewInMemoryServerStor([]*hvmodel.Server{srv1, srv2})
	fileStor := stor.NewInMemoryFileStor(nil)
	notifier := notify.NewInMemoryNotifier()
	transferrer := NewTransferrer(objstore.NewInMemoryStore(), testBucket, t.TempDir())
	discoverer := NewDiscoverer(dialer, fileStor, transferrer, notifier, "/upload")

	scheduler := NewScheduler(
		WithServerStor(serverStor),
		WithDiscoverer(discoverer),
		WithScanInterval(time.Hour),
		WithWorkerCount(2))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	// srv2's unreachable endpoint must not keep srv1 from being ingested.
	require.Eventually(t, func() bool {
		files, err := fileStor.GetFilesForServer(srv1.ID)
		return err == nil && len(files) == 1 && files[0].Status == hvmodel.FileStatusUploaded
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	files, err := fileStor.GetFilesForServer(srv2.ID)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestTriggerServerUnknownID(t *testing.T) {
	scheduler := NewScheduler(
		WithServerStor(stor.NewInMemoryServerStor(nil)))

	err := scheduler.TriggerServer(42)
	require.Error(t, err)
	assert.True(t, stor.IsRecordNotFound(err))
}

func TestTriggerServerEnqueuesTask(t *testing.T) {
	srv := &hvmodel.Server{ID: 1, Name: "srv1", URL: "sftp://one.example.com"}
	scheduler := NewScheduler(
		WithServerStor(stor.NewInMemoryServerStor([]*hvmodel.Server{srv})))

	require.NoError(t, scheduler.TriggerServer(srv.ID))
	assert.Equal(t, 1, len(scheduler.tasks))
}

func TestSchedulerContinuesWhenServerListingFails(t *testing.T) {
	serverStor := stor.NewInMemoryServerStor(nil)
	serverStor.ErrToReturn = errors.New("db down")

	scheduler := NewScheduler(
		WithServerStor(serverStor),
		WithScanInterval(time.Hour))

	// A failed listing logs and waits for the next tick rather than
	// panicking or exiting.
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	cancel()
	<-done
}
