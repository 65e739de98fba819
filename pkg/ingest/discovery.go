package ingest

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/apex/log"
	"github.com/xjoerootx/smart-test/pkg/hvdb/hvmodel"
	"github.com/xjoerootx/smart-test/pkg/hvdb/stor"
	"github.com/xjoerootx/smart-test/pkg/notify"
	"github.com/xjoerootx/smart-test/pkg/remote"
)

const DefaultUploadPath = "/upload"

// Discoverer runs one discovery pass for a server: list the remote upload
// directory, claim names not already handled, and transfer each claimed file.
// Files are processed strictly sequentially, a failure on one file never
// stops the rest of the run.
type Discoverer struct {
	dialer      remote.Dialer
	fileStor    stor.FileStor
	transferrer *Transferrer
	notifier    notify.Notifier
	uploadPath  string
}

func NewDiscoverer(dialer remote.Dialer, fileStor stor.FileStor, transferrer *Transferrer, notifier notify.Notifier, uploadPath string) *Discoverer {
	if uploadPath == "" {
		uploadPath = DefaultUploadPath
	}

	return &Discoverer{
		dialer:      dialer,
		fileStor:    fileStor,
		transferrer: transferrer,
		notifier:    notifier,
		uploadPath:  uploadPath,
	}
}

func (d *Discoverer) Run(ctx context.Context, server *hvmodel.Server) (*RunReport, error) {
	report := &RunReport{ServerID: server.ID}

	session, err := d.dialer.Dial(ServerAddr(server), server.Username, server.Password)
	if err != nil {
		log.Errorf("Cannot connect to server %s (%s): %s", server.Name, server.URL, err)
		return report, err
	}
	defer session.Close()

	names, err := session.List(d.uploadPath)
	if err != nil {
		log.Errorf("Listing %s on server %s failed: %s", d.uploadPath, server.Name, err)
		return report, err
	}

	report.Listed = len(names)

	for _, name := range names {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		if !remote.IsSafeFileName(name) {
			log.Warnf("Skipping suspicious entry %q on server %s", name, server.Name)
			report.SkippedUnsafe++
			continue
		}

		d.processFile(ctx, session, server, name, report)
	}

	return report, nil
}

func (d *Discoverer) processFile(ctx context.Context, session remote.Session, server *hvmodel.Server, name string, report *RunReport) {
	file, claimed, err := d.fileStor.ClaimFile(server.ID, name)
	if err != nil {
		log.Errorf("Claiming %s on server %s failed: %s", name, server.Name, err)
		report.Failed = append(report.Failed, FileFailure{Name: name, Stage: StageClaim, Err: err})
		return
	}

	if !claimed {
		report.AlreadyClaimed++
		return
	}

	remotePath := path.Join(d.uploadPath, name)

	if err := d.transferrer.Transfer(ctx, session, remotePath, name); err != nil {
		// The record stays in downloading. A later run picks it up again
		// once the claim lease expires.
		stage := StageDownload
		var terr *TransferError
		if errors.As(err, &terr) {
			stage = terr.Stage
		}

		log.Errorf("Transferring %s from server %s failed: %s", name, server.Name, err)
		report.Failed = append(report.Failed, FileFailure{Name: name, Stage: stage, Err: err})
		return
	}

	if err := d.fileStor.MarkFileUploaded(file.ID); err != nil {
		log.Errorf("Marking %s as uploaded failed: %s", name, err)
		report.Failed = append(report.Failed, FileFailure{Name: name, Stage: StageClaim, Err: err})
		return
	}

	report.Uploaded++

	// Best effort only. A dropped notification never unwinds the uploaded
	// status.
	if err := d.notifier.Publish(notify.NewFileUploadedEvent(name, server.ID)); err != nil {
		log.Errorf("Publishing upload notification for %s failed: %s", name, err)
	}
}

// ServerAddr turns a server's URL into a host:port dial address, defaulting
// the port to 22. Accepts both sftp://host:port URLs and bare host[:port]
// values.
func ServerAddr(server *hvmodel.Server) string {
	if u, err := url.Parse(server.URL); err == nil && u.Host != "" {
		addr := u.Host
		if u.Port() == "" {
			addr += ":22"
		}
		return addr
	}

	addr := server.URL
	if !strings.Contains(addr, ":") {
		addr += ":22"
	}

	return addr
}
