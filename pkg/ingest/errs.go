package ingest

import "fmt"

type TransferStage string

const (
	StageClaim    TransferStage = "claim"
	StageDownload TransferStage = "download"
	StageUpload   TransferStage = "upload"
)

// TransferError is the typed failure for one file's transfer. Stage says
// whether the remote download or the object-storage upload broke; the claim
// record stays in downloading either way.
type TransferError struct {
	Stage TransferStage
	Err   error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed during %s: %s", e.Stage, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
