package ingest

import "fmt"

type FileFailure struct {
	Name  string
	Stage TransferStage
	Err   error
}

// RunReport aggregates what one discovery run did so the scheduler can log a
// single line per run instead of the pipeline swallowing outcomes inline.
type RunReport struct {
	ServerID       int
	Listed         int
	SkippedUnsafe  int
	AlreadyClaimed int
	Uploaded       int
	Failed         []FileFailure
}

func (r *RunReport) Summary() string {
	return fmt.Sprintf("listed %d, uploaded %d, already claimed or uploaded %d, unsafe %d, failed %d",
		r.Listed, r.Uploaded, r.AlreadyClaimed, r.SkippedUnsafe, len(r.Failed))
}
