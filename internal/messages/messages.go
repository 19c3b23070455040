package messages

import (
	"github.com/cheerioskun/explainer/internal/job"
	"github.com/cheerioskun/explainer/internal/models"
	"github.com/cheerioskun/explainer/internal/upload"
)

// FilterResultMsg is sent when a filtering pass has finished
type FilterResultMsg struct {
	Generation uint64               // Pass number, used to drop stale results
	Selection  *models.Selection    // Folder the pass ran over
	Result     *models.FilterResult // Outcome of the pass
	Err        error                // Set if the pass could not run
}

// SubmitDoneMsg is sent when an upload has completed
type SubmitDoneMsg struct {
	Outcome *upload.Outcome
	Err     error
}

// GenerateDoneMsg is sent when the explanation job has returned
type GenerateDoneMsg struct {
	Result *job.Result
	Err    error
}

// RefreshComponentsMsg is sent to trigger component refreshes
type RefreshComponentsMsg struct {
	Reason string // Why the refresh was triggered
}
