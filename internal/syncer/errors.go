package syncer

import "errors"

var (
	// ErrSyncInProgress is returned when Sync is called while another sync
	// is still running.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrNoOfflineData means the remote system could not be reached and no
	// snapshot was ever stored locally, so there is nothing to work with.
	ErrNoOfflineData = errors.New("no data available")
)
