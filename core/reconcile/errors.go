package reconcile

import "errors"

var (
	// ErrConnection is the batch-level failure when the daemon cannot be reached or
	// rejects the credentials. Every pending item is failed with ReasonConnect.
	ErrConnection = errors.New("could not connect to service")
	// ErrCommunication is a connection-level failure in the middle of a legacy batch.
	ErrCommunication = errors.New("could not communicate with service")
	// ErrLoopBusy is returned when a loop is started while it is already running.
	ErrLoopBusy = errors.New("event loop already running")
	// ErrLoopStalled is returned when a loop stops being pumped before reaching a terminal state.
	ErrLoopStalled = errors.New("event loop stopped before batch completion")
	// ErrInvalidTransition is returned for a status change the item lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
)

const (
	// ReasonConnect is the shared failure reason applied when the connection fails.
	ReasonConnect = "could not connect to service"
	// ReasonStagedMissing prefixes the failure reason for items whose staged file is gone.
	ReasonStagedMissing = "staged file missing"
	// ReasonStalled is applied to items left pending when the loop stalls.
	ReasonStalled = "batch did not complete"
)
