package deluge

import "errors"

var (
	// ErrNoClient is returned by the capability probe when no client generation is installed.
	ErrNoClient = errors.New("deluge client module required")
	// ErrNotConnected is returned by calls issued on a closed or never opened session.
	ErrNotConnected = errors.New("not connected to deluge daemon")
)
