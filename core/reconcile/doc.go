// Package reconcile hands a run's staged torrent files to a Deluge daemon and tracks
// every item until the daemon has confirmed it, reported it as a duplicate, or it failed.
//
// Two client generations are supported and are chosen once per process by probing
// the installed clients (see deluge.Registry):
//
//   - Legacy: a blocking client whose add call returns nothing. SyncReconciler submits
//     items one at a time and discovers each id by diffing the session state before
//     and after the add (PollDiff).
//   - RPC: a non-blocking client whose add call resolves with the id. Pipeline issues
//     all adds at once and runs every continuation on a per-batch Loop (DirectReturn).
//
// # Item lifecycle
//
//	Pending -> Submitted -> Confirmed | Duplicate | Failed
//	Pending -> Failed
//
// Confirmed, Duplicate and Failed are terminal. Failures go through a Reporter and never
// abort the batch, except for connection-level errors which fail every pending item
// with one shared reason.
//
// # Post-add options
//
// Once an id is known the item's movedone path, label and queue-to-top flag are applied.
// Path and movedone are text/template strings rendered against the entry fields:
//
//	path: "~/downloads/{{.series_name}}"
//
// Labels are lower-cased. A failed option is logged and the item stays confirmed.
//
// # Staged files
//
// When no "download" plugin is active for the run the engine owns the staged files and
// deletes each one exactly once, after the item reaches a terminal state.
//
// # Usage
//
//	driver := reconcile.NewDriver(deluge.Default(), reconcile.WithLogger(log))
//	result, err := driver.Run(ctx, task, cfg)
package reconcile
