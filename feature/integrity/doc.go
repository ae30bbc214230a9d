// Package integrity provides deployment health checks.
//
// # Checks Provided
//
//   - Deluge: Detects the installed client generation and opens one session against the daemon.
//   - Storage: Checks that the archive bucket exists and counts archived files (supports ?fix=true).
//   - History: Validates the submissions table against the history model (columns, types).
//
// Checks whose backend is not configured report "skipped".
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks concurrently.
//   - GET /integrity/deluge : Runs the daemon check.
//   - GET /integrity/storage : Runs the bucket check (supports ?fix=true).
//   - GET /integrity/history : Runs the schema check.
package integrity
