// Package history records the outcome of every submitted batch in the database
// and serves it over HTTP.
//
// The engine calls Service.Record once per batch with the final item states. Rows
// are never updated afterwards.
//
// # Routes
//
//   - GET /submissions?limit=N: most recent rows, newest first
//   - GET /submissions/:batch: every row of one batch, 404 when unknown
//
// # Schema
//
// The Submission model maps to the "submissions" table. With auto_migrate the table
// is created on startup. When migrations are managed elsewhere, the integrity checks
// report missing columns and type mismatches against the model.
package history
