// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to configure
// MySQL or SQLite connections based on the application's configuration.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the server
// within TimeoutSeconds. The database is optional for the submit command: callers
// log the error and carry on without submission history.
//
// # Schema Inspection
//
// GetTableColumns returns the columns of a table for MySQL (SHOW COLUMNS) and SQLite
// (PRAGMA table_info). The integrity checks compare them with the history model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Database connection failed", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "submissions")
package database
