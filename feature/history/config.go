package history

// Config holds configuration for the submission history.
type Config struct {
	// Enabled records every batch to the database and exposes the history API.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// AutoMigrate creates or updates the submissions table on startup.
	AutoMigrate bool `mapstructure:"auto_migrate" default:"true"`
	// PageSize is the default number of rows returned by the list endpoint.
	PageSize int `mapstructure:"page_size" default:"50"`
}
