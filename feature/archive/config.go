package archive

// Config holds configuration for the torrent archive.
type Config struct {
	// Enabled turns on archiving of staged files before they are deleted.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Prefix is the object name prefix inside the storage bucket.
	Prefix string `mapstructure:"prefix" default:"staged"`
}
