// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers framework-level settings (ports, TLS, log
// level, request limits); everything specific to Black HAT Commit lives
// here and is loaded in LoadConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret key for signing session cookies
	SessionName   string // cookie name
	SessionDomain string // cookie domain (blank means current host)

	// File storage configuration
	StorageType      string // "local" or "s3"
	StorageLocalPath string // local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region string
	StorageS3Bucket string
	StorageS3Prefix string
	StorageCFURL    string

	// Admin override: this email is forced to admin with every
	// permission on each sign-in.
	AdminEmail string

	// Audit logging: "all", "db", "log", or "off" per category.
	AuditLogAuth  string
	AuditLogAdmin string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks (e.g., "https://commithub.example")
	BaseURL string

	// StoryCleanupInterval is how often expired stories are purged.
	StoryCleanupInterval time.Duration

	// GroupChannels is the predefined channel list, "id:Name" pairs
	// separated by commas.
	GroupChannels string
}
