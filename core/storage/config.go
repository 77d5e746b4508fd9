package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket holding provider payloads.
	Bucket string `mapstructure:"bucket" default:"parcel-watch"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PlacesPrefix is the folder holding places payloads.
	PlacesPrefix string `mapstructure:"places_prefix" default:"places/"`
	// PropertiesPrefix is the folder holding property payloads.
	PropertiesPrefix string `mapstructure:"properties_prefix" default:"properties/"`
	// CapturesPrefix is the folder where raw snapshot captures are archived.
	CapturesPrefix string `mapstructure:"captures_prefix" default:"captures/"`
}

// Folders returns the payload prefixes that must exist in the bucket.
func (c Config) Folders() []string {
	return []string{c.PlacesPrefix, c.PropertiesPrefix, c.CapturesPrefix}
}
