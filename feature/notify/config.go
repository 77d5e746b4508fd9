package notify

// Channels supported by NewDispatcher.
const (
	ChannelLog   = "log"
	ChannelEmail = "email"
)

// Config holds notification routing and SMTP settings.
type Config struct {
	// Channel selects the dispatcher (log, email).
	Channel string `mapstructure:"channel" default:"log"`
	// LocationName and AssetTypeName are copied into every notification.
	LocationName  string `mapstructure:"location_name" default:""`
	AssetTypeName string `mapstructure:"asset_type_name" default:""`

	SMTPServer string `mapstructure:"smtp_server" default:""`
	SMTPPort   int    `mapstructure:"smtp_port" default:"587"`
	SMTPUser   string `mapstructure:"smtp_user" default:""`
	SMTPPass   string `mapstructure:"smtp_pass" default:""`
	FromEmail  string `mapstructure:"from_email" default:""`
	ToEmail    string `mapstructure:"to_email" default:""`
	// Enabled gates real SMTP delivery; a disabled email channel accepts and drops messages.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// TimeoutSeconds bounds the SMTP dial.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}

// IsValidChannel checks if the configured channel is known.
func (c Config) IsValidChannel() bool {
	switch c.Channel {
	case ChannelLog, ChannelEmail:
		return true
	default:
		return false
	}
}
