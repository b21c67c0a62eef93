package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
	Citas    CitasConfig    `mapstructure:"citas" validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,gtfield=TokenLifetimeMinutes"`
	// APIKey authenticates service clients such as citasctl. Empty disables it.
	APIKey string `mapstructure:"api_key" validate:"omitempty,min=24"`
}

// TaskConfig contains settings for the background notification runner.
type TaskConfig struct {
	WorkerCount         int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize           int `mapstructure:"queue_size" validate:"required,gt=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
}

// CitasConfig contains the availability calendar settings.
type CitasConfig struct {
	Timezone   string `mapstructure:"timezone" validate:"required"`
	LimitDays  int    `mapstructure:"limit_days" validate:"required,gte=1,lte=90"`
	CutoffHour int    `mapstructure:"cutoff_hour" validate:"gte=0,lte=23"`
	// Holidays are YYYY-MM-DD dates added to the dias_inhabiles table.
	Holidays []string `mapstructure:"holidays" validate:"dive,datetime=2006-01-02"`
}

// MailConfig contains the transactional mail provider settings.
type MailConfig struct {
	APIURL      string `mapstructure:"api_url" validate:"omitempty,url"`
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address" validate:"omitempty,email"`
	FromName    string `mapstructure:"from_name"`
	// PortalURL is the public site links in e-mails point to.
	PortalURL string `mapstructure:"portal_url" validate:"omitempty,url"`
}

// Enabled reports whether enough settings are present to send mail.
func (m MailConfig) Enabled() bool {
	return m.APIURL != "" && m.APIKey != "" && m.FromAddress != ""
}

// ClientConfig holds the settings of the citasctl command line tool.
type ClientConfig struct {
	BaseURL        string     `mapstructure:"base_url" validate:"required,url"`
	APIKey         string     `mapstructure:"api_key" validate:"required"`
	TimeoutSeconds int        `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	LogLevel       string     `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Mail           MailConfig `mapstructure:"mail"`
}
