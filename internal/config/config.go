// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Printer  PrinterConfig  `mapstructure:"printer"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	Queues   []QueueConfig  `mapstructure:"queues" validate:"dive"`
	App      AppConfig      `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         string        `mapstructure:"port" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

// TLSConfig represents TLS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file" validate:"required_if=Enabled true"`
	KeyFile  string `mapstructure:"key_file" validate:"required_if=Enabled true"`
}

// DatabaseConfig represents the optional job audit database
type DatabaseConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host" validate:"required_if=Enabled true"`
	Port         int           `mapstructure:"port" validate:"required_if=Enabled true"`
	User         string        `mapstructure:"user" validate:"required_if=Enabled true"`
	Password     string        `mapstructure:"password"`
	DBName       string        `mapstructure:"dbname" validate:"required_if=Enabled true"`
	SSLMode      string        `mapstructure:"sslmode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error fatal"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// PrinterConfig describes the default printer and its protocol settings
type PrinterConfig struct {
	QueueID        string        `mapstructure:"queue_id"`
	PaperWidthPx   int           `mapstructure:"paper_width_px" validate:"min=8,max=1024"`
	FeedLines      int           `mapstructure:"feed_lines" validate:"min=0"`
	CodePage       string        `mapstructure:"code_page"`
	TextBlocks     bool          `mapstructure:"text_blocks"`
	TextColumns    int           `mapstructure:"text_columns" validate:"min=0"`
	MaxBlockHeight int           `mapstructure:"max_block_height" validate:"min=8,max=4095"`
	DrawerPin      int           `mapstructure:"drawer_pin" validate:"oneof=0 1 2 5"`
	DrawerOnMs     int           `mapstructure:"drawer_on_ms" validate:"min=0"`
	DrawerOffMs    int           `mapstructure:"drawer_off_ms" validate:"min=0"`
	BusyPolicy     string        `mapstructure:"busy_policy" validate:"oneof=block fail_fast"`
	LockTimeout    time.Duration `mapstructure:"lock_timeout"`
}

// LayoutConfig holds the default receipt decorations and typography
type LayoutConfig struct {
	HeaderImage      string `mapstructure:"header_image"`
	HeaderImageScale int    `mapstructure:"header_image_scale" validate:"min=0,max=100"`
	FooterImage      string `mapstructure:"footer_image"`
	FooterImageScale int    `mapstructure:"footer_image_scale" validate:"min=0,max=100"`
	// AssetDir is the only place request supplied image names are read from.
	// Empty disables image overrides in requests.
	AssetDir          string       `mapstructure:"asset_dir"`
	HeaderTitle       string       `mapstructure:"header_title"`
	HeaderDescription string       `mapstructure:"header_description"`
	ReceiptTitle      string       `mapstructure:"receipt_title"`
	FooterLabel       string       `mapstructure:"footer_label"`
	FontPath          string       `mapstructure:"font_path"`
	ThaiFontPath      string       `mapstructure:"thai_font_path"`
	FontSize          float64      `mapstructure:"font_size" validate:"gt=0"`
	FontSizeSmall     float64      `mapstructure:"font_size_small" validate:"gt=0"`
	LineSpacing       int          `mapstructure:"line_spacing" validate:"min=0"`
	Margin            int          `mapstructure:"margin" validate:"min=0"`
	Labels            LabelsConfig `mapstructure:"labels"`
}

// LabelsConfig are the captions printed around items and totals
type LabelsConfig struct {
	ItemColumn   string `mapstructure:"item_column"`
	AmountColumn string `mapstructure:"amount_column"`
	ItemsTotal   string `mapstructure:"items_total"`
	Discount     string `mapstructure:"discount"`
	Total        string `mapstructure:"total"`
	Received     string `mapstructure:"received"`
	Change       string `mapstructure:"change"`
	Currency     string `mapstructure:"currency"`
}

// QueueConfig registers one named printer queue
type QueueConfig struct {
	Port    string                 `mapstructure:"port" validate:"required"`
	Name    string                 `mapstructure:"name" validate:"required"`
	Type    string                 `mapstructure:"type" validate:"oneof=serial usb tcp file"`
	Options map[string]interface{} `mapstructure:"options"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version" validate:"required"`
	Environment string `mapstructure:"environment" validate:"oneof=development staging production test"`
	Debug       bool   `mapstructure:"debug"`
}

// Load reads configuration from configFile, or from config.yaml in the
// usual places when configFile is empty, then from RECEIPT_SERVICE_*
// environment variables. A .env file in the working directory is loaded
// first. When no config.yaml is found the defaults apply.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env: %w", err)
		}
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/receipt-service")
	}

	// Environment variable support
	v.SetEnvPrefix("RECEIPT_SERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8084")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.tls.enabled", false)

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "receipt_service")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_lifetime", "5m")

	// Security defaults
	v.SetDefault("security.allowed_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// Printer defaults
	v.SetDefault("printer.queue_id", "")
	v.SetDefault("printer.paper_width_px", 384)
	v.SetDefault("printer.feed_lines", 4)
	v.SetDefault("printer.code_page", "PC437")
	v.SetDefault("printer.text_blocks", false)
	v.SetDefault("printer.text_columns", 0)
	v.SetDefault("printer.max_block_height", 256)
	v.SetDefault("printer.drawer_pin", 2)
	v.SetDefault("printer.drawer_on_ms", 50)
	v.SetDefault("printer.drawer_off_ms", 500)
	v.SetDefault("printer.busy_policy", "block")
	v.SetDefault("printer.lock_timeout", "30s")

	// Layout defaults
	v.SetDefault("layout.header_image", "")
	v.SetDefault("layout.header_image_scale", 100)
	v.SetDefault("layout.footer_image", "")
	v.SetDefault("layout.footer_image_scale", 100)
	v.SetDefault("layout.asset_dir", "")
	v.SetDefault("layout.header_title", "")
	v.SetDefault("layout.header_description", "")
	v.SetDefault("layout.receipt_title", "RECEIPT")
	v.SetDefault("layout.footer_label", "Thank you")
	v.SetDefault("layout.font_path", "")
	v.SetDefault("layout.thai_font_path", "")
	v.SetDefault("layout.font_size", 24)
	v.SetDefault("layout.font_size_small", 20)
	v.SetDefault("layout.line_spacing", 4)
	v.SetDefault("layout.margin", 8)
	v.SetDefault("layout.labels.item_column", "Item")
	v.SetDefault("layout.labels.amount_column", "Amount")
	v.SetDefault("layout.labels.items_total", "Items Total")
	v.SetDefault("layout.labels.discount", "Discount")
	v.SetDefault("layout.labels.total", "TOTAL")
	v.SetDefault("layout.labels.received", "Received")
	v.SetDefault("layout.labels.change", "Change")
	v.SetDefault("layout.labels.currency", "")

	// App defaults
	v.SetDefault("app.name", "receipt-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration and reports the first invalid key
func Validate(config *Config) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Errorf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("%s failed %s", fe.Namespace(), fe.Tag())
}

// DSN returns the lib/pq connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.IsDevelopment()
}
