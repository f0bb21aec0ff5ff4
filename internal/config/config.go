package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Source    SourceConfig    `mapstructure:"source"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Submit    SubmitConfig    `mapstructure:"submit"`
	Server    ServerConfig    `mapstructure:"server"`
}

// SourceConfig selects the primary data source. The first one configured
// wins, in field order.
type SourceConfig struct {
	AppsScriptURL string         `mapstructure:"apps_script_url"`
	Sheets        SheetsConfig   `mapstructure:"sheets"`
	Workbook      WorkbookConfig `mapstructure:"workbook"`
}

// SheetsConfig holds Google Sheets API settings.
type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	Range           string `mapstructure:"range"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// WorkbookConfig points at a local xlsx file.
type WorkbookConfig struct {
	Path  string `mapstructure:"path"`
	Sheet string `mapstructure:"sheet"`
}

// DashboardConfig holds presentation settings.
type DashboardConfig struct {
	Title    string `mapstructure:"title"`
	Timezone string `mapstructure:"timezone"`
}

// HTTPConfig holds outbound client settings.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// SubmitConfig holds form submission settings.
type SubmitConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// ServerConfig holds API server settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// Location resolves the dashboard timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Dashboard.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Dashboard.Timezone)
	if err != nil {
		return nil, fmt.Errorf("dashboard.timezone: %w", err)
	}
	return loc, nil
}

// Load reads configuration from a .env file, an optional TOML file and the
// environment. Env var overrides use prefix KPIBOARD_. When path is empty
// KPIBOARD_CONFIG is used, then ./kpiboard.toml if it exists.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// default values
	v.SetDefault("source.apps_script_url", "")
	v.SetDefault("source.sheets.spreadsheet_id", "")
	v.SetDefault("source.sheets.range", "Registros")
	v.SetDefault("source.sheets.credentials_file", "credentials.json")
	v.SetDefault("source.workbook.path", "")
	v.SetDefault("source.workbook.sheet", "")
	v.SetDefault("dashboard.title", "Indicadores Seven")
	v.SetDefault("dashboard.timezone", "America/Sao_Paulo")
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("submit.delay", 100*time.Millisecond)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.refresh_interval", 5*time.Minute)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("KPIBOARD_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("kpiboard")
	}

	v.SetEnvPrefix("KPIBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
