package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for rileva, stored in ~/.rileva/config.yaml.
// Every key can be overridden with an environment variable, e.g.
// RILEVA_EMPLOYEE_NAME or RILEVA_TEMPLATE_URL.
type Config struct {
	DataDir   string
	Employee  EmployeeConfig
	Template  TemplateConfig
	Export    ExportConfig
	Holidays  HolidaysConfig
	Catalog   CatalogConfig
	Aggregate AggregateConfig
	Storage   StorageConfig
	HTTP      HTTPConfig
	Logger    LoggerConfig
}

// EmployeeConfig seeds the profile when nothing has been saved yet.
type EmployeeConfig struct {
	Name       string
	AdminEmail string
}

// TemplateConfig says where the report template comes from. URL wins over Path.
type TemplateConfig struct {
	Path       string
	URL        string
	OAuth      OAuthConfig
	Attempts   int
	Timeout    time.Duration
	Backoff    time.Duration
	RatePerSec float64
}

// OAuthConfig enables the client-credentials grant for URL downloads.
type OAuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

type ExportConfig struct {
	OutputDir      string
	UnitHeuristic  bool
	ClearScanLimit int
}

type HolidaysConfig struct {
	SeedFrom int
	SeedTo   int
}

type CatalogConfig struct {
	Path string
}

type AggregateConfig struct {
	MemoSize int
}

type StorageConfig struct {
	HistoryLimit int
}

type HTTPConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "RILEVA"

	DefaultTemplateFile = "template.xlsx"
	DefaultCatalogFile  = "catalog.yaml"
)

// configTemplate is the annotated config written on first run.
const configTemplate = `# rileva configuration – ~/.rileva/config.yaml
#
# All settings are optional; the built-in defaults shown below work out of
# the box. Any key can also be set through the environment, for example
# RILEVA_EMPLOYEE_NAME="Mario Rossi" or RILEVA_TEMPLATE_URL=https://...

# Where months, extracts, holidays and the export history are kept.
# Empty = ~/.rileva
data_dir: ""

# ── Employee ──────────────────────────────────────────────────────────────
# Used until a name is saved with: rileva profile --name "..."
employee:
  name: ""
  admin_email: ""

# ── Report template ───────────────────────────────────────────────────────
template:
  # Local template workbook. Empty = <data_dir>/template.xlsx
  path: ""
  # Download the template from here instead of reading path.
  url: ""
  # Client-credentials OAuth2 for the template host (optional).
  oauth:
    token_url: ""
    client_id: ""
    client_secret: ""
    scopes: []
  # Fetch attempts, per-attempt timeout and linear backoff between attempts.
  attempts: 3
  timeout: 10s
  backoff: 500ms
  # Maximum fetch attempts per second across concurrent exports (0 = unlimited).
  rate_per_sec: 2

# ── Export ────────────────────────────────────────────────────────────────
export:
  # Directory the .xlsx files are written to.
  output_dir: "."
  # Treat monthly totals above 31 as hours and convert them to days.
  unit_heuristic: true
  # Detail rows blanked in the template before writing (from row 47).
  clear_scan_limit: 500

# ── Holidays ──────────────────────────────────────────────────────────────
# Italian public holidays and Easter Monday are seeded for these years.
holidays:
  seed_from: 2020
  seed_to: 2030

# Optional YAML override of activity codes, extracts and report rows.
# Empty = <data_dir>/catalog.yaml (ignored if missing)
catalog:
  path: ""

aggregate:
  # Cached monthly summaries (0 disables the cache).
  memo_size: 32

storage:
  # Exports kept in the history, newest first.
  history_limit: 50

# ── rileva serve ──────────────────────────────────────────────────────────
http:
  port: 8080
  mode: release

logger:
  level: warn
  mode: development
  encoding: console
  color_enabled: true
`

// configFilePath returns the path to ~/.rileva/config.yaml.
func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".rileva", "config.yaml"), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("employee.name", "")
	v.SetDefault("employee.admin_email", "")
	v.SetDefault("template.path", "")
	v.SetDefault("template.url", "")
	v.SetDefault("template.oauth.token_url", "")
	v.SetDefault("template.oauth.client_id", "")
	v.SetDefault("template.oauth.client_secret", "")
	v.SetDefault("template.oauth.scopes", []string{})
	v.SetDefault("template.attempts", 3)
	v.SetDefault("template.timeout", "10s")
	v.SetDefault("template.backoff", "500ms")
	v.SetDefault("template.rate_per_sec", 2.0)
	v.SetDefault("export.output_dir", ".")
	v.SetDefault("export.unit_heuristic", true)
	v.SetDefault("export.clear_scan_limit", 500)
	v.SetDefault("holidays.seed_from", 2020)
	v.SetDefault("holidays.seed_to", 2030)
	v.SetDefault("catalog.path", "")
	v.SetDefault("aggregate.memo_size", 32)
	v.SetDefault("storage.history_limit", 50)
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.mode", "release")
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)
}

// Load reads ~/.rileva/config.yaml, creating it with annotated defaults on
// first run.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return Config{}, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
			}
		}
	}

	cfg := Config{}
	cfg.DataDir = v.GetString("data_dir")

	cfg.Employee.Name = v.GetString("employee.name")
	cfg.Employee.AdminEmail = v.GetString("employee.admin_email")

	cfg.Template.Path = v.GetString("template.path")
	cfg.Template.URL = v.GetString("template.url")
	cfg.Template.OAuth.TokenURL = v.GetString("template.oauth.token_url")
	cfg.Template.OAuth.ClientID = v.GetString("template.oauth.client_id")
	cfg.Template.OAuth.ClientSecret = v.GetString("template.oauth.client_secret")
	cfg.Template.OAuth.Scopes = splitList(v.GetStringSlice("template.oauth.scopes"))
	cfg.Template.Attempts = v.GetInt("template.attempts")
	cfg.Template.Timeout = v.GetDuration("template.timeout")
	cfg.Template.Backoff = v.GetDuration("template.backoff")
	cfg.Template.RatePerSec = v.GetFloat64("template.rate_per_sec")

	cfg.Export.OutputDir = v.GetString("export.output_dir")
	cfg.Export.UnitHeuristic = v.GetBool("export.unit_heuristic")
	cfg.Export.ClearScanLimit = v.GetInt("export.clear_scan_limit")

	cfg.Holidays.SeedFrom = v.GetInt("holidays.seed_from")
	cfg.Holidays.SeedTo = v.GetInt("holidays.seed_to")

	cfg.Catalog.Path = v.GetString("catalog.path")
	cfg.Aggregate.MemoSize = v.GetInt("aggregate.memo_size")
	cfg.Storage.HistoryLimit = v.GetInt("storage.history_limit")

	cfg.HTTP.Port = v.GetInt("http.port")
	cfg.HTTP.Mode = v.GetString("http.mode")

	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	if err := cfg.fill(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fill resolves paths relative to the data directory and replaces zero
// values with built-in defaults so callers always get a usable Config even
// if the user only partially fills in the file.
func (c *Config) fill() error {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".rileva")
	}
	if c.Template.Path == "" {
		c.Template.Path = filepath.Join(c.DataDir, DefaultTemplateFile)
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = filepath.Join(c.DataDir, DefaultCatalogFile)
	}
	if c.Template.Attempts <= 0 {
		c.Template.Attempts = 3
	}
	if c.Template.Timeout <= 0 {
		c.Template.Timeout = 10 * time.Second
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = "."
	}
	if c.Export.ClearScanLimit <= 0 {
		c.Export.ClearScanLimit = 500
	}
	if c.Storage.HistoryLimit <= 0 {
		c.Storage.HistoryLimit = 50
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	return nil
}

func (c Config) validate() error {
	if c.Holidays.SeedFrom > c.Holidays.SeedTo {
		return fmt.Errorf("holidays.seed_from (%d) is after holidays.seed_to (%d)", c.Holidays.SeedFrom, c.Holidays.SeedTo)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if c.Template.Backoff < 0 {
		return fmt.Errorf("template.backoff must not be negative")
	}
	return nil
}

// splitList accepts both YAML lists and the comma-separated form that comes
// from environment variables.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
