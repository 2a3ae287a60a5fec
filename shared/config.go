package shared

import (
	"encoding/json"
	"github.com/kelseyhightower/envconfig"
	"github.com/tailscale/hujson"
	"log"
	"os"
	"strings"
)

const (
	configVarName  = "CONFIG"                // If set, will load config.json from this path and not from devConfigPath
	secretsVarName = "SECRETS"               // If set, will load secrets.json from this path and not from devSecretsPath
	devConfigPath  = "dev/config.dev.jsonc"  // Path to config.json in development environment
	devSecretsPath = "dev/secrets.dev.jsonc" // Path to secrets.json in development environment
	envPrefix      = "ghostodon"             // GHOSTODON_PORT, GHOSTODON_DB_FILE etc.
)

const (
	defaultPageFirst       = 20
	defaultPageMore        = 10
	defaultAutoLoadDelayMs = 1500
	defaultHttpTimeoutSec  = 20
	defaultAppName         = "Ghostodon"
	defaultProfileKeepDays = 2
)

var defaultScopes = []string{"read", "write", "follow"}

type Config struct {
	Secrets         Secrets  `json:"-"`
	LogFile         string   `json:"log_file"`
	LogLevel        string   `json:"log_level"`
	ServicePort     uint     `json:"service_port"`
	DbFile          string   `json:"db_file"`
	PublicUrl       string   `json:"public_url"`
	AppName         string   `json:"app_name"`
	AppWebsite      string   `json:"app_website"`
	Scopes          []string `json:"scopes"`
	HttpTimeoutSec  int      `json:"http_timeout_sec"`
	PageFirst       int      `json:"page_first"`
	PageMore        int      `json:"page_more"`
	AutoLoadDelayMs int      `json:"autoload_delay_ms"`

	// Parse page templates once at startup; off in development so edits show up on reload
	CachePageTemplates bool `json:"cache_page_templates"`

	BlockedInstancesFile string `json:"blocked_instances_file"`
	ProfileDir           string `json:"profile_dir"`
	ProfileKeepDays      int    `json:"profile_keep_days"`
}

type Secrets struct {
	MetricsAuth string   `json:"metrics_auth"`
	ApiKeys     []string `json:"api_keys"`
}

// Values in the environment win over the config file.
type envOverrides struct {
	Port      uint   `envconfig:"PORT"`
	DbFile    string `envconfig:"DB_FILE"`
	LogLevel  string `envconfig:"LOG_LEVEL"`
	PublicUrl string `envconfig:"PUBLIC_URL"`
}

func LoadConfig() *Config {

	// Where are our config and secrets files?
	cfgPath := os.Getenv(configVarName)
	if len(cfgPath) == 0 {
		cfgPath = devConfigPath
	}
	secretsPath := os.Getenv(secretsVarName)
	if len(secretsPath) == 0 {
		secretsPath = devSecretsPath
	}

	// Read config file
	var config Config
	mustDeserializeFile(cfgPath, &config)
	// Read secrets member from secrets file
	mustDeserializeFile(secretsPath, &config.Secrets)

	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		log.Fatal(err)
	}
	config.applyOverrides(&env)
	config.ApplyDefaults()
	return &config
}

func (cfg *Config) applyOverrides(env *envOverrides) {
	if env.Port != 0 {
		cfg.ServicePort = env.Port
	}
	if env.DbFile != "" {
		cfg.DbFile = env.DbFile
	}
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}
	if env.PublicUrl != "" {
		cfg.PublicUrl = env.PublicUrl
	}
}

// ApplyDefaults fills in everything a partial config leaves out. Tests build
// configs by hand and call this too.
func (cfg *Config) ApplyDefaults() {
	if cfg.PageFirst <= 0 {
		cfg.PageFirst = defaultPageFirst
	}
	if cfg.PageMore <= 0 {
		cfg.PageMore = defaultPageMore
	}
	if cfg.AutoLoadDelayMs <= 0 {
		cfg.AutoLoadDelayMs = defaultAutoLoadDelayMs
	}
	if cfg.HttpTimeoutSec <= 0 {
		cfg.HttpTimeoutSec = defaultHttpTimeoutSec
	}
	if cfg.ProfileKeepDays <= 0 {
		cfg.ProfileKeepDays = defaultProfileKeepDays
	}
	if cfg.AppName == "" {
		cfg.AppName = defaultAppName
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = append([]string{}, defaultScopes...)
	}
	cfg.PublicUrl = strings.TrimRight(cfg.PublicUrl, "/")
}

// RedirectUri is where the instance sends the browser after the user authorizes us.
func (cfg *Config) RedirectUri() string {
	return cfg.PublicUrl + "/auth/callback"
}

func mustDeserializeFile[T any](fileName string, obj *T) {
	var err error
	var cfgJson []byte
	cfgJson, err = os.ReadFile(fileName)
	if err != nil {
		log.Fatal(err)
	}
	// JSONC => JSON
	cfgJson, err = standardizeJSON(cfgJson)
	if err != nil {
		log.Fatal(err)
	}
	// Parse
	if err := json.Unmarshal(cfgJson, obj); err != nil {
		log.Fatal(err)
	}
}

func standardizeJSON(b []byte) ([]byte, error) {
	ast, err := hujson.Parse(b)
	if err != nil {
		return b, err
	}
	ast.Standardize()
	return ast.Pack(), nil
}
