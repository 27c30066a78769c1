package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/axioparse/axioparse/pkg/constants"
	"github.com/axioparse/axioparse/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Reference service
	NCBIEmail    string
	NCBIKey      string
	NCBIBaseURL  string
	NCBITool     string
	CallInterval time.Duration
	Timeout      time.Duration

	// Resolution
	FetchRetries     int
	FetchBackoff     time.Duration
	MaxCandidates    int
	Workers          int
	PreferExactMatch bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.axioparse.yaml or ./.axioparse.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if err := bindCredentials(v); err != nil {
		return nil, errors.NewConfigError("environment", "failed to bind credentials", err)
	}

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".axioparse")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && v.GetString("config") != "" {
			return nil, errors.NewConfigError("file", "failed to read config file", err)
		}
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		NCBIEmail:    v.GetString("ncbi_email"),
		NCBIKey:      v.GetString("ncbi_key"),
		NCBIBaseURL:  v.GetString("ncbi_base_url"),
		NCBITool:     v.GetString("ncbi_tool"),
		CallInterval: v.GetDuration("call_interval"),
		Timeout:      v.GetDuration("timeout"),

		FetchRetries:     v.GetInt("fetch_retries"),
		FetchBackoff:     v.GetDuration("fetch_backoff"),
		MaxCandidates:    v.GetInt("max_candidates"),
		Workers:          v.GetInt("workers"),
		PreferExactMatch: v.GetBool("prefer_exact_match"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ncbi_base_url", constants.NCBIBaseURL)
	v.SetDefault("ncbi_tool", constants.DefaultTool)
	v.SetDefault("timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("fetch_retries", constants.FetchRetries)
	v.SetDefault("fetch_backoff", constants.FetchBackoff)
	v.SetDefault("max_candidates", constants.MaxCandidates)
	v.SetDefault("workers", constants.DefaultWorkers)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so flag values take
// precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// ValidateCredentials fails unless both NCBI_EMAIL and NCBI_KEY are set.
// Anonymous E-utilities access is throttled hard enough to stall a full pass.
func (c *Config) ValidateCredentials() error {
	var missing []string
	if c.NCBIEmail == "" {
		missing = append(missing, "NCBI_EMAIL")
	}
	if c.NCBIKey == "" {
		missing = append(missing, "NCBI_KEY")
	}
	if len(missing) > 0 {
		return errors.NewConfigError("ncbi",
			strings.Join(missing, " and ")+" not set; add them to the environment or a .env file",
			errors.ErrCredentialsRequired)
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env; neither overrides the real environment.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// bindCredentials binds the credential variables under their exact names.
func bindCredentials(v *viper.Viper) error {
	if err := v.BindEnv("ncbi_email", "NCBI_EMAIL"); err != nil {
		return err
	}
	return v.BindEnv("ncbi_key", "NCBI_KEY")
}
