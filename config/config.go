package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/slikemedia/publishbot/slike"
)

type Config struct {
	Slike SlikeConfig
	Watch WatchConfig

	LogLevel        log.Level
	LogFormat       LogFormat
	TestModeEnabled bool
}

type SlikeConfig struct {
	ProductionURL  url.URL
	DevelopmentURL url.URL
	Environment    string
	Token          string
	TokenDev       string
	SecretPath     string
	Concurrency    int
}

type WatchConfig struct {
	Dir      string
	Interval time.Duration
}

type LogFormat string

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

type EnvfileKey string

const (
	// Production RPC endpoint; defaults to the app cluster but the b2b
	// deployment uses a different host
	EnvfileKeySlikeProductionURL = "SLIKE_PRODUCTION_URL"
	// Development RPC endpoint
	EnvfileKeySlikeDevelopmentURL = "SLIKE_DEVELOPMENT_URL"
	// Environment tag passed to the publish call ("production"/"prod",
	// "development"/"dev", or empty for production)
	EnvfileKeySlikeEnvironment = "SLIKE_ENVIRONMENT"
	// Primary API token
	EnvfileKeySlikeToken = "SLIKE_TOKEN"
	// Development API token, used only when the environment is development
	EnvfileKeySlikeTokenDev = "SLIKE_TOKEN_DEV"
	// AWS Secrets Manager path where Slike tokens can be found
	EnvfileKeySlikeSecretsPath = "SLIKE_SECRETS_PATH"
	// Number of assets published concurrently in batch mode
	EnvfileKeySlikePublishConcurrency = "SLIKE_PUBLISH_CONCURRENCY"

	// Directory scanned for manifest files in watch mode
	EnvfileKeyWatchDir = "SLIKE_WATCH_DIR"
	// Interval between directory scans in watch mode, in seconds
	EnvfileKeyWatchInterval = "SLIKE_WATCH_INTERVAL"

	// Log level (e.g. "debug", "info", "warn", "error")
	EnvfileKeyLogLevel = "LOG_LEVEL"
	// Log output format (e.g. "text", "json")
	EnvfileKeyLogFormat = "LOG_FORMAT"
	// Enables "test mode" (publishes are simulated, nothing is sent)
	EnvfileKeyTestMode = "TEST_MODE"
)

func FromEnvfile() Config {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("dotenv")

	err := viper.ReadInConfig()
	if err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	productionURL, err := parseEndpoint(EnvfileKeySlikeProductionURL, slike.ProductionURL)
	if err != nil {
		log.Fatalf("error parsing production URL: %v", err)
	}

	developmentURL, err := parseEndpoint(EnvfileKeySlikeDevelopmentURL, slike.DevelopmentURL)
	if err != nil {
		log.Fatalf("error parsing development URL: %v", err)
	}

	environment := getConfigString(EnvfileKeySlikeEnvironment)
	if _, err := slike.ParseEnvironment(environment); err != nil {
		log.Fatalf("error parsing environment: %v", err)
	}

	concurrency := getConfigInt(EnvfileKeySlikePublishConcurrency)
	if concurrency == 0 {
		// Default to 4 if not set
		concurrency = 4
	}

	watchInterval := getConfigInt(EnvfileKeyWatchInterval)
	if watchInterval == 0 {
		// Default to 30 seconds if not set
		watchInterval = 30
	}

	logLevel, err := log.ParseLevel(getConfigString(EnvfileKeyLogLevel))
	if err != nil {
		// Default to info level but log a warning
		log.Warnf("unable to parse log level: %v", err)
		logLevel = log.InfoLevel
	}

	logFormat, err := parseLogFormat(getConfigString(EnvfileKeyLogFormat))
	if err != nil {
		// Default to text formatter but log a warning
		log.Warnf("unable to parse log format: %v", err)
		logFormat = LogFormatText
	}

	token := getConfigString(EnvfileKeySlikeToken)
	secretsPath := getConfigString(EnvfileKeySlikeSecretsPath)
	if token == "" && secretsPath == "" {
		log.Fatal("slike credentials not configured")
	}

	isTestMode := viper.GetBool(EnvfileKeyTestMode)

	return Config{
		Slike: SlikeConfig{
			ProductionURL:  *productionURL,
			DevelopmentURL: *developmentURL,
			Environment:    environment,
			Token:          token,
			TokenDev:       getConfigString(EnvfileKeySlikeTokenDev),
			SecretPath:     secretsPath,
			Concurrency:    concurrency,
		},
		Watch: WatchConfig{
			Dir:      getConfigString(EnvfileKeyWatchDir),
			Interval: time.Duration(watchInterval) * time.Second,
		},
		LogLevel:        logLevel,
		LogFormat:       logFormat,
		TestModeEnabled: isTestMode,
	}
}

func parseEndpoint(key string, fallback string) (*url.URL, error) {
	raw := getConfigString(key)
	if raw == "" {
		raw = fallback
	}
	return url.Parse(raw)
}

func parseLogFormat(raw string) (LogFormat, error) {
	switch strings.ToLower(raw) {
	case LogFormatJSON:
		return LogFormatJSON, nil
	case LogFormatText:
		return LogFormatText, nil
	default:
		return "", fmt.Errorf("unidentified log format: %s", raw)
	}
}

// Gets a config value as a string from env vars or a .env file
func getConfigString(key string) string {
	value := os.Getenv(key)
	if value == "" {
		value = viper.GetString(key)
	}
	return value
}

// Gets a config value as an int from env vars or a .env file
func getConfigInt(key string) int {
	envVarValue := os.Getenv(key)
	if envVarValue == "" {
		return viper.GetInt(key)
	}
	value, err := strconv.Atoi(envVarValue)
	if err != nil {
		return 0
	}
	return value
}
