// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml
// on top, expands ${ENV} placeholders and applies defaults.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return build(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	// queue.url can be overridden by QUEUE_URL, and so on.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			// Unset variables expand to "", leaving the default to applyDefaults.
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from well-known env vars when the YAML
// leaves them blank.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty := func(dst *string, envKey string) {
		if *dst == "" {
			if val := os.Getenv(envKey); val != "" {
				*dst = val
			}
		}
	}

	setIfEmpty(&cfg.AWS.Region, "AWS_REGION")
	setIfEmpty(&cfg.Queue.URL, "QUEUE_URL")
	setIfEmpty(&cfg.Notify.TopicARN, "SNS_TOPIC_ARN")
	setIfEmpty(&cfg.Search.Elasticsearch.Password, "ES_PASSWORD")
	setIfEmpty(&cfg.Store.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Store.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Store.Redis.Password, "REDIS_PASSWORD")
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "dining-concierge"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10000
	}

	if cfg.Queue.Name == "" && cfg.Queue.URL == "" {
		cfg.Queue.Name = "DiningConciergeQueue"
	}

	if cfg.Search.Elasticsearch.URL == "" && len(cfg.Search.Elasticsearch.Addresses) > 0 {
		cfg.Search.Elasticsearch.URL = cfg.Search.Elasticsearch.Addresses[0]
	}
	if len(cfg.Search.Elasticsearch.Addresses) == 0 && cfg.Search.Elasticsearch.URL != "" {
		cfg.Search.Elasticsearch.Addresses = []string{cfg.Search.Elasticsearch.URL}
	}
	if cfg.Search.Index == "" {
		cfg.Search.Index = "restaurants"
	}
	if cfg.Search.IDField == "" {
		cfg.Search.IDField = "BusinessID"
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 5
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = StoreDynamoDB
	}
	if cfg.Store.DynamoDB.Table == "" {
		cfg.Store.DynamoDB.Table = "yelp-restaurants"
	}
	if cfg.Store.DynamoDB.KeyAttribute == "" {
		cfg.Store.DynamoDB.KeyAttribute = "BusinessID"
	}
	if cfg.Store.DynamoDB.NameAttribute == "" {
		cfg.Store.DynamoDB.NameAttribute = "Name"
	}
	if cfg.Store.DynamoDB.AddressAttribute == "" {
		cfg.Store.DynamoDB.AddressAttribute = "Address"
	}
	if cfg.Store.Postgres.Port == 0 {
		cfg.Store.Postgres.Port = 5432
	}
	if cfg.Store.Postgres.MaxConnections == 0 {
		cfg.Store.Postgres.MaxConnections = 10
	}
	if cfg.Store.Postgres.MaxIdle == 0 {
		cfg.Store.Postgres.MaxIdle = 2
	}
	if cfg.Store.Postgres.SSLMode == "" {
		cfg.Store.Postgres.SSLMode = "disable"
	}
	if cfg.Store.Postgres.Table == "" {
		cfg.Store.Postgres.Table = "restaurants"
	}
	if cfg.Store.Redis.KeyPrefix == "" {
		cfg.Store.Redis.KeyPrefix = "restaurant:"
	}

	if cfg.Notify.Channel == "" {
		cfg.Notify.Channel = ChannelSNS
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "Restaurant Suggestions"
	}

	if cfg.Dialog.TimeZone == "" {
		cfg.Dialog.TimeZone = "America/New_York"
	}
	if len(cfg.Dialog.Locations) == 0 {
		cfg.Dialog.Locations = []string{"new york"}
	}
	if len(cfg.Dialog.Cuisines) == 0 {
		cfg.Dialog.Cuisines = []string{"chinese", "lebanese", "italian", "japanese", "mexican"}
	}

	if cfg.Pipeline.PollInterval == 0 {
		cfg.Pipeline.PollInterval = 60000
	}
	if cfg.Pipeline.Concurrency == 0 {
		cfg.Pipeline.Concurrency = 1
	}
	if cfg.Pipeline.Timeout == 0 {
		cfg.Pipeline.Timeout = 30000
	}

	if cfg.Camunda.TaskType == "" {
		cfg.Camunda.TaskType = "dispatch-suggestions"
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 5
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}

	if cfg.Recognizer.LocaleID == "" {
		cfg.Recognizer.LocaleID = "en_US"
	}
}

// validateConfig validates settings shared by both binaries.
func validateConfig(cfg *Config) error {
	if cfg.AWS.Region == "" {
		return fmt.Errorf("aws.region is required")
	}
	if cfg.Queue.Endpoint() == "" {
		return fmt.Errorf("queue.name or queue.url is required")
	}
	if _, err := time.LoadLocation(cfg.Dialog.TimeZone); err != nil {
		return fmt.Errorf("dialog.time_zone: %w", err)
	}
	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda is enabled")
	}
	return nil
}

// ValidatePipeline checks the settings only the suggestion worker needs.
func (c *Config) ValidatePipeline() error {
	if c.Search.Elasticsearch.GetURL() == "" {
		return fmt.Errorf("search.elasticsearch.addresses or url is required")
	}

	switch c.Store.Backend {
	case StoreDynamoDB:
		if c.Store.DynamoDB.Table == "" {
			return fmt.Errorf("store.dynamodb.table is required")
		}
	case StorePostgres:
		if c.Store.Postgres.Host == "" || c.Store.Postgres.Database == "" {
			return fmt.Errorf("store.postgres.host and store.postgres.database are required")
		}
	case StoreRedis:
		if c.Store.Redis.Address == "" {
			return fmt.Errorf("store.redis.address is required")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}

	switch c.Notify.Channel {
	case ChannelSNS:
		if c.Notify.TopicARN == "" {
			return fmt.Errorf("notify.topic_arn is required for the sns channel")
		}
	case ChannelSES:
		if c.Notify.FromEmail == "" {
			return fmt.Errorf("notify.from_email is required for the ses channel")
		}
	default:
		return fmt.Errorf("unknown notify.channel %q", c.Notify.Channel)
	}
	return nil
}

// ValidateRecognizer checks the chat proxy settings.
func (c *Config) ValidateRecognizer() error {
	if c.Recognizer.BotID == "" || c.Recognizer.BotAliasID == "" {
		return fmt.Errorf("recognizer.bot_id and recognizer.bot_alias_id are required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
