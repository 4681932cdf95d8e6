// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Server     ServerConfig     `mapstructure:"server"`
	AWS        AWSConfig        `mapstructure:"aws"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Search     SearchConfig     `mapstructure:"search"`
	Store      StoreConfig      `mapstructure:"store"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Dialog     DialogConfig     `mapstructure:"dialog"`
	Pipeline   PipelineSettings `mapstructure:"pipeline"`
	Camunda    CamundaConfig    `mapstructure:"camunda"`
	Recognizer RecognizerConfig `mapstructure:"recognizer"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

// AWSConfig is shared by every AWS client. Endpoint overrides the resolved
// service endpoint (localstack and similar).
type AWSConfig struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

type QueueConfig struct {
	Name              string `mapstructure:"name"`
	URL               string `mapstructure:"url"`
	WaitTimeSeconds   int32  `mapstructure:"wait_time_seconds"`
	VisibilityTimeout int32  `mapstructure:"visibility_timeout"` // seconds
}

// Endpoint returns the configured queue URL, falling back to the queue name
// which is then resolved per send.
func (q QueueConfig) Endpoint() string {
	if q.URL != "" {
		return q.URL
	}
	return q.Name
}

type SearchConfig struct {
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Index         string              `mapstructure:"index"`
	IDField       string              `mapstructure:"id_field"`
	MaxResults    int                 `mapstructure:"max_results"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field.
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

// Store backends.
const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type StoreConfig struct {
	Backend  string         `mapstructure:"backend"`
	DynamoDB DynamoDBConfig `mapstructure:"dynamodb"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// TableName names the restaurant table of whichever backend is selected.
func (s StoreConfig) TableName() string {
	switch s.Backend {
	case StorePostgres:
		return s.Postgres.Table
	case StoreRedis:
		return s.Redis.KeyPrefix
	default:
		return s.DynamoDB.Table
	}
}

type DynamoDBConfig struct {
	Table            string `mapstructure:"table"`
	KeyAttribute     string `mapstructure:"key_attribute"`
	NameAttribute    string `mapstructure:"name_attribute"`
	AddressAttribute string `mapstructure:"address_attribute"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
	Table          string `mapstructure:"table"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Notification channels.
const (
	ChannelSNS = "sns"
	ChannelSES = "ses"
)

type NotifyConfig struct {
	Channel   string `mapstructure:"channel"`
	TopicARN  string `mapstructure:"topic_arn"`
	FromEmail string `mapstructure:"from_email"`
	Subject   string `mapstructure:"subject"`
}

// Target is the preconfigured destination of the selected channel.
func (n NotifyConfig) Target() string {
	if n.Channel == ChannelSES {
		return n.FromEmail
	}
	return n.TopicARN
}

// DialogConfig holds the slot validation domain rules.
type DialogConfig struct {
	TimeZone  string   `mapstructure:"time_zone"`
	Locations []string `mapstructure:"locations"`
	Cuisines  []string `mapstructure:"cuisines"`
}

// PipelineSettings controls how the worker manager schedules ProcessOne.
type PipelineSettings struct {
	PollInterval int `mapstructure:"poll_interval"` // milliseconds
	Concurrency  int `mapstructure:"concurrency"`
	Timeout      int `mapstructure:"timeout"` // milliseconds, per ProcessOne
}

type CamundaConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	BrokerAddress string `mapstructure:"broker_address"`
	TaskType      string `mapstructure:"task_type"`
	MaxJobsActive int    `mapstructure:"max_jobs_active"`
	Timeout       int    `mapstructure:"timeout"` // milliseconds
}

// RecognizerConfig identifies the bot the chat proxy talks to.
type RecognizerConfig struct {
	BotID      string `mapstructure:"bot_id"`
	BotAliasID string `mapstructure:"bot_alias_id"`
	LocaleID   string `mapstructure:"locale_id"`
}

// TracingConfig points span export at a Jaeger collector. Empty disables it.
type TracingConfig struct {
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// PipelineConfig is the set of external endpoints the suggestion pipeline
// is wired to. It is built once and passed to constructors explicitly.
type PipelineConfig struct {
	QueueEndpoint  string
	SearchEndpoint string
	StoreTableName string
	NotifyTarget   string
}

// PipelineEndpoints extracts the pipeline wiring from the full config.
func (c *Config) PipelineEndpoints() PipelineConfig {
	return PipelineConfig{
		QueueEndpoint:  c.Queue.Endpoint(),
		SearchEndpoint: c.Search.Elasticsearch.GetURL(),
		StoreTableName: c.Store.TableName(),
		NotifyTarget:   c.Notify.Target(),
	}
}
