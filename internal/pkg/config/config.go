package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverDynamoDB = "dynamodb"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"dev"`
	Server      ServerConfig
	Store       StoreConfig
	DB          DBConfig
	Mongo       MongoConfig
	Dynamo      DynamoConfig
	Ledger      LedgerConfig
	CORS        CORSConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
}

// DB credentials are only checked by Validate when STORE_DRIVER=postgres.
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type MongoConfig struct {
	URI        string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database   string `envconfig:"MONGO_DATABASE" default:"payment_3p"`
	Collection string `envconfig:"MONGO_COLLECTION" default:"payment_tokens"`
}

type DynamoConfig struct {
	TableName string `envconfig:"TABLE_NAME" default:"payment-3p-tokens"`
	Region    string `envconfig:"AWS_REGION" default:"us-east-1"`
	Endpoint  string `envconfig:"DYNAMODB_ENDPOINT"`
}

// LedgerConfig bounds ledger operations. RetryBackoff* pace both the issue
// id-collision retries and the reduce CAS retries.
type LedgerConfig struct {
	StoreTimeout        time.Duration `envconfig:"LEDGER_STORE_TIMEOUT" default:"3s"`
	IssueMaxAttempts    int           `envconfig:"LEDGER_ISSUE_MAX_ATTEMPTS" default:"3"`
	ReduceMaxAttempts   int           `envconfig:"LEDGER_REDUCE_MAX_ATTEMPTS" default:"5"`
	RetryBackoffInitial time.Duration `envconfig:"LEDGER_RETRY_BACKOFF_INITIAL" default:"5ms"`
	RetryBackoffMax     time.Duration `envconfig:"LEDGER_RETRY_BACKOFF_MAX" default:"100ms"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Content-Type,X-Amz-Date,Authorization,X-Api-Key,x-requested-with"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.DB.User == "" || c.DB.Password == "" || c.DB.DBName == "" {
			return fmt.Errorf("DB_USER, DB_PASSWORD and DB_NAME are required for store driver %q", c.Store.Driver)
		}
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for store driver %q", c.Store.Driver)
		}
	case StoreDriverDynamoDB:
		if c.Dynamo.TableName == "" {
			return fmt.Errorf("TABLE_NAME is required for store driver %q", c.Store.Driver)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Ledger.IssueMaxAttempts < 1 {
		return fmt.Errorf("LEDGER_ISSUE_MAX_ATTEMPTS must be at least 1, got %d", c.Ledger.IssueMaxAttempts)
	}
	if c.Ledger.ReduceMaxAttempts < 1 {
		return fmt.Errorf("LEDGER_REDUCE_MAX_ATTEMPTS must be at least 1, got %d", c.Ledger.ReduceMaxAttempts)
	}
	if c.Ledger.RetryBackoffMax < c.Ledger.RetryBackoffInitial {
		return fmt.Errorf("LEDGER_RETRY_BACKOFF_MAX (%s) must not be below LEDGER_RETRY_BACKOFF_INITIAL (%s)", c.Ledger.RetryBackoffMax, c.Ledger.RetryBackoffInitial)
	}
	if c.Ledger.StoreTimeout <= 0 {
		return fmt.Errorf("LEDGER_STORE_TIMEOUT must be positive, got %s", c.Ledger.StoreTimeout)
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Environment: "test",
		Server: ServerConfig{
			Port:            "8889", // Test port
			ShutdownTimeout: time.Second,
		},
		Store: StoreConfig{
			Driver: StoreDriverMemory,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 4,
		},
		Ledger: LedgerConfig{
			StoreTimeout:        time.Second,
			IssueMaxAttempts:    3,
			ReduceMaxAttempts:   5,
			RetryBackoffInitial: time.Millisecond,
			RetryBackoffMax:     5 * time.Millisecond,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "X-Amz-Date", "Authorization", "X-Api-Key", "x-requested-with"},
			MaxAge:       12 * time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
	}
}
