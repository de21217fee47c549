package appconfig

import (
	"time"

	"github.com/plantops/opsboard/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address would listen on for serving normal service requests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9010"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// LogFile is the path of the rotated log file. Leaving this empty disables file logging.
	LogFile string `split_words:"true" default:"logs/app.log"`

	// TrustedProxies is a list of trusted proxies that are trusted to report a real IP via the X-Forwarded-For header.
	TrustedProxies []string `required:"true" split_words:"true" default:"::1,127.0.0.1,10.0.0.0/8"`

	// DevMode to indicate development mode. When true, the program would spin up utilities for debugging and
	// provide a more contextual message when encountered a panic. See internal/server/httpserver/http.go for the
	// actual implementation details.
	DevMode bool `split_words:"true"`

	// TracingEnabled to indicate whether to enable OpenTelemetry tracing.
	TracingEnabled bool `split_words:"true"`

	// TracingExporters to indicate which exporters to use for tracing.
	// Valid values are: otlpgrpc, stdout (for debug).
	TracingExporters []string `split_words:"true" default:"otlpgrpc"`

	// TracingSampleRate to indicate the sampling rate for tracing.
	// Valid values are: 0.0 (disabled), 1.0 (all traces), or a value between 0.0 and 1.0 (sampling rate).
	TracingSampleRate float64 `split_words:"true" default:"1.0"`

	// infrastructure components connection instructions

	// PostgresDSN is the data source name for the PostgreSQL warehouse. See
	// https://bun.uptrace.dev/postgres/#pgdriver for more details on how to construct a PostgreSQL DSN.
	PostgresDSN string `required:"true" split_words:"true"`

	PostgresMaxOpenConns    int           `split_words:"true" default:"10"`
	PostgresMaxIdleConns    int           `split_words:"true" default:"2"`
	PostgresConnMaxLifeTime time.Duration `split_words:"true" default:"5m"`
	PostgresConnMaxIdleTime time.Duration `split_words:"true" default:"5m"`

	BunDebugVerbose bool `split_words:"true"`

	// WarehouseSchema qualifies the allowlisted tables and scopes catalog lookups.
	WarehouseSchema string `split_words:"true" default:"public"`

	// WarehouseTables is the allowlist of tables that queries may read from.
	WarehouseTables TableList `split_words:"true" default:"CAP_TORQUE,FILL_WEIGHTS,TOP_LOAD,PRESAGE,HOLDS,CAPA,COMPLAINTS"`

	// WarehouseQueryTimeout bounds a single warehouse statement.
	WarehouseQueryTimeout time.Duration `split_words:"true" default:"30s"`

	// NatsURL is the URL of the NATS server used to publish run events. Leaving this empty disables
	// run events. See https://pkg.go.dev/github.com/nats-io/nats.go#Connect for the URL format.
	NatsURL string `split_words:"true"`

	// RedisURL is the URL of the Redis server. See https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL
	// for more information on how to construct a Redis URL.
	RedisURL string `required:"true" split_words:"true" default:"redis://127.0.0.1:6379/1"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// DatadogProfilerEnabled to indicate whether to enable Datadog profiler.
	DatadogProfilerEnabled bool `split_words:"true" default:"false"`

	// DatadogProfilerAgentAddress is the address of the Datadog profiler agent.
	DatadogProfilerAgentAddress string `split_words:"true" default:"localhost:8126"`

	// QueryCacheTTL is how long raw warehouse rows of a query are memoized.
	QueryCacheTTL time.Duration `split_words:"true" default:"5m"`

	// CatalogCacheTTL is how long table columns are cached.
	CatalogCacheTTL time.Duration `split_words:"true" default:"1h"`

	// RunSequenceTTL is how long a session's run sequence survives without new runs.
	RunSequenceTTL time.Duration `split_words:"true" default:"1h"`

	// MaxMAPeriod is the largest moving average period a request may ask for.
	MaxMAPeriod int `split_words:"true" default:"90"`

	// ExportS3Bucket is the bucket saved graph archives are uploaded to. Leaving this empty disables archiving.
	ExportS3Bucket string `split_words:"true"`

	ExportS3Region string `split_words:"true" default:"us-east-1"`

	ExportS3Prefix string `split_words:"true" default:"opsboard/graphs/"`

	// AWSAccessKey and AWSSecretKey are static credentials for archiving. When left empty, the default
	// AWS credential chain is used.
	AWSAccessKey string `envconfig:"AWS_ACCESS_KEY"`
	AWSSecretKey string `envconfig:"AWS_SECRET_KEY"`

	// PresetsFile is the JSON file holding the dashboard presets.
	PresetsFile string `split_words:"true" default:"presets.json"`

	// WorkerEnabled is a flag to indicate whether to enable the preset cache warming worker.
	WorkerEnabled bool `split_words:"true"`

	// WorkerInterval describes the interval in-between different batches
	WorkerInterval time.Duration `required:"true" split_words:"true" default:"10m"`

	// WorkerSeparation describes the separation time in-between different microtasks
	WorkerSeparation time.Duration `required:"true" split_words:"true" default:"3s"`

	// WorkerTimeout describes the timeout for a single batch to run
	WorkerTimeout time.Duration `required:"true" split_words:"true" default:"10m"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`

	// AdminKey is the key used to authenticate the admin API.
	AdminKey string `split_words:"true"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
