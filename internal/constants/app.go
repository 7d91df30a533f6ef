package constants

// Application Information
const (
	AppName    = "Storefront Catalog Service"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

// Cache Key Prefixes
const (
	CacheKeyPrefix    = "storefront:"
	CacheKeyGridState = CacheKeyPrefix + "grid:"
)

// Grid names
const (
	GridBooks   = "books"
	GridAuthors = "authors"
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)
