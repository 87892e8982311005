package model

// ----------------------------------------------------
// ================ Config ================
// LogConfig holds configuration for the global logger.
// Format is json or console, Output is stdout, stderr or file, TimeFormat is
// rfc3339, unix or iso8601.
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"json"`
	Output     string `envconfig:"LOG_OUTPUT" default:"stderr"`
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/redis_backed_model.log"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
}

// StoreConfig holds configuration for the key-value store
type StoreConfig struct {
	// RedisURL is a redis:// URL. When empty an in-memory store is used.
	RedisURL     string `envconfig:"REDIS_URL"`
	ModelsConfig string `envconfig:"MODELS_CONFIG" default:"models.yaml"`
}
