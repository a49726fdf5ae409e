package config

import (
	"inventory_server/structs"
	"strings"
	"time"
)

// Load builds the service configuration from the environment. Call it once at
// startup and pass the result to the components that need it.
func Load() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:         getEnvAsString("APP_NAME", "ms_inventory"),
			Environment:     getEnvAsString("APP_ENV", "development"),
			Port:            getEnvAsString("APP_PORT", ":8001"),
			ReadTimeout:     getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 35*time.Second),
			IdleTimeout:     getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			ShutdownTimeout: getEnvAsTimeDuration("SERVER_SHUTDOWN_TIME_OUT", 10*time.Second),
			MaxHeaderBytes:  getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			MaxBodyBytes:    getEnvAsInt64("SERVER_MAX_BODY_BYTES", 10<<20), // 10 MB
		},
		Cors: &structs.CorsConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"*"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"*"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "X-Request-Id"}),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 600),
		},
		Products: &structs.ProductsConfig{
			BaseURL:         strings.TrimRight(getEnvAsString("PRODUCTS_SERVICE_URL", "http://ms-product:8000"), "/"),
			Timeout:         getEnvAsTimeDuration("PRODUCTS_SERVICE_TIMEOUT", 30*time.Second),
			MaxIdleConns:    getEnvAsInt("PRODUCTS_SERVICE_MAX_IDLE_CONNS", 20),
			IdleConnTimeout: getEnvAsTimeDuration("PRODUCTS_SERVICE_IDLE_CONN_TIMEOUT", 90*time.Second),
		},
		Mongo: &structs.MongoConfig{
			Enabled:        getEnvAsBool("MONGO_ENABLED", true),
			URI:            getEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnvAsString("MONGO_DATABASE", "products_db"),
			Collection:     getEnvAsString("MONGO_COLLECTION", "products"),
			ConnectTimeout: getEnvAsTimeDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		},
		Watcher: &structs.WatcherConfig{
			InitialBackoff: getEnvAsTimeDuration("WATCHER_INITIAL_BACKOFF", 500*time.Millisecond),
			MaxBackoff:     getEnvAsTimeDuration("WATCHER_MAX_BACKOFF", 30*time.Second),
			MaxRestarts:    getEnvAsInt("WATCHER_MAX_RESTARTS", 0),
		},
		Cache: &structs.CacheConfig{
			Enabled:         getEnvAsBool("CACHE_ENABLED", false),
			Address:         getEnvAsString("CACHE_ADDRESS", "localhost:6379"),
			Username:        getEnvAsString("CACHE_USERNAME", ""),
			Password:        getEnvAsString("CACHE_PASSWORD", ""),
			DB:              getEnvAsInt("CACHE_DB", 0),
			PoolSize:        getEnvAsInt("CACHE_POOL_SIZE", 5),
			MinIdleConns:    getEnvAsInt("CACHE_MIN_IDLE_CONNS", 1),
			DialTimeout:     getEnvAsTimeDuration("CACHE_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getEnvAsTimeDuration("CACHE_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("CACHE_WRITE_TIMEOUT", 3*time.Second),
			MaxRetries:      getEnvAsInt("CACHE_MAX_RETRIES", 3),
			CheckpointTTL:   getEnvAsTimeDuration("CACHE_CHECKPOINT_TTL", 0),
			CheckpointKeyNS: getEnvAsString("CACHE_CHECKPOINT_NAMESPACE", "inventory:watcher:resume"),
		},
	}
}

func GetLogLevel(cfg *structs.Config) string {
	if IsProduction(cfg) {
		return "info"
	}
	return "debug"
}

func IsProduction(cfg *structs.Config) bool {
	return cfg.Server.Environment == "production"
}
