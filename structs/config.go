package structs

import "time"

type Config struct {
	Server   *ServerConfig
	Cors     *CorsConfig
	Products *ProductsConfig
	Mongo    *MongoConfig
	Watcher  *WatcherConfig
	Cache    *CacheConfig
}

type ServerConfig struct {
	AppName         string        // ms_inventory
	Environment     string        // development, production
	Port            string        // :8001
	ReadTimeout     time.Duration // in seconds
	WriteTimeout    time.Duration // in seconds, must outlive the downstream timeout
	IdleTimeout     time.Duration // in seconds
	ShutdownTimeout time.Duration // in seconds
	MaxHeaderBytes  int           // in bytes
	MaxBodyBytes    int64         // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // in seconds
}

// ProductsConfig points at the downstream products microservice.
type ProductsConfig struct {
	BaseURL         string        // http://ms-product:8000
	Timeout         time.Duration // per outbound call
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

type MongoConfig struct {
	Enabled        bool
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

// WatcherConfig controls how the change feed watcher is restarted after a failure.
type WatcherConfig struct {
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxRestarts    int // consecutive restarts without progress, 0 means unlimited
}

type CacheConfig struct {
	Enabled         bool
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	CheckpointTTL   time.Duration // 0 keeps the resume token forever
	CheckpointKeyNS string
}
