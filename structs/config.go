package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Cache     *CacheConfig
	Auth      *AuthConfig
	Email     *EmailConfig
	RateLimit *RateLimitConfig
}

type ServerConfig struct {
	AppName        string        // OpsDesk
	Environment    string        // development, production
	Port           string        // :8084
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int // in bytes
}

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	EntityTTL       time.Duration
}

type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration
	CookieDomain       string
}

type EmailConfig struct {
	ApiKey  string
	From    string
	Enabled bool
}

type RateLimitConfig struct {
	Enabled         bool
	AuthLimit       int
	AuthWindow      time.Duration
	GeneralLimit    int
	GeneralWindow   time.Duration
	ExpensiveLimit  int
	ExpensiveWindow time.Duration
}
