package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type VisitorConfig struct {
	RetentionDays       int           `yaml:"retentionDays" validate:"required|min:1"`
	BackfillDays        int           `yaml:"backfillDays" validate:"required|min:1"`
	MaintenanceInterval time.Duration `yaml:"maintenanceInterval" validate:"required|min:1"`
}

type DatabaseConfig struct {
	Driver       string        `yaml:"driver" validate:"required|in:postgres,file"`
	DSN          string        `yaml:"dsn"`
	MaxOpenConns int           `yaml:"maxOpenConns"`
	MaxIdleConns int           `yaml:"maxIdleConns"`
	FilePath     string        `yaml:"filePath"`
	SaveInterval time.Duration `yaml:"saveInterval"`
}

type ObjectStoreConfig struct {
	Endpoint      string `yaml:"endpoint" validate:"required"`
	AccessKey     string `yaml:"accessKey"`
	SecretKey     string `yaml:"secretKey"`
	Bucket        string `yaml:"bucket" validate:"required"`
	UseSSL        bool   `yaml:"useSSL"`
	PublicBaseURL string `yaml:"publicBaseURL"`
}

type StorageConfig struct {
	MaxBytes         int64   `yaml:"maxBytes"`
	ThresholdPercent float64 `yaml:"thresholdPercent"`
	MaxUploadBytes   int64   `yaml:"maxUploadBytes"`
	ListLimit        int     `yaml:"listLimit"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server            `yaml:"webServer"`
	Visitor     VisitorConfig     `yaml:"visitor"`
	Database    DatabaseConfig    `yaml:"database"`
	ObjectStore ObjectStoreConfig `yaml:"objectStore"`
	Storage     StorageConfig     `yaml:"storage"`
	Logger      LoggerConfig      `yaml:"logger"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}
