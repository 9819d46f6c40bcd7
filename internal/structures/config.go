package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type UpstreamConfig struct {
	Timeout         time.Duration `yaml:"timeout" validate:"required|min:1"`
	MaxAttempts     int           `yaml:"maxAttempts" validate:"required|min:1|max:10"`
	InitialBackoff  time.Duration `yaml:"initialBackoff"`
	MaxBackoff      time.Duration `yaml:"maxBackoff"`
	MaxConcurrent   int           `yaml:"maxConcurrent" validate:"required|min:1"`
	RatePerSecond   float64       `yaml:"ratePerSecond"`
	UserAgent       string        `yaml:"userAgent" validate:"required"`
	BreakerFailures uint32        `yaml:"breakerFailures"`
	BreakerTimeout  time.Duration `yaml:"breakerTimeout"`
}

type RegistryConfig struct {
	FilePath string `yaml:"filePath"`
}

type NormalizationConfig struct {
	Policy string `yaml:"policy" validate:"required|in:strict,lenient"`
}

type SnapshotConfig struct {
	FilePath        string        `yaml:"filePath" validate:"required"`
	ArchiveDir      string        `yaml:"archiveDir"`
	ArchiveKeep     int           `yaml:"archiveKeep"`
	RefreshInterval time.Duration `yaml:"refreshInterval"`
	CityConcurrency int           `yaml:"cityConcurrency" validate:"required|min:1"`
}

type DisplayConfig struct {
	DefaultCountry string `yaml:"defaultCountry" validate:"required"`
	DefaultCity    string `yaml:"defaultCity" validate:"required"`
}

type LoggerConfig struct {
	Level   string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode    uint32 `yaml:"mode" validate:"required|uint"`
	Dir     string `yaml:"dir"`
	Console bool   `yaml:"console"`
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
	AppName       string
	Debug         bool
	Path          string
	Upstream      UpstreamConfig      `yaml:"upstream"`
	Registry      RegistryConfig      `yaml:"registry"`
	Normalization NormalizationConfig `yaml:"normalization"`
	Snapshot      SnapshotConfig      `yaml:"snapshot"`
	Display       DisplayConfig       `yaml:"display"`
	WebServer     Server              `yaml:"webServer"`
	Logger        LoggerConfig        `yaml:"logger"`
	Cache         CacheConfig         `yaml:"cache"`
	Metrics       MetricsConfig       `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}
