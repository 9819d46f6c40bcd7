package providers

import (
	"bikeprice/internal/structures"
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
	"time"
)

const AppName = "BikePricingSnapshot"

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8090)

	v.SetDefault("upstream.timeout", 10*time.Second)
	v.SetDefault("upstream.maxAttempts", 3)
	v.SetDefault("upstream.initialBackoff", 200*time.Millisecond)
	v.SetDefault("upstream.maxBackoff", 2*time.Second)
	v.SetDefault("upstream.maxConcurrent", 8)
	v.SetDefault("upstream.ratePerSecond", 10)
	v.SetDefault("upstream.userAgent", "Mozilla/5.0 (compatible; DonkeyRepublic-PricingScript/1.0)")
	v.SetDefault("upstream.breakerFailures", 5)
	v.SetDefault("upstream.breakerTimeout", 30*time.Second)

	v.SetDefault("normalization.policy", "strict")

	v.SetDefault("snapshot.filePath", "pricing.json")
	v.SetDefault("snapshot.archiveKeep", 10)
	v.SetDefault("snapshot.refreshInterval", 6*time.Hour)
	v.SetDefault("snapshot.cityConcurrency", 6)

	v.SetDefault("display.defaultCountry", "Denmark")
	v.SetDefault("display.defaultCity", "Copenhagen")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.console", true)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 16)
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("metrics.enabled", true)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "BIKEPRICE_LOG_LEVEL")
	v.BindEnv("logger.dir", "BIKEPRICE_LOG_DIR")
	v.BindEnv("snapshot.filePath", "BIKEPRICE_SNAPSHOT_PATH")
	v.BindEnv("snapshot.refreshInterval", "BIKEPRICE_REFRESH_INTERVAL")
	v.BindEnv("normalization.policy", "BIKEPRICE_POLICY")
	v.BindEnv("registry.filePath", "BIKEPRICE_REGISTRY")
	v.BindEnv("cache.enabled", "BIKEPRICE_CACHE_ENABLED")
	v.BindEnv("cache.size", "BIKEPRICE_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode
	if conf.Debug {
		conf.Logger.Level = "debug"
	}

	return &conf, nil
}
