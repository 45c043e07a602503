package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"rwstats/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "RWSTATS_LOG_LEVEL")
	viper.BindEnv("database.driver", "RWSTATS_DB_DRIVER")
	viper.BindEnv("database.dsn", "RWSTATS_DB_DSN")
	viper.BindEnv("objectStore.endpoint", "RWSTATS_OBJECTSTORE_ENDPOINT")
	viper.BindEnv("objectStore.accessKey", "RWSTATS_OBJECTSTORE_ACCESS_KEY")
	viper.BindEnv("objectStore.secretKey", "RWSTATS_OBJECTSTORE_SECRET_KEY")
	viper.BindEnv("objectStore.bucket", "RWSTATS_OBJECTSTORE_BUCKET")
	viper.BindEnv("cache.enabled", "RWSTATS_CACHE_ENABLED")
	viper.BindEnv("cache.size", "RWSTATS_CACHE_SIZE")

	viper.SetDefault("visitor.retentionDays", 365)
	viper.SetDefault("visitor.backfillDays", 30)
	viper.SetDefault("visitor.maintenanceInterval", 3600)
	viper.SetDefault("database.maxOpenConns", 10)
	viper.SetDefault("database.maxIdleConns", 4)
	viper.SetDefault("database.saveInterval", 30)
	viper.SetDefault("storage.maxBytes", DefaultMaxStorageBytes)
	viper.SetDefault("storage.thresholdPercent", 95)
	viper.SetDefault("storage.maxUploadBytes", 5*1024*1024)
	viper.SetDefault("storage.listLimit", 1000)
	viper.SetDefault("cache.ttl", 5)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "RangkahStatsDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// DefaultMaxStorageBytes is the provisioned object-store quota minus a
// safety margin: 4.95 GiB.
const DefaultMaxStorageBytes int64 = 5_315_022_028
