package providers

import (
	"fmt"

	"rwstats/internal/store"
	"rwstats/internal/structures"
)

// NewRecordStoreProvider selects the visitor record backend: postgres
// for hosted deployments, file for single-node setups without a
// database.
func NewRecordStoreProvider(conf *structures.Config, logger Logger, compressor store.CompressorInterface) (store.RecordStore, error) {
	switch conf.Database.Driver {
	case "postgres":
		logger.Infof(TypeApp, "Using postgres record store")
		return store.NewPostgresStore(conf.Database.DSN, conf.Database.MaxOpenConns, conf.Database.MaxIdleConns)
	case "file":
		logger.Infof(TypeApp, "Using file record store at %s", conf.Database.FilePath)
		return store.NewFileStore(conf.Database.FilePath, compressor), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", conf.Database.Driver)
	}
}

func NewObjectStoreProvider(conf *structures.Config, logger Logger) (store.ObjectStore, error) {
	logger.Infof(TypeApp, "Connecting object store %s bucket %s", conf.ObjectStore.Endpoint, conf.ObjectStore.Bucket)
	return store.NewMinioStore(conf.ObjectStore)
}
