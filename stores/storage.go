package stores

import (
	"github.com/sirupsen/logrus"

	"roombook/config"
	"roombook/core"
	"roombook/stores/csvfile"
	"roombook/stores/memory"
	"roombook/stores/sqlite"
)

// ForConfig picks the store the configuration asks for. Anything
// other than csv or sqlite falls back to the in-memory store.
func ForConfig(cfg *config.Config) core.RoomStore {
	var store core.RoomStore

	storageField := logrus.Fields{
		"storageType": cfg.StorageType,
	}

	switch cfg.StorageType {
	case config.StorageCSV:
		storageField["path"] = cfg.StoragePath
		store = csvfile.NewRoomStore(cfg.StoragePath)
	case config.StorageSQLite:
		storageField["dataSourceName"] = cfg.DataSourceName
		store = sqlite.NewRoomStore(cfg.DataSourceName)
	default:
		store = memory.NewRoomStore()
		storageField["storageType"] = "in-memory"
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store
}
