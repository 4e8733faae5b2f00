// internal/app/bootstrap/storage.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/pantry/storage"
)

// newStorage builds the file storage backend from app config.
func newStorage(ctx context.Context, appCfg AppConfig) (storage.Store, error) {
	switch appCfg.StorageType {
	case "local":
		store, err := storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
		if err != nil {
			return nil, fmt.Errorf("local storage: %w", err)
		}
		return store, nil
	case "s3":
		store, err := storage.NewS3(ctx, storage.S3Config{
			Region:        appCfg.StorageS3Region,
			Bucket:        appCfg.StorageS3Bucket,
			Prefix:        appCfg.StorageS3Prefix,
			CloudFrontURL: appCfg.StorageCFURL,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage_type %q", appCfg.StorageType)
	}
}
