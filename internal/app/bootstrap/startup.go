// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/blackhatcommit/commithub/internal/app/resources"
	storystore "github.com/blackhatcommit/commithub/internal/app/store/stories"
	"github.com/blackhatcommit/commithub/internal/app/system/viewdata"
	"github.com/blackhatcommit/commithub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// Startup-owned singletons, shared with BuildHandler and Shutdown.
var (
	fileStorage  storage.Store
	storyCleanup *workers.StoryCleanup
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.RegisterLayout()

	store, err := newStorage(ctx, appCfg)
	if err != nil {
		return err
	}
	fileStorage = store
	viewdata.Init(store)

	storyCleanup = workers.NewStoryCleanup(
		storystore.New(deps.MongoDatabase), logger, appCfg.StoryCleanupInterval)
	storyCleanup.Start()

	return nil
}
