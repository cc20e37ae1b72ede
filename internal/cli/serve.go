package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fatou/pkg/archive"
	"github.com/matzehuels/fatou/pkg/cache"
	"github.com/matzehuels/fatou/pkg/pipeline"
	"github.com/matzehuels/fatou/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		profileDir string
		maxDim     int
		redisAddr  string
		redisDB    int
		mongoURI   string
		mongoDB    string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Serve the render pipeline over HTTP.

The API exposes the family catalogue, profiles, a browsable image
endpoint, full render runs, and the run history:

  GET  /healthz
  GET  /api/v1/families
  GET  /api/v1/image?family=julia&param_re=-0.8&param_im=0.156
  POST /api/v1/render
  GET  /api/v1/history

Planes and artifacts are cached on disk by default; --redis-addr moves
the cache to Redis for multi-instance setups. History lives in memory
unless --mongo points at a MongoDB instance.

Examples:
  fatou serve
  fatou serve --addr :9090 --max-dim 2048
  fatou serve --redis-addr localhost:6379 --mongo mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cch, err := serveCache(ctx, noCache, redisAddr, redisDB)
			if err != nil {
				return err
			}

			store, err := serveArchive(ctx, mongoURI, mongoDB)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := store.Close(closeCtx); err != nil {
					printWarning("closing archive: %v", err)
				}
			}()

			runner := pipeline.NewRunner(cch, nil, logger)
			defer runner.Close()

			display := addr
			if strings.HasPrefix(display, ":") {
				display = "localhost" + display
			}
			printInfo("API at http://%s/api/v1", display)

			srv := server.New(server.Config{
				Addr:       addr,
				ProfileDir: profileDir,
				MaxDim:     maxDim,
				Runner:     runner,
				Archive:    store,
				Cache:      cch,
				Logger:     logger,
			})
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&profileDir, "profile-dir", "", "profile directory (default: ~/.config/fatou/profiles)")
	cmd.Flags().IntVar(&maxDim, "max-dim", server.DefaultMaxDim, "resolution cap per side")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the shared cache (host:port)")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&mongoURI, "mongo", os.Getenv("FATOU_MONGO_URI"), "MongoDB URI for persistent history")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", archive.DefaultDatabase, "MongoDB database name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable plane, artifact, and response caching")

	return cmd
}

// serveCache picks the cache backend: Redis when addressed, the user
// file cache otherwise, the null cache with --no-cache. The Redis
// password is read from FATOU_REDIS_PASSWORD.
func serveCache(ctx context.Context, noCache bool, redisAddr string, redisDB int) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     redisAddr,
			Password: os.Getenv("FATOU_REDIS_PASSWORD"),
			DB:       redisDB,
		})
	}
	return newCache(false)
}

// serveArchive picks the history store: MongoDB when addressed, an
// in-memory store otherwise so history works out of the box.
func serveArchive(ctx context.Context, uri, db string) (archive.Store, error) {
	if uri == "" {
		return archive.NewMemoryStore(), nil
	}
	return archive.NewMongoStore(ctx, uri, db)
}
