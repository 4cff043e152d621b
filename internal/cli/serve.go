package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/scipopt/stairheur/internal/server"
	"github.com/scipopt/stairheur/pkg/cache"
	"github.com/scipopt/stairheur/pkg/pipeline"
	"github.com/scipopt/stairheur/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string // listen address
	redisAddr     string // Redis cache backend (empty = local file cache)
	redisPassword string
	redisDB       int
	mongoURI      string // MongoDB archive backend
	mongoDB       string
	dataDir       string // file archive backend (empty = in-memory)
	noCache       bool
}

// serveCommand creates the serve command exposing detection over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    ":8080",
		mongoDB: appName,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve staircase detection over HTTP",
		Long: `Serve staircase detection over HTTP.

Endpoints:
  POST   /api/v1/detect              run detection on an uploaded MPS source
  GET    /api/v1/decompositions      list archived detection runs
  GET    /api/v1/decompositions/{id} fetch one archived run
  DELETE /api/v1/decompositions/{id} remove an archived run
  GET    /healthz                    liveness probe

By default results are cached in the local file cache and archived in
memory. Point --redis-addr at a Redis instance to share the cache between
replicas, and --mongo-uri at a MongoDB deployment (or --data-dir at a
local directory) to keep the archive across restarts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the shared cache (host:port)")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection URI for the archive")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "directory for the file archive (overridden by --mongo-uri)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the cache, store, and router, then blocks until ctx is
// cancelled or the listener fails.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	pipelineCache, err := c.serveCache(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(pipelineCache, nil, c.Logger)
	defer runner.Close()

	st, err := c.serveStore(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = st.Close(closeCtx)
	}()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           server.New(runner, st, c.Logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// serveCache picks the cache backend: Redis when configured, otherwise the
// local file cache.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		c.Logger.Info("using Redis cache", "addr", opts.redisAddr)
		return cache.NewRedisCache(ctx, opts.redisAddr, opts.redisPassword, opts.redisDB)
	}
	return newCache(false)
}

// serveStore picks the archive backend: MongoDB when configured, then the
// file store, otherwise an in-memory store that is lost on restart.
func (c *CLI) serveStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	if opts.mongoURI != "" {
		c.Logger.Info("using MongoDB archive", "db", opts.mongoDB)
		return store.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
	}
	if opts.dataDir != "" {
		c.Logger.Info("using file archive", "dir", opts.dataDir)
		return store.NewFileStore(opts.dataDir)
	}
	c.Logger.Warn("no archive backend configured, archive is in-memory only")
	return store.NewMemoryStore(), nil
}
