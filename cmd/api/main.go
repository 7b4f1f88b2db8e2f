package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/sharedfeed/internal/auth"
	"github.com/geocoder89/sharedfeed/internal/cache"
	"github.com/geocoder89/sharedfeed/internal/config"
	"github.com/geocoder89/sharedfeed/internal/db"
	httpx "github.com/geocoder89/sharedfeed/internal/http"
	"github.com/geocoder89/sharedfeed/internal/observability"
	"github.com/geocoder89/sharedfeed/internal/repo/memory"
	"github.com/geocoder89/sharedfeed/internal/repo/mongodb"
	"github.com/geocoder89/sharedfeed/internal/repo/postgres"
	"github.com/geocoder89/sharedfeed/internal/security"
	"github.com/geocoder89/sharedfeed/internal/service"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// stores bundles the selected driver's repositories.
type stores struct {
	users service.UserStore
	posts service.PostStore
	ping  func(ctx context.Context) error
	close func()
}

type userStore interface {
	service.UserStore
	Ping(ctx context.Context) error
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if cfg.OTELEndpoint != "" {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		shutdown, err := observability.InitTracer(ctx, cfg)
		cancel()
		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdown(ctx)
			}()
		}
	}

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty, token issuance will fail")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	st, err := openStores(cfg, prom)
	if err != nil {
		log.Error("store init failed", "driver", cfg.Store, "err", err)
		os.Exit(1)
	}
	defer st.close()

	seedCtx, cancelSeed := config.WithTimeout(5 * time.Second)
	err = db.EnsureSeedUser(seedCtx, st.users, security.NewPasswordEncoder(cfg.PasswordPepper), cfg)
	cancelSeed()
	if err != nil {
		log.Error("seed user failed", "err", err)
	}

	feedCache, closeCache := openCache(cfg, log)
	defer closeCache()

	router := httpx.NewRouter(log, httpx.Deps{
		Cfg:      cfg,
		Users:    st.users,
		Posts:    st.posts,
		Tokens:   auth.NewManager(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL()),
		Cache:    feedCache,
		Prom:     prom,
		Gatherer: reg,
		Ping:     st.ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.Store)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

func openStores(cfg config.Config, prom *observability.Prom) (stores, error) {
	switch cfg.Store {
	case config.StoreMemory:
		m := memory.NewStore()
		return stores{users: m, posts: m.Posts(), ping: m.Ping, close: func() {}}, nil

	case config.StorePostgres:
		if err := db.Migrate(cfg.DBURL); err != nil {
			return stores{}, fmt.Errorf("migrate: %w", err)
		}
		pool, err := db.NewPool(cfg.DBURL)
		if err != nil {
			return stores{}, err
		}
		var users userStore = postgres.NewUsersRepo(pool, prom)
		return stores{
			users: users,
			posts: postgres.NewPostsRepo(pool, prom),
			ping:  users.Ping,
			close: pool.Close,
		}, nil

	case config.StoreMongo:
		client, database, err := db.NewMongo(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return stores{}, err
		}

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := mongodb.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return stores{}, fmt.Errorf("ensure indexes: %w", err)
		}
		var users userStore = mongodb.NewUsersRepo(database, prom)
		return stores{
			users: users,
			posts: mongodb.NewPostsRepo(database, prom),
			ping:  users.Ping,
			close: func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = client.Disconnect(ctx)
			},
		}, nil
	}

	return stores{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store)
}

// openCache returns a nil store when feed caching is disabled. Redis is used
// when configured and reachable, otherwise an in-process cache with a janitor.
func openCache(cfg config.Config, log *slog.Logger) (cache.Store, func()) {
	if cfg.FeedCacheTTL <= 0 {
		return nil, func() {}
	}

	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.FeedCacheTTL,
		})

		ctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		err := rc.Ping(ctx)
		if err == nil {
			log.Info("feed cache", "backend", "redis", "addr", cfg.RedisAddr)
			return rc, func() { _ = rc.Close() }
		}

		log.Warn("redis unavailable, using in-process feed cache", "err", err)
		_ = rc.Close()
	}

	mem := cache.New(cfg.FeedCacheTTL)
	stop := mem.StartJanitor(cfg.FeedCacheTTL)
	log.Info("feed cache", "backend", "memory", "ttl", cfg.FeedCacheTTL)
	return mem, stop
}
