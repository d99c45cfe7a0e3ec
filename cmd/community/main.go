package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/community-platform/internal/community/feed"
	"github.com/example/community-platform/internal/community/handlers"
	"github.com/example/community-platform/internal/community/ranking"
	"github.com/example/community-platform/internal/community/store"
	"github.com/example/community-platform/internal/community/voting"
	"github.com/example/community-platform/internal/platform/analytics"
	"github.com/example/community-platform/internal/platform/auth"
	"github.com/example/community-platform/internal/platform/config"
	"github.com/example/community-platform/internal/platform/db"
	"github.com/example/community-platform/internal/platform/httpserver"
	"github.com/example/community-platform/internal/platform/logging"
	"github.com/example/community-platform/internal/platform/natsconn"
	"github.com/example/community-platform/internal/platform/run"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	st, closeStore := initStore(cfg, log)
	if closeStore != nil {
		defer closeStore()
	}

	// Analytics is best-effort: the service runs fine without NATS.
	publisher := initAnalytics(log)

	verifier := auth.JWTVerifier{Secret: []byte(cfg.JWTSecret)}
	paginator := feed.NewPaginator(st)
	engine := voting.NewEngine(st, publisher, log)
	ranks := ranking.NewCalculator(st, st)

	r := chi.NewRouter()
	httpserver.SetupRouter(r)

	r.Post("/v1/users", handlers.CreateUser(st, publisher))
	r.Get("/v1/users/{user_id}", handlers.GetUser(st))
	r.Get("/v1/users/{user_id}/vote-score", handlers.GetUserVoteScore(engine))

	r.Get("/v1/posts", handlers.ListPosts(paginator))
	r.Get("/v1/posts/{post_id}", handlers.GetPost(st, publisher))
	r.Get("/v1/posts/{post_id}/comments", handlers.ListComments(st))
	r.Get("/v1/posts/{post_id}/vote-stats", handlers.GetVoteStats(engine))
	r.Get("/v1/rankings", handlers.GetRankings(ranks))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Post("/v1/posts", handlers.CreatePost(st, publisher))
		r.Put("/v1/posts/{post_id}", handlers.UpdatePost(st))
		r.Delete("/v1/posts/{post_id}", handlers.DeletePost(st))
		r.Post("/v1/posts/{post_id}/like", handlers.LikePost(st, publisher))
		r.Delete("/v1/posts/{post_id}/like", handlers.UnlikePost(st))
		r.Post("/v1/posts/{post_id}/comments", handlers.CreateComment(st))
		r.Put("/v1/comments/{comment_id}", handlers.UpdateComment(st))
		r.Delete("/v1/comments/{comment_id}", handlers.DeleteComment(st))
		r.Post("/v1/posts/{post_id}/vote", handlers.VotePost(engine))
		r.Get("/v1/posts/{post_id}/vote", handlers.GetMyVote(engine))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/v1/posts/{post_id}/reveal", handlers.RevealAnswer(engine))
		})
	})

	srv := httpserver.New(httpserver.Options{
		Addr:        cfg.HTTP.Addr,
		ServiceName: cfg.ServiceName,
		Logger:      log,
		Router:      r,
	})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initStore selects the storage backend. Production requires a working
// Postgres connection; elsewhere the service degrades to the in-memory
// store so it stays runnable without infrastructure.
func initStore(cfg config.AppConfig, log *zap.Logger) (store.Store, func()) {
	if cfg.DatabaseURL == "" {
		if cfg.IsProduction() {
			log.Error("DATABASE_URL is required in production")
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("DATABASE_URL not set, using in-memory store (development only)")
		return store.NewMemory(), nil
	}

	ctx := context.Background()
	pool, err := db.Open(ctx)
	if err != nil {
		if cfg.IsProduction() {
			log.Error("postgres is required in production but unavailable", zap.Error(err))
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("postgres unavailable, falling back to in-memory store", zap.Error(err))
		return store.NewMemory(), nil
	}

	pg := store.NewPostgres(pool)
	if err := pg.Bootstrap(ctx); err != nil {
		pool.Close()
		log.Error("schema bootstrap failed", zap.Error(err))
		_ = log.Sync()
		run.Exit(1)
	}
	log.Info("store: postgres")
	return pg, pool.Close
}

// initAnalytics connects to NATS JetStream when available and returns a
// no-op publisher otherwise.
func initAnalytics(log *zap.Logger) *analytics.Publisher {
	nc, err := natsconn.Connect(natsconn.Options{})
	if err != nil {
		log.Warn("nats unavailable, analytics disabled", zap.Error(err))
		return analytics.New(nil, log)
	}
	js, err := nc.JetStream()
	if err != nil {
		log.Warn("jetstream unavailable, analytics disabled", zap.Error(err))
		return analytics.New(nil, log)
	}
	return analytics.New(js, log)
}
