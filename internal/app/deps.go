package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/SanjanaSK25/Career-Connect/internal/auth"
	"github.com/SanjanaSK25/Career-Connect/internal/config"
	"github.com/SanjanaSK25/Career-Connect/internal/db"
	"github.com/SanjanaSK25/Career-Connect/internal/handlers"
	"github.com/SanjanaSK25/Career-Connect/internal/middleware"
	"github.com/SanjanaSK25/Career-Connect/internal/repositories"
	"github.com/SanjanaSK25/Career-Connect/internal/resume"
	"github.com/SanjanaSK25/Career-Connect/internal/storage"
)

const rateLimiterTTL = 10 * time.Minute

// buildDependencies wires together the concrete implementations used by the
// HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, registry *prometheus.Registry) (handlers.Dependencies, error) {
	blobs, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	sessions := auth.NewManager(repositories.NewPostgresSessionStore(pool))

	return handlers.Dependencies{
		Users:       repositories.NewPostgresUserRepository(pool),
		Profiles:    repositories.NewPostgresProfileRepository(pool),
		Issuer:      sessions,
		Resolver:    sessions,
		Connections: repositories.NewPostgresConnectionRepository(pool),
		Posts:       repositories.NewPostgresPostRepository(pool),
		Blobs:       blobs,
		Resumes:     resume.New(blobs),
		AuthLimiter: middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.AuthRateBurst, rateLimiterTTL),
		Registry:    registry,
	}, nil
}
