package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies bundles the stores and services the HTTP surface is built on.
type Dependencies struct {
	Users       UserStore
	Profiles    ProfileStore
	Issuer      SessionIssuer
	Resolver    SessionResolver
	Connections ConnectionStore
	Posts       PostStore
	Blobs       BlobStore
	Resumes     ResumeRenderer
	AuthLimiter RateLimiter
	Registry    *prometheus.Registry
	NowFunc     func() time.Time
}

// RegisterRoutes attaches every endpoint to the mux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	auth := AuthHandler{
		Users:    deps.Users,
		Sessions: deps.Issuer,
		Limiter:  deps.AuthLimiter,
		NowFunc:  deps.NowFunc,
	}
	users := UserHandler{
		Users:    deps.Users,
		Profiles: deps.Profiles,
		Sessions: deps.Resolver,
		Blobs:    deps.Blobs,
		Resumes:  deps.Resumes,
		NowFunc:  deps.NowFunc,
	}
	connections := ConnectionHandler{
		Users:       deps.Users,
		Sessions:    deps.Resolver,
		Connections: deps.Connections,
		NowFunc:     deps.NowFunc,
	}
	posts := PostHandler{
		Users:    deps.Users,
		Sessions: deps.Resolver,
		Posts:    deps.Posts,
		Blobs:    deps.Blobs,
		NowFunc:  deps.NowFunc,
	}

	mux.HandleFunc("/api/v1/auth/register", auth.Register)
	mux.HandleFunc("/api/v1/auth/login", auth.Login)

	mux.HandleFunc("/api/v1/users", users.ByUsername)
	mux.HandleFunc("/api/v1/users/me", users.Me)
	mux.HandleFunc("/api/v1/users/account", users.UpdateAccount)
	mux.HandleFunc("/api/v1/users/profile", users.UpdateProfile)
	mux.HandleFunc("/api/v1/users/picture", users.UploadPicture)
	mux.HandleFunc("/api/v1/users/list", users.List)
	mux.HandleFunc("/api/v1/users/resume", users.Resume)

	mux.HandleFunc("/api/v1/connections/request", connections.Request)
	mux.HandleFunc("/api/v1/connections/incoming", connections.Incoming)
	mux.HandleFunc("/api/v1/connections/outgoing", connections.Outgoing)
	mux.HandleFunc("/api/v1/connections/respond", connections.Respond)

	mux.HandleFunc("/api/v1/posts", posts.Handle)
	mux.HandleFunc("/api/v1/posts/like", posts.Like)
	mux.HandleFunc("/api/v1/posts/comments", posts.Comments)

	mux.HandleFunc("/healthz", HealthHandler{}.Handle)
	if deps.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
}
