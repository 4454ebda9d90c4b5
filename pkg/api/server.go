package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/skysquad/skysquad/pkg/api/handlers"
	"github.com/skysquad/skysquad/pkg/api/middleware"
	authproviders "github.com/skysquad/skysquad/pkg/auth/providers"
	"github.com/skysquad/skysquad/pkg/log"
	"github.com/skysquad/skysquad/pkg/progression"
	"github.com/skysquad/skysquad/pkg/repositories"
	"github.com/skysquad/skysquad/pkg/state"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port         int
	TLS          *TLSConfig
	AuthProvider *authproviders.JWTProvider
	Repository   repositories.Repository
	StateManager state.StateManager
	Progression  *progression.Service
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	authMiddleware := middleware.NewAuthMiddleware(opts.AuthProvider, opts.Repository)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/register", handlers.HandleRegister(opts.Repository, opts.AuthProvider)).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/login", handlers.HandleLogin(opts.Repository, opts.AuthProvider)).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/stats", handlers.HandleStats(opts.StateManager)).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/achievements", handlers.HandleListAchievements(opts.Progression)).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/challenges", handlers.HandleListChallenges(opts.Progression)).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.Handle("/progress", authMiddleware(handlers.HandleProgress(opts.Progression))).Methods(http.MethodGet, http.MethodOptions)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
