package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/blogfront/internal/api"
	"github.com/debemdeboas/blogfront/internal/cache"
	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/debemdeboas/blogfront/internal/db"
	"github.com/debemdeboas/blogfront/internal/logger"
	"github.com/debemdeboas/blogfront/internal/pages"
	"github.com/debemdeboas/blogfront/internal/render"
	"github.com/debemdeboas/blogfront/internal/routes"
	"github.com/debemdeboas/blogfront/internal/session"
	"github.com/debemdeboas/blogfront/internal/util"
)

//go:embed static/*
var content embed.FS

const configPath = "config.yaml"

func main() {
	config.LoadDotEnv()

	if err := config.LoadConfig(configPath); err != nil {
		bl := logger.New("info")
		bl.Fatal().Err(err).Msg("Failed to load config")
	}
	cfg := config.AppConfig

	l := logger.New(cfg.Logging.Level)
	config.SetLogger(l.With().Str("component", "config").Logger())
	api.SetLogger(l.With().Str("component", "api").Logger())
	db.SetLogger(l.With().Str("component", "db").Logger())
	session.SetLogger(l.With().Str("component", "session").Logger())
	render.SetLogger(l.With().Str("component", "render").Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, closeSessions, err := session.New(ctx, cfg.Session)
	if err != nil {
		l.Fatal().Err(err).Str("store", cfg.Session.Store).Msg("Failed to create session store")
	}
	defer closeSessions()

	backend := api.New(cfg.Backend.URL, api.WithTimeout(cfg.Backend.Timeout))

	handler, err := newServer(backend, sessions, cfg.Content, l)
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to build server")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("Failed to shut down cleanly")
		}
	}()

	l.Info().
		Str("addr", srv.Addr).
		Str("backend", backend.BaseURL()).
		Str("session_store", cfg.Session.Store).
		Msg("Starting server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Fatal().Err(err).Msg("Server stopped")
	}
	l.Info().Msg("Server stopped")
}

// newServer wires the pages, the static files and every middleware.
func newServer(backend pages.Backend, sessions session.Repository, contentCfg config.ContentConfig, l zerolog.Logger) (http.Handler, error) {
	static, err := fs.Sub(content, config.StaticLocalDir)
	if err != nil {
		return nil, err
	}

	// Calculate the hash of static content
	err = fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		cache.SetStaticHash(config.StaticUrlPath+path, util.ContentHash(data))
		return nil
	})
	if err != nil {
		return nil, err
	}

	h, err := pages.New(backend, sessions, contentCfg, pages.Templates)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+routes.RobotsPath, serveRobots)
	mux.Handle("GET "+config.StaticUrlPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(static))))
	h.Register(mux)

	securedMux := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == routes.RobotsPath { // Ignore robots.txt
			mux.ServeHTTP(w, r)
		} else {
			secureHeaders(mux.ServeHTTP)(w, r)
		}
	})

	var handler http.Handler = cacheIt(securedMux)
	handler = session.Middleware(sessions)(handler)
	handler = logger.Middleware(l)(handler)
	return gzhttp.GzipHandler(handler), nil
}

func serveRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HCType, "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("User-agent: *\nDisallow:"))
}

func cacheIt(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")
		w.Header().Set(config.HVary, "Cookie")

		// Add etag header to response if it's a static file
		if hash, ok := cache.GetStaticHash(r.URL.Path); ok {
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
		}

		h(w, r)
	}
}

func secureHeaders(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")

		h(w, r)
	}
}
