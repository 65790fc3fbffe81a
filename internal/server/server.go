// Package server assembles the admin API router and runs the HTTP server.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/auth"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/catalog"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/featureflags"
	mw "github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/http/middleware"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/logger"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/storage"
)

const uploadRoute = "/admin/products/{id}/images"

// Deps is everything the router needs. Ready may be nil when no external
// backend is configured.
type Deps struct {
	Dashboard  *catalog.Dashboard
	Uploader   storage.Uploader
	Tokens     *auth.Tokens
	UploadsFS  afero.Fs
	UploadsDir string
	Ready      func(ctx context.Context) error
}

// NewRouter wires health probes, flag inspection, uploaded files and the
// admin API behind the offline gate and request logger.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(offlineGate)
	r.Use(mw.LogRequests(mw.WithSkips("/health", "/ready")))
	r.Use(uploadsGate)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, req *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(req.Context()); err != nil {
				logger.Warnf("ready check failed: %v", err)
				http.Error(w, "backend not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/_flags", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(featureflags.Current())
	}).Methods(http.MethodGet)

	if d.UploadsFS != nil {
		files := http.FileServer(afero.NewHttpFs(d.UploadsFS).Dir(d.UploadsDir))
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", files)).Methods(http.MethodGet)
	}

	catalog.NewHandler(d.Dashboard, d.Uploader, d.Tokens).Register(r)
	return r
}

// offlineGate answers 503 to everything but health probes while the
// Offline flag is on.
func offlineGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/ready" || strings.HasPrefix(r.URL.Path, "/_flags") {
			next.ServeHTTP(w, r)
			return
		}
		if featureflags.Values().Offline.IsEnabled(nil) {
			http.Error(w, "service temporarily offline", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func uploadsGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil && tpl == uploadRoute &&
				!featureflags.Values().Uploads.IsEnabled(nil) {
				http.Error(w, "uploads are disabled", http.StatusServiceUnavailable)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Run serves h on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func Run(ctx context.Context, addr string, h http.Handler, readHeaderTimeout, shutdownTimeout time.Duration) error {
	s := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("admin api listening on %s", s.Addr)
		errCh <- s.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
