package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/realmcore/achievement-server-go/internal/game/achievements"
	"go.uber.org/zap"
)

// ClaimLister lists completed realm-first achievements.
type ClaimLister interface {
	Claims() []achievements.RealmClaim
}

// NewRouter mounts the health check, the realm-first listing and the
// notification feed.
func NewRouter(hub *Hub, claims ClaimLister, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, logger, map[string]any{
			"status":      "ok",
			"subscribers": hub.Clients(),
		})
	})
	r.Get("/realm-firsts", func(w http.ResponseWriter, _ *http.Request) {
		list := claims.Claims()
		if list == nil {
			list = []achievements.RealmClaim{}
		}
		writeJSON(w, logger, list)
	})
	r.Get("/ws", hub.ServeWS)
	return r
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write response", zap.Error(err))
	}
}

// Serve listens on addr until ctx is done and then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("notification server listening", zap.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
