package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/readlog/readlog-server/internal/api"
	"github.com/readlog/readlog-server/internal/config"
	"github.com/readlog/readlog-server/internal/logger"
	"github.com/readlog/readlog-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer h.api.Close()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:          do.MustInvoke[*service.AuthService](i),
		Book:          do.MustInvoke[*service.BookService](i),
		TBR:           do.MustInvoke[*service.TBRService](i),
		Review:        do.MustInvoke[*service.ReviewService](i),
		Profile:       do.MustInvoke[*service.ProfileService](i),
		Social:        do.MustInvoke[*service.SocialService](i),
		FollowedBooks: do.MustInvoke[*service.FollowedBooksSearches](i),
		Interchange:   do.MustInvoke[*service.InterchangeService](i),
		Search:        do.MustInvoke[*service.SearchService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, api.Options{
		AllowedOrigins:         cfg.Server.AllowedOrigins,
		MaxImportBytes:         cfg.Import.MaxUploadBytes,
		AuthRateLimitPerMinute: cfg.Auth.RateLimitPerMinute,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	srvLog := log.WithField("addr", srv.Addr)
	go func() {
		srvLog.Info("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvLog.WithError(err).Error("HTTP server error")
		}
	}()

	srvLog.Info("Server running")

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
