package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"diskmanager/internal/config"
	"diskmanager/internal/controllers"
	"diskmanager/internal/logging"
	"diskmanager/internal/middleware"
	"diskmanager/internal/services"

	"github.com/gin-gonic/gin"
)

// NewEngine builds the API router. A nil auth disables authentication.
func NewEngine(cfg config.HTTPConfig, h *controllers.Handlers, auth *services.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logging.NewLogger("http")))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.IPWhitelistMiddleware(middleware.NewIPWhitelist(cfg.AllowedIPs), h.Security))
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst), h.Security))

	protect := func(c *gin.Context) { c.Next() }
	if auth != nil {
		protect = middleware.RequireToken(auth, h.Security)
	}

	RegisterVolumeRoutes(r, h, protect)
	RegisterAccessRoutes(r, h, protect)
	return r
}

// Serve runs the HTTP server until ctx is done
func Serve(ctx context.Context, listen string, handler http.Handler) error {
	logger := logging.NewLogger("http")
	server := &http.Server{
		Addr:              listen,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.WithField("listen", listen).Info("api listening")
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
