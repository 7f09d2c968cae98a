package main

import (
	"net/http"
	"os"
	"xlinkfetcher/lib/serviceutil"
	"xlinkfetcher/lib/telemetry"
	"xlinkfetcher/services/mcptransport"

	"github.com/go-chi/httprate"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/unrolled/secure"
)

// InitMiddleware wraps the mux with, from the outside in: access logging,
// panic recovery, CORS, security headers and per-IP rate limiting.
func InitMiddleware(h http.Handler, cfg Config) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
		STSSeconds:         15552000,
		IsDevelopment:      cfg.Environment != telemetry.EnvironmentProduction,
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: cfg.CorsOrigins(),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{mcptransport.SessionIDHeader},
	})

	rateLimit := httprate.Limit(
		cfg.RateLimit.MaxRequests,
		cfg.RateLimit.Window.Std(),
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			serviceutil.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
				"success": false,
				"error":   "Too many requests from this IP, please try again later.",
			})
		}),
	)

	return serviceutil.Chain(
		h,
		func(next http.Handler) http.Handler {
			return handlers.CombinedLoggingHandler(os.Stdout, next)
		},
		serviceutil.Recover,
		corsMiddleware.Handler,
		secureMiddleware.Handler,
		rateLimit,
	)
}
