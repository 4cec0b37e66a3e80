package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/veritas-legal/casefile-api/internal/config"
	"go.uber.org/zap"
)

func isLocalEnv(environment string) bool {
	return environment == "development" || environment == "local" || environment == ""
}

// allowAnyOrigin reflects whatever Origin header the browser sent.
func allowAnyOrigin(r *http.Request, origin string) bool {
	return origin != ""
}

// CORS builds the cross-origin middleware from configuration. A wildcard
// origin outside development is allowed but logged loudly; an empty origin
// list outside development denies all cross-origin requests rather than
// falling back to the library's "*" default.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	hasWildcard := false
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			hasWildcard = true
			break
		}
	}

	switch {
	case hasWildcard:
		if !isLocalEnv(environment) {
			logger.Warn("CORS wildcard origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAnyOrigin

	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS origins configured",
			zap.Strings("origins", cfg.AllowedOrigins))

	case isLocalEnv(environment):
		options.AllowOriginFunc = allowAnyOrigin
		logger.Info("CORS allowing all origins in development")

	default:
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS has no allowed origins, denying all cross-origin requests",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}
