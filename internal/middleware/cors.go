package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns a configured CORS middleware. With no configured origins it
// allows all, which suits an API fronted by a gateway; lock it down via
// cors.allowed_origins in deployments exposed directly.
func CORS(origins, methods, headers []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins: origins,
		AllowMethods: methods,
		AllowHeaders: headers,
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
	}
	if len(methods) == 0 {
		cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(headers) == 0 {
		cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-API-Key", "X-Request-ID"}
	}
	return cors.New(cfg)
}
