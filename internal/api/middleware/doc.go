// Package middleware provides the gin middleware in front of the desktop's REST surface.
//
// CORS lets browser renderers on other origins drive the desktop. RateLimit is a
// per-IP token bucket (golang.org/x/time/rate) whose idle clients are swept after
// IdleTTL; GlobalRateLimit shares one bucket across all clients.
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
