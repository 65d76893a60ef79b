package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS allows the configured frontend origins (comma separated, "*" for any).
func CORS(frontendURL string) func(http.Handler) http.Handler {
	var origins []string
	for _, o := range strings.Split(frontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	})
	return c.Handler
}
